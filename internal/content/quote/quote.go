// Package quote holds the motivational quote bank used by the daily digest
// and the /motivasi command.
package quote

import (
	"hash/fnv"
	"math/rand"
	"time"
)

type Quote struct {
	Text   string
	Source string
}

// OfDay picks the day's quote deterministically from the local date, so every
// digest subscriber receives the same quote and a re-send attempt within the
// same day picks the same one.
func OfDay(day time.Time) Quote {
	h := fnv.New64a()
	_, _ = h.Write([]byte(day.Format(time.DateOnly)))
	return bank[h.Sum64()%uint64(len(bank))]
}

// Random returns an arbitrary quote for on-demand requests.
func Random() Quote {
	return bank[rand.Intn(len(bank))]
}

var bank = []Quote{
	{
		Text:   "Sesungguhnya sholatku, ibadahku, hidupku dan matiku hanyalah untuk Allah, Tuhan semesta alam.",
		Source: "Al-Quran, Al-An'am: 162",
	},
	{
		Text:   "Barangsiapa bertakwa kepada Allah niscaya Dia akan mengadakan baginya jalan keluar. Dan memberinya rezeki dari arah yang tiada disangka-sangka.",
		Source: "Al-Quran, At-Talaq: 2-3",
	},
	{
		Text:   "Allah tidak membebani seseorang melainkan sesuai dengan kesanggupannya.",
		Source: "Al-Quran, Al-Baqarah: 286",
	},
	{
		Text:   "Sesungguhnya bersama kesulitan ada kemudahan.",
		Source: "Al-Quran, Al-Insyirah: 6",
	},
	{
		Text:   "Karena sesungguhnya sesudah kesulitan itu ada kemudahan.",
		Source: "Al-Quran, Al-Insyirah: 5",
	},
	{
		Text:   "Dan janganlah kamu berputus asa dari rahmat Allah. Sesungguhnya tiada berputus asa dari rahmat Allah, melainkan kaum yang kafir.",
		Source: "Al-Quran, Yusuf: 87",
	},
	{
		Text:   "Barangsiapa merintis jalan mencari ilmu maka Allah akan memudahkan baginya jalan ke surga.",
		Source: "HR. Muslim",
	},
	{
		Text:   "Sebaik-baik manusia adalah yang paling bermanfaat bagi manusia lain.",
		Source: "HR. Ahmad",
	},
	{
		Text:   "Kebersihan itu sebagian dari iman.",
		Source: "HR. Muslim",
	},
	{
		Text:   "Senyummu di hadapan saudaramu adalah sedekah.",
		Source: "HR. Tirmidzi",
	},
	{
		Text:   "Amalan yang paling dicintai Allah adalah yang paling kontinu walaupun sedikit.",
		Source: "HR. Bukhari & Muslim",
	},
	{
		Text:   "Dan mohonlah pertolongan (kepada Allah) dengan sabar dan sholat.",
		Source: "Al-Quran, Al-Baqarah: 45",
	},
}
