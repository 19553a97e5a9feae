// Package dua holds a small embedded collection of daily supplications served
// by the /doa command.
package dua

import (
	"math/rand"
	"strings"
)

type Dua struct {
	Title       string
	Arabic      string
	Latin       string
	Translation string
	Category    string
}

// All returns the collection in a stable order.
func All() []Dua {
	out := make([]Dua, len(collection))
	copy(out, collection)
	return out
}

// ByTitle looks a supplication up by its exact title, case-insensitively.
func ByTitle(title string) (Dua, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	for _, d := range collection {
		if strings.ToLower(d.Title) == want {
			return d, true
		}
	}
	return Dua{}, false
}

// Search matches a keyword against title, latin transliteration and
// translation.
func Search(keyword string) []Dua {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil
	}
	var out []Dua
	for _, d := range collection {
		if strings.Contains(strings.ToLower(d.Title), kw) ||
			strings.Contains(strings.ToLower(d.Latin), kw) ||
			strings.Contains(strings.ToLower(d.Translation), kw) {
			out = append(out, d)
		}
	}
	return out
}

// ByCategory returns every supplication in the given category.
func ByCategory(category string) []Dua {
	want := strings.ToLower(strings.TrimSpace(category))
	var out []Dua
	for _, d := range collection {
		if strings.ToLower(d.Category) == want {
			out = append(out, d)
		}
	}
	return out
}

// Random returns an arbitrary supplication.
func Random() Dua {
	return collection[rand.Intn(len(collection))]
}

var collection = []Dua{
	{
		Title:       "Doa Sebelum Makan",
		Arabic:      "بِسْمِ اللهِ",
		Latin:       "Bismillah",
		Translation: "Dengan menyebut nama Allah",
		Category:    "daily",
	},
	{
		Title:       "Doa Setelah Makan",
		Arabic:      "اَلْحَمْدُ لِلّٰهِ الَّذِىْ اَطْعَمَنَا وَسَقَانَا وَجَعَلَنَا مِنَ الْمُسْلِمِيْنَ",
		Latin:       "Alhamdulillahil ladzii ath'amanaa wa saqoonaa wa ja'alnaa minal muslimiin",
		Translation: "Segala puji bagi Allah yang telah memberi makan kami dan minuman kami, serta menjadikan kami sebagai orang-orang islam.",
		Category:    "daily",
	},
	{
		Title:       "Doa Sebelum Tidur",
		Arabic:      "بِسْمِكَ اللّٰهُمَّ اَحْيَا وَاَمُوْتُ",
		Latin:       "Bismikallaahumma ahyaa wa amuutu",
		Translation: "Dengan nama-Mu ya Allah aku hidup dan aku mati",
		Category:    "daily",
	},
	{
		Title:       "Doa Bangun Tidur",
		Arabic:      "اَلْحَمْدُ لِلّٰهِ الَّذِىْ اَحْيَانَا بَعْدَ مَا اَمَاتَنَا وَاِلَيْهِ النُّشُوْرُ",
		Latin:       "Alhamdulillahil ladzii ahyaanaa ba'da maa amaa tanaa wa ilaihin nusyuur",
		Translation: "Segala puji bagi Allah yang telah menghidupkan kami setelah mematikan kami, dan kepada-Nya kami dikembalikan.",
		Category:    "daily",
	},
	{
		Title:       "Doa Masuk Masjid",
		Arabic:      "اَللّٰهُمَّ افْتَحْ لِيْ اَبْوَابَ رَحْمَتِكَ",
		Latin:       "Allaahummaf tahlii abwaaba rohmatik",
		Translation: "Ya Allah, bukalah untukku pintu-pintu rahmat-Mu",
		Category:    "worship",
	},
	{
		Title:       "Doa Keluar Masjid",
		Arabic:      "اَللّٰهُمَّ اِنِّى اَسْأَلُكَ مِنْ فَضْلِكَ",
		Latin:       "Allaahumma innii as-aluka min fadlik",
		Translation: "Ya Allah, sesungguhnya aku memohon keutamaan dari-Mu",
		Category:    "worship",
	},
	{
		Title:       "Doa Mohon Ilmu Yang Bermanfaat",
		Arabic:      "اَللّٰهُمَّ اِنِّى اَسْأَلُكَ عِلْمًا نَافِعًا وَرِزْقًا طَيِّبًا وَعَمَلاً مُتَقَبَّلاً",
		Latin:       "Allaahumma innii as-aluka 'ilman naafi'an, wa rizqon thoyyiban, wa 'amalan mutaqobbalan",
		Translation: "Ya Allah, sesungguhnya aku mohon kepada-Mu ilmu yang bermanfaat, rezeki yang baik, dan amalan yang diterima",
		Category:    "knowledge",
	},
}
