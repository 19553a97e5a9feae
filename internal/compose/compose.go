// Package compose renders the user-facing Indonesian message texts. All
// output is Telegram Markdown.
package compose

import (
	"fmt"
	"strings"
	"time"

	"sholatbot/internal/content/dua"
	"sholatbot/internal/content/hijri"
	"sholatbot/internal/content/quote"
	"sholatbot/internal/content/quran"
	"sholatbot/internal/prayer"
)

// prayerNames maps the canonical event names to the Indonesian ones users
// see in every message.
var prayerNames = map[prayer.Event]string{
	prayer.Fajr:    "Subuh",
	prayer.Dhuhr:   "Dzuhur",
	prayer.Asr:     "Ashar",
	prayer.Maghrib: "Maghrib",
	prayer.Isha:    "Isya",
}

// PrayerName returns the Indonesian display name for an event.
func PrayerName(ev prayer.Event) string {
	if n, ok := prayerNames[ev]; ok {
		return n
	}
	return string(ev)
}

// LeadReminder is the advance reminder sent minutes before a prayer.
func LeadReminder(ev prayer.Event, city, clock string, leadMinutes int) string {
	var b strings.Builder
	b.WriteString("⏰ *Pengingat Waktu Sholat*\n\n")
	fmt.Fprintf(&b, "Waktu sholat *%s* di %s adalah pukul *%s*\n", PrayerName(ev), city, clock)
	fmt.Fprintf(&b, "Waktu tersisa: %d menit", leadMinutes)
	return b.String()
}

// ExactReminder is sent at the prayer time itself.
func ExactReminder(ev prayer.Event, city, clock string) string {
	var b strings.Builder
	b.WriteString("🕌 *Waktu Sholat Telah Tiba*\n\n")
	fmt.Fprintf(&b, "Sudah masuk waktu sholat *%s* di %s (pukul %s).\n", PrayerName(ev), city, clock)
	b.WriteString("Mari tunaikan sholat tepat waktu. 🤲")
	return b.String()
}

// DailyDigest is the once-a-day message carrying the date, the full schedule
// and the day's quote.
func DailyDigest(s *prayer.Schedule, day time.Time) string {
	q := quote.OfDay(day)

	var b strings.Builder
	b.WriteString("🌙 *Kata Motivasi Islami Hari Ini*\n\n")
	fmt.Fprintf(&b, "📅 %s\n", day.Format("Monday, 02 January 2006"))
	fmt.Fprintf(&b, "🗓 %s\n\n", hijri.FromTime(day).String())
	fmt.Fprintf(&b, "_%s_\n— %s", q.Text, q.Source)
	if s != nil {
		b.WriteString("\n\n")
		b.WriteString(ScheduleList(s))
	}
	return b.String()
}

// ScheduleList renders a full day's prayer schedule for one city.
func ScheduleList(s *prayer.Schedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕌 *Jadwal Sholat %s*\n", s.City)
	fmt.Fprintf(&b, "📅 %s\n\n", s.Date)
	if s.Imsak != "" {
		fmt.Fprintf(&b, "Imsak: %s\n", s.Imsak)
	}
	for _, ev := range prayer.Events {
		fmt.Fprintf(&b, "%s: *%s*\n", PrayerName(ev), s.Times[ev])
		if ev == prayer.Fajr && s.Sunrise != "" {
			fmt.Fprintf(&b, "Terbit: %s\n", s.Sunrise)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Quote renders a single quote for /motivasi.
func Quote(q quote.Quote) string {
	return fmt.Sprintf("🌙 *Motivasi Islami*\n\n_%s_\n— %s", q.Text, q.Source)
}

// Dua renders one supplication for /doa.
func Dua(d dua.Dua) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📿 *%s*\n\n", d.Title)
	fmt.Fprintf(&b, "%s\n\n", d.Arabic)
	fmt.Fprintf(&b, "_%s_\n\n", d.Latin)
	fmt.Fprintf(&b, "Artinya: %s", d.Translation)
	return b.String()
}

// DuaIndex lists the available supplication titles.
func DuaIndex(ds []dua.Dua) string {
	var b strings.Builder
	b.WriteString("📿 *Kumpulan Doa Harian*\n\n")
	for i, d := range ds {
		fmt.Fprintf(&b, "%d. %s\n", i+1, d.Title)
	}
	b.WriteString("\nKetik /doa <judul> untuk membaca doanya.")
	return b.String()
}

// Long surahs are truncated to their opening verses so the message stays
// within a few Telegram chunks.
const surahVersePreview = 10

// Surah renders a surah for /quran. Surahs longer than 20 verses show only
// the first ten.
func Surah(s *quran.Surah) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📖 *%s (%s) - %s*\n", s.LatinName, s.Name, s.Meaning)
	fmt.Fprintf(&b, "Surah ke-%d, terdiri dari %d ayat\n", s.Number, s.VerseCount)
	fmt.Fprintf(&b, "_%s • %d Ayat_\n\n", s.Revealed, s.VerseCount)

	verses := s.Verses
	truncated := len(verses) > 2*surahVersePreview
	if truncated {
		fmt.Fprintf(&b, "*Menampilkan %d ayat pertama:*\n\n", surahVersePreview)
		verses = verses[:surahVersePreview]
	}
	for _, v := range verses {
		fmt.Fprintf(&b, "%d. %s\n_%s_\n\n", v.Number, v.Arabic, v.Translation)
	}
	if truncated {
		fmt.Fprintf(&b, "...\n\n*Surah %s terdiri dari %d ayat.*", s.LatinName, s.VerseCount)
	}
	return strings.TrimRight(b.String(), "\n")
}

// VerseMatches renders /cariayat results; at most five are shown.
func VerseMatches(total int, matches []quran.Match) string {
	if total == 0 {
		return "Maaf, pencarian Anda tidak menghasilkan ayat yang sesuai."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Hasil pencarian: %d ayat ditemukan\n\n", total)
	shown := matches
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i, m := range shown {
		fmt.Fprintf(&b, "%d. *%s (%d:%d)*\n", i+1, m.SurahName, m.SurahNumber, m.Verse.Number)
		if m.Verse.Arabic != "" {
			fmt.Fprintf(&b, "%s\n", m.Verse.Arabic)
		}
		fmt.Fprintf(&b, "_%s_\n\n", m.Verse.Translation)
	}
	if total > len(shown) {
		fmt.Fprintf(&b, "... dan %d ayat lainnya.", total-len(shown))
	}
	return strings.TrimRight(b.String(), "\n")
}

// HijriToday renders today's Hijri date for /hijriah.
func HijriToday(day time.Time) string {
	h := hijri.FromTime(day)
	return fmt.Sprintf("🗓 *Kalender Hijriah*\n\n%s, %s\n(%s)",
		hijri.WeekdayName(day), h.String(), day.Format("02 January 2006"))
}
