package compose

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"sholatbot/internal/content/quran"
	"sholatbot/internal/prayer"
)

func jakartaSchedule() *prayer.Schedule {
	return &prayer.Schedule{
		CityID: "1301",
		City:   "KOTA JAKARTA",
		Date:   "2026-08-28",
		Times: map[prayer.Event]string{
			prayer.Fajr:    "04:39",
			prayer.Dhuhr:   "11:56",
			prayer.Asr:     "15:14",
			prayer.Maghrib: "17:56",
			prayer.Isha:    "19:05",
		},
		Imsak:   "04:29",
		Sunrise: "05:53",
	}
}

func TestLeadReminder(t *testing.T) {
	t.Parallel()

	got := LeadReminder(prayer.Dhuhr, "KOTA JAKARTA", "12:10", 10)
	for _, want := range []string{"Dzuhur", "KOTA JAKARTA", "12:10", "10 menit"} {
		if !strings.Contains(got, want) {
			t.Errorf("lead reminder missing %q:\n%s", want, got)
		}
	}
}

func TestExactReminderUsesIndonesianName(t *testing.T) {
	t.Parallel()

	got := ExactReminder(prayer.Fajr, "KOTA BANDUNG", "04:39")
	if !strings.Contains(got, "Subuh") || strings.Contains(got, "Fajr") {
		t.Fatalf("exact reminder should use the Indonesian name:\n%s", got)
	}
}

func TestScheduleListOrderAndExtras(t *testing.T) {
	t.Parallel()

	got := ScheduleList(jakartaSchedule())

	order := []string{"Imsak", "Subuh", "Terbit", "Dzuhur", "Ashar", "Maghrib", "Isya"}
	last := -1
	for _, name := range order {
		i := strings.Index(got, name)
		if i < 0 {
			t.Fatalf("schedule missing %q:\n%s", name, got)
		}
		if i < last {
			t.Fatalf("%q appears out of order:\n%s", name, got)
		}
		last = i
	}
}

func TestDailyDigestCarriesScheduleAndQuote(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 8, 28, 5, 0, 0, 0, time.UTC)
	got := DailyDigest(jakartaSchedule(), day)
	for _, want := range []string{"Motivasi", "Jadwal Sholat", "28 August 2026"} {
		if !strings.Contains(got, want) {
			t.Errorf("digest missing %q:\n%s", want, got)
		}
	}

	// Without a schedule the digest still renders.
	if DailyDigest(nil, day) == "" {
		t.Fatal("digest without schedule is empty")
	}
}

func TestSurahTruncatesLongSurahs(t *testing.T) {
	t.Parallel()

	long := &quran.Surah{
		Number: 2, Name: "البقرة", LatinName: "Al-Baqarah", Meaning: "Sapi Betina",
		Revealed: "Madinah", VerseCount: 286,
	}
	for i := 1; i <= 30; i++ {
		long.Verses = append(long.Verses, quran.Verse{
			Number: i, Arabic: "...", Translation: fmt.Sprintf("ayat %d", i),
		})
	}
	got := Surah(long)
	if !strings.Contains(got, "Menampilkan 10 ayat pertama") {
		t.Fatalf("long surah not truncated:\n%s", got)
	}
	if strings.Contains(got, "ayat 11") {
		t.Fatalf("verse past the preview rendered:\n%s", got)
	}
	if !strings.Contains(got, "terdiri dari 286 ayat") {
		t.Fatalf("truncation footer missing:\n%s", got)
	}

	short := &quran.Surah{
		Number: 1, Name: "الفاتحة", LatinName: "Al-Fatihah", Meaning: "Pembukaan",
		Revealed: "Mekah", VerseCount: 1,
		Verses: []quran.Verse{{Number: 1, Arabic: "...", Translation: "pembukaan"}},
	}
	if strings.Contains(Surah(short), "Menampilkan") {
		t.Fatal("short surah should render in full")
	}
}

func TestVerseMatches(t *testing.T) {
	t.Parallel()

	if got := VerseMatches(0, nil); !strings.Contains(got, "tidak menghasilkan") {
		t.Fatalf("empty result text = %q", got)
	}

	var ms []quran.Match
	for i := 1; i <= 8; i++ {
		ms = append(ms, quran.Match{
			SurahNumber: 2, SurahName: "Al-Baqarah",
			Verse: quran.Verse{Number: i, Translation: fmt.Sprintf("terjemahan %d", i)},
		})
	}
	got := VerseMatches(12, ms)
	if !strings.Contains(got, "12 ayat ditemukan") {
		t.Fatalf("count missing:\n%s", got)
	}
	if strings.Contains(got, "terjemahan 6") {
		t.Fatalf("more than five matches rendered:\n%s", got)
	}
	if !strings.Contains(got, "dan 7 ayat lainnya") {
		t.Fatalf("overflow line missing:\n%s", got)
	}
}

func TestPrayerNameFallback(t *testing.T) {
	t.Parallel()

	if PrayerName(prayer.Event("Tahajud")) != "Tahajud" {
		t.Fatal("unknown event should fall through to its raw name")
	}
}
