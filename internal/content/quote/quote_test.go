package quote

import (
	"testing"
	"time"
)

func TestOfDayDeterministic(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	a := OfDay(day)
	b := OfDay(day.Add(6 * time.Hour)) // same calendar day, later clock
	if a != b {
		t.Fatalf("same day yielded different quotes: %q vs %q", a.Text, b.Text)
	}
}

func TestOfDayVariesAcrossDays(t *testing.T) {
	t.Parallel()

	// With a dozen entries a 30-day window hashing to one quote would mean
	// the seed is ignored.
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 30; i++ {
		seen[OfDay(start.AddDate(0, 0, i)).Text] = true
	}
	if len(seen) < 2 {
		t.Fatalf("30 consecutive days produced %d distinct quote(s)", len(seen))
	}
}

func TestBankEntriesComplete(t *testing.T) {
	t.Parallel()

	for i, q := range bank {
		if q.Text == "" || q.Source == "" {
			t.Errorf("bank[%d] has empty field: %+v", i, q)
		}
	}
}
