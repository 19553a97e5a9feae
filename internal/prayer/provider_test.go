package prayer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	logx "sholatbot/pkg/logx"
)

const jadwalJSON = `{
  "status": true,
  "data": {
    "id": 1301,
    "lokasi": "KOTA JAKARTA",
    "daerah": "DKI JAKARTA",
    "jadwal": {
      "tanggal": "Jumat, 28/08/2026",
      "date": "2026-08-28",
      "imsak": "04:28",
      "subuh": "04:38",
      "terbit": "05:52",
      "dzuhur": "11:55",
      "ashar": "15:13",
      "maghrib": "17:53",
      "isya": "19:02"
    }
  }
}`

func TestClientSchedule(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jadwal/1301/2026-08-28" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, jadwalJSON)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	s, err := c.Schedule(context.Background(), "1301", "2026-08-28")
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if s.City != "KOTA JAKARTA" {
		t.Fatalf("City = %q", s.City)
	}
	if s.Times[Dhuhr] != "11:55" || s.Times[Isha] != "19:02" {
		t.Fatalf("unexpected times: %+v", s.Times)
	}
	if s.Imsak != "04:28" || s.Sunrise != "05:52" {
		t.Fatalf("unexpected display times: imsak=%s terbit=%s", s.Imsak, s.Sunrise)
	}
}

func TestClientScheduleErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: 500, body: "boom"},
		{name: "status false", status: 200, body: `{"status": false}`},
		{name: "bad clock", status: 200, body: `{"status": true, "data": {"jadwal": {"subuh": "4am", "dzuhur": "11:55", "ashar": "15:13", "maghrib": "17:53", "isya": "19:02"}}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c, _ := NewClient(ClientConfig{BaseURL: srv.URL}, logx.Nop())
			if _, err := c.Schedule(context.Background(), "1301", "2026-08-28"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

type countingProvider struct {
	calls atomic.Int64
	fail  bool
}

func (p *countingProvider) Schedule(_ context.Context, locationID, date string) (*Schedule, error) {
	p.calls.Add(1)
	if p.fail {
		return nil, errors.New("provider down")
	}
	return &Schedule{CityID: locationID, Date: date, Times: map[Event]string{}}, nil
}

func TestDayCacheHitsAndRollover(t *testing.T) {
	t.Parallel()
	p := &countingProvider{}
	c := NewDayCache(p)
	ctx := context.Background()

	if _, err := c.Schedule(ctx, "1301", "2026-08-28"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := c.Schedule(ctx, "1301", "2026-08-28"); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if got := p.calls.Load(); got != 1 {
		t.Fatalf("inner calls = %d, want 1 (second hit cached)", got)
	}

	// New date invalidates yesterday's entries.
	if _, err := c.Schedule(ctx, "1301", "2026-08-29"); err != nil {
		t.Fatalf("next-day fetch: %v", err)
	}
	if got := p.calls.Load(); got != 2 {
		t.Fatalf("inner calls = %d, want 2 after date rollover", got)
	}
}

func TestDayCacheDoesNotCacheFailures(t *testing.T) {
	t.Parallel()
	p := &countingProvider{fail: true}
	c := NewDayCache(p)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Schedule(ctx, "1301", "2026-08-28"); err == nil {
			t.Fatal("expected error")
		}
	}
	if got := p.calls.Load(); got != 2 {
		t.Fatalf("inner calls = %d, want 2 (failures not cached)", got)
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()
	h, m, err := ParseClock("12:10")
	if err != nil || h != 12 || m != 10 {
		t.Fatalf("ParseClock = (%d, %d, %v)", h, m, err)
	}
	for _, bad := range []string{"", "25:00", "12:60", "noon", "12"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q): expected error", bad)
		}
	}
}
