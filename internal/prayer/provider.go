package prayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	logx "sholatbot/pkg/logx"
)

// Provider supplies one day's prayer schedule for a location.
//
// Implementations must be idempotent for a given (locationID, date) pair.
// The engine treats any error as "no schedule today for this subscriber"
// and retries at the next rebuild, not immediately.
type Provider interface {
	Schedule(ctx context.Context, locationID string, date string) (*Schedule, error)
}

var ErrNoSchedule = errors.New("no prayer schedule for location/date")

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration // per-request; 0 means 10s
}

// Client fetches schedules from a MyQuran-style sholat API:
//
//	GET {base}/jadwal/{cityID}/{YYYY-MM-DD}
type Client struct {
	base string
	http *http.Client
	log  logx.Logger
}

func NewClient(cfg ClientConfig, log logx.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("prayer api base url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// jadwalResponse mirrors the API payload (field names follow the upstream
// Indonesian schema).
type jadwalResponse struct {
	Status bool `json:"status"`
	Data   struct {
		ID     json.Number `json:"id"`
		Lokasi string      `json:"lokasi"`
		Daerah string      `json:"daerah"`
		Jadwal struct {
			Tanggal string `json:"tanggal"`
			Date    string `json:"date"`
			Imsak   string `json:"imsak"`
			Subuh   string `json:"subuh"`
			Terbit  string `json:"terbit"`
			Dzuhur  string `json:"dzuhur"`
			Ashar   string `json:"ashar"`
			Maghrib string `json:"maghrib"`
			Isya    string `json:"isya"`
		} `json:"jadwal"`
	} `json:"data"`
}

func (c *Client) Schedule(ctx context.Context, locationID string, date string) (*Schedule, error) {
	if strings.TrimSpace(locationID) == "" {
		return nil, errors.New("location id is empty")
	}
	u := c.base + "/jadwal/" + url.PathEscape(locationID) + "/" + url.PathEscape(date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("schedule request failed",
			logx.String("location", locationID), logx.String("date", date), logx.Err(err))
		return nil, fmt.Errorf("prayer api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		c.log.Debug("schedule request rejected",
			logx.String("location", locationID), logx.String("date", date),
			logx.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("prayer api: http %d for %s/%s", resp.StatusCode, locationID, date)
	}

	var body jadwalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("prayer api: decode: %w", err)
	}
	if !body.Status || body.Data.Jadwal.Subuh == "" {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoSchedule, locationID, date)
	}

	j := body.Data.Jadwal
	sched := &Schedule{
		CityID:  locationID,
		City:    body.Data.Lokasi,
		Date:    date,
		Imsak:   j.Imsak,
		Sunrise: j.Terbit,
		Times: map[Event]string{
			Fajr:    j.Subuh,
			Dhuhr:   j.Dzuhur,
			Asr:     j.Ashar,
			Maghrib: j.Maghrib,
			Isha:    j.Isya,
		},
	}

	// Reject a payload with an unparseable clock up front so the engine
	// never schedules from garbage.
	for _, ev := range Events {
		if _, _, err := ParseClock(sched.Times[ev]); err != nil {
			return nil, fmt.Errorf("prayer api: %s: %w", ev, err)
		}
	}
	return sched, nil
}
