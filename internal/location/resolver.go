package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	logx "sholatbot/pkg/logx"
)

// ErrNotFound means the free-text input could not be resolved to a location.
var ErrNotFound = errors.New("location not found")

// City is a resolved, stable location.
type City struct {
	ID   string
	Name string
}

// Resolver maps free-text city input to a stable location id.
type Resolver interface {
	Resolve(ctx context.Context, query string) (City, error)
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration // per-request; 0 means 10s
}

// Client resolves against a MyQuran-style city search endpoint:
//
//	GET {base}/kota/cari/{name}
//
// A local alias table is consulted first so common spellings never hit the
// network, and successful remote lookups are cached for the process lifetime.
type Client struct {
	base string
	http *http.Client
	log  logx.Logger

	mu    sync.Mutex
	cache map[string]City
}

func NewClient(cfg ClientConfig, log logx.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("location api base url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		log:   log,
		cache: map[string]City{},
	}, nil
}

type searchResponse struct {
	Status bool `json:"status"`
	Data   []struct {
		ID     json.Number `json:"id"`
		Lokasi string      `json:"lokasi"`
	} `json:"data"`
}

func (c *Client) Resolve(ctx context.Context, query string) (City, error) {
	q := normalize(query)
	if q == "" {
		return City{}, ErrNotFound
	}

	if city, ok := aliases[q]; ok {
		return city, nil
	}

	c.mu.Lock()
	if city, ok := c.cache[q]; ok {
		c.mu.Unlock()
		return city, nil
	}
	c.mu.Unlock()

	u := c.base + "/kota/cari/" + url.PathEscape(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return City{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return City{}, fmt.Errorf("location api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return City{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}
	if resp.StatusCode/100 != 2 {
		return City{}, fmt.Errorf("location api: http %d for %q", resp.StatusCode, query)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return City{}, fmt.Errorf("location api: decode: %w", err)
	}
	if !body.Status || len(body.Data) == 0 {
		return City{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	// Take the first match, like the upstream bot does.
	city := City{ID: body.Data[0].ID.String(), Name: body.Data[0].Lokasi}
	if city.ID == "" {
		return City{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	c.mu.Lock()
	c.cache[q] = city
	c.mu.Unlock()

	c.log.Debug("city resolved remotely",
		logx.String("query", query), logx.String("id", city.ID), logx.String("name", city.Name))
	return city, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
