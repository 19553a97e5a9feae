// Package quran looks up surahs and verses from an equran-style API:
//
//	GET {base}/surat         — surah index
//	GET {base}/surat/{nomor} — one surah with its verses
//
// Surahs are immutable, so fetched data is cached for the process lifetime.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	logx "sholatbot/pkg/logx"
)

// Service is the scripture lookup surface the command handlers consume.
type Service interface {
	// Surah fetches one surah (1..114) with all its verses.
	Surah(ctx context.Context, number int) (*Surah, error)

	// Lookup resolves a free-text query: a bare number, or a (partial)
	// surah name such as "yasin" or "al-fatihah".
	Lookup(ctx context.Context, query string) (*Surah, error)

	// Search finds verses whose Indonesian translation contains the
	// keyword. It returns the matches (capped) and the total match count.
	Search(ctx context.Context, keyword string) ([]Match, int, error)
}

var ErrNotFound = errors.New("surah not found")

type Verse struct {
	Number      int
	Arabic      string
	Latin       string
	Translation string
}

type Surah struct {
	Number     int
	Name       string // Arabic
	LatinName  string
	Meaning    string
	Revealed   string // Mekah / Madinah
	VerseCount int
	Verses     []Verse
}

// Match is one verse hit from Search.
type Match struct {
	SurahNumber int
	SurahName   string
	Verse       Verse
}

const (
	// Search walks surahs in order; scanning the whole Quran per query
	// would mean 114 upstream fetches, so only the first searchSurahs
	// are considered (cached fetches after the first query).
	searchSurahs  = 30
	searchResults = 15
)

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration // per-request; 0 means 10s
}

type Client struct {
	base string
	http *http.Client
	log  logx.Logger

	mu     sync.Mutex
	index  []indexEntry
	surahs map[int]*Surah
}

type indexEntry struct {
	Number    int
	Name      string
	LatinName string
	Meaning   string
}

func NewClient(cfg ClientConfig, log logx.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("quran api base url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		log:    log,
		surahs: make(map[int]*Surah),
	}, nil
}

// suratResponse mirrors the API payload (field names follow the upstream
// Indonesian schema).
type suratResponse struct {
	Code int `json:"code"`
	Data struct {
		Nomor       int    `json:"nomor"`
		Nama        string `json:"nama"`
		NamaLatin   string `json:"namaLatin"`
		JumlahAyat  int    `json:"jumlahAyat"`
		TempatTurun string `json:"tempatTurun"`
		Arti        string `json:"arti"`
		Ayat        []struct {
			NomorAyat     int    `json:"nomorAyat"`
			TeksArab      string `json:"teksArab"`
			TeksLatin     string `json:"teksLatin"`
			TeksIndonesia string `json:"teksIndonesia"`
		} `json:"ayat"`
	} `json:"data"`
}

type indexResponse struct {
	Code int `json:"code"`
	Data []struct {
		Nomor     int    `json:"nomor"`
		Nama      string `json:"nama"`
		NamaLatin string `json:"namaLatin"`
		Arti      string `json:"arti"`
	} `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("quran api request failed", logx.String("path", path), logx.Err(err))
		return fmt.Errorf("quran api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("quran api: http %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("quran api: decode: %w", err)
	}
	return nil
}

func (c *Client) Surah(ctx context.Context, number int) (*Surah, error) {
	if number < 1 || number > 114 {
		return nil, fmt.Errorf("%w: nomor %d", ErrNotFound, number)
	}

	c.mu.Lock()
	if s, ok := c.surahs[number]; ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	var body suratResponse
	if err := c.get(ctx, "/surat/"+strconv.Itoa(number), &body); err != nil {
		return nil, err
	}
	if body.Code != 200 || body.Data.Nomor == 0 {
		return nil, fmt.Errorf("%w: nomor %d", ErrNotFound, number)
	}

	s := &Surah{
		Number:     body.Data.Nomor,
		Name:       body.Data.Nama,
		LatinName:  body.Data.NamaLatin,
		Meaning:    body.Data.Arti,
		Revealed:   body.Data.TempatTurun,
		VerseCount: body.Data.JumlahAyat,
	}
	for _, a := range body.Data.Ayat {
		s.Verses = append(s.Verses, Verse{
			Number:      a.NomorAyat,
			Arabic:      a.TeksArab,
			Latin:       a.TeksLatin,
			Translation: a.TeksIndonesia,
		})
	}

	c.mu.Lock()
	c.surahs[number] = s
	c.mu.Unlock()
	return s, nil
}

func (c *Client) loadIndex(ctx context.Context) ([]indexEntry, error) {
	c.mu.Lock()
	if c.index != nil {
		idx := c.index
		c.mu.Unlock()
		return idx, nil
	}
	c.mu.Unlock()

	var body indexResponse
	if err := c.get(ctx, "/surat", &body); err != nil {
		return nil, err
	}
	if body.Code != 200 || len(body.Data) == 0 {
		return nil, errors.New("quran api: empty surah index")
	}
	idx := make([]indexEntry, 0, len(body.Data))
	for _, d := range body.Data {
		idx = append(idx, indexEntry{
			Number:    d.Nomor,
			Name:      d.Nama,
			LatinName: d.NamaLatin,
			Meaning:   d.Arti,
		})
	}

	c.mu.Lock()
	c.index = idx
	c.mu.Unlock()
	return idx, nil
}

func (c *Client) Lookup(ctx context.Context, query string) (*Surah, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, ErrNotFound
	}
	if n, err := strconv.Atoi(q); err == nil {
		return c.Surah(ctx, n)
	}

	idx, err := c.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range idx {
		if strings.Contains(strings.ToLower(e.LatinName), q) ||
			strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Meaning), q) {
			return c.Surah(ctx, e.Number)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, query)
}

func (c *Client) Search(ctx context.Context, keyword string) ([]Match, int, error) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return nil, 0, nil
	}

	idx, err := c.loadIndex(ctx)
	if err != nil {
		return nil, 0, err
	}
	if len(idx) > searchSurahs {
		idx = idx[:searchSurahs]
	}

	var matches []Match
	total := 0
	for _, e := range idx {
		s, err := c.Surah(ctx, e.Number)
		if err != nil {
			// One missing surah should not abort the whole search.
			c.log.Debug("search skipping surah",
				logx.Int("nomor", e.Number), logx.Err(err))
			continue
		}
		for _, v := range s.Verses {
			if !strings.Contains(strings.ToLower(v.Translation), kw) {
				continue
			}
			total++
			if len(matches) < searchResults {
				matches = append(matches, Match{
					SurahNumber: s.Number,
					SurahName:   s.LatinName,
					Verse:       v,
				})
			}
		}
	}
	return matches, total, nil
}
