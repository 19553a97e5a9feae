package prayer

import (
	"context"
	"sync"
)

// DayCache memoizes successful Schedule lookups for the current day.
//
// The provider contract is idempotent per (location, date), so a same-day hit
// can be served from memory. Failures are NOT cached; the engine's retry
// cadence (next rebuild) governs re-fetches. Entries from other dates are
// dropped lazily on first access with a new date.
type DayCache struct {
	inner Provider

	mu   sync.Mutex
	date string
	byID map[string]*Schedule
}

func NewDayCache(inner Provider) *DayCache {
	return &DayCache{inner: inner, byID: map[string]*Schedule{}}
}

func (c *DayCache) Schedule(ctx context.Context, locationID string, date string) (*Schedule, error) {
	c.mu.Lock()
	if c.date != date {
		c.date = date
		c.byID = map[string]*Schedule{}
	}
	if s, ok := c.byID[locationID]; ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	s, err := c.inner.Schedule(ctx, locationID, date)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.date == date {
		c.byID[locationID] = s
	}
	c.mu.Unlock()
	return s, nil
}
