package engine

import (
	"context"
	"sort"
	"time"

	"sholatbot/internal/prayer"
	"sholatbot/internal/storage"
	"sholatbot/pkg/logx"
)

// rebuild recomputes today's fire list for every active subscriber and swaps
// it in atomically. The dispatch loop keeps reading the previous list until
// the swap, so it never sees a half-built day.
func (e *Engine) rebuild(ctx context.Context) {
	now := e.cfg.Now().In(e.cfg.Location)
	fires, err := e.buildDay(ctx, now)
	if err != nil {
		// Subscriber listing failed; keep serving the previous list.
		e.log.Error("rebuild failed", logx.Err(err))
		return
	}
	e.fires.Store(fires)
	e.log.Info("fire list rebuilt",
		logx.String("day", now.Format(time.DateOnly)),
		logx.Int("fires", len(fires)))
}

// buildDay derives the pending fires for the calendar day containing now.
// Times already passed and occurrences already in the ledger are dropped, so
// a rebuild after a restart resumes exactly where the previous process left
// off.
func (e *Engine) buildDay(ctx context.Context, now time.Time) ([]*fire, error) {
	day := now.Format(time.DateOnly)
	var fires []*fire

	subs, err := e.store.ListActiveSubscribers(ctx, storage.KindPrayer)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		sched, err := e.prov.Schedule(ctx, sub.CityID, day)
		if err != nil {
			// No schedule means no fires for this subscriber today;
			// the next rebuild retries.
			e.log.Warn("no schedule for subscriber",
				logx.Int64("user", sub.UserID),
				logx.String("city_id", sub.CityID),
				logx.Err(err))
			continue
		}
		for _, ev := range prayer.Events {
			clock, ok := sched.Times[ev]
			if !ok {
				continue
			}
			h, m, err := prayer.ParseClock(clock)
			if err != nil {
				e.log.Warn("bad clock in schedule",
					logx.String("event", string(ev)), logx.String("clock", clock))
				continue
			}
			exactAt := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, e.cfg.Location)
			leadAt := exactAt.Add(-time.Duration(e.cfg.LeadMinutes) * time.Minute)

			for _, occ := range []struct {
				at      time.Time
				subtype storage.Subtype
			}{
				{leadAt, storage.SubtypeLead},
				{exactAt, storage.SubtypeExact},
			} {
				f, ok, err := e.makeFire(ctx, occ.at, now, storage.LedgerKey{
					UserID:  sub.UserID,
					Kind:    storage.KindPrayer,
					Event:   string(ev),
					Subtype: occ.subtype,
					Day:     day,
				})
				if err != nil {
					e.log.Warn("ledger lookup failed during rebuild",
						logx.Int64("user", sub.UserID), logx.Err(err))
					continue
				}
				if !ok {
					continue
				}
				f.chatID = sub.ChatID
				f.event = ev
				f.city = sched.City
				f.clock = clock
				fires = append(fires, f)
			}
		}
	}

	dsubs, err := e.store.ListActiveSubscribers(ctx, storage.KindDigest)
	if err != nil {
		return nil, err
	}
	digestAt := time.Date(now.Year(), now.Month(), now.Day(),
		e.cfg.DigestHour, e.cfg.DigestMinute, 0, 0, e.cfg.Location)
	for _, sub := range dsubs {
		f, ok, err := e.makeFire(ctx, digestAt, now, storage.LedgerKey{
			UserID:  sub.UserID,
			Kind:    storage.KindDigest,
			Subtype: storage.SubtypeDaily,
			Day:     day,
		})
		if err != nil {
			e.log.Warn("ledger lookup failed during rebuild",
				logx.Int64("user", sub.UserID), logx.Err(err))
			continue
		}
		if !ok {
			continue
		}
		f.chatID = sub.ChatID
		if sub.CityID != "" {
			// The digest carries the day's schedule when we have a city;
			// a provider failure degrades to a digest without it.
			if sched, err := e.prov.Schedule(ctx, sub.CityID, day); err == nil {
				f.sched = sched
			}
		}
		fires = append(fires, f)
	}

	sortFires(fires)
	return fires, nil
}

// makeFire applies the two discard rules: times strictly in the past never
// fire retroactively, and occurrences already in the ledger never fire again.
func (e *Engine) makeFire(ctx context.Context, at, now time.Time, key storage.LedgerKey) (*fire, bool, error) {
	if at.Before(now) {
		return nil, false, nil
	}
	exists, err := e.store.LedgerExists(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, nil
	}
	return &fire{at: at, key: key}, true, nil
}

var eventRank = map[prayer.Event]int{
	prayer.Fajr:    0,
	prayer.Dhuhr:   1,
	prayer.Asr:     2,
	prayer.Maghrib: 3,
	prayer.Isha:    4,
}

func subtypeRank(s storage.Subtype) int {
	if s == storage.SubtypeLead {
		return 0
	}
	return 1
}

// sortFires orders by fire time, then the canonical prayer order, then lead
// before exact. Digests sort after prayers at the same instant.
func sortFires(fires []*fire) {
	sort.SliceStable(fires, func(i, j int) bool {
		a, b := fires[i], fires[j]
		if !a.at.Equal(b.at) {
			return a.at.Before(b.at)
		}
		ra, oka := eventRank[a.event]
		rb, okb := eventRank[b.event]
		if !oka {
			ra = len(eventRank)
		}
		if !okb {
			rb = len(eventRank)
		}
		if ra != rb {
			return ra < rb
		}
		return subtypeRank(a.key.Subtype) < subtypeRank(b.key.Subtype)
	})
}
