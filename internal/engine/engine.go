// Package engine schedules and delivers prayer reminders and the daily
// digest: it rebuilds each day's fire list from the prayer schedule and the
// notification ledger, dispatches due fires on a fixed tick, and prunes old
// ledger entries.
//
// Delivery is at-most-once. A ledger entry is written for every fire the
// dispatch loop processes, whether or not the send succeeded: a missed
// reminder is preferred over a duplicate one.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"sholatbot/internal/compose"
	"sholatbot/internal/prayer"
	"sholatbot/internal/storage"
	"sholatbot/internal/transport"
	"sholatbot/pkg/logx"
)

// Store is the persistence surface the engine reads and writes.
// *storage.Store satisfies it.
type Store interface {
	ListActiveSubscribers(ctx context.Context, kind storage.Kind) ([]storage.Subscriber, error)
	LedgerExists(ctx context.Context, key storage.LedgerKey) (bool, error)
	LedgerInsert(ctx context.Context, key storage.LedgerKey, recordedAt time.Time) error
	LedgerDeleteOlderThan(ctx context.Context, cutoff string) (int64, error)
}

// Sender is the outbound half of the transport adapter.
type Sender interface {
	SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error)
}

// Config is fixed at process start; none of it is runtime-mutable.
type Config struct {
	Location      *time.Location
	LeadMinutes   int
	DigestHour    int
	DigestMinute  int
	RetentionDays int
	Tick          time.Duration
	RatePerSec    int
	SendTimeout   time.Duration

	// Now is the clock; nil means time.Now. Tests substitute it.
	Now func() time.Time
}

// fire is one pending notification occurrence for the current day. The slice
// holding fires is replaced wholesale on rebuild, never mutated; delivered is
// the only field written after construction.
type fire struct {
	at     time.Time
	chatID int64
	key    storage.LedgerKey

	event prayer.Event // empty for digest
	city  string
	clock string // prayer time "HH:MM", display only

	sched *prayer.Schedule // digest only, may be nil

	delivered atomic.Bool
}

type Engine struct {
	cfg   Config
	store Store
	prov  prayer.Provider
	send  Sender
	log   logx.Logger
	lim   *rate.Limiter

	fires atomic.Value // []*fire
}

func New(cfg Config, store Store, prov prayer.Provider, send Sender, log logx.Logger) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Tick <= 0 {
		cfg.Tick = time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 25
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 7
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	e := &Engine{
		cfg:   cfg,
		store: store,
		prov:  prov,
		send:  send,
		log:   log.With(logx.String("comp", "engine")),
		lim:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}
	e.fires.Store([]*fire{})
	return e
}

// Run blocks until ctx is canceled. It rebuilds once at startup, then on a
// daily cron shortly after midnight, and dispatches due fires every tick.
func (e *Engine) Run(ctx context.Context) error {
	e.rebuild(ctx)
	e.sweep(ctx)

	c := cron.New(cron.WithLocation(e.cfg.Location))
	if _, err := c.AddFunc("5 0 * * *", func() { e.rebuild(ctx) }); err != nil {
		return fmt.Errorf("schedule rebuild: %w", err)
	}
	if _, err := c.AddFunc("30 0 * * *", func() { e.sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	c.Start()
	defer c.Stop()

	t := time.NewTicker(e.cfg.Tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			e.dispatch(ctx, e.cfg.Now().In(e.cfg.Location))
		}
	}
}

func (e *Engine) pending() []*fire {
	return e.fires.Load().([]*fire)
}

// PendingCount reports how many fires remain undelivered for today.
func (e *Engine) PendingCount() int {
	n := 0
	for _, f := range e.pending() {
		if !f.delivered.Load() {
			n++
		}
	}
	return n
}

// dispatch processes every fire whose time has arrived. Fires are already
// sorted by time, then event order, then lead before exact.
func (e *Engine) dispatch(ctx context.Context, now time.Time) {
	for _, f := range e.pending() {
		if f.delivered.Load() || f.at.After(now) {
			continue
		}
		e.deliver(ctx, f, now)
	}
}

func (e *Engine) deliver(ctx context.Context, f *fire, now time.Time) {
	if err := e.lim.Wait(ctx); err != nil {
		return
	}

	sctx, cancel := context.WithTimeout(ctx, e.cfg.SendTimeout)
	_, sendErr := e.send.SendText(sctx, transport.ChatTarget{ChatID: f.chatID}, e.render(f), markdown())
	cancel()
	if sendErr != nil {
		e.log.Warn("delivery failed",
			logx.Int64("user", f.key.UserID),
			logx.String("kind", string(f.key.Kind)),
			logx.String("event", f.key.Event),
			logx.String("subtype", string(f.key.Subtype)),
			logx.Err(sendErr))
	}

	// The occurrence is recorded whether or not the send went through.
	// The write is detached from the run context so a shutdown arriving
	// mid-delivery cannot leave a sent-but-unledgered occurrence.
	lctx, lcancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.SendTimeout)
	defer lcancel()
	switch err := e.store.LedgerInsert(lctx, f.key, now); {
	case err == nil:
	case errors.Is(err, storage.ErrDuplicate):
		e.log.Debug("occurrence already ledgered", logx.Any("key", f.key))
	default:
		e.log.Error("ledger write failed", logx.Any("key", f.key), logx.Err(err))
	}
	f.delivered.Store(true)

	e.log.Info("notification dispatched",
		logx.Int64("user", f.key.UserID),
		logx.String("kind", string(f.key.Kind)),
		logx.String("event", f.key.Event),
		logx.String("subtype", string(f.key.Subtype)),
		logx.Bool("sent", sendErr == nil))
}

func (e *Engine) render(f *fire) string {
	switch f.key.Subtype {
	case storage.SubtypeLead:
		return compose.LeadReminder(f.event, f.city, f.clock, e.cfg.LeadMinutes)
	case storage.SubtypeExact:
		return compose.ExactReminder(f.event, f.city, f.clock)
	default:
		return compose.DailyDigest(f.sched, f.at)
	}
}

// SendTest verifies the delivery channel without touching the ledger.
func (e *Engine) SendTest(ctx context.Context, chatID int64) error {
	sctx, cancel := context.WithTimeout(ctx, e.cfg.SendTimeout)
	defer cancel()
	_, err := e.send.SendText(sctx, transport.ChatTarget{ChatID: chatID},
		"✅ *Tes Notifikasi*\n\nBot dapat mengirim pesan ke chat ini.", markdown())
	return err
}

// sweep deletes ledger entries older than the retention horizon. With a
// horizon of N days, entries dated today−N go, today−N+1 stays.
func (e *Engine) sweep(ctx context.Context) {
	now := e.cfg.Now().In(e.cfg.Location)
	cutoff := now.AddDate(0, 0, -e.cfg.RetentionDays+1).Format(time.DateOnly)
	n, err := e.store.LedgerDeleteOlderThan(ctx, cutoff)
	if err != nil {
		e.log.Error("ledger sweep failed", logx.Err(err))
		return
	}
	if n > 0 {
		e.log.Info("ledger swept", logx.Int64("removed", n), logx.String("cutoff", cutoff))
	}
}

func markdown() *transport.SendOptions {
	return &transport.SendOptions{ParseMode: "Markdown", DisablePreview: true}
}
