package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	logx "sholatbot/pkg/logx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLedgerInsertEnforcesUniqueness(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	key := LedgerKey{UserID: 7, Kind: KindPrayer, Event: "Dhuhr", Subtype: SubtypeLead, Day: "2026-08-28"}

	if err := s.LedgerInsert(ctx, key, time.Now()); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := s.LedgerInsert(ctx, key, time.Now())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second insert: want ErrDuplicate, got %v", err)
	}

	// A different subtype is a distinct business key.
	key.Subtype = SubtypeExact
	if err := s.LedgerInsert(ctx, key, time.Now()); err != nil {
		t.Fatalf("exact insert: %v", err)
	}
}

func TestLedgerDigestKeyUsesEmptyEvent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	key := LedgerKey{UserID: 7, Kind: KindDigest, Subtype: SubtypeDaily, Day: "2026-08-28"}
	if err := s.LedgerInsert(ctx, key, time.Now()); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.LedgerInsert(ctx, key, time.Now()); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate for digest re-insert, got %v", err)
	}

	ok, err := s.LedgerExists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("LedgerExists = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestLedgerExistsMiss(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	ok, err := s.LedgerExists(context.Background(),
		LedgerKey{UserID: 1, Kind: KindPrayer, Event: "Fajr", Subtype: SubtypeLead, Day: "2026-08-28"})
	if err != nil {
		t.Fatalf("LedgerExists: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestLedgerRetentionBoundary(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	// Retention horizon 7 days, today = day N: entries dated N-7 are purged,
	// N-6 survive.
	today := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	atHorizon := today.AddDate(0, 0, -7).Format(time.DateOnly)
	insideHorizon := today.AddDate(0, 0, -6).Format(time.DateOnly)

	for i, day := range []string{atHorizon, insideHorizon} {
		key := LedgerKey{UserID: int64(i + 1), Kind: KindPrayer, Event: "Fajr", Subtype: SubtypeExact, Day: day}
		if err := s.LedgerInsert(ctx, key, today); err != nil {
			t.Fatalf("insert %s: %v", day, err)
		}
	}

	cutoff := today.AddDate(0, 0, -7+1).Format(time.DateOnly)
	n, err := s.LedgerDeleteOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("LedgerDeleteOlderThan: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted %d entries, want 1", n)
	}

	gone, _ := s.LedgerExists(ctx, LedgerKey{UserID: 1, Kind: KindPrayer, Event: "Fajr", Subtype: SubtypeExact, Day: atHorizon})
	kept, _ := s.LedgerExists(ctx, LedgerKey{UserID: 2, Kind: KindPrayer, Event: "Fajr", Subtype: SubtypeExact, Day: insideHorizon})
	if gone {
		t.Fatalf("entry dated %s should have been purged", atHorizon)
	}
	if !kept {
		t.Fatalf("entry dated %s should have been retained", insideHorizon)
	}
}

func TestSubscribeLifecycle(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	u := User{ID: 42, ChatID: 42, FirstName: "Budi", Username: "budi"}
	if err := s.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	created, err := s.Subscribe(ctx, u.ID, KindPrayer, "Bandung", "1219")
	if err != nil || !created {
		t.Fatalf("Subscribe = (%v, %v), want created", created, err)
	}

	// Re-subscribe with a new city updates in place.
	created, err = s.Subscribe(ctx, u.ID, KindPrayer, "Jakarta", "1301")
	if err != nil {
		t.Fatalf("re-Subscribe: %v", err)
	}
	if created {
		t.Fatal("re-subscribe must not report a new row")
	}

	subs, err := s.ListActiveSubscribers(ctx, KindPrayer)
	if err != nil {
		t.Fatalf("ListActiveSubscribers: %v", err)
	}
	if len(subs) != 1 || subs[0].CityID != "1301" || subs[0].ChatID != 42 {
		t.Fatalf("unexpected subscribers: %+v", subs)
	}

	if err := s.Unsubscribe(ctx, u.ID, KindPrayer); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	subs, err = s.ListActiveSubscribers(ctx, KindPrayer)
	if err != nil {
		t.Fatalf("ListActiveSubscribers after unsub: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected no active subscribers, got %+v", subs)
	}

	// Listing still shows the deactivated row.
	all, err := s.ListSubscriptions(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if len(all) != 1 || all[0].Active {
		t.Fatalf("unexpected subscriptions: %+v", all)
	}
}

func TestUpsertUserRefreshesChatID(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertUser(ctx, User{ID: 9, ChatID: 100}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if err := s.UpsertUser(ctx, User{ID: 9, ChatID: 200, FirstName: "Siti"}); err != nil {
		t.Fatalf("UpsertUser update: %v", err)
	}
	if _, err := s.Subscribe(ctx, 9, KindDigest, "", ""); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	subs, err := s.ListActiveSubscribers(ctx, KindDigest)
	if err != nil {
		t.Fatalf("ListActiveSubscribers: %v", err)
	}
	if len(subs) != 1 || subs[0].ChatID != 200 {
		t.Fatalf("chat id not refreshed: %+v", subs)
	}
}
