package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "sholatbot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// Store wraps a single sqlite database file.
type Store struct {
	db  *sql.DB
	log logx.Logger
}

func Open(cfg Config, log logx.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	s := &Store{db: db, log: log}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---- users / subscriptions ----

// UpsertUser records (or refreshes) the sender of an inbound message.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users(user_id, chat_id, first_name, last_name, username, created_at)
		 VALUES(?,?,?,?,?,?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   chat_id=excluded.chat_id,
		   first_name=excluded.first_name,
		   last_name=excluded.last_name,
		   username=excluded.username`,
		u.ID, u.ChatID, nullStr(u.FirstName), nullStr(u.LastName), nullStr(u.Username),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Subscribe creates or reactivates a subscription. For prayer subscriptions
// city/cityID carry the resolved location; for the digest they are empty.
// Returns true when a brand-new row was created.
func (s *Store) Subscribe(ctx context.Context, userID int64, kind Kind, city, cityID string) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrClosed
	}
	var existing int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND kind = ?`,
		userID, string(kind)).Scan(&existing); err != nil {
		return false, err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions(user_id, kind, city, city_id, active, created_at)
		 VALUES(?,?,?,?,1,?)
		 ON CONFLICT(user_id, kind) DO UPDATE SET
		   city=excluded.city,
		   city_id=excluded.city_id,
		   active=1`,
		userID, string(kind), nullStr(city), nullStr(cityID),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, err
	}
	return existing == 0, nil
}

// Unsubscribe deactivates a subscription. Missing rows are not an error.
func (s *Store) Unsubscribe(ctx context.Context, userID int64, kind Kind) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET active = 0 WHERE user_id = ? AND kind = ?`,
		userID, string(kind))
	return err
}

// ListSubscriptions returns all of a user's subscriptions, active or not.
func (s *Store) ListSubscriptions(ctx context.Context, userID int64) ([]Subscription, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, kind, COALESCE(city,''), COALESCE(city_id,''), active, created_at
		 FROM subscriptions WHERE user_id = ? ORDER BY kind`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		var sub Subscription
		var kind, createdAt string
		var active int
		if err := rows.Scan(&sub.UserID, &kind, &sub.City, &sub.CityID, &active, &createdAt); err != nil {
			return nil, err
		}
		sub.Kind = Kind(kind)
		sub.Active = active != 0
		sub.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, sub)
	}
	return out, rows.Err()
}

// ListActiveSubscribers is the engine read-side: every user with an active
// subscription of the given kind, joined with their chat id.
func (s *Store) ListActiveSubscribers(ctx context.Context, kind Kind) ([]Subscriber, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.user_id, u.chat_id, s.kind, COALESCE(s.city,''), COALESCE(s.city_id,'')
		 FROM subscriptions s
		 JOIN users u ON s.user_id = u.user_id
		 WHERE s.kind = ? AND s.active = 1`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		var sub Subscriber
		var k string
		if err := rows.Scan(&sub.UserID, &sub.ChatID, &k, &sub.City, &sub.CityID); err != nil {
			return nil, err
		}
		sub.Kind = Kind(k)
		out = append(out, sub)
	}
	return out, rows.Err()
}

// ---- notification ledger ----

// LedgerExists reports whether a ledger entry exists for the business key.
func (s *Store) LedgerExists(ctx context.Context, key LedgerKey) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrClosed
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM notification_ledger
		 WHERE user_id = ? AND kind = ? AND event = ? AND subtype = ? AND day = ?`,
		key.UserID, string(key.Kind), key.Event, string(key.Subtype), key.Day).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LedgerInsert appends a delivery fact. A second insert for the same business
// key fails with ErrDuplicate (the UNIQUE index fires) rather than silently
// duplicating.
func (s *Store) LedgerInsert(ctx context.Context, key LedgerKey, recordedAt time.Time) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_ledger(user_id, kind, event, subtype, day, recorded_at)
		 VALUES(?,?,?,?,?,?)`,
		key.UserID, string(key.Kind), key.Event, string(key.Subtype), key.Day,
		recordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: %+v", ErrDuplicate, key)
	}
	return err
}

// LedgerDeleteOlderThan removes entries whose day is strictly before cutoff
// ("2006-01-02"). ISO dates compare lexicographically, so the predicate stays
// date-strict under clock changes.
func (s *Store) LedgerDeleteOlderThan(ctx context.Context, cutoff string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notification_ledger WHERE day < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite surfaces SQLITE_CONSTRAINT_UNIQUE in the message;
	// matching on it avoids depending on the driver's error type.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
