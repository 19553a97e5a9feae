package storage

import (
	"errors"
	"time"
)

var (
	ErrClosed    = errors.New("storage closed")
	ErrDuplicate = errors.New("ledger entry already exists")
)

// Config configures the sqlite store.
type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}

// Kind is a subscription / notification kind.
type Kind string

const (
	KindPrayer Kind = "prayer"
	KindDigest Kind = "digest"
)

// Subtype distinguishes occurrences of the same event within a day.
type Subtype string

const (
	// SubtypeLead is the reminder sent some minutes before the prayer time.
	SubtypeLead Subtype = "lead"
	// SubtypeExact is the notification sent at the prayer time itself.
	SubtypeExact Subtype = "exact"
	// SubtypeDaily is the single daily digest occurrence.
	SubtypeDaily Subtype = "daily"
)

// User mirrors the Telegram sender that contacted the bot.
type User struct {
	ID        int64
	ChatID    int64
	FirstName string
	LastName  string
	Username  string
}

// Subscription is one active (or deactivated) service binding for a user.
type Subscription struct {
	UserID    int64
	Kind      Kind
	City      string // display name, prayer only
	CityID    string // resolved location id, prayer only
	Active    bool
	CreatedAt time.Time
}

// Subscriber is the engine read-side view: a user joined with one active
// subscription.
type Subscriber struct {
	UserID int64
	ChatID int64
	Kind   Kind
	City   string
	CityID string
}

// LedgerKey is the business key of a delivered notification occurrence.
// At most one ledger row may ever exist per key.
type LedgerKey struct {
	UserID  int64
	Kind    Kind
	Event   string // prayer event name; empty for digest
	Subtype Subtype
	Day     string // local calendar date, "2006-01-02"
}
