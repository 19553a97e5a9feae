package config

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Storage   StorageConfig   `json:"storage"`
	PrayerAPI PrayerAPIConfig `json:"prayer_api"`
	QuranAPI  QuranAPIConfig  `json:"quran_api"`
	Engine    EngineConfig    `json:"engine"`
}

type TelegramConfig struct {
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the sqlite database holding subscribers and the
// notification ledger.
type StorageConfig struct {
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string
}

// PrayerAPIConfig points at the prayer-schedule HTTP API (MyQuran v2 style).
type PrayerAPIConfig struct {
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout,omitempty"` // Go duration string, per request
}

// QuranAPIConfig points at the scripture API (equran v2 style).
type QuranAPIConfig struct {
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout,omitempty"` // Go duration string, per request
}

// EngineConfig holds the notification engine constants.
//
// These are start-only: scheduling constants are supplied at process start
// and a hot reload does not change a running engine.
type EngineConfig struct {
	// Timezone is the IANA zone all scheduling decisions are made in,
	// e.g. "Asia/Jakarta".
	Timezone string `json:"timezone"`

	// LeadMinutes is how many minutes before each prayer time the
	// reminder ("lead") notification fires.
	LeadMinutes int `json:"lead_minutes"`

	// DigestTime is the local HH:MM at which the daily motivational
	// digest is sent to digest subscribers.
	DigestTime string `json:"digest_time"`

	// RetentionDays is how long ledger entries are kept before the
	// sweeper deletes them.
	RetentionDays int `json:"retention_days"`

	// Tick is the dispatch loop period. Go duration string; default "1s".
	Tick string `json:"tick,omitempty"`

	// RatePerSec caps outbound Telegram sends.
	RatePerSec int `json:"rate_per_sec,omitempty"`

	// SendTimeout bounds a single delivery call. Go duration string.
	SendTimeout string `json:"send_timeout,omitempty"`
}
