package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the startup invariants. A process must not begin ticking
// with an invalid configuration, so App treats any error here as fatal.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}

	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}

	if strings.TrimSpace(c.PrayerAPI.BaseURL) == "" {
		return fmt.Errorf("prayer_api.base_url is required")
	}
	if _, err := ParseDurationField("prayer_api.timeout", c.PrayerAPI.Timeout); err != nil {
		return err
	}

	if strings.TrimSpace(c.QuranAPI.BaseURL) == "" {
		return fmt.Errorf("quran_api.base_url is required")
	}
	if _, err := ParseDurationField("quran_api.timeout", c.QuranAPI.Timeout); err != nil {
		return err
	}

	tz := strings.TrimSpace(c.Engine.Timezone)
	if tz == "" {
		return fmt.Errorf("engine.timezone is required")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("engine.timezone: invalid %q: %w", tz, err)
	}
	if c.Engine.LeadMinutes < 0 || c.Engine.LeadMinutes > 120 {
		return fmt.Errorf("engine.lead_minutes must be in [0,120], got %d", c.Engine.LeadMinutes)
	}
	if _, _, err := ParseHHMM("engine.digest_time", c.Engine.DigestTime); err != nil {
		return err
	}
	if c.Engine.RetentionDays < 1 {
		return fmt.Errorf("engine.retention_days must be >= 1, got %d", c.Engine.RetentionDays)
	}
	if _, err := ParseDurationField("engine.tick", c.Engine.Tick); err != nil {
		return err
	}
	if _, err := ParseDurationField("engine.send_timeout", c.Engine.SendTimeout); err != nil {
		return err
	}
	if c.Engine.RatePerSec < 0 {
		return fmt.Errorf("engine.rate_per_sec must be >= 0")
	}
	return nil
}
