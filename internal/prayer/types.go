package prayer

import (
	"fmt"
	"strconv"
	"strings"
)

// Event is one of the five daily prayers.
type Event string

const (
	Fajr    Event = "Fajr"
	Dhuhr   Event = "Dhuhr"
	Asr     Event = "Asr"
	Maghrib Event = "Maghrib"
	Isha    Event = "Isha"
)

// Events lists the five daily prayers in the canonical order notifications
// are processed in when several fall due at the same tick.
var Events = [5]Event{Fajr, Dhuhr, Asr, Maghrib, Isha}

// Schedule is one day's prayer times for one location. Produced fresh per
// (location, date), never mutated.
type Schedule struct {
	CityID string
	City   string
	Date   string // "2006-01-02"

	// Times maps each prayer event to its local time of day, "HH:MM".
	Times map[Event]string

	// Imsak and Sunrise are display-only; no notifications are derived
	// from them.
	Imsak   string
	Sunrise string
}

// ParseClock parses a local "HH:MM" time of day.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h, m, nil
}
