// Package session normalizes raw cat-flap session records into a canonical,
// date-sorted event list used by all analyzers.
package session

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is one observed flap interaction window as reported by upstream
// extraction. Empty strings mean the field was absent ("nan" and "" are
// both treated as absent upstream).
type Record struct {
	Date     string  `json:"date"`     // ISO YYYY-MM-DD
	Exit     string  `json:"exit"`     // HH:MM, 24-hour
	Entry    string  `json:"entry"`    // HH:MM, 24-hour
	Duration float64 `json:"duration"` // minutes, 0 when unknown
}

// Event is the canonical in-core representation of a Record with a parsed
// date. Times stay as wall-clock strings; the subject lives in a single
// timezone and no conversion is ever performed.
type Event struct {
	Date  time.Time
	Exit  string
	Entry string
}

// HasExit reports whether an exit time was recorded.
func (e Event) HasExit() bool { return e.Exit != "" }

// HasEntry reports whether an entry time was recorded.
func (e Event) HasEntry() bool { return e.Entry != "" }

// ExitHour returns the exit hour (minutes truncated), false when the exit
// time is absent or unparseable.
func (e Event) ExitHour() (int, bool) { return HourOf(e.Exit) }

// EntryHour returns the entry hour (minutes truncated), false when the
// entry time is absent or unparseable.
func (e Event) EntryHour() (int, bool) { return HourOf(e.Entry) }

// HourOf extracts the hour from an HH:MM time string, truncating minutes.
// Accepts a single-digit hour. Returns false for absent or malformed input
// or an hour outside 0-23.
func HourOf(clock string) (int, bool) {
	if clock == "" {
		return 0, false
	}
	h, _, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

// Normalize parses dates, drops records without a resolvable date, and
// returns events stably sorted ascending by date. Unparseable time strings
// are cleared so that downstream "has a timestamp" checks mean "has a
// usable timestamp". An empty result is a normal outcome, not an error.
func Normalize(records []Record) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		events = append(events, Event{Date: date, Exit: cleanClock(r.Exit), Entry: cleanClock(r.Entry)})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// cleanClock keeps a time string only when its hour parses; anything else
// collapses to absent.
func cleanClock(clock string) string {
	if _, ok := HourOf(clock); !ok {
		return ""
	}
	return clock
}
