// Package event defines the canonical calendar event shape produced by the
// extraction pipeline, plus the normalization, deduplication and ordering
// stages that every extraction path funnels through.
package event

import (
	"strings"
	"time"
)

// Event is a single candidate calendar event. Extractors emit events in this
// shape; the pipeline normalizes, dedupes and orders them before returning.
//
// Empty string means "unset" for all optional string fields. Date is required
// and always a valid ISO YYYY-MM-DD; Time, when set, is zero-padded 24-hour
// HH:MM.
type Event struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
	Tag  string `json:"tag,omitempty"`

	Location       string `json:"location,omitempty"`
	Description    string `json:"description,omitempty"`
	AllDay         bool   `json:"allDay,omitempty"`
	IsRecurring    bool   `json:"isRecurring,omitempty"`
	RecurrenceRule string `json:"recurrenceRule,omitempty"`
	Label          string `json:"label,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	EndTime        string `json:"endTime,omitempty"`
}

// Key returns the composite identity used for deduplication:
// lowercased name, date, time (or empty), tag (or empty).
func (e Event) Key() string {
	return strings.ToLower(e.Name) + "\x00" + e.Date + "\x00" + e.Time + "\x00" + e.Tag
}

// ValidDate reports whether s is a real calendar date in ISO YYYY-MM-DD form.
func ValidDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidTime reports whether s is a zero-padded 24-hour HH:MM value.
func ValidTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
