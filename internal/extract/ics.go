package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/hazyhaar/eventpipe/event"
)

// ICS extracts events from an iCalendar payload. Recurrence rules are
// validated and flagged on the event but never expanded here. VEVENTs that
// lack a parseable DTSTART are skipped.
func ICS(data []byte) ([]event.Event, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var events []event.Event
	for _, ve := range cal.Events() {
		e, ok := vevent(ve)
		if !ok {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func vevent(ve *ical.VEvent) (event.Event, bool) {
	prop := func(p ical.ComponentProperty) string {
		if v := ve.GetProperty(p); v != nil {
			return v.Value
		}
		return ""
	}

	start := ve.GetProperty(ical.ComponentPropertyDtStart)
	if start == nil || start.Value == "" {
		return event.Event{}, false
	}
	date, clock, allDay, ok := icalStamp(start.Value)
	if !ok {
		return event.Event{}, false
	}

	e := event.Event{
		Name:        prop(ical.ComponentPropertySummary),
		Date:        date,
		Time:        clock,
		Location:    prop(ical.ComponentPropertyLocation),
		Description: prop(ical.ComponentPropertyDescription),
		AllDay:      allDay,
	}
	if e.Name == "" {
		e.Name = "Event"
	}

	if end := prop(ical.ComponentPropertyDtEnd); end != "" {
		if d, c, _, ok := icalStamp(end); ok {
			e.EndDate, e.EndTime = d, c
		}
	}

	// Flag the recurrence rule when it validates; expansion is out of scope.
	if rule := prop(ical.ComponentPropertyRrule); rule != "" {
		if _, err := rrule.StrToRRule(rule); err == nil {
			e.IsRecurring = true
			e.RecurrenceRule = rule
		}
	}
	return e, true
}

// icalStamp parses an iCalendar date or date-time value. A bare 8-digit
// value is an all-day date.
func icalStamp(v string) (date, clock string, allDay, ok bool) {
	v = strings.TrimSpace(v)
	if len(v) == 8 {
		t, err := time.Parse("20060102", v)
		if err != nil {
			return "", "", false, false
		}
		return t.Format("2006-01-02"), "", true, true
	}
	for _, layout := range []string{"20060102T150405Z", "20060102T150405"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02"), t.Format("15:04"), false, true
		}
	}
	return "", "", false, false
}
