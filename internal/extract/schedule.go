package extract

import (
	"strings"
	"time"

	"github.com/hazyhaar/eventpipe/event"
)

// scheduleSkip lists pure-header lines that repeat through schedule text
// (table captions, column labels) and must never become events. Compared
// after lowercasing and trimming.
var scheduleSkip = map[string]struct{}{
	"date":            {},
	"due date":        {},
	"assignment":      {},
	"assignments":     {},
	"schedule":        {},
	"week":            {},
	"readings":        {},
	"topic":           {},
	"topics":          {},
	"course schedule": {},
}

// Schedule extracts one event per line from heading-plus-body schedule text.
// A line qualifies when it starts with an MM/DD token or contains any
// MM/DD[/YYYY]-shaped token; the rest of the line becomes the event name.
func Schedule(text string, ref time.Time) ([]event.Event, error) {
	var events []event.Event

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, skip := scheduleSkip[strings.ToLower(line)]; skip {
			continue
		}

		tok := dateTokenRe.FindString(line)
		if tok == "" {
			tok = isoDateRe.FindString(line)
		}
		if tok == "" {
			continue
		}
		date, ok := ParseDate(tok, ref.Year())
		if !ok {
			continue
		}

		name := StripDateToken(line)
		clock := ""
		if t, ok := ParseTime(name); ok {
			clock = t
			name = StripTimeToken(name)
		}
		tag := ""
		if name == "" {
			tag, name = Classify(line)
		}

		events = append(events, event.Event{
			Name: name,
			Date: date,
			Time: clock,
			Tag:  tag,
		})
	}
	return events, nil
}

// WithoutDatedLines returns the lines of text carrying no date-shaped token.
// The free-text pass runs on these only, so lines already claimed by Schedule
// are never extracted a second time under a misread anchor.
func WithoutDatedLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if dateTokenRe.MatchString(line) || isoDateRe.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
