package extract

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/hazyhaar/eventpipe/event"
)

// FreeText resolves relative and absolute date-time expressions in natural
// language ("tomorrow", "next Friday at 3pm") against a reference time, and
// classifies each anchor with the shared keyword table. Zero anchors is a
// valid result; the caller then falls through to the AI-assisted path.
func FreeText(text string, ref time.Time) ([]event.Event, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	var events []event.Event
	rest := text
	offset := 0

	for {
		r, err := w.Parse(rest, ref)
		if err != nil || r == nil {
			break
		}

		anchor := r.Time
		clock := anchorClock(r.Text, anchor)
		tag, name := Classify(sentenceAround(text, offset+r.Index))

		events = append(events, event.Event{
			Name: name,
			Date: anchor.Format("2006-01-02"),
			Time: clock,
			Tag:  tag,
		})

		advance := r.Index + len(r.Text)
		if advance >= len(rest) {
			break
		}
		rest = rest[advance:]
		offset += advance
	}
	return events, nil
}

// anchorClock decides whether the matched expression names a clock time.
// Resolution fills unstated components from the reference time, so the
// resolved Time alone cannot distinguish "tomorrow" from "tomorrow at now".
func anchorClock(matched string, resolved time.Time) string {
	if t, ok := ParseTime(matched); ok {
		return t
	}
	lower := strings.ToLower(matched)
	switch {
	case strings.Contains(lower, "noon"):
		return "12:00"
	case strings.Contains(lower, "midnight"):
		return "00:00"
	case strings.Contains(lower, "morning"), strings.Contains(lower, "evening"),
		strings.Contains(lower, "afternoon"), strings.Contains(lower, "tonight"):
		return resolved.Format("15:04")
	}
	return ""
}

// sentenceAround returns the sentence containing byte position pos, so the
// classifier sees local keyword signal rather than the whole document.
func sentenceAround(text string, pos int) string {
	if pos < 0 || pos > len(text) {
		return text
	}
	start := 0
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.LastIndex(text[:pos], sep); i >= 0 && i+len(sep) > start {
			start = i + len(sep)
		}
	}
	end := len(text)
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.Index(text[pos:], sep); i >= 0 && pos+i < end {
			end = pos + i
		}
	}
	return text[start:end]
}
