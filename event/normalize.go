package event

import (
	"strings"
	"unicode"
)

// Ellipsis is appended when a name is truncated to the cap.
const Ellipsis = "..."

// Normalize canonicalizes each event's name, tag and time. Pure and total:
// the input slice is not modified, and normalizing twice yields the same
// result as normalizing once.
//
// Names collapse internal whitespace and are title-cased word by word, except
// words that are fully uppercase alphanumerics of length >= 2 (acronyms like
// "HW" or "EXAM"), which are preserved verbatim. Names longer than cap runes
// are hard-truncated so the result is exactly cap runes including the
// trailing ellipsis.
func Normalize(events []Event, cap int) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		e.Name = NormalizeName(e.Name, cap)
		e.Tag = normalizeTag(e.Tag)
		e.Time = strings.TrimSpace(e.Time)
		e.EndTime = strings.TrimSpace(e.EndTime)
		e.Location = strings.TrimSpace(e.Location)
		e.Description = strings.TrimSpace(e.Description)
		e.Label = strings.TrimSpace(e.Label)
		out = append(out, e)
	}
	return out
}

// NormalizeName collapses whitespace, title-cases, and truncates to cap runes.
func NormalizeName(name string, cap int) string {
	words := strings.Fields(name)
	for i, w := range words {
		if isAcronym(w) {
			continue
		}
		words[i] = titleWord(w)
	}
	name = strings.Join(words, " ")

	if cap > len(Ellipsis) {
		runes := []rune(name)
		if len(runes) > cap {
			name = string(runes[:cap-len(Ellipsis)]) + Ellipsis
		}
	}
	return name
}

// isAcronym reports whether a word is fully uppercase/alphanumeric of
// length >= 2, with at least one uppercase letter.
func isAcronym(w string) bool {
	runes := []rune(w)
	if len(runes) < 2 {
		return false
	}
	hasUpper := false
	for _, r := range runes {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// titleWord uppercases the first letter and lowercases the rest.
func titleWord(w string) string {
	runes := []rune(w)
	for i, r := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}

// normalizeTag trims and capitalizes a tag ("class" -> "Class").
// Whitespace-only tags normalize to unset.
func normalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	runes := []rune(tag)
	head := string(unicode.ToUpper(runes[0]))
	return head + strings.ToLower(string(runes[1:]))
}
