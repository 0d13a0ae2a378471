package extract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateTokenRe matches M/D, M/D/YY and M/D/YYYY shaped tokens.
var dateTokenRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)

// isoDateRe matches ISO YYYY-MM-DD tokens.
var isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

// timeTokenRe matches HH:MM, H:MMam/pm and Ham/pm tokens.
var timeTokenRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)

// ParseDate resolves a date-shaped string to ISO YYYY-MM-DD. Accepted shapes:
// ISO, M/D/YYYY, M/D/YY, and M/D (resolved against refYear). Returns false
// when the string holds no valid calendar date.
func ParseDate(s string, refYear int) (string, bool) {
	s = strings.TrimSpace(s)

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		if iso, ok := buildISO(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return iso, true
		}
	}

	if m := dateTokenRe.FindStringSubmatch(s); m != nil {
		year := refYear
		if m[3] != "" {
			year = atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if iso, ok := buildISO(year, atoi(m[1]), atoi(m[2])); ok {
			return iso, true
		}
	}

	// Long forms a spreadsheet cell may carry ("October 5, 2025", "5 Oct 2025").
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "2 January 2006", "2 Jan 2006", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// ParseTime resolves a time-shaped string to zero-padded 24-hour HH:MM.
// Ranges ("2-3pm", "14:00-15:30") collapse to the start time.
func ParseTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Collapse a range to its start.
	for _, sep := range []string{"-", "–", " to "} {
		if i := strings.Index(s, sep); i > 0 {
			// Keep a trailing meridiem for the start ("2-3pm" → "2pm").
			start := strings.TrimSpace(s[:i])
			rest := strings.ToLower(s[i:])
			if !strings.ContainsAny(strings.ToLower(start), "ap") {
				if strings.Contains(rest, "pm") {
					start += "pm"
				} else if strings.Contains(rest, "am") {
					start += "am"
				}
			}
			s = start
			break
		}
	}

	for _, m := range timeTokenRe.FindAllStringSubmatch(s, -1) {
		hour := atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute = atoi(m[2])
		}
		meridiem := strings.ToLower(m[3])

		// A bare number with no colon and no meridiem is not a time.
		if m[2] == "" && meridiem == "" {
			continue
		}
		switch meridiem {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			continue
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), true
	}
	return "", false
}

// serialEpoch is the spreadsheet serial-date epoch (1900 date system).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseSerial converts a numeric spreadsheet serial to an ISO date plus an
// embedded time-of-day when the serial carries a fractional day.
func ParseSerial(serial float64) (date, clock string, ok bool) {
	if serial < 1 || serial > 200_000 {
		return "", "", false
	}
	days := math.Floor(serial)
	mins := int(math.Round((serial - days) * 24 * 60))
	// A fraction rounding up to a full day belongs to the next date.
	if mins >= 24*60 {
		days++
		mins = 0
	}

	t := serialEpoch.AddDate(0, 0, int(days))
	date = t.Format("2006-01-02")

	if mins > 0 {
		clock = fmt.Sprintf("%02d:%02d", mins/60, mins%60)
	}
	return date, clock, true
}

// timeStripRe matches removable time expressions: an optional "at"/"@"
// connector followed by a clock token that carries a colon or a meridiem.
// Bare numbers never match, so "Homework 1" keeps its 1.
var timeStripRe = regexp.MustCompile(`(?i)(?:\bat\s+|@\s*)?\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b|(?:\bat\s+|@\s*)?\b\d{1,2}:\d{2}\b`)

// StripTimeToken removes time-shaped tokens from a line and tidies the
// leftover separators, the counterpart of StripDateToken for clock values.
func StripTimeToken(line string) string {
	line = timeStripRe.ReplaceAllString(line, " ")
	line = strings.Trim(line, " \t-–:|,;")
	return strings.Join(strings.Fields(line), " ")
}

// StripDateToken removes the first date-shaped token from a line and tidies
// the leftover separators, so the remainder can serve as the event name.
func StripDateToken(line string) string {
	line = isoDateRe.ReplaceAllString(line, " ")
	line = dateTokenRe.ReplaceAllString(line, " ")
	line = strings.Trim(line, " \t-–:|,;")
	return strings.Join(strings.Fields(line), " ")
}

func buildISO(year, month, day int) (string, bool) {
	if year < 1900 || year > 2200 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
