package extract

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hazyhaar/eventpipe/event"
)

// Delimited extracts events from comma- or tab-separated text. The first
// non-empty record is the header; columns are matched against the shared
// alias table. Rows whose date cell cannot be resolved are dropped.
func Delimited(text string, ref time.Time) ([]event.Event, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = detectDelimiter(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read delimited text: %w", err)
	}

	var header []string
	var cols columns
	var events []event.Event

	for _, rec := range records {
		if emptyRecord(rec) {
			continue
		}
		if header == nil {
			header = rec
			var ok bool
			if cols, ok = matchHeader(rec); !ok {
				// No recognizable date+name columns: nothing to extract.
				return nil, nil
			}
			continue
		}
		if e, ok := rowEvent(rec, cols, ref.Year()); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// rowEvent binds one data row to an event via the matched columns.
func rowEvent(rec []string, cols columns, refYear int) (event.Event, bool) {
	cell := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	name := cell(cols.name)
	if name == "" {
		return event.Event{}, false
	}

	rawDate := cell(cols.date)
	date, clock, ok := cellDate(rawDate, refYear)
	if !ok {
		// Candidates without a resolvable date are dropped, never emitted
		// with a null date.
		return event.Event{}, false
	}

	if t, ok := ParseTime(cell(cols.time)); ok {
		clock = t
	}

	return event.Event{
		Name: name,
		Date: date,
		Time: clock,
		Tag:  cell(cols.tag),
	}, true
}

// cellDate resolves a cell that may hold a string date or a numeric
// spreadsheet serial. A fractional serial contributes a fallback time.
func cellDate(s string, refYear int) (date, clock string, ok bool) {
	if s == "" {
		return "", "", false
	}
	if date, ok := ParseDate(s, refYear); ok {
		return date, "", true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return ParseSerial(serial)
	}
	return "", "", false
}

// detectDelimiter picks tab when the first line holds more tabs than commas.
func detectDelimiter(text string) rune {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}

func emptyRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
