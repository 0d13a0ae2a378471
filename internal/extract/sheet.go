package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/eventpipe/event"
)

// Workbook extracts events from every sheet of an xlsx workbook. Each sheet
// is matched independently: the first non-empty row is its header, and a
// sheet without a recognizable date column and name column yields zero
// candidates and is skipped. Cell dates may be string-formatted or numeric
// serials; a fractional serial supplies a fallback time when the sheet has
// no time column.
func Workbook(data []byte, ref time.Time) ([]event.Event, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var events []event.Event
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		events = append(events, sheetEvents(rows, ref.Year())...)
	}
	return events, nil
}

func sheetEvents(rows [][]string, refYear int) []event.Event {
	var cols columns
	var matched bool
	var events []event.Event

	for _, row := range rows {
		if emptyRecord(row) {
			continue
		}
		if !matched {
			if cols, matched = matchHeader(row); !matched {
				// Header is not recognizable: skip the whole sheet.
				return nil
			}
			continue
		}
		if e, ok := rowEvent(row, cols, refYear); ok {
			events = append(events, e)
		}
	}
	return events
}

// SheetText renders workbook content as delimited text for the AI-assisted
// fallback when deterministic header matching finds nothing.
func SheetText(data []byte) (string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var sb strings.Builder
	for _, sheet := range wb.GetSheetList() {
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		sb.WriteString("# Sheet: " + sheet + "\n")
		for _, row := range rows {
			if emptyRecord(row) {
				continue
			}
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
