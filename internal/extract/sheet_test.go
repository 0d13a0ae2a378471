package extract

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", cell, val); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Assignment", "Due Date", "Time", "Tag"},
		{"Homework 1", "10/5/2025", "14:30", "class"},
		{"Essay", "11/1", "", ""},
	})

	events, err := Workbook(data, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Name != "Homework 1" || events[0].Date != "2025-10-05" || events[0].Time != "14:30" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Date != "2025-11-01" || events[1].Time != "" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestWorkbookSerialDates(t *testing.T) {
	// Raw serial with embedded time-of-day; no time column, so the serial's
	// fraction supplies the fallback time.
	data := buildWorkbook(t, [][]any{
		{"Event", "Date"},
		{"Kickoff", "45000.5"},
	})

	events, err := Workbook(data, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
	if events[0].Date != "2023-03-15" || events[0].Time != "12:00" {
		t.Fatalf("serial not resolved: %+v", events[0])
	}
}

func TestWorkbookUnrecognizableSheetSkipped(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Foo", "Bar"},
		{"1", "2"},
	})
	events, err := Workbook(data, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestSheetText(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Foo", "Bar"},
		{"x", "y"},
	})
	text, err := SheetText(data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Sheet1") || !strings.Contains(text, "Foo\tBar") {
		t.Fatalf("unexpected sheet text: %q", text)
	}
}
