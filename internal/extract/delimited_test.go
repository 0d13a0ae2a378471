package extract

import (
	"testing"
	"time"
)

var ref = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestDelimited(t *testing.T) {
	text := "Assignment,Due Date,Time,Tag\nHomework 1,10/5/2025,14:30,class\n"
	events, err := Delimited(text, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Name != "Homework 1" || e.Date != "2025-10-05" || e.Time != "14:30" || e.Tag != "class" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestDelimitedTabs(t *testing.T) {
	text := "Task\tDeadline\nEssay draft\t11/1\nFinal essay\t12/1/2025\n"
	events, err := Delimited(text, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Date != "2025-11-01" || events[1].Date != "2025-12-01" {
		t.Fatalf("unexpected dates: %q, %q", events[0].Date, events[1].Date)
	}
}

func TestDelimitedDropsUnresolvableDates(t *testing.T) {
	text := "Event,Date\nValid,10/5/2025\nBroken,someday\nAlso broken,2/30/2025\n"
	events, err := Delimited(text, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Name != "Valid" {
		t.Fatalf("expected only the valid row, got %+v", events)
	}
}

func TestDelimitedNoRecognizableHeader(t *testing.T) {
	// No date/name columns: zero candidates, not an error.
	text := "Foo,Bar\n1,2\n"
	events, err := Delimited(text, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestMatchHeader(t *testing.T) {
	cols, ok := matchHeader([]string{"Assignment", "Due Date", "Time", "Tag"})
	if !ok {
		t.Fatal("expected header to match")
	}
	if cols.name != 0 || cols.date != 1 || cols.time != 2 || cols.tag != 3 {
		t.Fatalf("unexpected columns: %+v", cols)
	}

	if _, ok := matchHeader([]string{"Notes", "Score"}); ok {
		t.Fatal("header without date+name should not match")
	}
}
