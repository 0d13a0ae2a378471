package extract

import "testing"

func TestSchedule(t *testing.T) {
	text := `Course Schedule
Due Date
10/6 Homework 1 due
10/13 Quiz 2 at 9:00am
Reading week, no class
Project proposal - 11/3/2025
`
	events, err := Schedule(text, ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	if events[0].Name != "Homework 1 due" || events[0].Date != "2025-10-06" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	// The lifted time token leaves the name.
	if events[1].Name != "Quiz 2" || events[1].Date != "2025-10-13" || events[1].Time != "09:00" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
	if events[2].Name != "Project proposal" || events[2].Date != "2025-11-03" {
		t.Fatalf("unexpected third event: %+v", events[2])
	}
}

func TestScheduleSkipsHeaderLines(t *testing.T) {
	// Pure header captions never become events even though later lines do.
	events, err := Schedule("Assignments\n10/6 HW 1\n", ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
}

func TestScheduleEmpty(t *testing.T) {
	events, err := Schedule("nothing dated here\n", ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestWithoutDatedLines(t *testing.T) {
	text := "10/5 Homework 1\nMeeting with team tomorrow at 3pm\n2025-11-03 Project\njust prose"
	got := WithoutDatedLines(text)
	want := "Meeting with team tomorrow at 3pm\njust prose"
	if got != want {
		t.Fatalf("WithoutDatedLines = %q, want %q", got, want)
	}
}
