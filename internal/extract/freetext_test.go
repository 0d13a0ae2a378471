package extract

import (
	"testing"
	"time"
)

func TestFreeTextRelative(t *testing.T) {
	refDate := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	events, err := FreeText("Meeting with team tomorrow at 3pm", refDate)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	e := events[0]
	if e.Date != "2025-06-02" {
		t.Errorf("date = %q, want 2025-06-02", e.Date)
	}
	if e.Time != "15:00" {
		t.Errorf("time = %q, want 15:00", e.Time)
	}
	if e.Tag != "Meeting" || e.Name != "Meeting" {
		t.Errorf("tag/name = %q/%q, want Meeting/Meeting", e.Tag, e.Name)
	}
}

func TestFreeTextNoAnchor(t *testing.T) {
	events, err := FreeText("no dates in this sentence", ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no anchors, got %+v", events)
	}
}

func TestFreeTextUntimedAnchor(t *testing.T) {
	events, err := FreeText("Dentist appointment next friday", ref)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
	if events[0].Time != "" {
		t.Errorf("expected untimed anchor, got time %q", events[0].Time)
	}
	if events[0].Tag != "Appointment" {
		t.Errorf("tag = %q, want Appointment", events[0].Tag)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		tag  string
	}{
		{"final exam in CS101", "Exam"},
		{"pop quiz on friday", "Quiz"},
		{"standup with the team", "Meeting"},
		{"phone interview with recruiter", "Interview"},
		{"lecture hall 3", "Class"},
		{"dentist at noon", "Appointment"},
		{"something else entirely", "Event"},
	}
	for _, tt := range tests {
		tag, _ := Classify(tt.text)
		if tag != tt.tag {
			t.Errorf("Classify(%q) tag = %q, want %q", tt.text, tag, tt.tag)
		}
	}
}
