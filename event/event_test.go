package event

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		cap  int
		want string
	}{
		{"homework 1", 80, "Homework 1"},
		{"  lab   review  ", 80, "Lab Review"},
		{"HW 3 due", 80, "HW 3 Due"},
		{"EXAM review session", 80, "EXAM Review Session"},
		{"midterm EXAM", 80, "Midterm EXAM"},
		{"a", 80, "A"},
		{"", 80, ""},
	}
	for _, tt := range tests {
		got := NormalizeName(tt.in, tt.cap)
		if got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTruncation(t *testing.T) {
	// A name of cap+k runes truncates to exactly cap runes, ellipsis included.
	cap := 60
	long := strings.Repeat("x", cap+17)
	got := NormalizeName(long, cap)
	if len([]rune(got)) != cap {
		t.Fatalf("truncated length = %d, want %d", len([]rune(got)), cap)
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}

	// Exactly at the cap: untouched.
	exact := strings.Repeat("y", cap)
	if got := NormalizeName(exact, cap); len([]rune(got)) != cap || strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("name at cap should not be truncated, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	events := []Event{
		{Name: "  meeting   with TEAM  ", Date: "2025-06-02", Time: "15:00", Tag: "meeting"},
		{Name: strings.Repeat("long name ", 20), Date: "2025-06-03", Tag: "  "},
		{Name: "quiz 2", Date: "2025-06-04", Time: ""},
	}
	once := Normalize(events, 60)
	twice := Normalize(once, 60)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct{ in, want string }{
		{"class", "Class"},
		{"CLASS", "Class"},
		{"  exam ", "Exam"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		got := Normalize([]Event{{Name: "X", Date: "2025-01-01", Tag: tt.in}}, 60)[0].Tag
		if got != tt.want {
			t.Errorf("tag %q normalized to %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupeCasing(t *testing.T) {
	// Identity is case-insensitive on name; first occurrence wins.
	events := []Event{
		{Name: "Lab Review", Date: "2025-10-05", Time: "14:30", Tag: "Class"},
		{Name: "lab review", Date: "2025-10-05", Time: "14:30", Tag: "Class"},
		{Name: "Lab Review", Date: "2025-10-06", Time: "14:30", Tag: "Class"},
	}
	out := Dedupe(events)
	if len(out) != 2 {
		t.Fatalf("expected 2 events after dedupe, got %d", len(out))
	}
	if out[0].Name != "Lab Review" || out[0].Date != "2025-10-05" {
		t.Fatalf("first occurrence should win, got %+v", out[0])
	}
}

func TestDedupeInvariant(t *testing.T) {
	events := []Event{
		{Name: "A", Date: "2025-01-01"},
		{Name: "A", Date: "2025-01-01"},
		{Name: "A", Date: "2025-01-01", Time: "09:00"},
		{Name: "A", Date: "2025-01-01", Tag: "Exam"},
	}
	out := Dedupe(events)
	seen := map[string]bool{}
	for _, e := range out {
		if seen[e.Key()] {
			t.Fatalf("duplicate key %q survived dedupe", e.Key())
		}
		seen[e.Key()] = true
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 distinct events, got %d", len(out))
	}
}

func TestSortOrder(t *testing.T) {
	events := []Event{
		{Name: "All day", Date: "2025-09-01"},
		{Name: "Morning", Date: "2025-09-01", Time: "08:00"},
		{Name: "Earlier day", Date: "2025-08-31", Time: "23:00"},
		{Name: "B", Date: "2025-09-01", Time: "08:00"},
	}
	Sort(events)

	if events[0].Name != "Earlier day" {
		t.Fatalf("expected earlier date first, got %+v", events[0])
	}
	// Timed events precede the all-day event on the same date.
	if events[len(events)-1].Name != "All day" {
		t.Fatalf("expected all-day event last, got %+v", events[len(events)-1])
	}
	// Same date+time ties break on name.
	if events[1].Name != "B" || events[2].Name != "Morning" {
		t.Fatalf("expected name tiebreak, got %v then %v", events[1].Name, events[2].Name)
	}

	// Non-decreasing under the (date, time-or-sentinel, name) key.
	for i := 1; i < len(events); i++ {
		a, b := events[i-1], events[i]
		ka := a.Date + sortTime(a.Time) + a.Name
		kb := b.Date + sortTime(b.Time) + b.Name
		if ka > kb {
			t.Fatalf("sort invariant violated at %d: %q > %q", i, ka, kb)
		}
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-10-05", true},
		{"2025-02-30", false},
		{"2024-02-29", true},
		{"2025-13-01", false},
		{"10/5/2025", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidDate(tt.in); got != tt.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidTime(t *testing.T) {
	for in, want := range map[string]bool{
		"14:30": true, "00:00": true, "23:59": true,
		"24:00": false, "9:30": false, "": false,
	} {
		if got := ValidTime(in); got != want {
			t.Errorf("ValidTime(%q) = %v, want %v", in, got, want)
		}
	}
}
