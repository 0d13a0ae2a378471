package extract

import (
	"regexp"
	"strings"
)

// keywordRule binds a keyword pattern to a coarse tag and a short default
// name. One shared table serves every extractor so the classification cannot
// drift between formats.
type keywordRule struct {
	re   *regexp.Regexp
	tag  string
	name string
}

var keywordRules = []keywordRule{
	{regexp.MustCompile(`(?i)\binterview\b`), "Interview", "Interview"},
	{regexp.MustCompile(`(?i)\b(exam|final|midterm)s?\b`), "Exam", "Exam"},
	{regexp.MustCompile(`(?i)\bquiz(zes)?\b`), "Quiz", "Quiz"},
	{regexp.MustCompile(`(?i)\b(class|lecture|lab|seminar)\b`), "Class", "Class"},
	{regexp.MustCompile(`(?i)\b(meeting|meet|standup|sync|1:1)\b`), "Meeting", "Meeting"},
	{regexp.MustCompile(`(?i)\b(appointment|appt|dentist|doctor)\b`), "Appointment", "Appointment"},
}

// Classify assigns a coarse tag and short name from keyword signal in text.
// Defaults to "Event" when no keyword matches.
func Classify(text string) (tag, name string) {
	for _, r := range keywordRules {
		if r.re.MatchString(text) {
			return r.tag, r.name
		}
	}
	return "Event", "Event"
}

// headerAliases maps normalized column-header names to column roles for
// tabular extraction. Header normalization strips non-alphanumerics and
// lowercases, so "Due Date" and "due_date" both land on "duedate".
var headerAliases = map[string]string{
	"date":     "date",
	"duedate":  "date",
	"due":      "date",
	"day":      "date",
	"deadline": "date",
	"when":     "date",

	"assignment": "name",
	"event":      "name",
	"title":      "name",
	"task":       "name",
	"name":       "name",
	"item":       "name",
	"activity":   "name",

	"time":      "time",
	"duetime":   "time",
	"start":     "time",
	"starttime": "time",

	"tag":      "tag",
	"category": "tag",
	"type":     "tag",
	"label":    "tag",
}

// normalizeHeader strips non-alphanumerics and lowercases a header cell.
func normalizeHeader(h string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// columns holds the recognized column indexes of a header row (-1 = absent).
type columns struct {
	date, name, time, tag int
}

// matchHeader maps a header row to column roles. ok is false when the row
// lacks a recognizable date column or name column — such a table yields zero
// candidates and is skipped.
func matchHeader(cells []string) (columns, bool) {
	cols := columns{date: -1, name: -1, time: -1, tag: -1}
	for i, cell := range cells {
		switch headerAliases[normalizeHeader(cell)] {
		case "date":
			if cols.date < 0 {
				cols.date = i
			}
		case "name":
			if cols.name < 0 {
				cols.name = i
			}
		case "time":
			if cols.time < 0 {
				cols.time = i
			}
		case "tag":
			if cols.tag < 0 {
				cols.tag = i
			}
		}
	}
	return cols, cols.date >= 0 && cols.name >= 0
}
