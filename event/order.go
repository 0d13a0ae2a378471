package event

import "sort"

// allDaySentinel sorts untimed events after timed ones within a day.
const allDaySentinel = "23:59"

// Sort orders events by (date ascending, time ascending with all-day last,
// name ascending). The sort is stable and returns the same slice.
func Sort(events []Event) []Event {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		at, bt := sortTime(a.Time), sortTime(b.Time)
		if at != bt {
			return at < bt
		}
		return a.Name < b.Name
	})
	return events
}

func sortTime(t string) string {
	if t == "" {
		return allDaySentinel
	}
	return t
}
