// Package workhours holds the pay-period and billable-hours rules used for
// work summaries. Everything here is a pure function of its inputs.
package workhours

import "time"

// CutoverDay is the day of month on which every pay period starts and ends.
const CutoverDay = 10

// Period is a half-open [Start, End) aggregation window.
type Period struct {
	Start time.Time
	End   time.Time
}

// ResolvePeriod returns the pay period containing now, in now's location.
// Before the 10th the period runs from the 10th of the previous month,
// otherwise from the 10th of the current month.
func ResolvePeriod(now time.Time) Period {
	year, month, day := now.Date()
	loc := now.Location()

	startMonth := month
	if day < CutoverDay {
		startMonth = month - 1
	}
	// time.Date normalizes month 0 and 13 into the adjacent year.
	start := time.Date(year, startMonth, CutoverDay, 0, 0, 0, 0, loc)
	end := time.Date(year, startMonth+1, CutoverDay, 0, 0, 0, 0, loc)
	return Period{Start: start, End: end}
}

// Contains reports whether t lies within [Start, End).
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}
