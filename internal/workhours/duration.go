package workhours

import (
	"math"
	"time"
)

const (
	// BreakThresholdHours is the raw length from which an unpaid break applies.
	BreakThresholdHours = 6.5
	// BreakDeductionHours is the unpaid break subtracted from long shifts.
	BreakDeductionHours = 1.0
)

// BillableHours returns the shift length in hours minus the mandatory break.
// Callers guarantee end > start.
func BillableHours(start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours >= BreakThresholdHours {
		hours -= BreakDeductionHours
	}
	return hours
}

// Round2 rounds hours to two decimals for presentation.
func Round2(hours float64) float64 {
	return math.Round(hours*100) / 100
}
