package workhours

import "time"

// OvertimeThresholdHours is the period total above which a member is flagged.
// It is a fixed policy, not a per-employee contract.
const OvertimeThresholdHours = 180.0

// Entry is one confirmed shift as seen by the aggregator.
type Entry struct {
	UserID int64
	Start  time.Time
	End    time.Time
}

// Aggregate sums unrounded billable hours per user for entries that start in p.
func Aggregate(entries []Entry, p Period) map[int64]float64 {
	totals := make(map[int64]float64)
	for _, entry := range entries {
		if !p.Contains(entry.Start) {
			continue
		}
		totals[entry.UserID] += BillableHours(entry.Start, entry.End)
	}
	return totals
}

// IsOvertime reports whether an unrounded total exceeds the threshold.
func IsOvertime(rawHours float64) bool {
	return rawHours > OvertimeThresholdHours
}
