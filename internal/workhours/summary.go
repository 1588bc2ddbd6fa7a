package workhours

import "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"

// Summary is one user's rounded billable total for a pay period.
type Summary struct {
	TotalWorkHours float64
	Period         Period
}

// StaffRow is one line of the all-staff summary.
type StaffRow struct {
	UserID         int64
	Name           string
	Role           domain.Role
	TotalWorkHours float64
	IsOvertime     bool
}
