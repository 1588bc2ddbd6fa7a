package service

import (
	"context"
	"time"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/repository"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/workhours"
)

// SummaryService aggregates billable hours per pay period. Results are
// computed from the shifts table on every call.
type SummaryService struct {
	users  repository.UserRepository
	shifts repository.ShiftRepository
	loc    *time.Location
	now    func() time.Time
}

// NewSummaryService builds the service; loc decides where pay periods begin.
func NewSummaryService(repos repository.Repositories, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{users: repos.Users, shifts: repos.Shifts, loc: loc, now: time.Now}
}

// CurrentPeriod resolves the pay period containing now.
func (s *SummaryService) CurrentPeriod() workhours.Period {
	return workhours.ResolvePeriod(s.now().In(s.loc))
}

// MySummary returns the caller's rounded billable hours in the current period.
func (s *SummaryService) MySummary(ctx context.Context, actor domain.Actor) (*workhours.Summary, error) {
	period := s.CurrentPeriod()
	userID := actor.UserID
	totals, err := s.totals(ctx, period, &userID)
	if err != nil {
		return nil, err
	}
	return &workhours.Summary{TotalWorkHours: workhours.Round2(totals[actor.UserID]), Period: period}, nil
}

// StaffSummary returns one row per known user, zero when they have no shifts.
func (s *SummaryService) StaffSummary(ctx context.Context) ([]workhours.StaffRow, workhours.Period, error) {
	period := s.CurrentPeriod()
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, period, err
	}
	totals, err := s.totals(ctx, period, nil)
	if err != nil {
		return nil, period, err
	}

	rows := make([]workhours.StaffRow, 0, len(users))
	for _, user := range users {
		raw := totals[user.ID]
		rows = append(rows, workhours.StaffRow{
			UserID:         user.ID,
			Name:           user.Name,
			Role:           user.Role,
			TotalWorkHours: workhours.Round2(raw),
			IsOvertime:     workhours.IsOvertime(raw),
		})
	}
	return rows, period, nil
}

func (s *SummaryService) totals(ctx context.Context, period workhours.Period, userID *int64) (map[int64]float64, error) {
	from, before := period.Start, period.End
	shifts, err := s.shifts.List(ctx, repository.ShiftFilter{UserID: userID, StartFrom: &from, StartBefore: &before})
	if err != nil {
		return nil, err
	}
	entries := make([]workhours.Entry, 0, len(shifts))
	for _, shift := range shifts {
		entries = append(entries, workhours.Entry{UserID: shift.UserID, Start: shift.StartTime, End: shift.EndTime})
	}
	return workhours.Aggregate(entries, period), nil
}
