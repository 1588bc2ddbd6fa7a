package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/workhours"
)

var shiftCols = []string{"id", "user_id", "name", "start_time", "end_time", "created_at"}

func newSummaryService(t *testing.T, now time.Time) (*SummaryService, pgxmock.PgxPoolIface) {
	mock := newMockPool(t)
	repos, _ := newRepos(mock)
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	svc := NewSummaryService(repos, loc)
	svc.now = func() time.Time { return now }
	return svc, mock
}

func TestMySummary(t *testing.T) {
	// 03:00 UTC on the 10th is already noon of the 10th in Tokyo.
	now := time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC)
	svc, mock := newSummaryService(t, now)
	tokyo := svc.loc
	day := time.Date(2025, 3, 12, 9, 0, 0, 0, tokyo)

	mock.ExpectQuery(`FROM shifts s JOIN users u ON u.id = s.user_id WHERE s.user_id = \$1 AND s.start_time >= \$2 AND s.start_time < \$3`).
		WithArgs(staffActor.UserID, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows(shiftCols).
			AddRow(int64(1), staffActor.UserID, "Ken", day, day.Add(8*time.Hour), createdAt).
			AddRow(int64(2), staffActor.UserID, "Ken", day.Add(24*time.Hour), day.Add(30*time.Hour), createdAt).
			AddRow(int64(3), staffActor.UserID, "Ken", day.Add(48*time.Hour), day.Add(48*time.Hour+390*time.Minute), createdAt))

	summary, err := svc.MySummary(context.Background(), staffActor)
	require.NoError(t, err)
	// 7 + 6 + 5.5
	assert.Equal(t, 18.5, summary.TotalWorkHours)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, tokyo), summary.Period.Start)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, tokyo), summary.Period.End)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffSummary_OvertimeBoundary(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	svc, mock := newSummaryService(t, now)
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, svc.loc)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at ASC")).
		WillReturnRows(mock.NewRows(userCols).
			AddRow(int64(1), "Admin", "a@example.com", "h", domain.RoleAdmin, createdAt).
			AddRow(int64(2), "Ken", "k@example.com", "h", domain.RoleStaff, createdAt).
			AddRow(int64(3), "Yui", "y@example.com", "h", domain.RoleStaff, createdAt))

	rows := mock.NewRows(shiftCols)
	id := int64(0)
	// Ten-hour shifts bill nine hours each: twenty of them make exactly 180.
	for i := 0; i < 20; i++ {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		for _, user := range []int64{2, 3} {
			id++
			rows.AddRow(id, user, "", start, start.Add(10*time.Hour), createdAt)
		}
	}
	extra := base.Add(20 * 24 * time.Hour)
	rows.AddRow(id+1, int64(2), "Ken", extra, extra.Add(time.Hour), createdAt)

	mock.ExpectQuery(`FROM shifts s JOIN users u ON u.id = s.user_id WHERE s.start_time >= \$1 AND s.start_time < \$2`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	summary, period, err := svc.StaffSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, svc.loc), period.Start)
	require.Len(t, summary, 3)

	assert.Equal(t, workhours.StaffRow{UserID: 1, Name: "Admin", Role: domain.RoleAdmin}, summary[0])
	assert.Equal(t, 181.0, summary[1].TotalWorkHours)
	assert.True(t, summary[1].IsOvertime)
	assert.Equal(t, 180.0, summary[2].TotalWorkHours)
	assert.False(t, summary[2].IsOvertime)
	require.NoError(t, mock.ExpectationsWereMet())
}
