package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/workhours"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(&UserRegisterRequest{Name: "Hana", Email: "not-an-email", Password: "123", Role: "owner"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidation, de.Code)
	assert.Equal(t, map[string]any{"email": "email", "password": "min", "role": "role"}, de.Details)

	assert.NoError(t, v.Struct(&UserRegisterRequest{Name: "Hana", Email: "hana@example.com", Password: "secret1", Role: "staff_hs"}))
}

func TestValidatorDecisionAndBulk(t *testing.T) {
	v := NewValidator()

	assert.Error(t, v.Struct(&DecideShiftRequest{Status: "pending"}))
	assert.NoError(t, v.Struct(&DecideShiftRequest{Status: "rejected"}))

	assert.Error(t, v.Struct(&BulkApproveRequest{}))
	assert.Error(t, v.Struct(&BulkApproveRequest{IDs: []int64{1, 0}}))
	assert.NoError(t, v.Struct(&BulkApproveRequest{IDs: []int64{1, 2}}))

	assert.Error(t, v.Struct(&ShiftRequestWindow{StartTime: time.Now()}))
}

func TestSummaryJSONFieldNames(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	mine, err := json.Marshal(NewWorkSummaryResponse(&workhours.Summary{
		TotalWorkHours: 18.5,
		Period:         workhours.Period{Start: start, End: start.AddDate(0, 1, 0)},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalWorkHours":18.5,"startDate":"2025-03-10T00:00:00Z","endDate":"2025-04-10T00:00:00Z"}`, string(mine))

	staff, err := json.Marshal(NewStaffHoursResponse([]workhours.StaffRow{
		{UserID: 2, Name: "Ken", Role: domain.RoleStaff, TotalWorkHours: 181, IsOvertime: true},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"name":"Ken","role":"staff","totalWorkHours":181,"isOvertime":true}]`, string(staff))
}
