package dto

import (
	"time"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
)

// ShiftRequestWindow payload for submitting or editing a request.
type ShiftRequestWindow struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// DecideShiftRequest payload for an admin decision. Overrides apply only to approvals.
type DecideShiftRequest struct {
	Status    string     `json:"status" validate:"required,oneof=approved rejected"`
	UserID    *int64     `json:"user_id" validate:"omitempty,gt=0"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// BulkApproveRequest payload for approving several requests at once.
type BulkApproveRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

// BulkApproveResponse reports how many requests were approved.
type BulkApproveResponse struct {
	Approved int `json:"approved"`
}

// ShiftPayload payload for creating or updating a confirmed shift.
type ShiftPayload struct {
	UserID    int64     `json:"user_id" validate:"required,gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// ShiftRequestResponse is the public view of a shift request.
type ShiftRequestResponse struct {
	ID        int64                `json:"id"`
	UserID    int64                `json:"user_id"`
	UserName  string               `json:"user_name,omitempty"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	Status    domain.RequestStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewShiftRequestResponse maps a request.
func NewShiftRequestResponse(req *domain.ShiftRequest) ShiftRequestResponse {
	return ShiftRequestResponse{
		ID:        req.ID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
}

// NewShiftRequestListResponse maps a list of requests.
func NewShiftRequestListResponse(reqs []domain.ShiftRequest) []ShiftRequestResponse {
	out := make([]ShiftRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, NewShiftRequestResponse(&reqs[i]))
	}
	return out
}

// ShiftResponse is the public view of a confirmed shift.
type ShiftResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// NewShiftResponse maps a shift.
func NewShiftResponse(shift *domain.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        shift.ID,
		UserID:    shift.UserID,
		UserName:  shift.UserName,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
		CreatedAt: shift.CreatedAt,
	}
}

// NewShiftListResponse maps a list of shifts.
func NewShiftListResponse(shifts []domain.Shift) []ShiftResponse {
	out := make([]ShiftResponse, 0, len(shifts))
	for i := range shifts {
		out = append(out, NewShiftResponse(&shifts[i]))
	}
	return out
}

// DecisionResponse is the decided request record. ShiftID is set for approvals.
type DecisionResponse struct {
	ShiftRequestResponse
	ShiftID *int64 `json:"shift_id,omitempty"`
}

// NewDecisionResponse maps a decided request and the shift an approval created.
func NewDecisionResponse(req *domain.ShiftRequest, shift *domain.Shift) DecisionResponse {
	resp := DecisionResponse{ShiftRequestResponse: NewShiftRequestResponse(req)}
	if shift != nil {
		id := shift.ID
		resp.ShiftID = &id
	}
	return resp
}
