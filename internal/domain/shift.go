package domain

import (
	"fmt"
	"time"
)

// RequestStatus enumerates lifecycle states for shift requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// MinorDailyCapHours limits a single request window for RoleMinorStaff.
const MinorDailyCapHours = 9.0

// ParseDecision accepts only the statuses an administrator may set.
func ParseDecision(raw string) (RequestStatus, error) {
	status := RequestStatus(raw)
	switch status {
	case RequestStatusApproved, RequestStatusRejected:
		return status, nil
	case RequestStatusPending:
		return "", fmt.Errorf("status %q cannot be set by a decision", raw)
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

// ShiftRequest is a staff-submitted desired work window.
type ShiftRequest struct {
	ID        int64
	UserID    int64
	UserName  string
	StartTime time.Time
	EndTime   time.Time
	Status    RequestStatus
	CreatedAt time.Time
}

// IsPending reports whether the request can still be edited or decided.
func (r *ShiftRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// Shift is a confirmed, admin-authoritative work window.
type Shift struct {
	ID        int64
	UserID    int64
	UserName  string
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
}

// ValidWindow reports whether end is strictly after start.
func ValidWindow(start, end time.Time) bool {
	return end.After(start)
}
