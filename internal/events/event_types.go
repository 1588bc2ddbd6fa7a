package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventShiftRequestSubmitted     EventType = "shift_request_submitted"
	EventShiftRequestDecided       EventType = "shift_request_decided"
	EventShiftRequestsBulkApproved EventType = "shift_requests_bulk_approved"
	EventPasswordResetRequested    EventType = "password_reset_requested"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, actor domain.Actor, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// ShiftRequestSubmittedPayload payload.
type ShiftRequestSubmittedPayload struct {
	RequestID int64     `json:"request_id"`
	UserID    int64     `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// ShiftRequestDecidedPayload payload. ShiftID is set only for approvals.
type ShiftRequestDecidedPayload struct {
	RequestID int64                `json:"request_id"`
	UserID    int64                `json:"user_id"`
	Status    domain.RequestStatus `json:"status"`
	ShiftID   *int64               `json:"shift_id,omitempty"`
}

// ShiftRequestsBulkApprovedPayload payload.
type ShiftRequestsBulkApprovedPayload struct {
	RequestIDs []int64 `json:"request_ids"`
	Approved   int     `json:"approved"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetURL  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
