package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/events"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/observability"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/repository"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

// Decision paths reported to metrics.
const (
	decisionPathSingle = "single"
	decisionPathBulk   = "bulk"
)

// RequestWindow is a desired start/end pair.
type RequestWindow struct {
	StartTime time.Time
	EndTime   time.Time
}

// DecisionInput carries an admin decision and optional approval overrides.
type DecisionInput struct {
	Status    string
	UserID    *int64
	StartTime *time.Time
	EndTime   *time.Time
}

// SchedulingDependencies groups collaborators of SchedulingService.
type SchedulingDependencies struct {
	Repos      repository.Repositories
	Transactor repository.Transactor
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// SchedulingService owns the shift request lifecycle.
type SchedulingService struct {
	requests   repository.ShiftRequestRepository
	tx         repository.Transactor
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewSchedulingService wires the service.
func NewSchedulingService(deps SchedulingDependencies) *SchedulingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulingService{
		requests:   deps.Repos.Requests,
		tx:         deps.Transactor,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// SubmitRequest records a new pending request for the caller.
func (s *SchedulingService) SubmitRequest(ctx context.Context, actor domain.Actor, window RequestWindow) (*domain.ShiftRequest, error) {
	if err := validateWindow(window.StartTime, window.EndTime); err != nil {
		return nil, err
	}
	if actor.Role.HasDailyCap() {
		hours := window.EndTime.Sub(window.StartTime).Hours()
		if hours > domain.MinorDailyCapHours {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("requests of role %s may not exceed %.0f hours", actor.Role, domain.MinorDailyCapHours),
				map[string]any{"hours": hours, "max_hours": domain.MinorDailyCapHours},
			)
		}
	}

	req := &domain.ShiftRequest{
		UserID:    actor.UserID,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		Status:    domain.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.EventShiftRequestSubmitted, actor, s.now(), events.ShiftRequestSubmittedPayload{
		RequestID: req.ID,
		UserID:    req.UserID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}))
	return req, nil
}

// EditRequest replaces the window of the caller's own pending request.
// The minor daily cap is not re-checked here.
func (s *SchedulingService) EditRequest(ctx context.Context, actor domain.Actor, id int64, window RequestWindow) (*domain.ShiftRequest, error) {
	if err := validateWindow(window.StartTime, window.EndTime); err != nil {
		return nil, err
	}
	req, err := s.ownedPending(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.requests.UpdateWindow(ctx, id, window.StartTime, window.EndTime); err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewForbidden("only pending requests can be changed")
		}
		return nil, err
	}
	req.StartTime = window.StartTime
	req.EndTime = window.EndTime
	return req, nil
}

// DeleteOwnRequest removes the caller's own pending request.
func (s *SchedulingService) DeleteOwnRequest(ctx context.Context, actor domain.Actor, id int64) error {
	if _, err := s.ownedPending(ctx, actor, id); err != nil {
		return err
	}
	if err := s.requests.DeleteIfPending(ctx, id); err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewForbidden("only pending requests can be changed")
		}
		return err
	}
	return nil
}

func (s *SchedulingService) ownedPending(ctx context.Context, actor domain.Actor, id int64) (*domain.ShiftRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("shift request", map[string]any{"id": id})
		}
		return nil, err
	}
	if req.UserID != actor.UserID {
		return nil, apperrors.NewForbidden("request belongs to another user")
	}
	if !req.IsPending() {
		return nil, apperrors.NewForbidden("only pending requests can be changed")
	}
	return req, nil
}

// DecideRequest approves or rejects a pending request. Approval materializes
// a confirmed shift from the request, with any supplied overrides applied.
func (s *SchedulingService) DecideRequest(ctx context.Context, actor domain.Actor, id int64, input DecisionInput) (*domain.ShiftRequest, *domain.Shift, error) {
	status, err := domain.ParseDecision(input.Status)
	if err != nil {
		return nil, nil, apperrors.NewValidationError("status must be approved or rejected", map[string]any{"status": input.Status})
	}

	var (
		decided *domain.ShiftRequest
		created *domain.Shift
	)
	err = s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		req, err := repos.Requests.GetForUpdate(ctx, id)
		if err != nil {
			if apperrors.IsNoRows(err) {
				return apperrors.NewNotFound("shift request", map[string]any{"id": id})
			}
			return err
		}
		if !req.IsPending() {
			return apperrors.NewForbidden(fmt.Sprintf("request already %s", req.Status))
		}

		if status == domain.RequestStatusApproved {
			shift := domain.Shift{UserID: req.UserID, StartTime: req.StartTime, EndTime: req.EndTime}
			if input.UserID != nil {
				shift.UserID = *input.UserID
			}
			if input.StartTime != nil {
				shift.StartTime = *input.StartTime
			}
			if input.EndTime != nil {
				shift.EndTime = *input.EndTime
			}
			if err := validateWindow(shift.StartTime, shift.EndTime); err != nil {
				return err
			}
			if shift.UserID != req.UserID {
				assignee, err := repos.Users.GetByID(ctx, shift.UserID)
				if err != nil {
					if apperrors.IsNoRows(err) {
						return apperrors.NewNotFound("user", map[string]any{"id": shift.UserID})
					}
					return err
				}
				shift.UserName = assignee.Name
			}
			if err := repos.Shifts.Create(ctx, &shift); err != nil {
				return err
			}
			created = &shift
		}

		if err := repos.Requests.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		req.Status = status
		decided = req
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.metrics.RecordDecision(string(status), decisionPathSingle, 1)
	payload := events.ShiftRequestDecidedPayload{RequestID: decided.ID, UserID: decided.UserID, Status: status}
	if created != nil {
		payload.ShiftID = &created.ID
	}
	s.publish(ctx, events.New(events.EventShiftRequestDecided, actor, s.now(), payload))
	return decided, created, nil
}

// BulkApprove approves every still-pending request among ids in one
// transaction and creates one shift per request from its own fields.
// Overrides are not supported on this path.
func (s *SchedulingService) BulkApprove(ctx context.Context, actor domain.Actor, ids []int64) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, apperrors.NewValidationError("ids must contain at least one request id", nil)
	}

	var approvedIDs []int64
	err := s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		pending, err := repos.Requests.ListPendingForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return apperrors.NewNotFound("pending shift request", map[string]any{"ids": ids})
		}

		selected := make([]int64, 0, len(pending))
		shifts := make([]domain.Shift, 0, len(pending))
		for _, req := range pending {
			selected = append(selected, req.ID)
			shifts = append(shifts, domain.Shift{UserID: req.UserID, StartTime: req.StartTime, EndTime: req.EndTime})
		}

		updated, err := repos.Requests.ApprovePending(ctx, selected)
		if err != nil {
			return err
		}
		if updated != int64(len(selected)) {
			return fmt.Errorf("approved %d of %d locked requests", updated, len(selected))
		}
		inserted, err := repos.Shifts.CreateBatch(ctx, shifts)
		if err != nil {
			return err
		}
		if inserted != int64(len(shifts)) {
			return fmt.Errorf("inserted %d of %d shifts", inserted, len(shifts))
		}
		approvedIDs = selected
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("bulk approved shift requests",
		zap.Int64("admin_id", actor.UserID),
		zap.Int("requested", len(ids)),
		zap.Int("approved", len(approvedIDs)))
	s.metrics.RecordDecision(string(domain.RequestStatusApproved), decisionPathBulk, len(approvedIDs))
	s.publish(ctx, events.New(events.EventShiftRequestsBulkApproved, actor, s.now(), events.ShiftRequestsBulkApprovedPayload{
		RequestIDs: approvedIDs,
		Approved:   len(approvedIDs),
	}))
	return len(approvedIDs), nil
}

// AdminDeleteRequest removes any request regardless of status.
func (s *SchedulingService) AdminDeleteRequest(ctx context.Context, id int64) error {
	if err := s.requests.Delete(ctx, id); err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewNotFound("shift request", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// ListRequests returns every request, newest first, optionally filtered by status.
func (s *SchedulingService) ListRequests(ctx context.Context, statuses []domain.RequestStatus) ([]domain.ShiftRequest, error) {
	return s.requests.List(ctx, repository.RequestFilter{Statuses: statuses})
}

// ListMyRequests returns the caller's own requests, newest first.
func (s *SchedulingService) ListMyRequests(ctx context.Context, actor domain.Actor) ([]domain.ShiftRequest, error) {
	userID := actor.UserID
	return s.requests.List(ctx, repository.RequestFilter{UserID: &userID})
}

func (s *SchedulingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.NewValidationError("start_time and end_time are required", nil)
	}
	if !domain.ValidWindow(start, end) {
		return apperrors.NewValidationError("end_time must be after start_time", map[string]any{
			"start_time": start,
			"end_time":   end,
		})
	}
	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
