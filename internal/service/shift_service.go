package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/repository"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

// ShiftInput describes an admin-authored confirmed shift.
type ShiftInput struct {
	UserID    int64
	StartTime time.Time
	EndTime   time.Time
}

// ShiftService manages confirmed shifts.
type ShiftService struct {
	users  repository.UserRepository
	shifts repository.ShiftRepository
	logger *zap.Logger
}

// NewShiftService constructs the service.
func NewShiftService(repos repository.Repositories, logger *zap.Logger) *ShiftService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShiftService{users: repos.Users, shifts: repos.Shifts, logger: logger}
}

// CreateShift records a confirmed shift for an existing user.
func (s *ShiftService) CreateShift(ctx context.Context, input ShiftInput) (*domain.Shift, error) {
	user, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	shift := &domain.Shift{UserID: input.UserID, UserName: user.Name, StartTime: input.StartTime, EndTime: input.EndTime}
	if err := s.shifts.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// UpdateShift replaces assignee and window of a confirmed shift.
func (s *ShiftService) UpdateShift(ctx context.Context, id int64, input ShiftInput) (*domain.Shift, error) {
	user, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	shift := &domain.Shift{ID: id, UserID: input.UserID, UserName: user.Name, StartTime: input.StartTime, EndTime: input.EndTime}
	if err := s.shifts.Update(ctx, shift); err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("shift", map[string]any{"id": id})
		}
		return nil, err
	}
	return shift, nil
}

// DeleteShift removes a confirmed shift.
func (s *ShiftService) DeleteShift(ctx context.Context, id int64) error {
	if err := s.shifts.Delete(ctx, id); err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewNotFound("shift", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// ListAll returns every confirmed shift ordered by start time.
func (s *ShiftService) ListAll(ctx context.Context) ([]domain.Shift, error) {
	return s.shifts.List(ctx, repository.ShiftFilter{})
}

// ListMine returns the caller's confirmed shifts ordered by start time.
func (s *ShiftService) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Shift, error) {
	userID := actor.UserID
	return s.shifts.List(ctx, repository.ShiftFilter{UserID: &userID})
}

func (s *ShiftService) validate(ctx context.Context, input ShiftInput) (*domain.User, error) {
	if input.UserID <= 0 {
		return nil, apperrors.NewValidationError("user_id is required", nil)
	}
	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": input.UserID})
		}
		return nil, err
	}
	return user, nil
}
