package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
)

// RequestFilter narrows request listings.
type RequestFilter struct {
	UserID   *int64
	Statuses []domain.RequestStatus
}

// ShiftRequestRepository encapsulates shift request persistence.
type ShiftRequestRepository interface {
	Create(ctx context.Context, req *domain.ShiftRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ShiftRequest, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.ShiftRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.ShiftRequest, error)
	UpdateWindow(ctx context.Context, id int64, start, end time.Time) error
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	Delete(ctx context.Context, id int64) error
	DeleteIfPending(ctx context.Context, id int64) error
	ListPendingForUpdate(ctx context.Context, ids []int64) ([]domain.ShiftRequest, error)
	ApprovePending(ctx context.Context, ids []int64) (int64, error)
}

type shiftRequestRepository struct {
	db DBTX
}

// NewShiftRequestRepository instantiates repository.
func NewShiftRequestRepository(db DBTX) ShiftRequestRepository {
	return &shiftRequestRepository{db: db}
}

func (r *shiftRequestRepository) Create(ctx context.Context, req *domain.ShiftRequest) error {
	const query = `
        INSERT INTO shift_requests (user_id, start_time, end_time, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		req.UserID,
		req.StartTime,
		req.EndTime,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *shiftRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ShiftRequest, error) {
	const query = `
        SELECT id, user_id, start_time, end_time, status, created_at
        FROM shift_requests WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *shiftRequestRepository) GetForUpdate(ctx context.Context, id int64) (*domain.ShiftRequest, error) {
	const query = `
        SELECT id, user_id, start_time, end_time, status, created_at
        FROM shift_requests WHERE id=$1 FOR UPDATE`
	return r.fetchSingle(ctx, query, id)
}

func (r *shiftRequestRepository) fetchSingle(ctx context.Context, query string, id int64) (*domain.ShiftRequest, error) {
	var req domain.ShiftRequest
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.StartTime,
		&req.EndTime,
		&req.Status,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *shiftRequestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.ShiftRequest, error) {
	qb := psql.Select("sr.id", "sr.user_id", "u.name", "sr.start_time", "sr.end_time", "sr.status", "sr.created_at").
		From("shift_requests sr").
		Join("users u ON u.id = sr.user_id")
	if filter.UserID != nil {
		qb = qb.Where(squirrel.Eq{"sr.user_id": *filter.UserID})
	}
	if len(filter.Statuses) > 0 {
		qb = qb.Where(squirrel.Eq{"sr.status": filter.Statuses})
	}
	query, args, err := qb.OrderBy("sr.created_at DESC", "sr.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build request list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shift requests: %w", err)
	}
	defer rows.Close()

	var result []domain.ShiftRequest
	for rows.Next() {
		var req domain.ShiftRequest
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.UserName,
			&req.StartTime,
			&req.EndTime,
			&req.Status,
			&req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shift request: %w", err)
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

// UpdateWindow replaces start/end of a request that is still pending.
func (r *shiftRequestRepository) UpdateWindow(ctx context.Context, id int64, start, end time.Time) error {
	const query = `
        UPDATE shift_requests SET start_time=$1, end_time=$2
        WHERE id=$3 AND status=$4`

	cmd, err := r.db.Exec(ctx, query, start, end, id, domain.RequestStatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE shift_requests SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRequestRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM shift_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteIfPending removes the request only while it is still pending.
func (r *shiftRequestRepository) DeleteIfPending(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM shift_requests WHERE id=$1 AND status=$2`, id, domain.RequestStatusPending)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListPendingForUpdate selects and locks the pending subset of ids.
func (r *shiftRequestRepository) ListPendingForUpdate(ctx context.Context, ids []int64) ([]domain.ShiftRequest, error) {
	const query = `
        SELECT id, user_id, start_time, end_time, status, created_at
        FROM shift_requests
        WHERE id = ANY($1) AND status=$2
        ORDER BY id
        FOR UPDATE`

	rows, err := r.db.Query(ctx, query, ids, domain.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("select pending requests: %w", err)
	}
	defer rows.Close()

	var result []domain.ShiftRequest
	for rows.Next() {
		var req domain.ShiftRequest
		if err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.StartTime,
			&req.EndTime,
			&req.Status,
			&req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pending request: %w", err)
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

// ApprovePending flips the pending requests among ids to approved.
func (r *shiftRequestRepository) ApprovePending(ctx context.Context, ids []int64) (int64, error) {
	const query = `
        UPDATE shift_requests SET status=$1
        WHERE id = ANY($2) AND status=$3`

	cmd, err := r.db.Exec(ctx, query, domain.RequestStatusApproved, ids, domain.RequestStatusPending)
	if err != nil {
		return 0, fmt.Errorf("approve requests: %w", err)
	}
	return cmd.RowsAffected(), nil
}
