package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
)

// ShiftFilter narrows confirmed shift listings. StartFrom is inclusive, StartBefore exclusive.
type ShiftFilter struct {
	UserID      *int64
	StartFrom   *time.Time
	StartBefore *time.Time
}

// ShiftRepository encapsulates confirmed shift persistence.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) error
	CreateBatch(ctx context.Context, shifts []domain.Shift) (int64, error)
	Update(ctx context.Context, shift *domain.Shift) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error)
}

type shiftRepository struct {
	db DBTX
}

// NewShiftRepository instantiates repository.
func NewShiftRepository(db DBTX) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *domain.Shift) error {
	const query = `
        INSERT INTO shifts (user_id, start_time, end_time)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.db.QueryRow(ctx, query,
		shift.UserID,
		shift.StartTime,
		shift.EndTime,
	).Scan(&shift.ID, &shift.CreatedAt)
}

// CreateBatch inserts all shifts with a single parameterized statement.
func (r *shiftRepository) CreateBatch(ctx context.Context, shifts []domain.Shift) (int64, error) {
	if len(shifts) == 0 {
		return 0, nil
	}
	qb := psql.Insert("shifts").Columns("user_id", "start_time", "end_time")
	for _, shift := range shifts {
		qb = qb.Values(shift.UserID, shift.StartTime, shift.EndTime)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build shift batch insert: %w", err)
	}

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert shifts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *shiftRepository) Update(ctx context.Context, shift *domain.Shift) error {
	const query = `
        UPDATE shifts SET user_id=$1, start_time=$2, end_time=$3
        WHERE id=$4
        RETURNING created_at`

	return r.db.QueryRow(ctx, query,
		shift.UserID,
		shift.StartTime,
		shift.EndTime,
		shift.ID,
	).Scan(&shift.CreatedAt)
}

func (r *shiftRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM shifts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) List(ctx context.Context, filter ShiftFilter) ([]domain.Shift, error) {
	qb := psql.Select("s.id", "s.user_id", "u.name", "s.start_time", "s.end_time", "s.created_at").
		From("shifts s").
		Join("users u ON u.id = s.user_id")
	if filter.UserID != nil {
		qb = qb.Where(squirrel.Eq{"s.user_id": *filter.UserID})
	}
	if filter.StartFrom != nil {
		qb = qb.Where(squirrel.GtOrEq{"s.start_time": *filter.StartFrom})
	}
	if filter.StartBefore != nil {
		qb = qb.Where(squirrel.Lt{"s.start_time": *filter.StartBefore})
	}
	query, args, err := qb.OrderBy("s.start_time ASC", "s.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build shift list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var result []domain.Shift
	for rows.Next() {
		var shift domain.Shift
		if err := rows.Scan(
			&shift.ID,
			&shift.UserID,
			&shift.UserName,
			&shift.StartTime,
			&shift.EndTime,
			&shift.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		result = append(result, shift)
	}
	return result, rows.Err()
}
