package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var (
	created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	start   = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	end     = time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewUserRepository(mock)

	user := &domain.User{Name: "Hana", Email: "hana@example.com", PasswordHash: "hash", Role: domain.RoleMinorStaff}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role)")).
		WithArgs("Hana", "hana@example.com", "hash", domain.RoleMinorStaff).
		WillReturnRows(mock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))

	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, created, user.CreatedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=$1")).
		WithArgs("hana@example.com").
		WillReturnRows(mock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(int64(7), "Hana", "hana@example.com", "hash", domain.RoleMinorStaff, created))

	got, err := repo.GetByEmail(ctx, "hana@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMinorStaff, got.Role)
	assert.Equal(t, "Hana", got.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=$1")).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListOrdersByCreation(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY created_at ASC")).
		WillReturnRows(mock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow(int64(1), "Admin", "a@example.com", "h", domain.RoleAdmin, created).
			AddRow(int64(2), "Ken", "k@example.com", "h", domain.RoleStaff, created.Add(time.Hour)))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, domain.RoleStaff, users[1].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=$1")).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 3), pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash=$1 WHERE id=$2")).
		WithArgs("new-hash", int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 4, "new-hash"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRequestRepository_ListFiltersByUserAndStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewShiftRequestRepository(mock)
	userID := int64(5)

	mock.ExpectQuery(`SELECT (.+) FROM shift_requests sr JOIN users u ON u.id = sr.user_id WHERE sr.user_id = \$1 AND sr.status IN \(\$2\) ORDER BY sr.created_at DESC`).
		WithArgs(userID, domain.RequestStatusPending).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "start_time", "end_time", "status", "created_at"}).
			AddRow(int64(10), userID, "Ken", start, end, domain.RequestStatusPending, created))

	reqs, err := repo.List(context.Background(), RequestFilter{
		UserID:   &userID,
		Statuses: []domain.RequestStatus{domain.RequestStatusPending},
	})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Ken", reqs[0].UserName)
	assert.True(t, reqs[0].IsPending())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRequestRepository_UpdateWindowRequiresPending(t *testing.T) {
	mock := newMock(t)
	repo := NewShiftRequestRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE shift_requests SET start_time=$1, end_time=$2")).
		WithArgs(start, end, int64(10), domain.RequestStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateWindow(context.Background(), 10, start, end)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRequestRepository_DeleteIfPending(t *testing.T) {
	mock := newMock(t)
	repo := NewShiftRequestRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shift_requests WHERE id=$1 AND status=$2")).
		WithArgs(int64(10), domain.RequestStatusPending).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shift_requests WHERE id=$1 AND status=$2")).
		WithArgs(int64(11), domain.RequestStatusPending).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.DeleteIfPending(context.Background(), 10))
	assert.ErrorIs(t, repo.DeleteIfPending(context.Background(), 11), pgx.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRequestRepository_BulkApprove(t *testing.T) {
	mock := newMock(t)
	repo := NewShiftRequestRepository(mock)
	ids := []int64{1, 2, 3}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ANY($1) AND status=$2")).
		WithArgs(ids, domain.RequestStatusPending).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "start_time", "end_time", "status", "created_at"}).
			AddRow(int64(1), int64(5), start, end, domain.RequestStatusPending, created).
			AddRow(int64(3), int64(6), start, end, domain.RequestStatusPending, created))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shift_requests SET status=$1")).
		WithArgs(domain.RequestStatusApproved, []int64{1, 3}, domain.RequestStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	pending, err := repo.ListPendingForUpdate(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	n, err := repo.ApprovePending(context.Background(), []int64{pending[0].ID, pending[1].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepository_CreateBatch(t *testing.T) {
	mock := newMock(t)
	repo := NewShiftRepository(mock)
	later := start.Add(24 * time.Hour)

	mock.ExpectExec(`INSERT INTO shifts \(user_id,start_time,end_time\) VALUES`).
		WithArgs(int64(1), start, end, int64(2), later, later.Add(4*time.Hour)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	n, err := repo.CreateBatch(context.Background(), []domain.Shift{
		{UserID: 1, StartTime: start, EndTime: end},
		{UserID: 2, StartTime: later, EndTime: later.Add(4 * time.Hour)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepository_CreateBatchEmpty(t *testing.T) {
	mock := newMock(t)
	n, err := NewShiftRepository(mock).CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepository_ListWithinRange(t *testing.T) {
	mock := newMock(t)
	repo := NewShiftRepository(mock)
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM shifts s JOIN users u ON u.id = s.user_id WHERE s.start_time >= \$1 AND s.start_time < \$2 ORDER BY s.start_time ASC`).
		WithArgs(from, to).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "start_time", "end_time", "created_at"}).
			AddRow(int64(1), int64(2), "Ken", start, end, created))

	shifts, err := repo.List(context.Background(), ShiftFilter{StartFrom: &from, StartBefore: &to})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "Ken", shifts[0].UserName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepository_GetValidByHash(t *testing.T) {
	mock := newMock(t)
	repo := NewPasswordResetRepository(mock)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE token_hash=$1 AND expires_at > $2")).
		WithArgs("abc", now).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at"}).
			AddRow(int64(1), int64(2), "abc", now.Add(time.Hour), now))

	token, err := repo.GetValidByHash(context.Background(), "abc", now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), token.UserID)
	assert.False(t, token.Expired(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_CommitsOnSuccess(t *testing.T) {
	mock := newMock(t)
	tx := NewTransactor(mock, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM shifts WHERE id=$1")).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := tx.WithTx(context.Background(), func(repos Repositories) error {
		return repos.Shifts.Delete(context.Background(), 1)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	mock := newMock(t)
	tx := NewTransactor(mock, zap.NewNop())
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tx.WithTx(context.Background(), func(Repositories) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnPanic(t *testing.T) {
	mock := newMock(t)
	tx := NewTransactor(mock, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tx.WithTx(context.Background(), func(Repositories) error { panic("kaboom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}
