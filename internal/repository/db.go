package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a DBTX that can open transactions.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type scanner interface {
	Scan(dest ...any) error
}

// Repositories bundles every repository bound to the same connection or transaction.
type Repositories struct {
	Users    UserRepository
	Requests ShiftRequestRepository
	Shifts   ShiftRepository
	Resets   PasswordResetRepository
}

// NewRepositories binds all repositories to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:    NewUserRepository(db),
		Requests: NewShiftRequestRepository(db),
		Shifts:   NewShiftRepository(db),
		Resets:   NewPasswordResetRepository(db),
	}
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithTx(ctx context.Context, fn func(Repositories) error) error
}

type pgTransactor struct {
	db     DB
	logger *zap.Logger
}

// NewTransactor returns a Transactor backed by db.
func NewTransactor(db DB, logger *zap.Logger) Transactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pgTransactor{db: db, logger: logger}
}

// WithTx commits when fn returns nil and rolls back on error or panic.
func (t *pgTransactor) WithTx(ctx context.Context, fn func(Repositories) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				t.logger.Error("failed to rollback transaction", zap.Error(rbErr))
			}
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				t.logger.Error("failed to rollback transaction", zap.Error(rbErr))
			}
			return
		}
		if cmErr := tx.Commit(ctx); cmErr != nil {
			err = fmt.Errorf("commit transaction: %w", cmErr)
		}
	}()
	return fn(NewRepositories(tx))
}
