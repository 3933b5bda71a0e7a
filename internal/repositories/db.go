package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fairway/internal/common"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type scanner interface {
	Scan(dest ...any) error
}

// TxRepositories are the repositories bound to a single transaction.
type TxRepositories struct {
	Slots    TeeTimeSlotRepository
	Bookings BookingRepository
	Tenants  TenantRepository
	Courses  CourseRepository
	Users    UserRepository
}

func newTxRepositories(db DBTX) TxRepositories {
	return TxRepositories{
		Slots:    NewTeeTimeSlotRepo(db),
		Bookings: NewBookingRepo(db),
		Tenants:  NewTenantRepo(db),
		Courses:  NewCourseRepo(db),
		Users:    NewUserRepo(db),
	}
}

// Transactor runs fn inside one database transaction. fn's error rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type pgTransactor struct {
	db          TxBeginner
	lockTimeout time.Duration
}

func NewTransactor(db TxBeginner, lockTimeout time.Duration) Transactor {
	return &pgTransactor{db: db, lockTimeout: lockTimeout}
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return MapError(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if t.lockTimeout > 0 {
		setting := fmt.Sprintf("%dms", t.lockTimeout.Milliseconds())
		if _, err = tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, setting); err != nil {
			return MapError(fmt.Errorf("set lock timeout: %w", err))
		}
	}

	if err = fn(ctx, newTxRepositories(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return MapError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Postgres error codes the booking core reacts to.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// MapError translates storage failures into the domain error kinds.
// Errors that are already domain errors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &common.AppError{Kind: common.ErrConflict, Message: "record already exists", Err: err}
		case pgForeignKeyViolation:
			return &common.AppError{Kind: common.ErrConflict, Message: "record is still referenced", Err: err}
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return common.Retryable(err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return common.Retryable(err)
	}
	return err
}

// notFoundOr maps pgx.ErrNoRows to a NotFound error for resource.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound(resource)
	}
	return MapError(err)
}
