package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"parkspot/internal/infra/repository"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
	pgErrCodeLockNotAvailable     = "55P03"
)

var errMaxRetriesExceeded = errs.New("transaction failed after max retries")

// RetryPolicy bounds how often a write unit is replayed after a transient
// conflict. Waits double per attempt with up to 20% jitter.
type RetryPolicy struct {
	MaxRetries int
	BaseWait   time.Duration
	// LockTimeout caps how long one statement waits on a contended spot row.
	LockTimeout time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:  3,
	BaseWait:    100 * time.Millisecond,
	LockTimeout: 5 * time.Second,
}

type PostgresUoW struct {
	pool   *pgxpool.Pool
	clock  clock.Clock
	logger *slog.Logger
	retry  RetryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger, retry RetryPolicy) shared.UnitOfWork {
	return &PostgresUoW{
		pool:   pool,
		clock:  clk,
		logger: logger.With("component", "postgres_uow"),
		retry:  retry,
	}
}

// Within runs fn in a ReadCommitted transaction with row locks on every point
// read; the spot row is the serialization point for competing reservations.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	var err error
	for attempt := 0; ; attempt++ {
		err = pgx.BeginTxFunc(ctx, u.pool, opts, func(pgxTx pgx.Tx) error {
			if u.retry.LockTimeout > 0 {
				stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", u.retry.LockTimeout.Milliseconds())
				if _, err := pgxTx.Exec(ctx, stmt); err != nil {
					return errs.Wrap(err, "failed to set lock timeout")
				}
			}
			return fn(ctx, newPgTx(pgxTx, u.clock, true))
		})
		if err == nil || !isRetryableError(err) {
			return err
		}
		if attempt >= u.retry.MaxRetries {
			u.logger.Error("transaction failed after max retries", "attempts", attempt+1, "error", err)
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		wait := calculateBackoff(attempt, u.retry.BaseWait)
		u.logger.Warn("retrying transaction after transient conflict",
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// WithinReadOnly gives fn a RepeatableRead snapshot so counts and lists agree.
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return pgx.BeginTxFunc(ctx, u.pool, opts, func(pgxTx pgx.Tx) error {
		return fn(ctx, newPgTx(pgxTx, u.clock, false))
	})
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	wait := time.Duration(1<<attempt) * base
	if jitter := int64(wait / 5); jitter > 0 {
		wait += time.Duration(rand.Int64N(jitter))
	}
	return wait
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected, pgErrCodeLockNotAvailable:
		return true
	default:
		return false
	}
}

// pgTx hands out repositories bound to one transaction.
type pgTx struct {
	spots        shared.SpotRepository
	reservations shared.ReservationRepository
}

func newPgTx(dbtx repository.DBTX, clk clock.Clock, forUpdate bool) *pgTx {
	return &pgTx{
		spots:        repository.NewSpotRepository(dbtx, clk, forUpdate),
		reservations: repository.NewReservationRepository(dbtx, forUpdate),
	}
}

func (t *pgTx) Spots() shared.SpotRepository {
	return t.spots
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	return t.reservations
}
