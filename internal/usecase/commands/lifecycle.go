package commands

import (
	"context"
	"log/slog"
	"time"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/domain/spot"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/pkg/idgen"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"
)

type LifecycleOptions struct {
	AccessWindowMinutes int
}

// LifecycleCommands drives the reservation/spot pair through its states.
// Each call is a single atomic unit: either both records change or neither does.
type LifecycleCommands interface {
	Reserve(ctx context.Context, spotID, userID string, driver reservation.DriverInfo) (*queries.ReservationView, error)
	ConfirmEntry(ctx context.Context, reservationID, code string) (*queries.ReservationView, error)
	EndSession(ctx context.Context, reservationID string) (*queries.ReservationView, error)
	Cancel(ctx context.Context, reservationID string) (*queries.ReservationView, error)
	ExpireStalePending(ctx context.Context) ([]*queries.ReservationView, error)
}

type lifecycleManager struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	ids    idgen.Generator
	events shared.EventPublisher
	opts   LifecycleOptions
}

func NewLifecycleManager(
	uow shared.UnitOfWork,
	clk clock.Clock,
	ids idgen.Generator,
	events shared.EventPublisher,
	opts LifecycleOptions,
) LifecycleCommands {
	if opts.AccessWindowMinutes <= 0 {
		opts.AccessWindowMinutes = reservation.DefaultTimeToAccessMin
	}
	return &lifecycleManager{uow: uow, clock: clk, ids: ids, events: events, opts: opts}
}

func (m *lifecycleManager) Reserve(
	ctx context.Context,
	spotID, userID string,
	driver reservation.DriverInfo,
) (*queries.ReservationView, error) {
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	now := m.clock.Now()
	draft := reservation.Draft{
		ID:              m.ids.NewID(),
		SpotID:          spotID,
		UserID:          userID,
		Driver:          driver,
		AccessCode:      m.ids.NewAccessCode(),
		ReservationTime: now,
		TimeToAccessMin: m.opts.AccessWindowMinutes,
	}

	var created *reservation.Reservation
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Spots().Get(ctx, spotID)
		if err != nil {
			return err
		}
		if !s.IsAvailable() {
			return errs.Mark(errs.Newf("spot %s is %s", spotID, s.Status()), errs.ErrSpotUnavailable)
		}
		if _, err = tx.Spots().SetStatus(ctx, spotID, spot.StatusReserved); err != nil {
			if errs.Is(err, errs.ErrInvalidTransition) {
				return errs.Mark(err, errs.ErrSpotUnavailable)
			}
			return err
		}
		created, err = tx.Reservations().Create(ctx, draft)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation created",
		"reservation_id", created.ID(),
		"spot_id", spotID,
		"user_id", userID,
		"access_deadline", created.AccessDeadline())
	m.publish(ctx, shared.EventReservationCreated, created, spot.StatusReserved, now)
	return queries.ToReservationView(created, now), nil
}

func (m *lifecycleManager) ConfirmEntry(ctx context.Context, reservationID, code string) (*queries.ReservationView, error) {
	now := m.clock.Now()

	var (
		updated    *reservation.Reservation
		expiredErr error
	)
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expiredErr = nil
		res, err := tx.Reservations().Get(ctx, reservationID)
		if err != nil {
			return err
		}

		patch, err := res.Activate(now, code)
		if errs.Is(err, errs.ErrExpired) {
			// The overdue reservation is cancelled and its spot freed in this same
			// unit, then Expired is reported to the caller after commit.
			updated, err = expire(ctx, tx, res, now)
			if err != nil {
				return err
			}
			expiredErr = errs.Mark(errs.Newf("reservation %s expired at %s", reservationID, res.AccessDeadline().Format(time.RFC3339)), errs.ErrExpired)
			return nil
		}
		if err != nil {
			return err
		}

		if updated, err = tx.Reservations().Update(ctx, reservationID, patch); err != nil {
			return err
		}
		_, err = tx.Spots().SetStatus(ctx, res.SpotID(), spot.StatusOccupied)
		return err
	})
	if err != nil {
		return nil, err
	}

	if expiredErr != nil {
		slog.Info("reservation expired on entry attempt", "reservation_id", reservationID, "spot_id", updated.SpotID())
		m.publish(ctx, shared.EventReservationExpired, updated, spot.StatusAvailable, now)
		return nil, expiredErr
	}

	slog.Info("reservation activated", "reservation_id", reservationID, "spot_id", updated.SpotID())
	m.publish(ctx, shared.EventReservationActivated, updated, spot.StatusOccupied, now)
	return queries.ToReservationView(updated, now), nil
}

func (m *lifecycleManager) EndSession(ctx context.Context, reservationID string) (*queries.ReservationView, error) {
	now := m.clock.Now()

	var updated *reservation.Reservation
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().Get(ctx, reservationID)
		if err != nil {
			return err
		}
		patch, err := res.Complete(now)
		if err != nil {
			return err
		}
		if updated, err = tx.Reservations().Update(ctx, reservationID, patch); err != nil {
			return err
		}
		_, err = tx.Spots().SetStatus(ctx, res.SpotID(), spot.StatusAvailable)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("parking session ended", "reservation_id", reservationID, "spot_id", updated.SpotID())
	m.publish(ctx, shared.EventReservationCompleted, updated, spot.StatusAvailable, now)
	return queries.ToReservationView(updated, now), nil
}

func (m *lifecycleManager) Cancel(ctx context.Context, reservationID string) (*queries.ReservationView, error) {
	now := m.clock.Now()

	var updated *reservation.Reservation
	err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().Get(ctx, reservationID)
		if err != nil {
			return err
		}
		patch, err := res.Cancel(now)
		if err != nil {
			return err
		}
		if updated, err = tx.Reservations().Update(ctx, reservationID, patch); err != nil {
			return err
		}
		_, err = tx.Spots().SetStatus(ctx, res.SpotID(), spot.StatusAvailable)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("reservation cancelled", "reservation_id", reservationID, "spot_id", updated.SpotID())
	m.publish(ctx, shared.EventReservationCancelled, updated, spot.StatusAvailable, now)
	return queries.ToReservationView(updated, now), nil
}

// ExpireStalePending cancels every overdue pending reservation. Candidates are
// listed from a snapshot and each one is re-checked inside its own unit, so a
// reservation confirmed in between is left alone. Running it twice in a row
// expires nothing the second time.
func (m *lifecycleManager) ExpireStalePending(ctx context.Context) ([]*queries.ReservationView, error) {
	now := m.clock.Now()

	var candidates []*reservation.Reservation
	err := m.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		candidates, err = tx.Reservations().ListByStatus(ctx, reservation.StatusPending)
		return err
	})
	if err != nil {
		return nil, err
	}

	expired := make([]*queries.ReservationView, 0)
	for _, c := range candidates {
		if !c.IsExpired(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return expired, err
		}

		var updated *reservation.Reservation
		err := m.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			updated = nil
			res, err := tx.Reservations().Get(ctx, c.ID())
			if err != nil {
				return err
			}
			if !res.IsExpired(now) {
				return nil
			}
			updated, err = expire(ctx, tx, res, now)
			return err
		})
		if err != nil {
			slog.Warn("failed to expire reservation",
				"reservation_id", c.ID(),
				"spot_id", c.SpotID(),
				"error", err)
			continue
		}
		if updated == nil {
			continue
		}

		m.publish(ctx, shared.EventReservationExpired, updated, spot.StatusAvailable, now)
		expired = append(expired, queries.ToReservationView(updated, now))
	}

	if len(expired) > 0 {
		slog.Info("expired stale reservations", "count", len(expired))
	}
	return expired, nil
}

func expire(ctx context.Context, tx shared.Tx, res *reservation.Reservation, now time.Time) (*reservation.Reservation, error) {
	patch, err := res.Expire(now)
	if err != nil {
		return nil, err
	}
	updated, err := tx.Reservations().Update(ctx, res.ID(), patch)
	if err != nil {
		return nil, err
	}
	if _, err = tx.Spots().SetStatus(ctx, res.SpotID(), spot.StatusAvailable); err != nil {
		return nil, err
	}
	return updated, nil
}

// publish runs after commit. A failed publish is logged and swallowed since the
// transition it describes has already happened.
func (m *lifecycleManager) publish(
	ctx context.Context,
	typ shared.EventType,
	res *reservation.Reservation,
	spotStatus spot.Status,
	at time.Time,
) {
	if m.events == nil {
		return
	}
	ev := shared.LifecycleEvent{
		Type:              typ,
		ReservationID:     res.ID(),
		SpotID:            res.SpotID(),
		UserID:            res.UserID(),
		ReservationStatus: res.Status().String(),
		SpotStatus:        spotStatus.String(),
		OccurredAt:        at,
	}
	if err := m.events.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish lifecycle event",
			"event", typ,
			"reservation_id", res.ID(),
			"error", err)
	}
}
