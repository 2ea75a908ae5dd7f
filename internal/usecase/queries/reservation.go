package queries

import (
	"context"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/domain/user"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/shared"
)

type ReservationQueries interface {
	// GetByID hides reservations the actor does not own unless the actor is an operator.
	GetByID(ctx context.Context, actor user.Actor, id string) (*ReservationView, error)
	ListByUser(ctx context.Context, userID string) ([]*ReservationView, error)
	ListByStatus(ctx context.Context, status reservation.Status) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReservationQueries(uow shared.UnitOfWork, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{uow: uow, clock: clk}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id string) (*ReservationView, error) {
	var res *reservation.Reservation
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		res, err = tx.Reservations().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	owner := res.UserID() == actor.UserID
	if !owner && !actor.Role.AtLeast(user.RoleOperator) {
		return nil, errs.Mark(errs.Newf("reservation %s not found", id), errs.ErrNotFound)
	}
	view := ToReservationView(res, q.clock.Now())
	if !owner {
		view.AccessCode = ""
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID string) ([]*ReservationView, error) {
	return q.list(ctx, func(ctx context.Context, repo shared.ReservationRepository) ([]*reservation.Reservation, error) {
		return repo.ListByUser(ctx, userID)
	}, false)
}

// ListByStatus is the operator view; access codes are withheld.
func (q *reservationQueriesImpl) ListByStatus(ctx context.Context, status reservation.Status) ([]*ReservationView, error) {
	if !status.IsValid() {
		return nil, errs.Mark(errs.Newf("unknown reservation status %q", status), errs.ErrValidation)
	}
	return q.list(ctx, func(ctx context.Context, repo shared.ReservationRepository) ([]*reservation.Reservation, error) {
		return repo.ListByStatus(ctx, status)
	}, true)
}

func (q *reservationQueriesImpl) list(
	ctx context.Context,
	fetch func(ctx context.Context, repo shared.ReservationRepository) ([]*reservation.Reservation, error),
	redactCode bool,
) ([]*ReservationView, error) {
	var rows []*reservation.Reservation
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		rows, err = fetch(ctx, tx.Reservations())
		return err
	})
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	views := make([]*ReservationView, 0, len(rows))
	for _, r := range rows {
		v := ToReservationView(r, now)
		if redactCode {
			v.AccessCode = ""
		}
		views = append(views, v)
	}
	return views, nil
}
