package commands

import (
	"context"

	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"
)

// AccessCommands serves the garage gate, which knows the spot but not the reservation.
type AccessCommands interface {
	Verify(ctx context.Context, spotID, code string) (*queries.ReservationView, error)
}

type accessVerifier struct {
	uow       shared.UnitOfWork
	lifecycle LifecycleCommands
}

func NewAccessVerifier(uow shared.UnitOfWork, lifecycle LifecycleCommands) AccessCommands {
	return &accessVerifier{uow: uow, lifecycle: lifecycle}
}

func (v *accessVerifier) Verify(ctx context.Context, spotID, code string) (*queries.ReservationView, error) {
	var reservationID string
	err := v.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, err := tx.Reservations().FindOpenBySpot(ctx, spotID)
		if err != nil {
			return err
		}
		reservationID = res.ID()
		return nil
	})
	if errs.Is(err, errs.ErrNotFound) {
		return nil, errs.Mark(errs.Newf("no open reservation on spot %s", spotID), errs.ErrNoReservation)
	}
	if err != nil {
		return nil, err
	}

	return v.lifecycle.ConfirmEntry(ctx, reservationID, code)
}
