package memstore

import (
	"context"
	"sort"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/pkg/errs"
)

type reservationRepo struct {
	tx *memTx
}

func (r *reservationRepo) Create(_ context.Context, draft reservation.Draft) (*reservation.Reservation, error) {
	if err := r.tx.writable(); err != nil {
		return nil, err
	}
	if _, exists := r.tx.reservation(draft.ID); exists {
		return nil, errs.Mark(errs.Newf("reservation %s already exists", draft.ID), errs.ErrValidation)
	}
	if open := r.findOpen(draft.SpotID); open != nil {
		return nil, errs.Mark(
			errs.Newf("spot %s already held by reservation %s", draft.SpotID, open.ID()),
			errs.ErrSpotUnavailable,
		)
	}

	res, err := reservation.NewReservation(draft)
	if err != nil {
		return nil, err
	}
	r.tx.reservations[res.ID()] = res
	r.tx.newRes = append(r.tx.newRes, res.ID())
	return res.Clone(), nil
}

func (r *reservationRepo) Get(_ context.Context, id string) (*reservation.Reservation, error) {
	res, ok := r.tx.reservation(id)
	if !ok {
		return nil, errs.Mark(errs.Newf("reservation %s not found", id), errs.ErrNotFound)
	}
	return res.Clone(), nil
}

func (r *reservationRepo) Update(_ context.Context, id string, patch reservation.Patch) (*reservation.Reservation, error) {
	if err := r.tx.writable(); err != nil {
		return nil, err
	}
	cur, ok := r.tx.reservation(id)
	if !ok {
		return nil, errs.Mark(errs.Newf("reservation %s not found", id), errs.ErrNotFound)
	}
	next := cur.Clone()
	if err := next.Apply(patch); err != nil {
		return nil, err
	}
	r.tx.reservations[id] = next
	return next.Clone(), nil
}

// ListByUser returns the user's history, newest first.
func (r *reservationRepo) ListByUser(_ context.Context, userID string) ([]*reservation.Reservation, error) {
	out := r.filter(func(res *reservation.Reservation) bool { return res.UserID() == userID })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReservationTime().After(out[j].ReservationTime())
	})
	return out, nil
}

// ListByStatus returns matches oldest first.
func (r *reservationRepo) ListByStatus(_ context.Context, status reservation.Status) ([]*reservation.Reservation, error) {
	out := r.filter(func(res *reservation.Reservation) bool { return res.Status() == status })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReservationTime().Before(out[j].ReservationTime())
	})
	return out, nil
}

func (r *reservationRepo) FindOpenBySpot(_ context.Context, spotID string) (*reservation.Reservation, error) {
	open := r.findOpen(spotID)
	if open == nil {
		return nil, errs.Mark(errs.Newf("no open reservation on spot %s", spotID), errs.ErrNotFound)
	}
	return open.Clone(), nil
}

func (r *reservationRepo) findOpen(spotID string) *reservation.Reservation {
	for _, id := range r.tx.reservationIDs() {
		res, _ := r.tx.reservation(id)
		if res.SpotID() == spotID && res.Status().IsOpen() {
			return res
		}
	}
	return nil
}

func (r *reservationRepo) filter(keep func(*reservation.Reservation) bool) []*reservation.Reservation {
	out := make([]*reservation.Reservation, 0)
	for _, id := range r.tx.reservationIDs() {
		res, _ := r.tx.reservation(id)
		if keep(res) {
			out = append(out, res.Clone())
		}
	}
	return out
}
