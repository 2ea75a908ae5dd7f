package memstore

import (
	"context"

	"parkspot/internal/domain/spot"
	"parkspot/internal/pkg/errs"
)

type spotRepo struct {
	tx *memTx
}

func (r *spotRepo) Create(_ context.Context, s *spot.Spot) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.spot(s.ID()); exists {
		return errs.Mark(errs.Newf("spot %s already exists", s.ID()), errs.ErrValidation)
	}
	r.tx.spots[s.ID()] = copySpot(s)
	r.tx.newSpots = append(r.tx.newSpots, s.ID())
	return nil
}

func (r *spotRepo) Get(_ context.Context, id string) (*spot.Spot, error) {
	s, ok := r.tx.spot(id)
	if !ok {
		return nil, errs.Mark(errs.Newf("spot %s not found", id), errs.ErrNotFound)
	}
	return copySpot(s), nil
}

func (r *spotRepo) List(_ context.Context) ([]*spot.Spot, error) {
	ids := r.tx.spotIDs()
	out := make([]*spot.Spot, 0, len(ids))
	for _, id := range ids {
		s, _ := r.tx.spot(id)
		out = append(out, copySpot(s))
	}
	return out, nil
}

func (r *spotRepo) SetStatus(_ context.Context, id string, status spot.Status) (*spot.Spot, error) {
	if err := r.tx.writable(); err != nil {
		return nil, err
	}
	cur, ok := r.tx.spot(id)
	if !ok {
		return nil, errs.Mark(errs.Newf("spot %s not found", id), errs.ErrNotFound)
	}
	next := copySpot(cur)
	if err := next.TransitionTo(status, r.tx.store.clock.Now()); err != nil {
		return nil, err
	}
	r.tx.spots[id] = next
	return copySpot(next), nil
}

func (r *spotRepo) Count(_ context.Context) (int, error) {
	return len(r.tx.store.spotOrder) + len(r.tx.newSpots), nil
}
