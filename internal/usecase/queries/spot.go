package queries

import (
	"context"
	"sort"

	"parkspot/internal/domain/spot"
	"parkspot/internal/usecase/shared"
)

type SpotQueries interface {
	// List returns every spot, or only those in status when it is non-nil.
	List(ctx context.Context, status *spot.Status) ([]*SpotView, error)
	Get(ctx context.Context, id string) (*SpotView, error)
	Availability(ctx context.Context) (*AvailabilityView, error)
}

type spotQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewSpotQueries(uow shared.UnitOfWork) SpotQueries {
	return &spotQueriesImpl{uow: uow}
}

func (q *spotQueriesImpl) List(ctx context.Context, status *spot.Status) ([]*SpotView, error) {
	spots, err := q.listAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*SpotView, 0, len(spots))
	for _, s := range spots {
		if status != nil && s.Status() != *status {
			continue
		}
		views = append(views, ToSpotView(s))
	}
	return views, nil
}

func (q *spotQueriesImpl) Get(ctx context.Context, id string) (*SpotView, error) {
	var view *SpotView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Spots().Get(ctx, id)
		if err != nil {
			return err
		}
		view = ToSpotView(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (q *spotQueriesImpl) Availability(ctx context.Context) (*AvailabilityView, error) {
	spots, err := q.listAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &AvailabilityView{ByStatus: emptyStatusCounts()}
	levels := map[string]*LevelAvailability{}
	for _, s := range spots {
		st := s.Status().String()
		out.Total++
		out.ByStatus[st]++

		lvl, ok := levels[s.Level()]
		if !ok {
			lvl = &LevelAvailability{Level: s.Level(), ByStatus: emptyStatusCounts()}
			levels[s.Level()] = lvl
		}
		lvl.Total++
		lvl.ByStatus[st]++
		if s.IsAvailable() {
			out.Available++
			lvl.Available++
		}
	}

	out.Levels = make([]LevelAvailability, 0, len(levels))
	for _, lvl := range levels {
		out.Levels = append(out.Levels, *lvl)
	}
	sort.Slice(out.Levels, func(i, j int) bool { return out.Levels[i].Level < out.Levels[j].Level })
	return out, nil
}

func (q *spotQueriesImpl) listAll(ctx context.Context) ([]*spot.Spot, error) {
	var spots []*spot.Spot
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		spots, err = tx.Spots().List(ctx)
		return err
	})
	return spots, err
}

func emptyStatusCounts() map[string]int {
	counts := make(map[string]int, 4)
	for _, st := range spot.AllStatuses() {
		counts[st.String()] = 0
	}
	return counts
}
