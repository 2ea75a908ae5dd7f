// Package memstore keeps spots and reservations in process memory. A single
// writer lock serializes units of work; each unit stages its writes and
// publishes them only when its callback returns nil.
package memstore

import (
	"context"
	"sync"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/domain/spot"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/shared"
)

var errReadOnly = errs.New("write attempted in read-only unit of work")

type Store struct {
	mu    sync.RWMutex
	clock clock.Clock

	spots     map[string]*spot.Spot
	spotOrder []string

	reservations map[string]*reservation.Reservation
	resOrder     []string
}

func New(clk clock.Clock) *Store {
	return &Store{
		clock:        clk,
		spots:        map[string]*spot.Spot{},
		reservations: map[string]*reservation.Reservation{},
	}
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newMemTx(s, false)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, newMemTx(s, true))
}

type memTx struct {
	store    *Store
	readOnly bool

	spots        map[string]*spot.Spot
	newSpots     []string
	reservations map[string]*reservation.Reservation
	newRes       []string
}

func newMemTx(s *Store, readOnly bool) *memTx {
	return &memTx{
		store:        s,
		readOnly:     readOnly,
		spots:        map[string]*spot.Spot{},
		reservations: map[string]*reservation.Reservation{},
	}
}

func (t *memTx) Spots() shared.SpotRepository {
	return &spotRepo{tx: t}
}

func (t *memTx) Reservations() shared.ReservationRepository {
	return &reservationRepo{tx: t}
}

func (t *memTx) commit() {
	s := t.store
	for id, sp := range t.spots {
		s.spots[id] = sp
	}
	s.spotOrder = append(s.spotOrder, t.newSpots...)
	for id, r := range t.reservations {
		s.reservations[id] = r
	}
	s.resOrder = append(s.resOrder, t.newRes...)
}

func (t *memTx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

// spot returns the staged version of id if any, else the committed one.
func (t *memTx) spot(id string) (*spot.Spot, bool) {
	if sp, ok := t.spots[id]; ok {
		return sp, true
	}
	sp, ok := t.store.spots[id]
	return sp, ok
}

func (t *memTx) reservation(id string) (*reservation.Reservation, bool) {
	if r, ok := t.reservations[id]; ok {
		return r, true
	}
	r, ok := t.store.reservations[id]
	return r, ok
}

func (t *memTx) spotIDs() []string {
	ids := make([]string, 0, len(t.store.spotOrder)+len(t.newSpots))
	ids = append(ids, t.store.spotOrder...)
	return append(ids, t.newSpots...)
}

func (t *memTx) reservationIDs() []string {
	ids := make([]string, 0, len(t.store.resOrder)+len(t.newRes))
	ids = append(ids, t.store.resOrder...)
	return append(ids, t.newRes...)
}

func copySpot(s *spot.Spot) *spot.Spot {
	c := *s
	return &c
}
