package shared

import (
	"context"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/domain/spot"
)

type UnitOfWork interface {
	// Within: atomic read-modify-write over spots and reservations. Nothing is
	// committed unless fn returns nil.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent snapshot for multi-entity reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Spots() SpotRepository
	Reservations() ReservationRepository
}

type SpotRepository interface {
	Create(ctx context.Context, s *spot.Spot) error
	Get(ctx context.Context, id string) (*spot.Spot, error)
	List(ctx context.Context) ([]*spot.Spot, error)
	// SetStatus enforces the spot transition table.
	SetStatus(ctx context.Context, id string, status spot.Status) (*spot.Spot, error)
	Count(ctx context.Context) (int, error)
}

type ReservationRepository interface {
	// Create fails with ErrSpotUnavailable when the spot already has an open reservation.
	Create(ctx context.Context, draft reservation.Draft) (*reservation.Reservation, error)
	Get(ctx context.Context, id string) (*reservation.Reservation, error)
	Update(ctx context.Context, id string, patch reservation.Patch) (*reservation.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]*reservation.Reservation, error)
	ListByStatus(ctx context.Context, status reservation.Status) ([]*reservation.Reservation, error)
	// FindOpenBySpot returns the pending or active reservation on spotID, or ErrNotFound.
	FindOpenBySpot(ctx context.Context, spotID string) (*reservation.Reservation, error)
}
