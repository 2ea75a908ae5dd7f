package shared

import (
	"context"
	"time"
)

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationActivated EventType = "reservation.activated"
	EventReservationCompleted EventType = "reservation.completed"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventReservationExpired   EventType = "reservation.expired"
	EventSpotReleased         EventType = "spot.released"
)

// LifecycleEvent describes a transition that has already been committed.
type LifecycleEvent struct {
	Type              EventType `json:"type"`
	ReservationID     string    `json:"reservation_id,omitempty"`
	SpotID            string    `json:"spot_id"`
	UserID            string    `json:"user_id,omitempty"`
	ReservationStatus string    `json:"reservation_status,omitempty"`
	SpotStatus        string    `json:"spot_status"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event LifecycleEvent) error
}
