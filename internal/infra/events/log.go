package events

import (
	"context"
	"log/slog"

	"parkspot/internal/usecase/shared"
)

// LogPublisher records lifecycle events in the structured log. It is always
// part of the fan-out, so every transition leaves a trace even without NATS.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event shared.LifecycleEvent) error {
	p.logger.InfoContext(ctx, "lifecycle event",
		"type", string(event.Type),
		"reservation_id", event.ReservationID,
		"spot_id", event.SpotID,
		"user_id", event.UserID,
		"reservation_status", event.ReservationStatus,
		"spot_status", event.SpotStatus,
		"occurred_at", event.OccurredAt)
	return nil
}
