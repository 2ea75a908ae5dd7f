package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/shared"

	"github.com/nats-io/nats.go"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

type NATSPublisher struct {
	conn   Conn
	prefix string
}

func NewNATSPublisher(conn Conn, subjectPrefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: strings.TrimSuffix(subjectPrefix, ".")}
}

// Connect dials NATS with reconnects enabled so a broker restart does not
// require restarting the service.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to connect to NATS")
	}
	return conn, nil
}

// Subject returns the subject an event of type t is published on, e.g.
// parking.reservation.created.
func (p *NATSPublisher) Subject(t shared.EventType) string {
	if p.prefix == "" {
		return string(t)
	}
	return p.prefix + "." + string(t)
}

func (p *NATSPublisher) Publish(ctx context.Context, event shared.LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to marshal lifecycle event")
	}

	subject := p.Subject(event.Type)
	slog.DebugContext(ctx, "Publishing event", "subject", subject, "reservation_id", event.ReservationID)

	if err := p.conn.Publish(subject, payload); err != nil {
		return errs.Wrapf(err, "failed to publish %s", subject)
	}
	return nil
}
