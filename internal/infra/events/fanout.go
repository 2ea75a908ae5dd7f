package events

import (
	"context"

	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/shared"
)

// FanOut delivers each event to every publisher, continuing past failures.
type FanOut struct {
	publishers []shared.EventPublisher
}

func NewFanOut(publishers ...shared.EventPublisher) *FanOut {
	ps := make([]shared.EventPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &FanOut{publishers: ps}
}

func (f *FanOut) Publish(ctx context.Context, event shared.LifecycleEvent) error {
	var combined error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			combined = errs.CombineErrors(combined, err)
		}
	}
	return combined
}
