package commands

import (
	"context"
	"fmt"
	"log/slog"

	"parkspot/internal/domain/spot"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/usecase/shared"
)

type SpotCommands interface {
	// ReleaseMaintenance returns a spot under maintenance to service.
	ReleaseMaintenance(ctx context.Context, spotID string) (*queries.SpotView, error)
}

type spotUseCaseImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	events shared.EventPublisher
}

func NewSpotUseCase(uow shared.UnitOfWork, clk clock.Clock, events shared.EventPublisher) SpotCommands {
	return &spotUseCaseImpl{uow: uow, clock: clk, events: events}
}

func (uc *spotUseCaseImpl) ReleaseMaintenance(ctx context.Context, spotID string) (*queries.SpotView, error) {
	var released *spot.Spot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Spots().Get(ctx, spotID)
		if err != nil {
			return err
		}
		// reserved -> available is also a legal edge, but it belongs to the lifecycle manager.
		if s.Status() != spot.StatusMaintenance {
			return errs.Mark(errs.Newf("spot %s is %s, not under maintenance", spotID, s.Status()), errs.ErrInvalidTransition)
		}
		released, err = tx.Spots().SetStatus(ctx, spotID, spot.StatusAvailable)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("spot released from maintenance", "spot_id", spotID)
	if uc.events != nil {
		ev := shared.LifecycleEvent{
			Type:       shared.EventSpotReleased,
			SpotID:     spotID,
			SpotStatus: spot.StatusAvailable.String(),
			OccurredAt: uc.clock.Now(),
		}
		if err := uc.events.Publish(ctx, ev); err != nil {
			slog.Warn("failed to publish spot event", "spot_id", spotID, "error", err)
		}
	}
	return queries.ToSpotView(released), nil
}

// SeedPlan describes the fleet created on first boot.
type SeedPlan struct {
	Levels          []string
	Sections        []string
	SpotsPerSection int
	Maintenance     []string
}

// UnmatchedMaintenance lists maintenance ids that name no spot in the plan.
func (p SeedPlan) UnmatchedMaintenance() []string {
	var out []string
	for _, id := range p.Maintenance {
		if !p.generates(id) {
			out = append(out, id)
		}
	}
	return out
}

func (p SeedPlan) generates(id string) bool {
	for _, lvl := range p.Levels {
		for _, sec := range p.Sections {
			for i := 1; i <= p.SpotsPerSection; i++ {
				if id == spotID(lvl, sec, i) {
					return true
				}
			}
		}
	}
	return false
}

func spotID(level, section string, n int) string {
	return fmt.Sprintf("%s%s-%d", level, section, n)
}

type Provisioner interface {
	// SeedIfEmpty creates the plan's spots when the store holds none and
	// returns how many were created.
	SeedIfEmpty(ctx context.Context, plan SeedPlan) (int, error)
}

type provisionerImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewProvisioner(uow shared.UnitOfWork, clk clock.Clock) Provisioner {
	return &provisionerImpl{uow: uow, clock: clk}
}

func (p *provisionerImpl) SeedIfEmpty(ctx context.Context, plan SeedPlan) (int, error) {
	maintenance := make(map[string]bool, len(plan.Maintenance))
	for _, id := range plan.Maintenance {
		maintenance[id] = true
	}

	created := 0
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = 0
		n, err := tx.Spots().Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		now := p.clock.Now()
		for _, lvl := range plan.Levels {
			for _, sec := range plan.Sections {
				for i := 1; i <= plan.SpotsPerSection; i++ {
					id := spotID(lvl, sec, i)
					status := spot.StatusAvailable
					if maintenance[id] {
						status = spot.StatusMaintenance
					}
					s, err := spot.NewSpot(id, lvl, sec, status, now)
					if err != nil {
						return err
					}
					if err = tx.Spots().Create(ctx, s); err != nil {
						return err
					}
					created++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		slog.Info("provisioned parking spots", "count", created)
		for _, id := range plan.UnmatchedMaintenance() {
			slog.Warn("maintenance spot not in seed plan", "spot_id", id)
		}
	}
	return created, nil
}
