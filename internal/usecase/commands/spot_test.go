//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"parkspot/internal/domain/spot"
	"parkspot/internal/infra/memstore"
	"parkspot/internal/pkg/clock"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/shared"
	"parkspot/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseMaintenance(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		from  spot.Status
		errIs error
	}{
		{name: "maintenance to available", from: spot.StatusMaintenance},
		{name: "available stays put", from: spot.StatusAvailable, errIs: errs.ErrInvalidTransition},
		{name: "reserved is not maintenance", from: spot.StatusReserved, errIs: errs.ErrInvalidTransition},
		{name: "occupied is not maintenance", from: spot.StatusOccupied, errIs: errs.ErrInvalidTransition},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t, builder.NewSpotBuilder().With(func(b *builder.SpotBuilder) { b.Status = c.from }).BuildDomain())
			uc := commands.NewSpotUseCase(f.store, f.clock, f.events)

			view, err := uc.ReleaseMaintenance(ctx, "4")
			if c.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, c.errIs))
				assert.Equal(t, c.from, f.spotStatus(t, "4"))
				assert.Empty(t, f.events.types())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "available", view.Status)
			assert.Equal(t, spot.StatusAvailable, f.spotStatus(t, "4"))
			assert.Equal(t, []shared.EventType{shared.EventSpotReleased}, f.events.types())
		})
	}

	t.Run("unknown spot", func(t *testing.T) {
		f := newFixture(t)
		_, err := commands.NewSpotUseCase(f.store, f.clock, nil).ReleaseMaintenance(ctx, "4")
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}

func TestProvisioner_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(t0)
	store := memstore.New(clk)
	p := commands.NewProvisioner(store, clk)

	plan := commands.SeedPlan{
		Levels:          []string{"P1", "P2"},
		Sections:        []string{"A"},
		SpotsPerSection: 2,
		Maintenance:     []string{"P2A-2"},
	}

	n, err := p.SeedIfEmpty(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var got map[string]spot.Status
	require.NoError(t, store.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		spots, err := tx.Spots().List(ctx)
		got = make(map[string]spot.Status, len(spots))
		for _, s := range spots {
			got[s.ID()] = s.Status()
		}
		return err
	}))
	assert.Equal(t, map[string]spot.Status{
		"P1A-1": spot.StatusAvailable,
		"P1A-2": spot.StatusAvailable,
		"P2A-1": spot.StatusAvailable,
		"P2A-2": spot.StatusMaintenance,
	}, got)

	n, err = p.SeedIfEmpty(ctx, plan)
	require.NoError(t, err)
	assert.Zero(t, n, "non-empty fleet is left alone")
}

func TestProvisioner_SeedIfEmptyWarnsOnUnknownMaintenance(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	clk := clock.NewMockClock(t0)
	plan := commands.SeedPlan{
		Levels:          []string{"P1"},
		Sections:        []string{"A"},
		SpotsPerSection: 3,
		Maintenance:     []string{"P1A-3", "P1B-3", "p1a-1"},
	}
	assert.Equal(t, []string{"P1B-3", "p1a-1"}, plan.UnmatchedMaintenance())

	n, err := commands.NewProvisioner(memstore.New(clk), clk).SeedIfEmpty(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out := logs.String()
	assert.Contains(t, out, "spot_id=P1B-3")
	assert.Contains(t, out, "spot_id=p1a-1")
	assert.NotContains(t, out, "spot_id=P1A-3")
	assert.Equal(t, 2, strings.Count(out, "maintenance spot not in seed plan"))
}
