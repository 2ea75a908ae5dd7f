//go:build unit

package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/internal/worker"
	commandsmock "parkspot/tests/mock/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestExpirySweeper_RunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	lifecycle := commandsmock.NewMockLifecycleCommands(ctrl)
	sweeper := worker.NewExpirySweeper(lifecycle, time.Minute)

	t.Run("counts expired reservations", func(t *testing.T) {
		lifecycle.EXPECT().ExpireStalePending(gomock.Any()).
			Return([]*queries.ReservationView{{ID: "r1"}, {ID: "r2"}}, nil)
		assert.Equal(t, 2, sweeper.RunOnce(context.Background()))
	})

	t.Run("failure is logged not raised", func(t *testing.T) {
		lifecycle.EXPECT().ExpireStalePending(gomock.Any()).
			Return(nil, errs.New("store unavailable"))
		assert.Equal(t, 0, sweeper.RunOnce(context.Background()))
	})
}

func TestExpirySweeper_StartStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	lifecycle := commandsmock.NewMockLifecycleCommands(ctrl)

	var calls atomic.Int32
	lifecycle.EXPECT().ExpireStalePending(gomock.Any()).
		DoAndReturn(func(context.Context) ([]*queries.ReservationView, error) {
			calls.Add(1)
			return nil, nil
		}).AnyTimes()

	sweeper := worker.NewExpirySweeper(lifecycle, 10*time.Millisecond)
	sweeper.Start()
	sweeper.Start()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sweeper.Stop(ctx))
	require.NoError(t, sweeper.Stop(ctx), "second stop is a no-op")

	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no sweeps after Stop")
}
