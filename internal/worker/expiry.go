package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parkspot/internal/usecase/commands"
)

// ExpirySweeper periodically cancels pending reservations whose access window
// has closed.
type ExpirySweeper struct {
	lifecycle commands.LifecycleCommands
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExpirySweeper(lifecycle commands.LifecycleCommands, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirySweeper{lifecycle: lifecycle, interval: interval}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a no-op.
func (s *ExpirySweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(ctx)

	slog.Info("expiry sweeper started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight sweep to finish or ctx to expire.
func (s *ExpirySweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		slog.Info("expiry sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single sweep and returns how many reservations expired.
func (s *ExpirySweeper) RunOnce(ctx context.Context) int {
	expired, err := s.lifecycle.ExpireStalePending(ctx)
	if err != nil {
		slog.Error("expiry sweep failed", "error", err)
	}
	return len(expired)
}

func (s *ExpirySweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
