//go:build unit

package clock_test

import (
	"testing"
	"time"

	"parkspot/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	c := clock.NewMockClock(start)

	assert.Equal(t, start, c.Now())

	c.Add(16 * time.Minute)
	assert.Equal(t, start.Add(16*time.Minute), c.Now())

	later := start.Add(24 * time.Hour)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestRealClock(t *testing.T) {
	before := time.Now()
	got := clock.NewRealClock().Now()
	assert.False(t, got.Before(before))
}
