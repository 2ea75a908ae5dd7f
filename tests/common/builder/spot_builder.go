//go:build unit || e2e

package builder

import (
	"time"

	"parkspot/internal/domain/spot"
	"parkspot/internal/usecase/queries"
)

type SpotBuilder struct {
	ID        string
	Level     string
	Section   string
	Status    spot.Status
	UpdatedAt time.Time
}

func NewSpotBuilder() *SpotBuilder {
	return &SpotBuilder{
		ID:        "4",
		Level:     "P1",
		Section:   "A",
		Status:    spot.StatusAvailable,
		UpdatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (s *SpotBuilder) With(mutate func(*SpotBuilder)) *SpotBuilder {
	mutate(s)
	return s
}

func (s *SpotBuilder) BuildDomain() *spot.Spot {
	return spot.ReconstructSpot(s.ID, s.Level, s.Section, s.Status, s.UpdatedAt)
}

func (s *SpotBuilder) BuildView() *queries.SpotView {
	return queries.ToSpotView(s.BuildDomain())
}
