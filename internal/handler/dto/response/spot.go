package response

import (
	"time"

	"parkspot/internal/usecase/queries"
)

type SpotResponse struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Section   string    `json:"section"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	Total     int                         `json:"total"`
	Available int                         `json:"available"`
	ByStatus  map[string]int              `json:"by_status"`
	Levels    []queries.LevelAvailability `json:"levels"`
}

func FromSpotView(v *queries.SpotView) *SpotResponse {
	return &SpotResponse{
		ID:        v.ID,
		Level:     v.Level,
		Section:   v.Section,
		Status:    v.Status,
		UpdatedAt: v.UpdatedAt,
	}
}

func FromSpotList(vs []*queries.SpotView) []*SpotResponse {
	out := make([]*SpotResponse, len(vs))
	for i, v := range vs {
		out[i] = FromSpotView(v)
	}
	return out
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		Total:     v.Total,
		Available: v.Available,
		ByStatus:  v.ByStatus,
		Levels:    v.Levels,
	}
}
