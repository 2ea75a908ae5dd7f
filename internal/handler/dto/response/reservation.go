package response

import (
	"time"

	"parkspot/internal/usecase/queries"
)

type ReservationResponse struct {
	ID             string                     `json:"id"`
	SpotID         string                     `json:"spot_id"`
	UserID         string                     `json:"user_id"`
	Status         string                     `json:"status"`
	AccessCode     string                     `json:"access_code,omitempty"`
	Driver         queries.DriverView         `json:"driver"`
	CarDetails     queries.CarView            `json:"car_details"`
	ParkingSession queries.ParkingSessionView `json:"parking_session"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

type ReservationListResponse struct {
	ID               string    `json:"id"`
	SpotID           string    `json:"spot_id"`
	Status           string    `json:"status"`
	LicensePlate     string    `json:"license_plate"`
	AccessDeadline   time.Time `json:"access_deadline"`
	RemainingSeconds *int64    `json:"remaining_seconds,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GateEntryResponse is what a gate sees after a successful entry. The caller
// may be a kiosk rather than the driver, so no personal data is included.
type GateEntryResponse struct {
	ReservationID string     `json:"reservation_id"`
	SpotID        string     `json:"spot_id"`
	Status        string     `json:"status"`
	StartTime     *time.Time `json:"start_time,omitempty"`
}

type SweepResponse struct {
	Expired      int                        `json:"expired"`
	Reservations []*ReservationListResponse `json:"reservations"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:             v.ID,
		SpotID:         v.SpotID,
		UserID:         v.UserID,
		Status:         v.Status,
		AccessCode:     v.AccessCode,
		Driver:         v.Driver,
		CarDetails:     v.CarDetails,
		ParkingSession: v.ParkingSession,
		UpdatedAt:      v.UpdatedAt,
	}
}

func FromGateEntry(v *queries.ReservationView) *GateEntryResponse {
	return &GateEntryResponse{
		ReservationID: v.ID,
		SpotID:        v.SpotID,
		Status:        v.Status,
		StartTime:     v.ParkingSession.StartTime,
	}
}

func FromReservationListItem(v *queries.ReservationView) *ReservationListResponse {
	return &ReservationListResponse{
		ID:               v.ID,
		SpotID:           v.SpotID,
		Status:           v.Status,
		LicensePlate:     v.CarDetails.LicensePlate,
		AccessDeadline:   v.ParkingSession.AccessDeadline,
		RemainingSeconds: v.ParkingSession.RemainingSeconds,
		UpdatedAt:        v.UpdatedAt,
	}
}

func FromReservationList(vs []*queries.ReservationView) []*ReservationListResponse {
	out := make([]*ReservationListResponse, len(vs))
	for i, v := range vs {
		out[i] = FromReservationListItem(v)
	}
	return out
}
