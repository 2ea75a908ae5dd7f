package queries

import (
	"time"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/domain/spot"
)

// SpotView represents read-optimized spot data
type SpotView struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Section   string    `json:"section"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LevelAvailability struct {
	Level     string         `json:"level"`
	Total     int            `json:"total"`
	Available int            `json:"available"`
	ByStatus  map[string]int `json:"by_status"`
}

// AvailabilityView summarizes the fleet for the availability screen
type AvailabilityView struct {
	Total     int                 `json:"total"`
	Available int                 `json:"available"`
	ByStatus  map[string]int      `json:"by_status"`
	Levels    []LevelAvailability `json:"levels"`
}

type DriverView struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type CarView struct {
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	LicensePlate string `json:"license_plate"`
}

type ParkingSessionView struct {
	ReservationTime  time.Time  `json:"reservation_time"`
	TimeToAccess     int        `json:"time_to_access"`
	AccessDeadline   time.Time  `json:"access_deadline"`
	RemainingSeconds *int64     `json:"remaining_seconds,omitempty"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
}

// ReservationView represents read-optimized reservation data
type ReservationView struct {
	ID             string             `json:"id"`
	SpotID         string             `json:"spot_id"`
	UserID         string             `json:"user_id"`
	Status         string             `json:"status"`
	AccessCode     string             `json:"access_code,omitempty"`
	Driver         DriverView         `json:"driver"`
	CarDetails     CarView            `json:"car_details"`
	ParkingSession ParkingSessionView `json:"parking_session"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func ToSpotView(s *spot.Spot) *SpotView {
	return &SpotView{
		ID:        s.ID(),
		Level:     s.Level(),
		Section:   s.Section(),
		Status:    s.Status().String(),
		UpdatedAt: s.UpdatedAt(),
	}
}

// ToReservationView renders r as of now. remaining_seconds is set only while
// the reservation is pending and never goes below zero.
func ToReservationView(r *reservation.Reservation, now time.Time) *ReservationView {
	d := r.Driver()
	deadline := r.AccessDeadline()

	session := ParkingSessionView{
		ReservationTime: r.ReservationTime(),
		TimeToAccess:    r.TimeToAccessMin(),
		AccessDeadline:  deadline,
		StartTime:       r.StartTime(),
		EndTime:         r.EndTime(),
	}
	if r.Status() == reservation.StatusPending {
		remaining := int64(deadline.Sub(now) / time.Second)
		if remaining < 0 {
			remaining = 0
		}
		session.RemainingSeconds = &remaining
	}

	return &ReservationView{
		ID:         r.ID(),
		SpotID:     r.SpotID(),
		UserID:     r.UserID(),
		Status:     r.Status().String(),
		AccessCode: r.AccessCode(),
		Driver: DriverView{
			FullName: d.FullName,
			Email:    d.Email,
			Phone:    d.Phone,
		},
		CarDetails: CarView{
			Make:         d.CarMake,
			Model:        d.CarModel,
			LicensePlate: d.LicensePlate,
		},
		ParkingSession: session,
		UpdatedAt:      r.UpdatedAt(),
	}
}
