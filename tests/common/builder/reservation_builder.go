//go:build unit || e2e

package builder

import (
	"time"

	"parkspot/internal/domain/reservation"
	reqdto "parkspot/internal/handler/dto/request"
	"parkspot/internal/usecase/queries"
)

type ReservationBuilder struct {
	ID              string
	SpotID          string
	UserID          string
	FullName        string
	Email           string
	Phone           string
	CarMake         string
	CarModel        string
	LicensePlate    string
	AccessCode      string
	ReservationTime time.Time
	TimeToAccessMin int
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:              "res-1",
		SpotID:          "4",
		UserID:          "u1",
		FullName:        "A B",
		Email:           "a@x.com",
		Phone:           "555-0100",
		CarMake:         "Toyota",
		CarModel:        "Corolla",
		LicensePlate:    "ABC123",
		AccessCode:      "K7PX2M9Q",
		ReservationTime: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		TimeToAccessMin: reservation.DefaultTimeToAccessMin,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ReservationBuilder) BuildDriver() reservation.DriverInfo {
	return reservation.DriverInfo{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		CarMake:      r.CarMake,
		CarModel:     r.CarModel,
		LicensePlate: r.LicensePlate,
	}
}

func (r *ReservationBuilder) BuildDraft() reservation.Draft {
	return reservation.Draft{
		ID:              r.ID,
		SpotID:          r.SpotID,
		UserID:          r.UserID,
		Driver:          r.BuildDriver(),
		AccessCode:      r.AccessCode,
		ReservationTime: r.ReservationTime,
		TimeToAccessMin: r.TimeToAccessMin,
	}
}

func (r *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	return reservation.NewReservation(r.BuildDraft())
}

// BuildWithStatus reconstructs a reservation already in status, with the
// timestamps that status requires.
func (r *ReservationBuilder) BuildWithStatus(status reservation.Status) *reservation.Reservation {
	var start, end *time.Time
	if status == reservation.StatusActive || status == reservation.StatusCompleted {
		s := r.ReservationTime.Add(5 * time.Minute)
		start = &s
	}
	if status == reservation.StatusCompleted {
		e := r.ReservationTime.Add(2 * time.Hour)
		end = &e
	}
	return reservation.ReconstructReservation(
		r.ID, r.SpotID, r.UserID, r.BuildDriver(), r.AccessCode, status,
		r.ReservationTime, r.TimeToAccessMin, start, end, r.ReservationTime,
	)
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		SpotID:       r.SpotID,
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		CarMake:      r.CarMake,
		CarModel:     r.CarModel,
		LicensePlate: r.LicensePlate,
	}
}

func (r *ReservationBuilder) BuildView(status reservation.Status) *queries.ReservationView {
	return queries.ToReservationView(r.BuildWithStatus(status), r.ReservationTime)
}
