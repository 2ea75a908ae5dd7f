package request

import (
	"parkspot/internal/domain/reservation"
)

// CreateReservationRequest is the reservation form. Format checks beyond presence
// happen in the domain so the gate kiosk and the web form agree on them.
type CreateReservationRequest struct {
	SpotID       string `json:"spot_id" binding:"required"`
	FullName     string `json:"full_name" binding:"required,max=200"`
	Email        string `json:"email" binding:"required,max=254"`
	Phone        string `json:"phone,omitempty" binding:"max=40"`
	CarMake      string `json:"car_make,omitempty" binding:"max=60"`
	CarModel     string `json:"car_model,omitempty" binding:"max=60"`
	LicensePlate string `json:"license_plate" binding:"required,max=20"`
}

func (r CreateReservationRequest) ToDriverInfo() reservation.DriverInfo {
	return reservation.DriverInfo{
		FullName:     r.FullName,
		Email:        r.Email,
		Phone:        r.Phone,
		CarMake:      r.CarMake,
		CarModel:     r.CarModel,
		LicensePlate: r.LicensePlate,
	}.Normalize()
}

type EntryRequest struct {
	Code string `json:"code" binding:"required,max=32"`
}
