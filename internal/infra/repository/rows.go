package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type spotRow struct {
	id        string
	level     string
	section   string
	updatedAt time.Time
}

type reservationRow struct {
	id              string
	spotID          string
	userID          string
	fullName        string
	email           string
	phone           pgtype.Text
	carMake         pgtype.Text
	carModel        pgtype.Text
	licensePlate    string
	accessCode      string
	status          string
	reservationTime time.Time
	timeToAccessMin int32
	startTime       pgtype.Timestamptz
	endTime         pgtype.Timestamptz
	updatedAt       time.Time
}
