package reservation

import (
	"crypto/subtle"
	"strings"

	"parkspot/internal/domain/user"
	"parkspot/internal/pkg/errs"
)

var (
	ErrFullNameRequired     = errs.Mark(errs.New("full name is required"), errs.ErrValidation)
	ErrEmailRequired        = errs.Mark(errs.New("email is required"), errs.ErrValidation)
	ErrInvalidEmail         = errs.Mark(errs.New("email is malformed"), errs.ErrValidation)
	ErrLicensePlateRequired = errs.Mark(errs.New("license plate is required"), errs.ErrValidation)
)

// DriverInfo is what the driver types into the reservation form.
type DriverInfo struct {
	FullName     string
	Email        string
	Phone        string
	CarMake      string
	CarModel     string
	LicensePlate string
}

// Normalize trims every field, lower-cases a well-formed email's domain and
// upper-cases the plate.
func (d DriverInfo) Normalize() DriverInfo {
	email := strings.TrimSpace(d.Email)
	if e, err := user.NewEmail(email); err == nil {
		email = e.Value()
	}
	return DriverInfo{
		FullName:     strings.TrimSpace(d.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(d.Phone),
		CarMake:      strings.TrimSpace(d.CarMake),
		CarModel:     strings.TrimSpace(d.CarModel),
		LicensePlate: strings.ToUpper(strings.TrimSpace(d.LicensePlate)),
	}
}

func (d DriverInfo) Validate() error {
	n := d.Normalize()
	if n.FullName == "" {
		return ErrFullNameRequired
	}
	if n.Email == "" {
		return ErrEmailRequired
	}
	if _, err := user.NewEmail(n.Email); err != nil {
		return ErrInvalidEmail
	}
	if n.LicensePlate == "" {
		return ErrLicensePlateRequired
	}
	return nil
}

// AccessCode is the secret the driver presents at the garage gate.
type AccessCode struct {
	value string
}

func NewAccessCode(s string) AccessCode {
	return AccessCode{value: strings.TrimSpace(s)}
}

// Matches compares in constant time, ignoring case and surrounding space.
func (c AccessCode) Matches(supplied string) bool {
	a := strings.ToUpper(c.value)
	b := strings.ToUpper(strings.TrimSpace(supplied))
	if a == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (c AccessCode) String() string {
	return c.value
}
