package reservation

import "parkspot/internal/pkg/errs"

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// DefaultTimeToAccessMin is the access window a pending reservation gets when none is configured.
const DefaultTimeToAccessMin = 15

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsOpen reports whether the reservation still holds its spot.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusActive
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errs.Mark(errs.Newf("unknown reservation status %q", s), errs.ErrValidation)
	}
	return st, nil
}
