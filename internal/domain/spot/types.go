package spot

import "parkspot/internal/pkg/errs"

type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusOccupied    Status = "occupied"
	StatusMaintenance Status = "maintenance"
)

// Allowed transitions. maintenance -> available is administrative only.
var transitions = map[Status][]Status{
	StatusAvailable:   {StatusReserved},
	StatusReserved:    {StatusOccupied, StatusAvailable},
	StatusOccupied:    {StatusAvailable},
	StatusMaintenance: {StatusAvailable},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusOccupied, StatusMaintenance:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", errs.Mark(errs.Newf("unknown spot status %q", s), errs.ErrValidation)
	}
	return st, nil
}

func AllStatuses() []Status {
	return []Status{StatusAvailable, StatusReserved, StatusOccupied, StatusMaintenance}
}
