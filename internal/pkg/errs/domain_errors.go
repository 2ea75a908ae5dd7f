package errs

// Error kinds shared by the stores, the lifecycle manager and the transport layer.
// Concrete failures are marked with one of these so callers can branch with Is.
var (
	ErrNotFound          = New("not found")
	ErrValidation        = New("validation error")
	ErrSpotUnavailable   = New("spot unavailable")
	ErrInvalidState      = New("invalid state")
	ErrInvalidTransition = New("invalid transition")
	ErrExpired           = New("access window expired")
	ErrInvalidCode       = New("invalid access code")
	ErrNoReservation     = New("no reservation for spot")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)

// Kind returns a stable machine-readable name for the error kind carried by err,
// or "INTERNAL" when err carries none of the known kinds.
func Kind(err error) string {
	switch {
	case Is(err, ErrNotFound):
		return "NOT_FOUND"
	case Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case Is(err, ErrSpotUnavailable):
		return "SPOT_UNAVAILABLE"
	case Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case Is(err, ErrExpired):
		return "EXPIRED"
	case Is(err, ErrInvalidCode):
		return "INVALID_CODE"
	case Is(err, ErrNoReservation):
		return "NO_RESERVATION"
	default:
		return "INTERNAL"
	}
}
