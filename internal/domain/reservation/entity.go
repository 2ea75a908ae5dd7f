package reservation

import (
	"strings"
	"time"

	"parkspot/internal/pkg/errs"
	"parkspot/internal/pkg/patch"
)

var (
	ErrEmptySpotID = errs.Mark(errs.New("spot id cannot be empty"), errs.ErrValidation)
	ErrEmptyUserID = errs.Mark(errs.New("user id cannot be empty"), errs.ErrValidation)
)

// Draft carries everything needed to create a pending reservation.
type Draft struct {
	ID              string
	SpotID          string
	UserID          string
	Driver          DriverInfo
	AccessCode      string
	ReservationTime time.Time
	TimeToAccessMin int
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Status    *Status
	StartTime *time.Time
	EndTime   *time.Time
	UpdatedAt time.Time
}

type Reservation struct {
	id              string
	spotID          string
	userID          string
	driver          DriverInfo
	accessCode      AccessCode
	status          Status
	reservationTime time.Time
	timeToAccessMin int
	startTime       *time.Time
	endTime         *time.Time
	updatedAt       time.Time
}

func NewReservation(d Draft) (*Reservation, error) {
	if strings.TrimSpace(d.ID) == "" {
		return nil, errs.Mark(errs.New("reservation id cannot be empty"), errs.ErrValidation)
	}
	if strings.TrimSpace(d.SpotID) == "" {
		return nil, ErrEmptySpotID
	}
	if strings.TrimSpace(d.UserID) == "" {
		return nil, ErrEmptyUserID
	}
	if err := d.Driver.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.AccessCode) == "" {
		return nil, errs.Mark(errs.New("access code cannot be empty"), errs.ErrValidation)
	}
	window := d.TimeToAccessMin
	if window <= 0 {
		window = DefaultTimeToAccessMin
	}

	return &Reservation{
		id:              d.ID,
		spotID:          strings.TrimSpace(d.SpotID),
		userID:          d.UserID,
		driver:          d.Driver.Normalize(),
		accessCode:      NewAccessCode(d.AccessCode),
		status:          StatusPending,
		reservationTime: d.ReservationTime,
		timeToAccessMin: window,
		updatedAt:       d.ReservationTime,
	}, nil
}

func ReconstructReservation(
	id, spotID, userID string,
	driver DriverInfo,
	accessCode string,
	status Status,
	reservationTime time.Time,
	timeToAccessMin int,
	startTime, endTime *time.Time,
	updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:              id,
		spotID:          spotID,
		userID:          userID,
		driver:          driver,
		accessCode:      NewAccessCode(accessCode),
		status:          status,
		reservationTime: reservationTime,
		timeToAccessMin: timeToAccessMin,
		startTime:       copyTime(startTime),
		endTime:         copyTime(endTime),
		updatedAt:       updatedAt,
	}
}

// AccessDeadline is the last instant at which a pending reservation may be confirmed.
func (r *Reservation) AccessDeadline() time.Time {
	return r.reservationTime.Add(time.Duration(r.timeToAccessMin) * time.Minute)
}

// IsExpired is true only for pending reservations strictly past their deadline.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.status == StatusPending && now.After(r.AccessDeadline())
}

// Activate validates entry at now with the supplied code. Expiry is checked
// before the code so an overdue reservation never reports InvalidCode.
func (r *Reservation) Activate(now time.Time, code string) (Patch, error) {
	if r.status != StatusPending {
		return Patch{}, r.stateErr("confirm entry")
	}
	if r.IsExpired(now) {
		return Patch{}, errs.Mark(
			errs.Newf("reservation %s: access window closed at %s", r.id, r.AccessDeadline().Format(time.RFC3339)),
			errs.ErrExpired,
		)
	}
	if !r.accessCode.Matches(code) {
		return Patch{}, errs.Mark(errs.Newf("reservation %s: access code mismatch", r.id), errs.ErrInvalidCode)
	}
	st := StatusActive
	return Patch{Status: &st, StartTime: &now, UpdatedAt: now}, nil
}

func (r *Reservation) Complete(now time.Time) (Patch, error) {
	if r.status != StatusActive {
		return Patch{}, r.stateErr("end session")
	}
	st := StatusCompleted
	return Patch{Status: &st, EndTime: &now, UpdatedAt: now}, nil
}

func (r *Reservation) Cancel(now time.Time) (Patch, error) {
	if !r.status.IsOpen() {
		return Patch{}, r.stateErr("cancel")
	}
	st := StatusCancelled
	return Patch{Status: &st, UpdatedAt: now}, nil
}

// Expire cancels an overdue pending reservation.
func (r *Reservation) Expire(now time.Time) (Patch, error) {
	if !r.IsExpired(now) {
		return Patch{}, r.stateErr("expire")
	}
	st := StatusCancelled
	return Patch{Status: &st, UpdatedAt: now}, nil
}

// Apply mutates r with p after checking the resulting state is consistent.
// Terminal reservations reject every patch.
func (r *Reservation) Apply(p Patch) error {
	if r.status.IsTerminal() {
		return r.stateErr("update")
	}
	next := *r
	next.status = patch.Coalesce(p.Status, r.status)
	if !next.status.IsValid() {
		return errs.Mark(errs.Newf("reservation %s: unknown status %q", r.id, next.status), errs.ErrValidation)
	}
	next.startTime = copyTime(patch.CoalescePtr(p.StartTime, r.startTime))
	next.endTime = copyTime(patch.CoalescePtr(p.EndTime, r.endTime))
	if !p.UpdatedAt.IsZero() {
		next.updatedAt = p.UpdatedAt
	}

	switch next.status {
	case StatusActive:
		if next.startTime == nil {
			return errs.Mark(errs.Newf("reservation %s: active requires start time", r.id), errs.ErrValidation)
		}
	case StatusCompleted:
		if r.status != StatusActive {
			return r.stateErr("complete")
		}
		if next.startTime == nil || next.endTime == nil {
			return errs.Mark(errs.Newf("reservation %s: completed requires start and end time", r.id), errs.ErrValidation)
		}
	}

	*r = next
	return nil
}

// Clone returns a copy that shares no mutable state with r.
func (r *Reservation) Clone() *Reservation {
	c := *r
	c.startTime = copyTime(r.startTime)
	c.endTime = copyTime(r.endTime)
	return &c
}

func (r *Reservation) stateErr(op string) error {
	return errs.Mark(errs.Newf("reservation %s is %s: cannot %s", r.id, r.status, op), errs.ErrInvalidState)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (r *Reservation) ID() string                 { return r.id }
func (r *Reservation) SpotID() string             { return r.spotID }
func (r *Reservation) UserID() string             { return r.userID }
func (r *Reservation) Driver() DriverInfo         { return r.driver }
func (r *Reservation) AccessCode() string         { return r.accessCode.String() }
func (r *Reservation) Status() Status             { return r.status }
func (r *Reservation) ReservationTime() time.Time { return r.reservationTime }
func (r *Reservation) TimeToAccessMin() int       { return r.timeToAccessMin }
func (r *Reservation) StartTime() *time.Time      { return copyTime(r.startTime) }
func (r *Reservation) EndTime() *time.Time        { return copyTime(r.endTime) }
func (r *Reservation) UpdatedAt() time.Time       { return r.updatedAt }
