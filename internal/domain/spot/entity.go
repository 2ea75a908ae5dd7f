package spot

import (
	"strings"
	"time"

	"parkspot/internal/pkg/errs"
)

var (
	ErrEmptySpotID = errs.Mark(errs.New("spot id cannot be empty"), errs.ErrValidation)
	ErrEmptyLevel  = errs.Mark(errs.New("spot level cannot be empty"), errs.ErrValidation)
)

type Spot struct {
	id        string
	level     string
	section   string
	status    Status
	updatedAt time.Time
}

func NewSpot(id, level, section string, status Status, now time.Time) (*Spot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptySpotID
	}
	level = strings.TrimSpace(level)
	if level == "" {
		return nil, ErrEmptyLevel
	}
	if !status.IsValid() {
		return nil, errs.Mark(errs.Newf("spot %s: unknown status %q", id, status), errs.ErrValidation)
	}

	return &Spot{
		id:        id,
		level:     level,
		section:   strings.TrimSpace(section),
		status:    status,
		updatedAt: now,
	}, nil
}

func ReconstructSpot(id, level, section string, status Status, updatedAt time.Time) *Spot {
	return &Spot{
		id:        id,
		level:     level,
		section:   section,
		status:    status,
		updatedAt: updatedAt,
	}
}

// TransitionTo moves the spot to next if the transition table allows it.
func (s *Spot) TransitionTo(next Status, now time.Time) error {
	if !s.status.CanTransitionTo(next) {
		return errs.Mark(
			errs.Newf("spot %s cannot move from %s to %s", s.id, s.status, next),
			errs.ErrInvalidTransition,
		)
	}
	s.status = next
	s.updatedAt = now
	return nil
}

func (s *Spot) IsAvailable() bool {
	return s.status == StatusAvailable
}

func (s *Spot) ID() string           { return s.id }
func (s *Spot) Level() string        { return s.level }
func (s *Spot) Section() string      { return s.section }
func (s *Spot) Status() Status       { return s.status }
func (s *Spot) UpdatedAt() time.Time { return s.updatedAt }
