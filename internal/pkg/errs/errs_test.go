//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"parkspot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMarkAndKind(t *testing.T) {
	cases := []struct {
		name string
		mark error
		kind string
	}{
		{name: "not found", mark: errs.ErrNotFound, kind: "NOT_FOUND"},
		{name: "validation", mark: errs.ErrValidation, kind: "VALIDATION_ERROR"},
		{name: "spot unavailable", mark: errs.ErrSpotUnavailable, kind: "SPOT_UNAVAILABLE"},
		{name: "invalid state", mark: errs.ErrInvalidState, kind: "INVALID_STATE"},
		{name: "invalid transition", mark: errs.ErrInvalidTransition, kind: "INVALID_TRANSITION"},
		{name: "expired", mark: errs.ErrExpired, kind: "EXPIRED"},
		{name: "invalid code", mark: errs.ErrInvalidCode, kind: "INVALID_CODE"},
		{name: "no reservation", mark: errs.ErrNoReservation, kind: "NO_RESERVATION"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := errs.Mark(errs.Newf("reservation %s: boom", "r-1"), c.mark)

			assert.True(t, errs.Is(err, c.mark))
			assert.Equal(t, c.kind, errs.Kind(err))
			assert.Equal(t, "reservation r-1: boom", err.Error())

			wrapped := errs.Wrap(err, "outer")
			assert.True(t, errs.Is(wrapped, c.mark))
			assert.Equal(t, c.kind, errs.Kind(wrapped))
		})
	}

	t.Run("unknown error is internal", func(t *testing.T) {
		assert.Equal(t, "INTERNAL", errs.Kind(errors.New("plain")))
	})

	t.Run("mark of nil returns the mark itself", func(t *testing.T) {
		assert.Equal(t, errs.ErrExpired, errs.Mark(nil, errs.ErrExpired))
	})

	t.Run("wrap of nil stays nil", func(t *testing.T) {
		assert.NoError(t, errs.Wrap(nil, "ignored"))
	})
}
