//go:build unit

package httperr_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parkspot/internal/handler/httperr"
	"parkspot/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortWithDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"not found", errs.Mark(errs.New("spot 9"), errs.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "Not found"},
		{"validation echoes cause", errs.Mark(errs.New("license plate is required"), errs.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR", "license plate is required"},
		{"spot unavailable", errs.Mark(errs.New("x"), errs.ErrSpotUnavailable), http.StatusConflict, "SPOT_UNAVAILABLE", "This spot was just taken"},
		{"invalid state", errs.Mark(errs.New("x"), errs.ErrInvalidState), http.StatusConflict, "INVALID_STATE", ""},
		{"invalid transition", errs.Mark(errs.New("x"), errs.ErrInvalidTransition), http.StatusConflict, "INVALID_TRANSITION", ""},
		{"expired", errs.Mark(errs.New("x"), errs.ErrExpired), http.StatusGone, "EXPIRED", ""},
		{"invalid code", errs.Mark(errs.New("x"), errs.ErrInvalidCode), http.StatusForbidden, "INVALID_CODE", "Access code does not match"},
		{"no reservation", errs.Mark(errs.New("x"), errs.ErrNoReservation), http.StatusNotFound, "NO_RESERVATION", ""},
		{"wrapped kind survives", errs.Wrap(errs.Mark(errs.New("x"), errs.ErrExpired), "confirm entry"), http.StatusGone, "EXPIRED", ""},
		{"unclassified", errs.New("pool closed"), http.StatusInternalServerError, "INTERNAL", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			httperr.AbortWithDomainError(c, tt.err)

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Len(t, c.Errors, 1)

			var body struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
				Detail httperr.Detail `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Detail.Code)
			assert.NotEmpty(t, body.Error.Message)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Error.Message)
			}
		})
	}
}

func TestAbortWithError_PanicsOnNil(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Panics(t, func() {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "bad", nil)
	})
}
