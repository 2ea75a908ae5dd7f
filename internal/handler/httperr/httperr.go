package httperr

import (
	"net/http"

	"parkspot/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

type Detail struct {
	Code string `json:"code"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

type mapping struct {
	status  int
	message string
}

var kindMappings = map[string]mapping{
	"NOT_FOUND":          {http.StatusNotFound, "Not found"},
	"SPOT_UNAVAILABLE":   {http.StatusConflict, "This spot was just taken"},
	"INVALID_STATE":      {http.StatusConflict, "Reservation does not allow this action in its current state"},
	"INVALID_TRANSITION": {http.StatusConflict, "Spot cannot move to the requested status"},
	"EXPIRED":            {http.StatusGone, "Access window has passed and the reservation was cancelled"},
	"INVALID_CODE":       {http.StatusForbidden, "Access code does not match"},
	"NO_RESERVATION":     {http.StatusNotFound, "No reservation is waiting on this spot"},
}

// StatusFor returns the HTTP status for the error kind carried by err.
func StatusFor(err error) int {
	kind := errs.Kind(err)
	if kind == "VALIDATION_ERROR" {
		return http.StatusBadRequest
	}
	if m, ok := kindMappings[kind]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// AbortWithDomainError answers with the status and message for err's kind.
// Validation failures echo their own message; anything unclassified is a 500.
func AbortWithDomainError(c *gin.Context, err error) {
	kind := errs.Kind(err)
	status := StatusFor(err)

	msg := "Internal server error"
	switch {
	case kind == "VALIDATION_ERROR":
		msg = err.Error()
	case status != http.StatusInternalServerError:
		msg = kindMappings[kind].message
	}
	AbortWithError(c, status, err, msg, Detail{Code: kind})
}
