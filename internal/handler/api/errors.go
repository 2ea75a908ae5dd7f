package api

import (
	"net/http"

	"parkspot/internal/domain/user"
	"parkspot/internal/handler/httperr"
	"parkspot/internal/handler/middleware"
	"parkspot/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errNoIdentity = errs.New("authenticated identity missing from context")

// actorOrAbort reads the caller set by the auth middleware. Missing identity on an
// authenticated route is a wiring bug, so it answers 500.
func actorOrAbort(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoIdentity, "Internal server error", nil)
		return user.Actor{}, false
	}
	return actor, true
}

func abortInvalidBody(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation),
		"Invalid request format", httperr.Detail{Code: "VALIDATION_ERROR"})
}
