package api

import (
	"net/http"

	"parkspot/internal/domain/reservation"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/handler/httperr"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	lifecycle commands.LifecycleCommands
	spots     commands.SpotCommands
	q         queries.ReservationQueries
}

func NewAdminHandler(lifecycle commands.LifecycleCommands, spots commands.SpotCommands, q queries.ReservationQueries) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, spots: spots, q: q}
}

// @Summary List reservations by status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string true "pending | active | completed | cancelled"
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/reservations [get]
func (h *AdminHandler) ListReservations(c *gin.Context) {
	raw := c.Query("status")
	if raw == "" {
		httperr.AbortWithDomainError(c, errs.Mark(errs.New("status query parameter is required"), errs.ErrValidation))
		return
	}
	status, err := reservation.ParseStatus(raw)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	views, err := h.q.ListByStatus(c.Request.Context(), status)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationList(views))
}

// @Summary Run expiry sweep
// @Description Expire every pending reservation whose access window has passed
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.SweepResponse
// @Failure 403 {object} httperr.Response
// @Router /api/admin/expiry-sweep [post]
func (h *AdminHandler) ExpirySweep(c *gin.Context) {
	expired, err := h.lifecycle.ExpireStalePending(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.SweepResponse{
		Expired:      len(expired),
		Reservations: resdto.FromReservationList(expired),
	})
}

// @Summary Release spot from maintenance
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} resdto.SpotResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/admin/spots/{id}/release [post]
func (h *AdminHandler) ReleaseSpot(c *gin.Context) {
	view, err := h.spots.ReleaseMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}
