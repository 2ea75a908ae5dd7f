package api

import (
	"net/http"

	"parkspot/internal/domain/spot"
	reqdto "parkspot/internal/handler/dto/request"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/handler/httperr"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type SpotHandler struct {
	q      queries.SpotQueries
	access commands.AccessCommands
}

func NewSpotHandler(q queries.SpotQueries, access commands.AccessCommands) *SpotHandler {
	return &SpotHandler{q: q, access: access}
}

// @Summary List spots
// @Description List parking spots, optionally filtered by status
// @Tags spots
// @Produce json
// @Param status query string false "available | reserved | occupied | maintenance"
// @Success 200 {array} resdto.SpotResponse
// @Failure 400 {object} httperr.Response
// @Router /api/spots [get]
func (h *SpotHandler) List(c *gin.Context) {
	var filter *spot.Status
	if raw := c.Query("status"); raw != "" {
		st, err := spot.ParseStatus(raw)
		if err != nil {
			httperr.AbortWithDomainError(c, err)
			return
		}
		filter = &st
	}

	views, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSpotList(views))
}

// @Summary Spot availability
// @Description Counts of spots per status, overall and per level
// @Tags spots
// @Produce json
// @Success 200 {object} resdto.AvailabilityResponse
// @Router /api/spots/availability [get]
func (h *SpotHandler) Availability(c *gin.Context) {
	view, err := h.q.Availability(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Get spot
// @Tags spots
// @Produce json
// @Param id path string true "Spot ID"
// @Success 200 {object} resdto.SpotResponse
// @Failure 404 {object} httperr.Response
// @Router /api/spots/{id} [get]
func (h *SpotHandler) Get(c *gin.Context) {
	view, err := h.q.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}

// @Summary Enter spot with access code
// @Description Gate check: activates the open reservation on the spot when the code matches
// @Tags spots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param request body reqdto.EntryRequest true "Access code"
// @Success 200 {object} resdto.GateEntryResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/spots/{id}/entry [post]
func (h *SpotHandler) Entry(c *gin.Context) {
	var req reqdto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidBody(c, err)
		return
	}

	view, err := h.access.Verify(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromGateEntry(view))
}
