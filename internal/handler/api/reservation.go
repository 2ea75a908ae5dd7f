package api

import (
	"net/http"

	"parkspot/internal/domain/user"
	reqdto "parkspot/internal/handler/dto/request"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/handler/httperr"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/commands"
	"parkspot/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	cmds commands.LifecycleCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.LifecycleCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Reserve an available spot. The response carries the access code.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidBody(c, err)
		return
	}

	view, err := h.cmds.Reserve(c.Request.Context(), req.SpotID, actor.UserID, req.ToDriverInfo())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.Header("Location", "/api/reservations/"+view.ID)
	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary List my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 401 {object} httperr.Response
// @Router /api/reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	views, err := h.q.ListByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationList(views))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Router /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Confirm entry
// @Description Activate a pending reservation with its access code
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.EntryRequest true "Access code"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /api/reservations/{id}/entry [post]
func (h *ReservationHandler) Entry(c *gin.Context) {
	var req reqdto.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidBody(c, err)
		return
	}
	h.ownerAction(c, func(id string) (*queries.ReservationView, error) {
		return h.cmds.ConfirmEntry(c.Request.Context(), id, req.Code)
	})
}

// @Summary End session
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/end [post]
func (h *ReservationHandler) End(c *gin.Context) {
	h.ownerAction(c, func(id string) (*queries.ReservationView, error) {
		return h.cmds.EndSession(c.Request.Context(), id)
	})
}

// @Summary Cancel reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.ownerAction(c, func(id string) (*queries.ReservationView, error) {
		return h.cmds.Cancel(c.Request.Context(), id)
	})
}

// ownerAction runs act only for the reservation's owner; everyone else sees NotFound.
func (h *ReservationHandler) ownerAction(c *gin.Context, act func(id string) (*queries.ReservationView, error)) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.requireOwner(c, actor, id); err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	view, err := act(id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) requireOwner(c *gin.Context, actor user.Actor, id string) error {
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		return err
	}
	if view.UserID != actor.UserID {
		return errs.Mark(errs.Newf("reservation %s not found", id), errs.ErrNotFound)
	}
	return nil
}
