package visit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/api"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/auth"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gym"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/ledger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Book a visit slot
// @Tags         visits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body visit.BookRequest true "Booking payload"
// @Success      201 {object} visit.Visit
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /visits [post]
func (h *Handler) Book(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	v, err := h.service.Book(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		case errors.Is(err, ErrNoActiveMembership):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "No active membership covers this visit"})
		case errors.Is(err, ErrSlotUnavailable):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Slot is not available"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to book visit"})
		}
		return
	}

	c.JSON(http.StatusCreated, v)
}

// @Summary      Cancel a visit
// @Description  Cancels a booked visit. A fee applies outside the free-cancellation window.
// @Tags         visits
// @Produce      json
// @Security     BearerAuth
// @Param        visitID path int true "Visit ID"
// @Success      200 {object} visit.FeeResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /visits/{visitID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	visitID, err := strconv.Atoi(c.Param("visitID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid visit ID"})
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), userID, visitID)
	if err != nil {
		h.writeVisitError(c, err, "Failed to cancel visit")
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Reschedule a visit
// @Description  Moves a booked visit to a new slot. A fee applies outside the free-cancellation window.
// @Tags         visits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        visitID path int true "Visit ID"
// @Param        request body visit.RescheduleRequest true "New slot"
// @Success      200 {object} visit.FeeResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /visits/{visitID}/reschedule [post]
func (h *Handler) Reschedule(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	visitID, err := strconv.Atoi(c.Param("visitID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid visit ID"})
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Reschedule(c.Request.Context(), userID, visitID, req)
	if err != nil {
		h.writeVisitError(c, err, "Failed to reschedule visit")
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      List my visits
// @Tags         visits
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} visit.Visit
// @Failure      401 {object} api.ErrorResponse
// @Router       /visits [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	visits, err := h.service.ListMy(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch visits"})
		return
	}

	c.JSON(http.StatusOK, visits)
}

func (h *Handler) writeVisitError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrVisitNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Visit not found"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Visit belongs to another user"})
	case errors.Is(err, ErrVisitNotBooked):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Visit is not in booked state"})
	case errors.Is(err, ErrSlotUnavailable):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Slot is not available"})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient balance to cover the fee"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: fallback})
	}
}
