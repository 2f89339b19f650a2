package tournament

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

// @Summary      Create a tournament
// @Tags         tournaments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body tournament.CreateRequest true "Tournament payload"
// @Success      201 {object} tournament.Tournament
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/tournaments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	t, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
		case errors.Is(err, ErrRegistrationClosed):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date or time"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create tournament"})
		}
		return
	}

	c.JSON(http.StatusCreated, t)
}

// @Summary      List upcoming tournaments
// @Tags         tournaments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} tournament.Tournament
// @Router       /tournaments [get]
func (h *Handler) ListUpcoming(c *gin.Context) {
	tournaments, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch tournaments"})
		return
	}

	c.JSON(http.StatusOK, tournaments)
}

// @Summary      Register for a tournament
// @Description  Seats the user and debits the entry fee from their balance.
// @Tags         tournaments
// @Produce      json
// @Security     BearerAuth
// @Param        tournamentID path int true "Tournament ID"
// @Success      201 {object} tournament.Registration
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /tournaments/{tournamentID}/register [post]
func (h *Handler) Register(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	tournamentID, err := strconv.Atoi(c.Param("tournamentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid tournament ID"})
		return
	}

	reg, err := h.service.Register(c.Request.Context(), userID, tournamentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTournamentNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Tournament not found"})
		case errors.Is(err, ErrTournamentFull):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Tournament is full"})
		case errors.Is(err, ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already registered"})
		case errors.Is(err, ErrRegistrationClosed):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Registration closed"})
		case errors.Is(err, ledger.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient balance for entry fee"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register"})
		}
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// @Summary      List tournaments I registered for
// @Tags         tournaments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} tournament.Tournament
// @Router       /tournaments/mine [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	tournaments, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch tournaments"})
		return
	}

	c.JSON(http.StatusOK, tournaments)
}
