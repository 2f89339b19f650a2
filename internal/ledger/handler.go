package ledger

import (
	"net/http"
	"strconv"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/api"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      List my ledger entries
// @Description  Returns the authenticated user's transaction history, newest first.
// @Tags         ledger
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (default 50)"
// @Param        offset query int false "Offset"
// @Success      200 {array} ledger.Entry
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /me/transactions [get]
func (h *Handler) ListMyEntries(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.repo.GetEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
