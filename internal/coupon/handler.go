package coupon

import (
	"errors"
	"net/http"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/api"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/plan"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo     Repository
	planRepo plan.Repository
}

func NewHandler(repo Repository, planRepo plan.Repository) *Handler {
	return &Handler{repo: repo, planRepo: planRepo}
}

// @Summary      Create a coupon
// @Description  Admin-only: create a discount coupon
// @Tags         admin,coupons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body coupon.CreateCouponRequest true "Coupon payload"
// @Success      201 {object} coupon.Coupon
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/coupons [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if req.ApplicableToType != ScopeNone && req.ApplicableToID == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "applicable_to_id is required for plan/gym scope"})
		return
	}

	coupon, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create coupon"})
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

// @Summary      Deactivate a coupon
// @Tags         admin,coupons
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Coupon code"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/coupons/{code} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	if err := h.repo.Deactivate(c.Request.Context(), c.Param("code")); err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to deactivate coupon"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Coupon deactivated"})
}

// @Summary      Preview a coupon against a plan
// @Description  Computes the discount without reserving a usage slot.
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body coupon.PreviewRequest true "Preview payload"
// @Success      200 {object} coupon.PreviewResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /coupons/preview [post]
func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()

	p, err := h.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
		return
	}

	coupon, err := h.repo.FindByCode(ctx, req.Code)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coupon not found"})
		return
	}

	if err := coupon.Validate(time.Now(), p.ID, p.GymID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "Coupon is not applicable"})
		return
	}

	discount := coupon.DiscountFor(p.PriceCents)
	c.JSON(http.StatusOK, PreviewResponse{
		Code:           coupon.Code,
		BasePriceCents: p.PriceCents,
		DiscountCents:  discount,
		PayableCents:   p.PriceCents - discount,
	})
}
