package membership

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/api"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/auth"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/coupon"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gateway"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Start a membership checkout
// @Description  Creates pending membership and payment rows and returns the order receipt.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body membership.BeginRequest true "Checkout payload"
// @Success      201 {object} membership.CheckoutResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /memberships/checkout [post]
func (h *Handler) BeginCheckout(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req BeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Begin(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStartDate):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Start date must be today or later"})
		case errors.Is(err, ErrPlanUnavailable):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not available for this gym"})
		case errors.Is(err, coupon.ErrCouponInvalid):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: "Coupon is not valid for this purchase"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to start checkout"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Summary      Create or reuse the gateway order for a payment
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Param        paymentID path int true "Payment ID"
// @Success      200 {object} gateway.Order
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      502 {object} api.ErrorResponse
// @Router       /payments/{paymentID}/order [post]
func (h *Handler) CreateGatewayOrder(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	paymentID, err := strconv.Atoi(c.Param("paymentID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment ID"})
		return
	}

	order, err := h.service.CreateGatewayOrder(c.Request.Context(), userID, paymentID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment not found"})
		case errors.Is(err, ErrStateConflict):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Payment is no longer pending"})
		case errors.Is(err, gateway.ErrGatewayUnavailable):
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Payment gateway unavailable, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create gateway order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary      Verify a gateway callback and activate the membership
// @Description  Validates the callback signature and atomically activates. Replays are no-ops.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body membership.VerifyRequest true "Verification payload"
// @Success      200 {object} membership.Membership
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /payments/verify [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.VerifyAndActivate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSignatureInvalid):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Payment signature verification failed"})
		case errors.Is(err, ErrMembershipNotFound), errors.Is(err, payment.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Membership or payment not found"})
		case errors.Is(err, ErrStateConflict):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Payment state conflict"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to verify payment"})
		}
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Record a failed payment attempt
// @Description  Marks a still-pending membership/payment pair as failed. Idempotent.
// @Tags         memberships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body membership.FailureRequest true "Failure payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /payments/failure [post]
func (h *Handler) RecordFailure(c *gin.Context) {
	var req FailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.RecordFailure(c.Request.Context(), req); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Membership not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record payment failure"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Payment failure recorded"})
}

// @Summary      List my memberships
// @Tags         memberships
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} membership.Membership
// @Failure      401 {object} api.ErrorResponse
// @Router       /memberships [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	memberships, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch memberships"})
		return
	}

	c.JSON(http.StatusOK, memberships)
}
