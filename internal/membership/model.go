package membership

import (
	"errors"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/payment"
)

type Status string
type PaymentStatus string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"

	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

var (
	ErrPlanUnavailable    = errors.New("plan unavailable")
	ErrInvalidStartDate   = errors.New("invalid start date")
	ErrStateConflict      = errors.New("membership state conflict")
	ErrSignatureInvalid   = errors.New("gateway signature invalid")
	ErrMembershipNotFound = errors.New("membership not found")
)

// Membership is a user's time-bounded entitlement to use a gym under a plan.
// Dates are inclusive on both ends.
type Membership struct {
	ID            int           `db:"id" json:"id"`
	UserID        int           `db:"user_id" json:"user_id"`
	GymID         int           `db:"gym_id" json:"gym_id"`
	PlanID        int           `db:"plan_id" json:"plan_id"`
	StartDate     time.Time     `db:"start_date" json:"start_date"`
	EndDate       time.Time     `db:"end_date" json:"end_date"`
	Status        Status        `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	AmountCents   int64         `db:"amount_cents" json:"amount_cents"`
	BaseCents     int64         `db:"base_cents" json:"base_cents"`
	DiscountCents int64         `db:"discount_cents" json:"discount_cents"`
	CouponCode    *string       `db:"coupon_code" json:"coupon_code,omitempty"`
	PaymentID     *int          `db:"payment_id" json:"payment_id,omitempty"`
	ActivatedAt   *time.Time    `db:"activated_at" json:"activated_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

type BeginRequest struct {
	PlanID     int    `json:"plan_id" binding:"required"`
	GymID      int    `json:"gym_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	CouponCode string `json:"coupon_code,omitempty"`
}

// CheckoutResult is what the boundary returns after Begin: both pending rows
// plus the order receipt the gateway order will carry.
type CheckoutResult struct {
	Membership *Membership      `json:"membership"`
	Payment    *payment.Payment `json:"payment"`
	Receipt    string           `json:"receipt"`
}

type VerifyRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	Signature        string `json:"signature"`
	MembershipID     int    `json:"membership_id" binding:"required"`
	PaymentID        int    `json:"payment_id" binding:"required"`
}

type FailureRequest struct {
	MembershipID int    `json:"membership_id" binding:"required"`
	PaymentID    int    `json:"payment_id" binding:"required"`
	ErrorCode    string `json:"error_code"`
	ErrorReason  string `json:"error_reason"`
}
