package membership

import (
	"context"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/payment"
)

type CheckoutParams struct {
	UserID        int
	GymID         int
	PlanID        int
	StartDate     time.Time
	EndDate       time.Time
	AmountCents   int64
	BaseCents     int64
	DiscountCents int64
	CouponCode    *string
	// RedeemCoupon consumes the coupon's usage slot inside the checkout
	// transaction (the "begin" redemption policy).
	RedeemCoupon bool
}

type ActivateParams struct {
	MembershipID     int
	PaymentID        int
	GatewayOrderID   string
	GatewayPaymentID string
	// RedeemCoupon consumes the coupon's usage slot inside the activation
	// transaction (the "activation" redemption policy).
	RedeemCoupon bool
}

type Repository interface {
	CreateCheckout(ctx context.Context, p CheckoutParams) (*Membership, *payment.Payment, error)
	// Activate returns the membership and whether it was already active for
	// the same payment (idempotent replay, no writes performed).
	Activate(ctx context.Context, p ActivateParams) (*Membership, bool, error)
	RecordFailure(ctx context.Context, membershipID, paymentID int, details string) error
	GetByID(ctx context.Context, id int) (*Membership, error)
	ListByUser(ctx context.Context, userID int) ([]Membership, error)
}
