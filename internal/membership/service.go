package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/config"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/coupon"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gateway"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gym"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/logger"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/metrics"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/payment"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/plan"
)

// Notifier delivers post-activation notifications. Implemented by the notify
// package; activation itself never depends on delivery succeeding.
type Notifier interface {
	MembershipActivated(ctx context.Context, userID, gymOwnerID int, m *Membership)
	PaymentFailed(ctx context.Context, userID int, membershipID int)
}

type Service interface {
	Begin(ctx context.Context, userID int, req BeginRequest) (*CheckoutResult, error)
	CreateGatewayOrder(ctx context.Context, userID, paymentID int) (*gateway.Order, error)
	VerifyAndActivate(ctx context.Context, req VerifyRequest) (*Membership, error)
	RecordFailure(ctx context.Context, req FailureRequest) error
	GetByID(ctx context.Context, id int) (*Membership, error)
	ListByUser(ctx context.Context, userID int) ([]Membership, error)
}

type service struct {
	repo     Repository
	payments payment.Repository
	plans    plan.Repository
	coupons  coupon.Repository
	gyms     gym.Repository
	gw       gateway.Client
	notifier Notifier

	gatewaySecret  string
	testMode       bool
	couponRedeemAt string

	now func() time.Time
}

func NewService(
	repo Repository,
	payments payment.Repository,
	plans plan.Repository,
	coupons coupon.Repository,
	gyms gym.Repository,
	gw gateway.Client,
	notifier Notifier,
	cfg *config.Config,
) Service {
	return &service{
		repo:           repo,
		payments:       payments,
		plans:          plans,
		coupons:        coupons,
		gyms:           gyms,
		gw:             gw,
		notifier:       notifier,
		gatewaySecret:  cfg.GatewaySecret,
		testMode:       cfg.GatewayTestMode,
		couponRedeemAt: cfg.CouponRedeemAt,
		now:            time.Now,
	}
}

// Begin validates the checkout and creates the pending membership/payment
// pair. No writes happen on any validation failure.
func (s *service) Begin(ctx context.Context, userID int, req BeginRequest) (*CheckoutResult, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if startDate.Before(today) {
		return nil, ErrInvalidStartDate
	}

	p, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, ErrPlanUnavailable
	}
	if p.GymID != req.GymID {
		return nil, ErrPlanUnavailable
	}

	days, err := p.DurationDays()
	if err != nil {
		return nil, ErrPlanUnavailable
	}
	endDate := startDate.AddDate(0, 0, days-1)

	var couponCode *string
	var discountCents int64
	if req.CouponCode != "" {
		c, err := s.coupons.FindByCode(ctx, req.CouponCode)
		if err != nil {
			return nil, coupon.ErrCouponInvalid
		}
		if err := c.Validate(now, p.ID, p.GymID); err != nil {
			return nil, coupon.ErrCouponInvalid
		}
		discountCents = c.DiscountFor(p.PriceCents)
		couponCode = &c.Code
	}

	m, pay, err := s.repo.CreateCheckout(ctx, CheckoutParams{
		UserID:        userID,
		GymID:         p.GymID,
		PlanID:        p.ID,
		StartDate:     startDate,
		EndDate:       endDate,
		AmountCents:   p.PriceCents - discountCents,
		BaseCents:     p.PriceCents,
		DiscountCents: discountCents,
		CouponCode:    couponCode,
		RedeemCoupon:  s.couponRedeemAt == config.RedeemAtBegin,
	})
	if err != nil {
		return nil, err
	}

	if couponCode != nil && s.couponRedeemAt == config.RedeemAtBegin {
		metrics.RecordCouponRedemption()
	}
	metrics.RecordCheckout(string(p.Duration))
	logger.Infof("Checkout started: membership=%d payment=%d user=%d plan=%d", m.ID, pay.ID, userID, p.ID)

	return &CheckoutResult{
		Membership: m,
		Payment:    pay,
		Receipt:    receiptFor(m.ID, pay.ID),
	}, nil
}

// CreateGatewayOrder creates (or reuses) the remote order for a pending
// payment. A stored order that is still valid upstream is reused; a stale
// one gets replaced.
func (s *service) CreateGatewayOrder(ctx context.Context, userID, paymentID int) (*gateway.Order, error) {
	pay, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if pay.UserID != userID {
		return nil, payment.ErrPaymentNotFound
	}
	if pay.Terminal() {
		return nil, ErrStateConflict
	}

	if pay.TransactionID != nil {
		order, err := s.gw.GetOrder(ctx, *pay.TransactionID)
		if err != nil {
			metrics.RecordGatewayOrder("error")
			return nil, err
		}
		if order != nil && order.Valid() {
			metrics.RecordGatewayOrder("reused")
			return order, nil
		}
		logger.Infof("Stored gateway order %s for payment %d is stale, replacing", *pay.TransactionID, paymentID)
	}

	membershipID := 0
	if pay.MembershipID != nil {
		membershipID = *pay.MembershipID
	}

	order, err := s.gw.CreateOrder(ctx, gateway.OrderRequest{
		AmountMinorUnits: pay.AmountCents,
		Currency:         "INR",
		Receipt:          receiptFor(membershipID, pay.ID),
		Notes: map[string]string{
			"membership_id": fmt.Sprintf("%d", membershipID),
			"payment_id":    fmt.Sprintf("%d", pay.ID),
			"gym_id":        fmt.Sprintf("%d", pay.GymID),
			"user_id":       fmt.Sprintf("%d", pay.UserID),
		},
	})
	if err != nil {
		metrics.RecordGatewayOrder("error")
		return nil, err
	}

	if err := s.payments.StoreOrderID(ctx, pay.ID, order.ID); err != nil {
		return nil, err
	}

	metrics.RecordGatewayOrder("created")
	logger.Infof("Gateway order %s created for payment %d", order.ID, pay.ID)
	return order, nil
}

// VerifyAndActivate checks the callback signature and drives the atomic
// activation. Test mode skips only the signature comparison; every other
// invariant (idempotency, state guards, ledger credit) holds identically.
func (s *service) VerifyAndActivate(ctx context.Context, req VerifyRequest) (*Membership, error) {
	if !s.testMode {
		if !gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature, s.gatewaySecret) {
			metrics.RecordSignatureFailure()
			logger.Errorf("SECURITY: rejected gateway callback signature for membership=%d payment=%d order=%s",
				req.MembershipID, req.PaymentID, req.GatewayOrderID)
			return nil, ErrSignatureInvalid
		}
	}

	pay, err := s.payments.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	if pay.TransactionID == nil || *pay.TransactionID != req.GatewayOrderID {
		return nil, ErrStateConflict
	}

	m, alreadyActive, err := s.repo.Activate(ctx, ActivateParams{
		MembershipID:     req.MembershipID,
		PaymentID:        req.PaymentID,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		RedeemCoupon:     s.couponRedeemAt == config.RedeemAtActivation,
	})
	if err != nil {
		metrics.RecordActivation("error")
		return nil, err
	}

	if alreadyActive {
		metrics.RecordActivation("replay")
		logger.Infof("Activation replay for membership=%d payment=%d, no writes", m.ID, req.PaymentID)
		return m, nil
	}

	if m.CouponCode != nil && s.couponRedeemAt == config.RedeemAtActivation {
		metrics.RecordCouponRedemption()
	}
	metrics.RecordActivation("activated")
	logger.Infof("Membership %d activated (payment %d)", m.ID, req.PaymentID)

	ownerID := 0
	if g, err := s.gyms.GetGymByID(ctx, m.GymID); err == nil {
		ownerID = g.OwnerUserID
	}
	s.notifier.MembershipActivated(ctx, m.UserID, ownerID, m)

	return m, nil
}

// RecordFailure marks a still-pending pair as failed. Safe to call twice.
func (s *service) RecordFailure(ctx context.Context, req FailureRequest) error {
	details, err := json.Marshal(map[string]string{
		"error_code":   req.ErrorCode,
		"error_reason": req.ErrorReason,
	})
	if err != nil {
		return err
	}

	if err := s.repo.RecordFailure(ctx, req.MembershipID, req.PaymentID, string(details)); err != nil {
		return err
	}

	logger.Infof("Payment failure recorded: membership=%d payment=%d code=%s",
		req.MembershipID, req.PaymentID, req.ErrorCode)

	if m, err := s.repo.GetByID(ctx, req.MembershipID); err == nil {
		s.notifier.PaymentFailed(ctx, m.UserID, m.ID)
	}

	return nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Membership, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]Membership, error) {
	return s.repo.ListByUser(ctx, userID)
}

func receiptFor(membershipID, paymentID int) string {
	return fmt.Sprintf("mem-%d-%d", membershipID, paymentID)
}
