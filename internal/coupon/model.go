package coupon

import (
	"errors"
	"time"
)

// Applicability scopes.
const (
	ScopeNone = "none"
	ScopePlan = "plan"
	ScopeGym  = "gym"
)

// Discount kinds.
const (
	DiscountFlat    = "flat"
	DiscountPercent = "percent"
)

var ErrCouponInvalid = errors.New("coupon invalid")

type Coupon struct {
	ID               int        `db:"id" json:"id"`
	Code             string     `db:"code" json:"code"`
	IsActive         bool       `db:"is_active" json:"is_active"`
	ExpiryDate       *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	UsageLimit       *int       `db:"usage_limit" json:"usage_limit,omitempty"`
	UsageCount       int        `db:"usage_count" json:"usage_count"`
	ApplicableToType string     `db:"applicable_to_type" json:"applicable_to_type"`
	ApplicableToID   *int       `db:"applicable_to_id" json:"applicable_to_id,omitempty"`
	DiscountType     string     `db:"discount_type" json:"discount_type"`
	DiscountValue    int64      `db:"discount_value" json:"discount_value"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// Validate checks every redemption precondition except the atomic usage
// increment, which the store enforces again at write time.
func (c *Coupon) Validate(now time.Time, planID, gymID int) error {
	if !c.IsActive {
		return ErrCouponInvalid
	}

	if c.ExpiryDate != nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if c.ExpiryDate.Before(today) {
			return ErrCouponInvalid
		}
	}

	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return ErrCouponInvalid
	}

	switch c.ApplicableToType {
	case ScopeNone:
	case ScopePlan:
		if c.ApplicableToID == nil || *c.ApplicableToID != planID {
			return ErrCouponInvalid
		}
	case ScopeGym:
		if c.ApplicableToID == nil || *c.ApplicableToID != gymID {
			return ErrCouponInvalid
		}
	default:
		return ErrCouponInvalid
	}

	return nil
}

// DiscountFor computes the discount in paise for a base price, capped at the
// base price itself.
func (c *Coupon) DiscountFor(basePriceCents int64) int64 {
	var discount int64
	switch c.DiscountType {
	case DiscountFlat:
		discount = c.DiscountValue
	case DiscountPercent:
		discount = basePriceCents * c.DiscountValue / 100
	}

	if discount > basePriceCents {
		discount = basePriceCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

type CreateCouponRequest struct {
	Code             string     `json:"code" binding:"required"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	UsageLimit       *int       `json:"usage_limit,omitempty"`
	ApplicableToType string     `json:"applicable_to_type" binding:"required,oneof=none plan gym"`
	ApplicableToID   *int       `json:"applicable_to_id,omitempty"`
	DiscountType     string     `json:"discount_type" binding:"required,oneof=flat percent"`
	DiscountValue    int64      `json:"discount_value" binding:"required,gt=0"`
}

type PreviewRequest struct {
	Code   string `json:"code" binding:"required"`
	PlanID int    `json:"plan_id" binding:"required"`
}

type PreviewResponse struct {
	Code           string `json:"code"`
	BasePriceCents int64  `json:"base_price_cents"`
	DiscountCents  int64  `json:"discount_cents"`
	PayableCents   int64  `json:"payable_cents"`
}
