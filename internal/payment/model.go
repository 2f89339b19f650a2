package payment

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payment is one checkout attempt. Status moves pending -> completed|failed
// and never leaves a terminal state.
type Payment struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	GymID          int       `db:"gym_id" json:"gym_id"`
	MembershipID   *int      `db:"membership_id" json:"membership_id,omitempty"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	BaseCents      int64     `db:"base_cents" json:"base_cents"`
	DiscountCents  int64     `db:"discount_cents" json:"discount_cents"`
	Status         Status    `db:"status" json:"status"`
	TransactionID  *string   `db:"transaction_id" json:"transaction_id,omitempty"`
	GatewayPayment *string   `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Terminal reports whether the payment can no longer change status.
func (p *Payment) Terminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}
