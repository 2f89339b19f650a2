package ledger

import (
	"errors"
	"time"
)

// Entry types recorded in transaction_log.
const (
	TypeMembershipPurchase = "membership_purchase"
	TypeFee                = "fee"
	TypeTournamentEntry    = "tournament_entry"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// Entry is an append-only record of a monetary movement on a user's account.
type Entry struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	AmountCents  int64     `db:"amount_cents" json:"amount_cents"`
	Type         string    `db:"type" json:"type"`
	Description  string    `db:"description" json:"description"`
	Status       string    `db:"status" json:"status"`
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
