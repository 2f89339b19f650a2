// Package ledger applies monetary side effects to a user's balance. Credit
// and Debit run inside a caller-supplied transaction so a failing debit rolls
// back everything the caller wrote in the same atomic unit.
package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Credit adds a positive amount to the user's balance and appends a ledger
// entry. Returns the new balance.
func Credit(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, entryType, description string) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrNonPositiveAmount
	}
	return apply(ctx, tx, userID, amountCents, entryType, description)
}

// Debit subtracts a positive amount from the user's balance and appends a
// ledger entry. Returns ErrInsufficientBalance when the balance would go
// negative; the caller must roll back its transaction.
func Debit(ctx context.Context, tx *sqlx.Tx, userID int, amountCents int64, entryType, description string) (int64, error) {
	if amountCents <= 0 {
		return 0, ErrNonPositiveAmount
	}
	return apply(ctx, tx, userID, -amountCents, entryType, description)
}

func apply(ctx context.Context, tx *sqlx.Tx, userID int, deltaCents int64, entryType, description string) (int64, error) {
	var balance int64
	err := tx.QueryRowxContext(ctx,
		`SELECT balance_cents FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&balance)
	if err != nil {
		return 0, err
	}

	newBalance := balance + deltaCents
	if newBalance < 0 {
		return 0, ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance_cents = $1 WHERE id = $2`,
		newBalance, userID,
	)
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transaction_log (user_id, amount_cents, type, description, status, balance_after)
		 VALUES ($1, $2, $3, $4, 'completed', $5)`,
		userID, deltaCents, entryType, description, newBalance,
	)
	if err != nil {
		return 0, err
	}

	return newBalance, nil
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetEntries(ctx context.Context, userID int, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []Entry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, amount_cents, type, description, status, balance_after, created_at
		FROM transaction_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
