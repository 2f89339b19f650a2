package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrTerminalState   = errors.New("payment already in terminal state")
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Payment, error) {
	query := `
		SELECT id, user_id, gym_id, membership_id, amount_cents, base_cents, discount_cents,
		       status, transaction_id, gateway_payment_id, created_at, updated_at
		FROM payments
		WHERE id = $1
	`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	return &p, nil
}

// StoreOrderID records (or replaces) the gateway order id. Only pending
// payments may be touched; terminal rows are immutable.
func (r *PostgresRepository) StoreOrderID(ctx context.Context, paymentID int, orderID string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET transaction_id = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
	`, orderID, paymentID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTerminalState
	}

	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Payment, error) {
	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT id, user_id, gym_id, membership_id, amount_cents, base_cents, discount_cents,
		       status, transaction_id, gateway_payment_id, created_at, updated_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
