package membership

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/coupon"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/ledger"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/payment"
)

const membershipColumns = `id, user_id, gym_id, plan_id, start_date, end_date, status, payment_status,
	amount_cents, base_cents, discount_cents, coupon_code, payment_id, activated_at, created_at, updated_at`

const paymentColumns = `id, user_id, gym_id, membership_id, amount_cents, base_cents, discount_cents,
	status, transaction_id, gateway_payment_id, created_at, updated_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateCheckout inserts the pending membership and payment pair, and when
// the begin-redemption policy is on, consumes the coupon's usage slot — all
// in one transaction. Nothing persists on any failure.
func (r *PostgresRepository) CreateCheckout(ctx context.Context, p CheckoutParams) (*Membership, *payment.Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	m := &Membership{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO memberships (user_id, gym_id, plan_id, start_date, end_date, status, payment_status,
		                         amount_cents, base_cents, discount_cents, coupon_code)
		VALUES ($1, $2, $3, $4, $5, 'pending', 'pending', $6, $7, $8, $9)
		RETURNING `+membershipColumns+`
	`, p.UserID, p.GymID, p.PlanID, p.StartDate, p.EndDate,
		p.AmountCents, p.BaseCents, p.DiscountCents, p.CouponCode,
	).StructScan(m)
	if err != nil {
		return nil, nil, err
	}

	pay := &payment.Payment{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO payments (user_id, gym_id, membership_id, amount_cents, base_cents, discount_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING `+paymentColumns+`
	`, p.UserID, p.GymID, m.ID, p.AmountCents, p.BaseCents, p.DiscountCents,
	).StructScan(pay)
	if err != nil {
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE memberships SET payment_id = $1, updated_at = NOW() WHERE id = $2`,
		pay.ID, m.ID)
	if err != nil {
		return nil, nil, err
	}
	m.PaymentID = &pay.ID

	if p.CouponCode != nil && p.RedeemCoupon {
		if err := coupon.RedeemTx(ctx, tx, *p.CouponCode); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return m, pay, nil
}

// Activate flips the pair to active/paid/completed, applies the ledger
// credit and activity log, and optionally redeems the coupon — one atomic
// unit. Re-invocation for an already-active pair is a no-op that reports
// alreadyActive=true.
func (r *PostgresRepository) Activate(ctx context.Context, p ActivateParams) (*Membership, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	m := &Membership{}
	err = tx.QueryRowxContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = $1 FOR UPDATE`,
		p.MembershipID,
	).StructScan(m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrMembershipNotFound
		}
		return nil, false, err
	}

	// Idempotency guard: a replayed callback for the same pair must not
	// double-credit the balance or duplicate the ledger entry.
	if m.Status == StatusActive && m.PaymentStatus == PaymentPaid &&
		m.PaymentID != nil && *m.PaymentID == p.PaymentID {
		return m, true, nil
	}

	if m.Status != StatusPending || m.PaymentStatus != PaymentPending {
		return nil, false, ErrStateConflict
	}
	if m.PaymentID == nil || *m.PaymentID != p.PaymentID {
		return nil, false, ErrStateConflict
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = 'completed', transaction_id = $1, gateway_payment_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
	`, p.GatewayOrderID, p.GatewayPaymentID, p.PaymentID)
	if err != nil {
		return nil, false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if rows == 0 {
		return nil, false, ErrStateConflict
	}

	err = tx.QueryRowxContext(ctx, `
		UPDATE memberships
		SET status = 'active', payment_status = 'paid', activated_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING `+membershipColumns+`
	`, p.MembershipID).StructScan(m)
	if err != nil {
		return nil, false, err
	}

	if _, err := ledger.Credit(ctx, tx, m.UserID, m.BaseCents,
		ledger.TypeMembershipPurchase, "Membership purchase credit"); err != nil {
		return nil, false, err
	}

	if p.RedeemCoupon && m.CouponCode != nil {
		if err := coupon.RedeemTx(ctx, tx, *m.CouponCode); err != nil {
			return nil, false, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activity_log (user_id, action, details)
		VALUES ($1, 'membership_activated', json_build_object('membership_id', $2::int, 'payment_id', $3::int, 'gateway_payment_id', $4::text))
	`, m.UserID, m.ID, p.PaymentID, p.GatewayPaymentID)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return m, false, nil
}

// RecordFailure moves a still-pending pair to failed and logs the structured
// error payload. Calling it again on an already-failed pair changes nothing.
func (r *PostgresRepository) RecordFailure(ctx context.Context, membershipID, paymentID int, details string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int
	err = tx.QueryRowxContext(ctx,
		`SELECT user_id FROM memberships WHERE id = $1 FOR UPDATE`,
		membershipID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMembershipNotFound
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE payments
		SET status = 'failed', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, paymentID)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE memberships
		SET status = 'failed', payment_status = 'failed', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'pending'
	`, membershipID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO activity_log (user_id, action, details)
			VALUES ($1, 'payment_failed', $2::jsonb)
		`, userID, details)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Membership, error) {
	m := &Membership{}
	err := r.db.GetContext(ctx, m,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Membership, error) {
	var memberships []Membership
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
