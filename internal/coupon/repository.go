package coupon

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrCouponNotFound = errors.New("coupon not found")

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	query := `
		INSERT INTO coupons (code, is_active, expiry_date, usage_limit, usage_count, applicable_to_type, applicable_to_id, discount_type, discount_value)
		VALUES ($1, TRUE, $2, $3, 0, $4, $5, $6, $7)
		RETURNING id, code, is_active, expiry_date, usage_limit, usage_count, applicable_to_type, applicable_to_id, discount_type, discount_value, created_at
	`

	var coupon Coupon
	err := r.db.GetContext(ctx, &coupon, query,
		strings.ToUpper(req.Code), req.ExpiryDate, req.UsageLimit,
		req.ApplicableToType, req.ApplicableToID, req.DiscountType, req.DiscountValue)
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `
		SELECT id, code, is_active, expiry_date, usage_limit, usage_count, applicable_to_type, applicable_to_id, discount_type, discount_value, created_at
		FROM coupons
		WHERE code = $1
	`

	var coupon Coupon
	err := r.db.GetContext(ctx, &coupon, query, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	return &coupon, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE coupons SET is_active = FALSE WHERE code = $1`,
		strings.ToUpper(code))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCouponNotFound
	}

	return nil
}

// RedeemTx consumes one usage slot inside the caller's transaction. The
// limit check lives in the UPDATE predicate so two concurrent checkouts
// cannot both take the last slot.
func RedeemTx(ctx context.Context, tx *sqlx.Tx, code string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE coupons
		SET usage_count = usage_count + 1
		WHERE code = $1
		  AND is_active = TRUE
		  AND (usage_limit IS NULL OR usage_count < usage_limit)
	`, strings.ToUpper(code))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCouponInvalid
	}

	return nil
}

func (r *PostgresRepository) RedeemTx(ctx context.Context, tx *sqlx.Tx, code string) error {
	return RedeemTx(ctx, tx, code)
}
