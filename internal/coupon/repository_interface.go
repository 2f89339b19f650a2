package coupon

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	Deactivate(ctx context.Context, code string) error
	RedeemTx(ctx context.Context, tx *sqlx.Tx, code string) error
}
