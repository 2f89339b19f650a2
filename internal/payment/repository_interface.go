package payment

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int) (*Payment, error)
	StoreOrderID(ctx context.Context, paymentID int, orderID string) error
	ListByUser(ctx context.Context, userID int) ([]Payment, error)
}
