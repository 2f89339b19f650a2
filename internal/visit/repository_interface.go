package visit

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID, gymID int, date time.Time, startTime string) (*Visit, error)
	GetByID(ctx context.Context, id int) (*Visit, error)
	ListByUser(ctx context.Context, userID int) ([]Visit, error)
	CountBooked(ctx context.Context, gymID int, date time.Time, startTime string) (int, error)
	HasActiveMembership(ctx context.Context, userID, gymID int, date time.Time) (bool, error)
	// CancelWithFee cancels the visit and, when feeCents > 0, debits the
	// user's balance and appends a fee ledger entry — one atomic unit.
	CancelWithFee(ctx context.Context, visitID int, feeCents int64, description string) (*Visit, error)
	// RescheduleWithFee moves the visit and applies the fee the same way.
	RescheduleWithFee(ctx context.Context, visitID int, newDate time.Time, newStart string, feeCents int64, description string) (*Visit, error)
}
