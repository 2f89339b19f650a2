package tournament

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, t *Tournament) (*Tournament, error)
	GetByID(ctx context.Context, id int) (*Tournament, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]Tournament, error)
	// Register seats the user, debits the entry fee and writes the audit row
	// in one atomic unit. The capacity check runs under a row lock.
	Register(ctx context.Context, tournamentID, userID int) (*Registration, error)
	ListRegistrations(ctx context.Context, tournamentID int) ([]Registration, error)
	ListByUser(ctx context.Context, userID int) ([]Tournament, error)
}
