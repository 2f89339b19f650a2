package plan

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	query := `
		INSERT INTO plans (gym_id, tier, duration, price_cents, day_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, tier, duration, price_cents, day_count, created_at
	`

	var plan Plan
	err := r.db.GetContext(ctx, &plan, query, req.GymID, req.Tier, req.Duration, req.PriceCents, req.DayCount)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Plan, error) {
	query := `
		SELECT id, gym_id, tier, duration, price_cents, day_count, created_at
		FROM plans
		WHERE id = $1
	`

	var plan Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *PostgresRepository) ListByGym(ctx context.Context, gymID int) ([]Plan, error) {
	query := `
		SELECT id, gym_id, tier, duration, price_cents, day_count, created_at
		FROM plans
		WHERE gym_id = $1
		ORDER BY price_cents ASC
	`

	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, query, gymID)
	if err != nil {
		return nil, err
	}

	return plans, nil
}
