package gym

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	query := `
		INSERT INTO gyms (owner_user_id, name, location, cancellation_fee_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_user_id, name, location, cancellation_fee_cents, created_at
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, req.OwnerUserID, req.Name, req.Location, req.CancellationFeeCents)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *PostgresRepository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, owner_user_id, name, location, cancellation_fee_cents, created_at
		FROM gyms
		ORDER BY created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *PostgresRepository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, owner_user_id, name, location, cancellation_fee_cents, created_at
		FROM gyms
		WHERE id = $1
	`

	var gym Gym
	err := r.db.GetContext(ctx, &gym, query, id)
	if err != nil {
		return nil, err
	}

	return &gym, nil
}

func (r *PostgresRepository) SetHours(ctx context.Context, gymID int, req SetHoursRequest) (*OperatingHours, error) {
	query := `
		INSERT INTO gym_hours (gym_id, day, morning_start, morning_end, evening_start, evening_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (gym_id, day) DO UPDATE
		SET morning_start = EXCLUDED.morning_start,
		    morning_end = EXCLUDED.morning_end,
		    evening_start = EXCLUDED.evening_start,
		    evening_end = EXCLUDED.evening_end
		RETURNING id, gym_id, day, morning_start, morning_end, evening_start, evening_end
	`

	var hours OperatingHours
	err := r.db.GetContext(ctx, &hours, query,
		gymID, req.Day, req.MorningStart, req.MorningEnd, req.EveningStart, req.EveningEnd)
	if err != nil {
		return nil, err
	}

	return &hours, nil
}

// GetHoursForDay resolves the schedule for a weekday, falling back to the
// gym's "daily" row when no day-specific row exists.
func (r *PostgresRepository) GetHoursForDay(ctx context.Context, gymID int, day string) (*OperatingHours, error) {
	query := `
		SELECT id, gym_id, day, morning_start, morning_end, evening_start, evening_end
		FROM gym_hours
		WHERE gym_id = $1 AND day IN ($2, 'daily')
		ORDER BY (day = $2) DESC
		LIMIT 1
	`

	var hours OperatingHours
	err := r.db.GetContext(ctx, &hours, query, gymID, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &hours, nil
}

func (r *PostgresRepository) CountOccupancy(ctx context.Context, gymID int, date time.Time, slotTime string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM visits
		WHERE gym_id = $1 AND visit_date = $2 AND start_time = $3 AND status = 'booked'
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, gymID, date.Format("2006-01-02"), slotTime)
	if err != nil {
		return 0, err
	}

	return count, nil
}
