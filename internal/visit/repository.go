package visit

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/ledger"
)

const visitColumns = `id, user_id, gym_id, visit_date, start_time, status, created_at, updated_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, gymID int, date time.Time, startTime string) (*Visit, error) {
	v := &Visit{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO visits (user_id, gym_id, visit_date, start_time, status)
		VALUES ($1, $2, $3, $4, 'booked')
		RETURNING `+visitColumns+`
	`, userID, gymID, date.Format("2006-01-02"), startTime).StructScan(v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Visit, error) {
	v := &Visit{}
	err := r.db.GetContext(ctx, v,
		`SELECT `+visitColumns+` FROM visits WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Visit, error) {
	var visits []Visit
	err := r.db.SelectContext(ctx, &visits, `
		SELECT `+visitColumns+`
		FROM visits
		WHERE user_id = $1
		ORDER BY visit_date DESC, start_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *PostgresRepository) CountBooked(ctx context.Context, gymID int, date time.Time, startTime string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM visits
		WHERE gym_id = $1 AND visit_date = $2 AND start_time = $3 AND status = 'booked'
	`, gymID, date.Format("2006-01-02"), startTime)
	return count, err
}

func (r *PostgresRepository) HasActiveMembership(ctx context.Context, userID, gymID int, date time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM memberships
			WHERE user_id = $1 AND gym_id = $2
			  AND status = 'active'
			  AND start_date <= $3 AND end_date >= $3
		)
	`, userID, gymID, date.Format("2006-01-02"))
	return exists, err
}

func (r *PostgresRepository) CancelWithFee(ctx context.Context, visitID int, feeCents int64, description string) (*Visit, error) {
	return r.updateWithFee(ctx, visitID, feeCents, description, "visit_cancelled",
		`UPDATE visits
		 SET status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND status = 'booked'
		 RETURNING `+visitColumns)
}

func (r *PostgresRepository) RescheduleWithFee(ctx context.Context, visitID int, newDate time.Time, newStart string, feeCents int64, description string) (*Visit, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	v := &Visit{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE visits
		SET visit_date = $1, start_time = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'booked'
		RETURNING `+visitColumns+`
	`, newDate.Format("2006-01-02"), newStart, visitID).StructScan(v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVisitNotBooked
		}
		return nil, err
	}

	if err := r.applyFee(ctx, tx, v, feeCents, description, "visit_rescheduled"); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *PostgresRepository) updateWithFee(ctx context.Context, visitID int, feeCents int64, description, action, query string) (*Visit, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	v := &Visit{}
	err = tx.QueryRowxContext(ctx, query, visitID).StructScan(v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVisitNotBooked
		}
		return nil, err
	}

	if err := r.applyFee(ctx, tx, v, feeCents, description, action); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return v, nil
}

// applyFee debits the fee and writes the audit row inside the caller's tx.
// An insufficient balance error bubbles up and rolls back the status change
// along with everything else.
func (r *PostgresRepository) applyFee(ctx context.Context, tx *sqlx.Tx, v *Visit, feeCents int64, description, action string) error {
	if feeCents > 0 {
		if _, err := ledger.Debit(ctx, tx, v.UserID, feeCents, ledger.TypeFee, description); err != nil {
			return err
		}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO activity_log (user_id, action, details)
		VALUES ($1, $2, json_build_object('visit_id', $3::int, 'fee_cents', $4::bigint))
	`, v.UserID, action, v.ID, feeCents)
	return err
}
