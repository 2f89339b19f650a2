package tournament

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/ledger"
)

const tournamentColumns = `id, gym_id, title, description, event_date, start_time, entry_fee_cents, max_participants, created_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *Tournament) (*Tournament, error) {
	created := &Tournament{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO tournaments (gym_id, title, description, event_date, start_time, entry_fee_cents, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+tournamentColumns+`
	`, t.GymID, t.Title, t.Description, t.EventDate.Format("2006-01-02"), t.StartTime,
		t.EntryFeeCents, t.MaxParticipants).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*Tournament, error) {
	t := &Tournament{}
	err := r.db.GetContext(ctx, t,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *PostgresRepository) ListUpcoming(ctx context.Context, from time.Time) ([]Tournament, error) {
	var tournaments []Tournament
	err := r.db.SelectContext(ctx, &tournaments, `
		SELECT `+tournamentColumns+`
		FROM tournaments
		WHERE event_date >= $1
		ORDER BY event_date, start_time
	`, from.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *PostgresRepository) Register(ctx context.Context, tournamentID, userID int) (*Registration, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t := &Tournament{}
	err = tx.QueryRowxContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 FOR UPDATE`,
		tournamentID).StructScan(t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var exists bool
	err = tx.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM tournament_registrations WHERE tournament_id = $1 AND user_id = $2)
	`, tournamentID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	var seated int
	err = tx.GetContext(ctx, &seated,
		`SELECT COUNT(*) FROM tournament_registrations WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return nil, err
	}
	if seated >= t.MaxParticipants {
		return nil, ErrTournamentFull
	}

	reg := &Registration{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO tournament_registrations (tournament_id, user_id)
		VALUES ($1, $2)
		RETURNING id, tournament_id, user_id, created_at
	`, tournamentID, userID).StructScan(reg)
	if err != nil {
		return nil, err
	}

	if t.EntryFeeCents > 0 {
		if _, err := ledger.Debit(ctx, tx, userID, t.EntryFeeCents,
			ledger.TypeTournamentEntry, "Entry fee: "+t.Title); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activity_log (user_id, action, details)
		VALUES ($1, 'tournament_registered', json_build_object('tournament_id', $2::int, 'fee_cents', $3::bigint))
	`, userID, tournamentID, t.EntryFeeCents)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *PostgresRepository) ListRegistrations(ctx context.Context, tournamentID int) ([]Registration, error) {
	var regs []Registration
	err := r.db.SelectContext(ctx, &regs, `
		SELECT id, tournament_id, user_id, created_at
		FROM tournament_registrations
		WHERE tournament_id = $1
		ORDER BY created_at
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Tournament, error) {
	var tournaments []Tournament
	err := r.db.SelectContext(ctx, &tournaments, `
		SELECT t.id, t.gym_id, t.title, t.description, t.event_date, t.start_time, t.entry_fee_cents, t.max_participants, t.created_at
		FROM tournaments t
		JOIN tournament_registrations tr ON tr.tournament_id = t.id
		WHERE tr.user_id = $1
		ORDER BY t.event_date
	`, userID)
	if err != nil {
		return nil, err
	}
	return tournaments, nil
}
