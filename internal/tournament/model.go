package tournament

import (
	"errors"
	"time"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentFull     = errors.New("tournament is full")
	ErrAlreadyRegistered  = errors.New("already registered for this tournament")
	ErrRegistrationClosed = errors.New("registration closed")
)

// Tournament is a gym-hosted event with a capped participant list and an
// entry fee debited from the member's balance.
type Tournament struct {
	ID              int       `db:"id" json:"id"`
	GymID           int       `db:"gym_id" json:"gym_id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	EventDate       time.Time `db:"event_date" json:"event_date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	EntryFeeCents   int64     `db:"entry_fee_cents" json:"entry_fee_cents"`
	MaxParticipants int       `db:"max_participants" json:"max_participants"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Registration struct {
	ID           int       `db:"id" json:"id"`
	TournamentID int       `db:"tournament_id" json:"tournament_id"`
	UserID       int       `db:"user_id" json:"user_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type CreateRequest struct {
	GymID           int    `json:"gym_id" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	EventDate       string `json:"event_date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EntryFeeCents   int64  `json:"entry_fee_cents" binding:"gte=0"`
	MaxParticipants int    `json:"max_participants" binding:"required,gte=1"`
}
