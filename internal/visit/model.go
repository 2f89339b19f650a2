package visit

import (
	"errors"
	"time"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var (
	ErrVisitNotFound     = errors.New("visit not found")
	ErrNotOwner          = errors.New("visit belongs to another user")
	ErrVisitNotBooked    = errors.New("visit is not in booked state")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrNoActiveMembership = errors.New("no active membership covers this visit")
)

// Visit is one scheduled workout at a gym.
type Visit struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	GymID     int       `db:"gym_id" json:"gym_id"`
	VisitDate time.Time `db:"visit_date" json:"visit_date"`
	StartTime string    `db:"start_time" json:"start_time"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type BookRequest struct {
	GymID     int    `json:"gym_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
}

type RescheduleRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
}

type FeeResponse struct {
	Visit    *Visit `json:"visit"`
	FeeCents int64  `json:"fee_cents"`
}
