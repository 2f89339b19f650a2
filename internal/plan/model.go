package plan

import (
	"errors"
	"time"
)

type Duration string

const (
	DurationDaily      Duration = "daily"
	DurationWeekly     Duration = "weekly"
	DurationMonthly    Duration = "monthly"
	DurationQuarterly  Duration = "quarterly"
	DurationHalfYearly Duration = "half_yearly"
	DurationYearly     Duration = "yearly"
)

var ErrUnknownDuration = errors.New("unknown plan duration")

// Plan is an immutable catalog entry. Prices are integer paise.
type Plan struct {
	ID         int       `db:"id" json:"id"`
	GymID      int       `db:"gym_id" json:"gym_id"`
	Tier       string    `db:"tier" json:"tier"`
	Duration   Duration  `db:"duration" json:"duration"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	// DayCount overrides the duration mapping for daily passes sold in
	// multi-day blocks. Nil means the standard mapping applies.
	DayCount  *int      `db:"day_count" json:"day_count,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DurationDays returns the membership length in days for a plan.
func (p *Plan) DurationDays() (int, error) {
	if p.Duration == DurationDaily && p.DayCount != nil && *p.DayCount > 0 {
		return *p.DayCount, nil
	}

	switch p.Duration {
	case DurationDaily:
		return 1, nil
	case DurationWeekly:
		return 7, nil
	case DurationMonthly:
		return 30, nil
	case DurationQuarterly:
		return 90, nil
	case DurationHalfYearly:
		return 180, nil
	case DurationYearly:
		return 365, nil
	}
	return 0, ErrUnknownDuration
}

type CreatePlanRequest struct {
	GymID      int    `json:"gym_id" binding:"required"`
	Tier       string `json:"tier" binding:"required"`
	Duration   string `json:"duration" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required,gt=0"`
	DayCount   *int   `json:"day_count,omitempty"`
}
