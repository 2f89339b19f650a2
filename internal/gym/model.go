package gym

import "time"

const SlotCapacity = 50

type Gym struct {
	ID                   int       `db:"id" json:"id"`
	OwnerUserID          int       `db:"owner_user_id" json:"owner_user_id"`
	Name                 string    `db:"name" json:"name"`
	Location             string    `db:"location" json:"location"`
	CancellationFeeCents *int64    `db:"cancellation_fee_cents" json:"cancellation_fee_cents,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// OperatingHours holds one day's morning/evening windows for a gym.
// Day is a lowercase weekday name or "daily" for the fallback row.
type OperatingHours struct {
	ID           int     `db:"id" json:"id"`
	GymID        int     `db:"gym_id" json:"gym_id"`
	Day          string  `db:"day" json:"day"`
	MorningStart *string `db:"morning_start" json:"morning_start,omitempty"`
	MorningEnd   *string `db:"morning_end" json:"morning_end,omitempty"`
	EveningStart *string `db:"evening_start" json:"evening_start,omitempty"`
	EveningEnd   *string `db:"evening_end" json:"evening_end,omitempty"`
}

// Slot is one bookable hour at a gym on a given date.
type Slot struct {
	Time           string `json:"time" example:"06:00"`
	FormattedTime  string `json:"formatted_time" example:"6:00 AM"`
	AvailableCount int    `json:"available_count" example:"47"`
}

type CreateGymRequest struct {
	Name                 string `json:"name" binding:"required"`
	Location             string `json:"location" binding:"required"`
	OwnerUserID          int    `json:"owner_user_id" binding:"required"`
	CancellationFeeCents *int64 `json:"cancellation_fee_cents,omitempty"`
}

type SetHoursRequest struct {
	Day          string  `json:"day" binding:"required"`
	MorningStart *string `json:"morning_start,omitempty"`
	MorningEnd   *string `json:"morning_end,omitempty"`
	EveningStart *string `json:"evening_start,omitempty"`
	EveningEnd   *string `json:"evening_end,omitempty"`
}
