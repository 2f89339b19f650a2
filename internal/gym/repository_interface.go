package gym

import (
	"context"
	"time"
)

type Repository interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	SetHours(ctx context.Context, gymID int, req SetHoursRequest) (*OperatingHours, error)
	GetHoursForDay(ctx context.Context, gymID int, day string) (*OperatingHours, error)
	CountOccupancy(ctx context.Context, gymID int, date time.Time, slotTime string) (int, error)
}
