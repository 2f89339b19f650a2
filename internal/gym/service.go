package gym

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrGymNotFound = errors.New("gym not found")
	ErrInvalidDate = errors.New("invalid date")
)

// Defaults used when a gym has no operating-hours rows at all.
const (
	defaultOpen  = "06:00"
	defaultClose = "22:00"
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	SetHours(ctx context.Context, gymID int, req SetHoursRequest) (*OperatingHours, error)
	GetSlots(ctx context.Context, gymID int, date time.Time) ([]Slot, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	return s.repo.CreateGym(ctx, req)
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		return nil, ErrGymNotFound
	}
	return gym, nil
}

func (s *service) SetHours(ctx context.Context, gymID int, req SetHoursRequest) (*OperatingHours, error) {
	if _, err := s.repo.GetGymByID(ctx, gymID); err != nil {
		return nil, ErrGymNotFound
	}

	day := strings.ToLower(req.Day)
	if !validDay(day) {
		return nil, ErrInvalidDate
	}
	req.Day = day

	return s.repo.SetHours(ctx, gymID, req)
}

// GetSlots returns the bookable hourly slots for a gym on a date. Slots come
// from the gym's morning/evening windows for that weekday, falling back to
// the "daily" row, falling back to 06:00-22:00. For today only slots at
// least one hour in the future are returned.
func (s *service) GetSlots(ctx context.Context, gymID int, date time.Time) ([]Slot, error) {
	if _, err := s.repo.GetGymByID(ctx, gymID); err != nil {
		return nil, ErrGymNotFound
	}

	day := strings.ToLower(date.Weekday().String())
	hours, err := s.repo.GetHoursForDay(ctx, gymID, day)
	if err != nil {
		return nil, err
	}

	windows := resolveWindows(hours)

	now := s.now()
	today := sameDate(date, now)
	cutoff := now.Add(time.Hour)

	slots := make([]Slot, 0)
	for _, w := range windows {
		for t := w.start; t.Before(w.end); t = t.Add(time.Hour) {
			slotStart := time.Date(date.Year(), date.Month(), date.Day(),
				t.Hour(), t.Minute(), 0, 0, date.Location())
			if today && slotStart.Before(cutoff) {
				continue
			}

			slotTime := t.Format("15:04")
			occupancy, err := s.repo.CountOccupancy(ctx, gymID, date, slotTime)
			if err != nil {
				return nil, err
			}

			available := SlotCapacity - occupancy
			if available < 0 {
				available = 0
			}

			slots = append(slots, Slot{
				Time:           slotTime,
				FormattedTime:  t.Format("3:04 PM"),
				AvailableCount: available,
			})
		}
	}

	return slots, nil
}

type window struct {
	start time.Time
	end   time.Time
}

func resolveWindows(hours *OperatingHours) []window {
	if hours == nil {
		return defaultWindows()
	}

	var windows []window
	if w, ok := parseWindow(hours.MorningStart, hours.MorningEnd); ok {
		windows = append(windows, w)
	}
	if w, ok := parseWindow(hours.EveningStart, hours.EveningEnd); ok {
		windows = append(windows, w)
	}

	if len(windows) == 0 {
		return defaultWindows()
	}
	return windows
}

func defaultWindows() []window {
	w, _ := parseWindow(strPtr(defaultOpen), strPtr(defaultClose))
	return []window{w}
}

func parseWindow(startStr, endStr *string) (window, bool) {
	if startStr == nil || endStr == nil {
		return window{}, false
	}

	start, err := time.Parse("15:04", *startStr)
	if err != nil {
		return window{}, false
	}
	end, err := time.Parse("15:04", *endStr)
	if err != nil {
		return window{}, false
	}
	if !end.After(start) {
		return window{}, false
	}

	return window{start: start, end: end}, true
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func validDay(day string) bool {
	switch day {
	case "daily", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

func strPtr(s string) *string {
	return &s
}
