package visit

import (
	"context"
	"fmt"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/config"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gym"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/logger"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/metrics"
)

type Service interface {
	Book(ctx context.Context, userID int, req BookRequest) (*Visit, error)
	Cancel(ctx context.Context, userID, visitID int) (*FeeResponse, error)
	Reschedule(ctx context.Context, userID, visitID int, req RescheduleRequest) (*FeeResponse, error)
	ListMy(ctx context.Context, userID int) ([]Visit, error)
}

type service struct {
	repo    Repository
	gymRepo gym.Repository

	defaultFeeCents int64
	freeWindow      time.Duration

	now func() time.Time
}

func NewService(repo Repository, gymRepo gym.Repository, cfg *config.Config) Service {
	return &service{
		repo:            repo,
		gymRepo:         gymRepo,
		defaultFeeCents: cfg.DefaultCancellationFeeCents,
		freeWindow:      cfg.FreeCancellationWindow,
		now:             time.Now,
	}
}

func (s *service) Book(ctx context.Context, userID int, req BookRequest) (*Visit, error) {
	date, start, err := parseSlot(req.Date, req.StartTime)
	if err != nil {
		return nil, ErrSlotUnavailable
	}
	if start.Before(s.now()) {
		return nil, ErrSlotUnavailable
	}

	if _, err := s.gymRepo.GetGymByID(ctx, req.GymID); err != nil {
		return nil, gym.ErrGymNotFound
	}

	hasMembership, err := s.repo.HasActiveMembership(ctx, userID, req.GymID, date)
	if err != nil {
		return nil, err
	}
	if !hasMembership {
		return nil, ErrNoActiveMembership
	}

	booked, err := s.repo.CountBooked(ctx, req.GymID, date, req.StartTime)
	if err != nil {
		return nil, err
	}
	if booked >= gym.SlotCapacity {
		return nil, ErrSlotUnavailable
	}

	v, err := s.repo.Create(ctx, userID, req.GymID, date, req.StartTime)
	if err != nil {
		return nil, err
	}

	metrics.RecordVisitBooking("booked")
	logger.Infof("Visit %d booked: user=%d gym=%d %s %s", v.ID, userID, req.GymID, req.Date, req.StartTime)
	return v, nil
}

// Cancel cancels a booked visit. Inside the free-cancellation window the fee
// is zero; otherwise the gym's configured fee (or the default) is debited in
// the same atomic unit as the status change.
func (s *service) Cancel(ctx context.Context, userID, visitID int) (*FeeResponse, error) {
	v, err := s.ownedBookedVisit(ctx, userID, visitID)
	if err != nil {
		return nil, err
	}

	fee, err := s.feeFor(ctx, v)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.CancelWithFee(ctx, v.ID, fee,
		fmt.Sprintf("Cancellation fee for visit %d", v.ID))
	if err != nil {
		return nil, err
	}

	if fee > 0 {
		metrics.RecordFeeCharge("cancellation")
	}
	metrics.RecordVisitBooking("cancelled")
	logger.Infof("Visit %d cancelled, fee=%d", v.ID, fee)
	return &FeeResponse{Visit: updated, FeeCents: fee}, nil
}

func (s *service) Reschedule(ctx context.Context, userID, visitID int, req RescheduleRequest) (*FeeResponse, error) {
	v, err := s.ownedBookedVisit(ctx, userID, visitID)
	if err != nil {
		return nil, err
	}

	newDate, newStart, err := parseSlot(req.Date, req.StartTime)
	if err != nil {
		return nil, ErrSlotUnavailable
	}
	if newStart.Before(s.now()) {
		return nil, ErrSlotUnavailable
	}

	booked, err := s.repo.CountBooked(ctx, v.GymID, newDate, req.StartTime)
	if err != nil {
		return nil, err
	}
	if booked >= gym.SlotCapacity {
		return nil, ErrSlotUnavailable
	}

	fee, err := s.feeFor(ctx, v)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.RescheduleWithFee(ctx, v.ID, newDate, req.StartTime, fee,
		fmt.Sprintf("Reschedule fee for visit %d", v.ID))
	if err != nil {
		return nil, err
	}

	if fee > 0 {
		metrics.RecordFeeCharge("reschedule")
	}
	logger.Infof("Visit %d rescheduled to %s %s, fee=%d", v.ID, req.Date, req.StartTime, fee)
	return &FeeResponse{Visit: updated, FeeCents: fee}, nil
}

func (s *service) ListMy(ctx context.Context, userID int) ([]Visit, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ownedBookedVisit(ctx context.Context, userID, visitID int) (*Visit, error) {
	v, err := s.repo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, ErrNotOwner
	}
	if v.Status != StatusBooked {
		return nil, ErrVisitNotBooked
	}
	return v, nil
}

// feeFor returns 0 inside the free window, else the gym's configured fee
// with the service default as fallback.
func (s *service) feeFor(ctx context.Context, v *Visit) (int64, error) {
	start, err := time.Parse("15:04", v.StartTime)
	if err != nil {
		return 0, err
	}
	visitAt := time.Date(v.VisitDate.Year(), v.VisitDate.Month(), v.VisitDate.Day(),
		start.Hour(), start.Minute(), 0, 0, v.VisitDate.Location())

	if visitAt.Sub(s.now()) >= s.freeWindow {
		return 0, nil
	}

	g, err := s.gymRepo.GetGymByID(ctx, v.GymID)
	if err != nil {
		return 0, err
	}
	if g.CancellationFeeCents != nil {
		return *g.CancellationFeeCents, nil
	}
	return s.defaultFeeCents, nil
}

func parseSlot(dateStr, startTime string) (time.Time, time.Time, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	slotStart := time.Date(date.Year(), date.Month(), date.Day(),
		start.Hour(), start.Minute(), 0, 0, time.Local)
	return date, slotStart, nil
}
