package tournament

import (
	"context"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gym"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/logger"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Tournament, error)
	ListUpcoming(ctx context.Context) ([]Tournament, error)
	Register(ctx context.Context, userID, tournamentID int) (*Registration, error)
	ListMine(ctx context.Context, userID int) ([]Tournament, error)
}

type service struct {
	repo    Repository
	gymRepo gym.Repository

	now func() time.Time
}

func NewService(repo Repository, gymRepo gym.Repository) Service {
	return &service{repo: repo, gymRepo: gymRepo, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Tournament, error) {
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return nil, ErrRegistrationClosed
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		return nil, ErrRegistrationClosed
	}
	if _, err := s.gymRepo.GetGymByID(ctx, req.GymID); err != nil {
		return nil, gym.ErrGymNotFound
	}

	t, err := s.repo.Create(ctx, &Tournament{
		GymID:           req.GymID,
		Title:           req.Title,
		Description:     req.Description,
		EventDate:       eventDate,
		StartTime:       req.StartTime,
		EntryFeeCents:   req.EntryFeeCents,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("Tournament %d created for gym %d on %s", t.ID, t.GymID, req.EventDate)
	return t, nil
}

func (s *service) ListUpcoming(ctx context.Context) ([]Tournament, error) {
	return s.repo.ListUpcoming(ctx, s.now())
}

func (s *service) Register(ctx context.Context, userID, tournamentID int) (*Registration, error) {
	t, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t.EventDate.Before(today) {
		return nil, ErrRegistrationClosed
	}

	reg, err := s.repo.Register(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}

	logger.Infof("User %d registered for tournament %d", userID, tournamentID)
	return reg, nil
}

func (s *service) ListMine(ctx context.Context, userID int) ([]Tournament, error) {
	return s.repo.ListByUser(ctx, userID)
}
