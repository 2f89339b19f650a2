package visit

import (
	"context"
	"testing"
	"time"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/config"
	"github.com/gaurav-prajapat/featuresgym-sub011/internal/gym"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVisitRepo struct{ mock.Mock }
type MockGymRepo struct{ mock.Mock }

func (m *MockVisitRepo) Create(ctx context.Context, userID, gymID int, date time.Time, startTime string) (*Visit, error) {
	args := m.Called(ctx, userID, gymID, date, startTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockVisitRepo) GetByID(ctx context.Context, id int) (*Visit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockVisitRepo) ListByUser(ctx context.Context, userID int) ([]Visit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Visit), args.Error(1)
}

func (m *MockVisitRepo) CountBooked(ctx context.Context, gymID int, date time.Time, startTime string) (int, error) {
	args := m.Called(ctx, gymID, date, startTime)
	return args.Int(0), args.Error(1)
}

func (m *MockVisitRepo) HasActiveMembership(ctx context.Context, userID, gymID int, date time.Time) (bool, error) {
	args := m.Called(ctx, userID, gymID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockVisitRepo) CancelWithFee(ctx context.Context, visitID int, feeCents int64, description string) (*Visit, error) {
	args := m.Called(ctx, visitID, feeCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockVisitRepo) RescheduleWithFee(ctx context.Context, visitID int, newDate time.Time, newStart string, feeCents int64, description string) (*Visit, error) {
	args := m.Called(ctx, visitID, newDate, newStart, feeCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Visit), args.Error(1)
}

func (m *MockGymRepo) CreateGym(ctx context.Context, req gym.CreateGymRequest) (*gym.Gym, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymRepo) GetAllGyms(ctx context.Context) ([]gym.Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Gym), args.Error(1)
}

func (m *MockGymRepo) GetGymByID(ctx context.Context, id int) (*gym.Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymRepo) SetHours(ctx context.Context, gymID int, req gym.SetHoursRequest) (*gym.OperatingHours, error) {
	args := m.Called(ctx, gymID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.OperatingHours), args.Error(1)
}

func (m *MockGymRepo) GetHoursForDay(ctx context.Context, gymID int, day string) (*gym.OperatingHours, error) {
	args := m.Called(ctx, gymID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.OperatingHours), args.Error(1)
}

func (m *MockGymRepo) CountOccupancy(ctx context.Context, gymID int, date time.Time, slotTime string) (int, error) {
	args := m.Called(ctx, gymID, date, slotTime)
	return args.Int(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultCancellationFeeCents: 5000,
		FreeCancellationWindow:      24 * time.Hour,
	}
}

func newTestService(repo Repository, gymRepo gym.Repository, nowFn func() time.Time) Service {
	svc := NewService(repo, gymRepo, testConfig())
	if nowFn != nil {
		svc.(*service).now = nowFn
	}
	return svc
}

func bookedVisit(id int) *Visit {
	return &Visit{
		ID: id, UserID: 1, GymID: 2,
		VisitDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local),
		StartTime: "10:00",
		Status:    StatusBooked,
	}
}

func TestCancel_FreeInsideWindow(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	// more than 24h before the visit
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	v := bookedVisit(7)
	repo.On("GetByID", mock.Anything, 7).Return(v, nil)
	repo.On("CancelWithFee", mock.Anything, 7, int64(0), mock.Anything).
		Return(&Visit{ID: 7, UserID: 1, Status: StatusCancelled}, nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	result, err := svc.Cancel(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.FeeCents)
	gymRepo.AssertNotCalled(t, "GetGymByID")
}

func TestCancel_GymFeeOutsideWindow(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	// same day, a few hours before the visit
	now := time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)
	gymFee := int64(7500)

	v := bookedVisit(7)
	repo.On("GetByID", mock.Anything, 7).Return(v, nil)
	gymRepo.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2, CancellationFeeCents: &gymFee}, nil)
	repo.On("CancelWithFee", mock.Anything, 7, int64(7500), mock.Anything).
		Return(&Visit{ID: 7, UserID: 1, Status: StatusCancelled}, nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	result, err := svc.Cancel(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7500), result.FeeCents)
}

func TestCancel_DefaultFeeWhenGymHasNone(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	now := time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)

	v := bookedVisit(7)
	repo.On("GetByID", mock.Anything, 7).Return(v, nil)
	gymRepo.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2}, nil)
	repo.On("CancelWithFee", mock.Anything, 7, int64(5000), mock.Anything).
		Return(&Visit{ID: 7, UserID: 1, Status: StatusCancelled}, nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	result, err := svc.Cancel(context.Background(), 1, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), result.FeeCents)
}

func TestCancel_OtherUsersVisit(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)

	repo.On("GetByID", mock.Anything, 7).Return(bookedVisit(7), nil)

	svc := newTestService(repo, gymRepo, nil)
	_, err := svc.Cancel(context.Background(), 99, 7)

	assert.ErrorIs(t, err, ErrNotOwner)
	repo.AssertNotCalled(t, "CancelWithFee")
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)

	v := bookedVisit(7)
	v.Status = StatusCancelled
	repo.On("GetByID", mock.Anything, 7).Return(v, nil)

	svc := newTestService(repo, gymRepo, nil)
	_, err := svc.Cancel(context.Background(), 1, 7)

	assert.ErrorIs(t, err, ErrVisitNotBooked)
}

func TestBook(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2}, nil)
	repo.On("HasActiveMembership", mock.Anything, 1, 2, date).Return(true, nil)
	repo.On("CountBooked", mock.Anything, 2, date, "10:00").Return(3, nil)
	repo.On("Create", mock.Anything, 1, 2, date, "10:00").Return(bookedVisit(7), nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	v, err := svc.Book(context.Background(), 1, BookRequest{
		GymID: 2, Date: "2024-06-03", StartTime: "10:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, v.ID)
}

func TestBook_NoMembership(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2}, nil)
	repo.On("HasActiveMembership", mock.Anything, 1, 2, mock.Anything).Return(false, nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	_, err := svc.Book(context.Background(), 1, BookRequest{
		GymID: 2, Date: "2024-06-03", StartTime: "10:00",
	})

	assert.ErrorIs(t, err, ErrNoActiveMembership)
	repo.AssertNotCalled(t, "Create")
}

func TestBook_SlotFull(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)

	gymRepo.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2}, nil)
	repo.On("HasActiveMembership", mock.Anything, 1, 2, mock.Anything).Return(true, nil)
	repo.On("CountBooked", mock.Anything, 2, mock.Anything, "10:00").Return(gym.SlotCapacity, nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	_, err := svc.Book(context.Background(), 1, BookRequest{
		GymID: 2, Date: "2024-06-03", StartTime: "10:00",
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	repo.AssertNotCalled(t, "Create")
}

func TestBook_PastSlot(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	now := time.Date(2024, 6, 4, 9, 0, 0, 0, time.Local)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	_, err := svc.Book(context.Background(), 1, BookRequest{
		GymID: 2, Date: "2024-06-03", StartTime: "10:00",
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	gymRepo.AssertNotCalled(t, "GetGymByID")
}

func TestReschedule_AppliesFeeAndMovesVisit(t *testing.T) {
	repo := new(MockVisitRepo)
	gymRepo := new(MockGymRepo)
	now := time.Date(2024, 6, 3, 7, 0, 0, 0, time.Local)
	newDate := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	v := bookedVisit(7)
	repo.On("GetByID", mock.Anything, 7).Return(v, nil)
	repo.On("CountBooked", mock.Anything, 2, newDate, "11:00").Return(0, nil)
	gymRepo.On("GetGymByID", mock.Anything, 2).Return(&gym.Gym{ID: 2}, nil)
	repo.On("RescheduleWithFee", mock.Anything, 7, newDate, "11:00", int64(5000), mock.Anything).
		Return(&Visit{ID: 7, UserID: 1, Status: StatusBooked, StartTime: "11:00"}, nil)

	svc := newTestService(repo, gymRepo, func() time.Time { return now })
	result, err := svc.Reschedule(context.Background(), 1, 7, RescheduleRequest{
		Date: "2024-06-10", StartTime: "11:00",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5000), result.FeeCents)
	assert.Equal(t, "11:00", result.Visit.StartTime)
}
