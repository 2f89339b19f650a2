package gym

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepo) GetAllGyms(ctx context.Context) ([]Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockRepo) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepo) SetHours(ctx context.Context, gymID int, req SetHoursRequest) (*OperatingHours, error) {
	args := m.Called(ctx, gymID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OperatingHours), args.Error(1)
}

func (m *MockRepo) GetHoursForDay(ctx context.Context, gymID int, day string) (*OperatingHours, error) {
	args := m.Called(ctx, gymID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OperatingHours), args.Error(1)
}

func (m *MockRepo) CountOccupancy(ctx context.Context, gymID int, date time.Time, slotTime string) (int, error) {
	args := m.Called(ctx, gymID, date, slotTime)
	return args.Int(0), args.Error(1)
}

func newTestService(repo Repository, nowFn func() time.Time) Service {
	svc := NewService(repo)
	if nowFn != nil {
		svc.(*service).now = nowFn
	}
	return svc
}

func strp(s string) *string { return &s }

func TestGetSlots_MorningAndEveningWindows(t *testing.T) {
	repo := new(MockRepo)
	// a date far in the future so no cutoff applies
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC) // a monday
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1}, nil)
	repo.On("GetHoursForDay", mock.Anything, 1, "monday").Return(&OperatingHours{
		GymID: 1, Day: "monday",
		MorningStart: strp("06:00"), MorningEnd: strp("09:00"),
		EveningStart: strp("17:00"), EveningEnd: strp("20:00"),
	}, nil)
	repo.On("CountOccupancy", mock.Anything, 1, date, mock.Anything).Return(0, nil)

	svc := newTestService(repo, func() time.Time { return now })
	slots, err := svc.GetSlots(context.Background(), 1, date)

	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, "06:00", slots[0].Time)
	assert.Equal(t, "08:00", slots[2].Time)
	assert.Equal(t, "17:00", slots[3].Time)
	assert.Equal(t, "19:00", slots[5].Time)
	assert.Equal(t, SlotCapacity, slots[0].AvailableCount)
}

func TestGetSlots_DefaultHoursWhenNoneConfigured(t *testing.T) {
	repo := new(MockRepo)
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1}, nil)
	repo.On("GetHoursForDay", mock.Anything, 1, "monday").Return(nil, nil)
	repo.On("CountOccupancy", mock.Anything, 1, date, mock.Anything).Return(0, nil)

	svc := newTestService(repo, func() time.Time { return now })
	slots, err := svc.GetSlots(context.Background(), 1, date)

	require.NoError(t, err)
	// 06:00 through 21:00
	require.Len(t, slots, 16)
	assert.Equal(t, "06:00", slots[0].Time)
	assert.Equal(t, "21:00", slots[15].Time)
}

func TestGetSlots_TodayCutsOffNearSlots(t *testing.T) {
	repo := new(MockRepo)
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	// 07:30 on the same day: slots before 08:30 are gone
	now := time.Date(2024, 6, 3, 7, 30, 0, 0, time.UTC)

	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1}, nil)
	repo.On("GetHoursForDay", mock.Anything, 1, "monday").Return(&OperatingHours{
		GymID: 1, Day: "monday",
		MorningStart: strp("06:00"), MorningEnd: strp("11:00"),
	}, nil)
	repo.On("CountOccupancy", mock.Anything, 1, date, mock.Anything).Return(0, nil)

	svc := newTestService(repo, func() time.Time { return now })
	slots, err := svc.GetSlots(context.Background(), 1, date)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "10:00", slots[1].Time)
}

func TestGetSlots_AvailabilityNeverNegative(t *testing.T) {
	repo := new(MockRepo)
	date := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1}, nil)
	repo.On("GetHoursForDay", mock.Anything, 1, "monday").Return(&OperatingHours{
		GymID: 1, Day: "monday",
		MorningStart: strp("06:00"), MorningEnd: strp("07:00"),
	}, nil)
	repo.On("CountOccupancy", mock.Anything, 1, date, "06:00").Return(SlotCapacity+5, nil)

	svc := newTestService(repo, func() time.Time { return now })
	slots, err := svc.GetSlots(context.Background(), 1, date)

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 0, slots[0].AvailableCount)
}

func TestGetSlots_GymNotFound(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetGymByID", mock.Anything, 99).Return(nil, errors.New("no rows"))

	svc := newTestService(repo, nil)
	_, err := svc.GetSlots(context.Background(), 99, time.Now())

	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestSetHours_RejectsBadDay(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1}, nil)

	svc := newTestService(repo, nil)
	_, err := svc.SetHours(context.Background(), 1, SetHoursRequest{Day: "funday"})

	assert.ErrorIs(t, err, ErrInvalidDate)
	repo.AssertNotCalled(t, "SetHours")
}

func TestSetHours_LowercasesDay(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetGymByID", mock.Anything, 1).Return(&Gym{ID: 1}, nil)
	repo.On("SetHours", mock.Anything, 1, SetHoursRequest{Day: "monday"}).
		Return(&OperatingHours{GymID: 1, Day: "monday"}, nil)

	svc := newTestService(repo, nil)
	hours, err := svc.SetHours(context.Background(), 1, SetHoursRequest{Day: "Monday"})

	require.NoError(t, err)
	assert.Equal(t, "monday", hours.Day)
}
