package user

import (
	"context"
	"errors"
	"testing"

	"github.com/gaurav-prajapat/featuresgym-sub011/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	repo := new(MockRepo)
	repo.On("EmailExists", mock.Anything, "amit@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, "Amit", "amit@example.com", mock.MatchedBy(func(hash string) bool {
		return auth.CheckPassword(hash, "supersecret")
	}), "member").Return(&User{ID: 4, Name: "Amit", Email: "amit@example.com", Role: "member"}, nil)

	svc := NewService(repo, testSecret)
	u, access, refresh, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Amit", Email: "amit@example.com", Password: "supersecret",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, u.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := auth.ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 4, claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
	repo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := new(MockRepo)
	repo.On("EmailExists", mock.Anything, "amit@example.com").Return(true, nil)

	svc := NewService(repo, testSecret)
	_, _, _, err := svc.Register(context.Background(), RegisterRequest{
		Name: "Amit", Email: "amit@example.com", Password: "supersecret",
	})

	assert.ErrorIs(t, err, ErrEmailExists)
	repo.AssertNotCalled(t, "Create")
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	repo := new(MockRepo)
	repo.On("FindByEmail", mock.Anything, "amit@example.com").
		Return(&User{ID: 4, Email: "amit@example.com", PasswordHash: hash, Role: "member"}, nil)

	svc := NewService(repo, testSecret)
	u, access, refresh, err := svc.Login(context.Background(), LoginRequest{
		Email: "amit@example.com", Password: "supersecret",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, u.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	repo := new(MockRepo)
	repo.On("FindByEmail", mock.Anything, "amit@example.com").
		Return(&User{ID: 4, Email: "amit@example.com", PasswordHash: hash}, nil)

	svc := NewService(repo, testSecret)
	_, _, _, err = svc.Login(context.Background(), LoginRequest{
		Email: "amit@example.com", Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := new(MockRepo)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, errors.New("no rows"))

	svc := NewService(repo, testSecret)
	_, _, _, err := svc.Login(context.Background(), LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	_, refresh, err := auth.GenerateTokens(4, "amit@example.com", "member", testSecret, testSecret)
	require.NoError(t, err)

	repo := new(MockRepo)
	repo.On("FindByID", mock.Anything, 4).
		Return(&User{ID: 4, Email: "amit@example.com", Role: "member"}, nil)

	svc := NewService(repo, testSecret)
	access, u, err := svc.RefreshToken(context.Background(), refresh)

	require.NoError(t, err)
	assert.Equal(t, 4, u.ID)

	claims, err := auth.ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
}
