package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockRefreshTokenRepository is a mock implementation of RefreshTokenRepository for testing
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestService() (*AuthService, *MockUserRepository, *MockRefreshTokenRepository) {
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockRefreshTokenRepository)
	service := NewAuthService(userRepo, tokenRepo, newTestIssuer(testNow))
	service.HashCost = 4
	return service, userRepo, tokenRepo
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	service, userRepo, tokenRepo := newTestService()

	userRepo.On("GetByEmail", ctx, "ada@example.com").Return(nil, domain.ErrNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ada@example.com" && u.Name == "Ada" && u.PasswordHash != "SecurePass123!"
	})).Return(nil)

	var stored *domain.RefreshToken
	tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.RefreshToken")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.RefreshToken) }).
		Return(nil)

	result, err := service.Register(ctx, RegisterInput{Email: "  Ada@Example.com ", Password: "SecurePass123!", Name: "Ada"})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.NotEqual(t, uuid.Nil, result.User.ID)

	ok, err := VerifyPassword("SecurePass123!", result.User.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	identity, err := service.VerifyAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, identity.UserID)

	require.NotNil(t, stored)
	assert.Equal(t, result.Tokens.RefreshToken, stored.Token)
	assert.Equal(t, result.User.ID, stored.UserID)
	assert.Equal(t, testNow.Add(7*24*time.Hour), stored.ExpiresAt)

	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestRegister_PasswordTooLongForBcrypt(t *testing.T) {
	ctx := context.Background()
	service, userRepo, tokenRepo := newTestService()

	userRepo.On("GetByEmail", ctx, "ada@example.com").Return(nil, domain.ErrNotFound)

	result, err := service.Register(ctx, RegisterInput{Email: "ada@example.com", Password: strings.Repeat("a", 80), Name: "Ada"})

	assert.Nil(t, result)
	require.ErrorIs(t, err, domain.ErrValidation)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service, userRepo, _ := newTestService()

	userRepo.On("GetByEmail", ctx, "ada@example.com").Return(&domain.User{ID: uuid.New()}, nil)

	result, err := service.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "SecurePass123!", Name: "Ada"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Email already registered", err.Error())
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_ConcurrentDuplicateFromStore(t *testing.T) {
	ctx := context.Background()
	service, userRepo, _ := newTestService()

	userRepo.On("GetByEmail", ctx, "ada@example.com").Return(nil, domain.ErrNotFound)
	userRepo.On("Create", ctx, mock.Anything).Return(domain.ErrConflict)

	_, err := service.Register(ctx, RegisterInput{Email: "ada@example.com", Password: "SecurePass123!", Name: "Ada"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin_RevokesPreviousTokens(t *testing.T) {
	ctx := context.Background()
	service, userRepo, tokenRepo := newTestService()

	hash, err := HashPassword("SecurePass123!", 4)
	require.NoError(t, err)
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: hash, Name: "Ada"}

	userRepo.On("GetByEmail", ctx, "ada@example.com").Return(user, nil)
	tokenRepo.On("DeleteByUser", ctx, user.ID).Return(nil).Once()
	tokenRepo.On("Create", ctx, mock.AnythingOfType("*domain.RefreshToken")).Return(nil).Once()

	result, err := service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "SecurePass123!"})

	require.NoError(t, err)
	assert.Equal(t, user, result.User)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	tokenRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hash, err := HashPassword("SecurePass123!", 4)
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     *domain.User
		lookup   error
		password string
	}{
		{name: "Unknown email", lookup: domain.ErrNotFound, password: "SecurePass123!"},
		{name: "Wrong password", user: &domain.User{ID: uuid.New(), PasswordHash: hash}, password: "WrongPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			service, userRepo, tokenRepo := newTestService()
			if tt.user != nil {
				userRepo.On("GetByEmail", ctx, "ada@example.com").Return(tt.user, nil)
			} else {
				userRepo.On("GetByEmail", ctx, "ada@example.com").Return(nil, tt.lookup)
			}

			_, err := service.Login(ctx, LoginInput{Email: "ada@example.com", Password: tt.password})

			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, "Invalid credentials", err.Error())
			tokenRepo.AssertNotCalled(t, "DeleteByUser", mock.Anything, mock.Anything)
		})
	}
}

func TestLogin_StoreFailureIsNotUnauthorized(t *testing.T) {
	ctx := context.Background()
	service, userRepo, _ := newTestService()
	userRepo.On("GetByEmail", ctx, "ada@example.com").Return(nil, errors.New("connection reset"))

	_, err := service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "x"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_RotatesToken(t *testing.T) {
	ctx := context.Background()
	service, userRepo, tokenRepo := newTestService()
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com"}

	presented, expiresAt, err := service.Tokens.IssueRefreshToken(domain.Identity{UserID: user.ID, Email: user.Email})
	require.NoError(t, err)

	tokenRepo.On("GetByToken", ctx, presented).Return(&domain.RefreshToken{Token: presented, UserID: user.ID, ExpiresAt: expiresAt}, nil)
	tokenRepo.On("Delete", ctx, presented).Return(nil).Once()
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	tokenRepo.On("Create", ctx, mock.MatchedBy(func(rt *domain.RefreshToken) bool {
		return rt.Token != presented && rt.UserID == user.ID
	})).Return(nil).Once()

	pair, err := service.Refresh(ctx, presented)

	require.NoError(t, err)
	assert.NotEqual(t, presented, pair.RefreshToken)
	identity, err := service.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	tokenRepo.AssertExpectations(t)
}

func TestRefresh_UnknownToken(t *testing.T) {
	ctx := context.Background()
	service, _, tokenRepo := newTestService()

	presented, _, err := service.Tokens.IssueRefreshToken(domain.Identity{UserID: uuid.New()})
	require.NoError(t, err)
	tokenRepo.On("GetByToken", ctx, presented).Return(nil, domain.ErrNotFound)

	_, err = service.Refresh(ctx, presented)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Invalid refresh token", err.Error())
	tokenRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRefresh_ExpiredStoredTokenIsDeleted(t *testing.T) {
	ctx := context.Background()
	service, _, tokenRepo := newTestService()

	presented, _, err := service.Tokens.IssueRefreshToken(domain.Identity{UserID: uuid.New()})
	require.NoError(t, err)
	tokenRepo.On("GetByToken", ctx, presented).Return(&domain.RefreshToken{Token: presented, ExpiresAt: testNow.Add(-time.Minute)}, nil)
	tokenRepo.On("Delete", ctx, presented).Return(nil).Once()

	_, err = service.Refresh(ctx, presented)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Refresh token expired", err.Error())
	tokenRepo.AssertExpectations(t)
	tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	service, _, tokenRepo := newTestService()

	access, err := service.Tokens.IssueAccessToken(domain.Identity{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = service.Refresh(ctx, access)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	tokenRepo.AssertNotCalled(t, "GetByToken", mock.Anything, mock.Anything)
}

func TestRefresh_DeletedUser(t *testing.T) {
	ctx := context.Background()
	service, userRepo, tokenRepo := newTestService()
	userID := uuid.New()

	presented, expiresAt, err := service.Tokens.IssueRefreshToken(domain.Identity{UserID: userID})
	require.NoError(t, err)
	tokenRepo.On("GetByToken", ctx, presented).Return(&domain.RefreshToken{Token: presented, ExpiresAt: expiresAt}, nil)
	tokenRepo.On("Delete", ctx, presented).Return(nil)
	userRepo.On("GetByID", ctx, userID).Return(nil, domain.ErrNotFound)

	_, err = service.Refresh(ctx, presented)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "User not found", err.Error())
}
