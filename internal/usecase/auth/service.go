package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// RegisterInput represents the input for registering a user
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput represents the input for logging in
type LoginInput struct {
	Email    string
	Password string
}

// TokenPair is an access token with its refresh token
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// AuthService handles registration, login and refresh token rotation
type AuthService struct {
	UserRepo         domain.UserRepository
	RefreshTokenRepo domain.RefreshTokenRepository
	Tokens           *TokenIssuer
	HashCost         int
}

// NewAuthService creates a new AuthService instance
func NewAuthService(userRepo domain.UserRepository, refreshTokenRepo domain.RefreshTokenRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Tokens:           tokens,
		HashCost:         bcrypt.DefaultCost,
	}
}

// Register creates a user and signs them in
// Logic:
//  1. Reject an email that is already registered
//  2. Hash the password and persist the user
//  3. Issue a token pair and persist the refresh token
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	// 1. Uniqueness
	if _, err := s.UserRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.NewConflictError("Email already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// 2. Persist
	hash, err := HashPassword(input.Password, s.HashCost)
	if err != nil {
		return nil, err
	}

	now := s.Tokens.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewConflictError("Email already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 3. Tokens
	tokens, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login verifies credentials and revokes every earlier refresh token of the user
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.UserRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewUnauthorizedError("Invalid credentials")
	}

	if err := s.RefreshTokenRepo.DeleteByUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	tokens, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new pair is issued
// Logic:
//  1. Verify the JWT signature, expiry and kind
//  2. Look up the stored token; unknown or already rotated tokens are rejected
//  3. Expired stored tokens are deleted and rejected
//  4. Delete the presented token and issue a new pair for the current user record
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	// 1. Signature
	identity, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// 2. Stored token
	stored, err := s.RefreshTokenRepo.GetByToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewUnauthorizedError("Invalid refresh token")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	// 3. Expiry
	if stored.Expired(s.Tokens.Now()) {
		if err := s.RefreshTokenRepo.Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("failed to delete expired refresh token: %w", err)
		}
		return nil, domain.NewUnauthorizedError("Refresh token expired")
	}

	// 4. Rotation
	if err := s.RefreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.UserRepo.GetByID(ctx, identity.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewUnauthorizedError("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	tokens, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// VerifyAccessToken resolves an access token to the caller's identity
func (s *AuthService) VerifyAccessToken(token string) (domain.Identity, error) {
	return s.Tokens.VerifyAccessToken(token)
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (TokenPair, error) {
	identity := domain.Identity{UserID: user.ID, Email: user.Email}

	access, err := s.Tokens.IssueAccessToken(identity)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, expiresAt, err := s.Tokens.IssueRefreshToken(identity)
	if err != nil {
		return TokenPair{}, err
	}

	stored := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: expiresAt,
		CreatedAt: s.Tokens.Now(),
	}
	if err := s.RefreshTokenRepo.Create(ctx, stored); err != nil {
		return TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ domain.TokenVerifier = (*AuthService)(nil)
var _ domain.TokenVerifier = (*TokenIssuer)(nil)
