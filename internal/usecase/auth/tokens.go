package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// Token kinds carried in the typ claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the JWT payload of both token kinds
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access and refresh tokens
type TokenIssuer struct {
	Secret        []byte
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Now           func() time.Time
}

// NewTokenIssuer creates a new TokenIssuer instance
func NewTokenIssuer(secret string, accessExpiry, refreshExpiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Secret:        []byte(secret),
		AccessExpiry:  accessExpiry,
		RefreshExpiry: refreshExpiry,
		Now:           time.Now,
	}
}

// IssueAccessToken signs a short-lived access token for identity
func (i *TokenIssuer) IssueAccessToken(identity domain.Identity) (string, error) {
	token, _, err := i.issue(identity, TokenTypeAccess, i.AccessExpiry)
	return token, err
}

// IssueRefreshToken signs a refresh token and returns its expiry
func (i *TokenIssuer) IssueRefreshToken(identity domain.Identity) (string, time.Time, error) {
	return i.issue(identity, TokenTypeRefresh, i.RefreshExpiry)
}

func (i *TokenIssuer) issue(identity domain.Identity, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := i.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: identity.UserID.String(),
		Email:  identity.Email,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken resolves an access token to the caller's identity
// Refresh tokens are rejected
func (i *TokenIssuer) VerifyAccessToken(token string) (domain.Identity, error) {
	identity, err := i.verify(token, TokenTypeAccess)
	if err != nil {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired token")
	}
	return identity, nil
}

// VerifyRefreshToken checks a refresh token's signature, expiry and kind
func (i *TokenIssuer) VerifyRefreshToken(token string) (domain.Identity, error) {
	identity, err := i.verify(token, TokenTypeRefresh)
	if err != nil {
		return domain.Identity{}, domain.NewUnauthorizedError("Invalid or expired refresh token")
	}
	return identity, nil
}

func (i *TokenIssuer) verify(token, tokenType string) (domain.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.Now),
	)
	if err != nil {
		return domain.Identity{}, err
	}

	if claims.Type != tokenType {
		return domain.Identity{}, errors.New("unexpected token type")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("invalid userId claim: %w", err)
	}

	return domain.Identity{UserID: userID, Email: claims.Email}, nil
}
