package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// refreshTokenRepository implements domain.RefreshTokenRepository
type refreshTokenRepository struct {
	db *DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *DB) domain.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Create stores a refresh token
func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, token.ID, token.UserID, token.Token, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return wrapError("create refresh token", err)
	}
	return nil
}

// GetByToken retrieves a stored refresh token by its value
func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	query := `SELECT id, user_id, token, expires_at, created_at FROM refresh_tokens WHERE token = $1`

	var t domain.RefreshToken
	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, wrapError("get refresh token", err)
	}
	return &t, nil
}

// Delete removes a refresh token; deleting an unknown token is not an error
func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return wrapError("delete refresh token", err)
	}
	return nil
}

// DeleteByUser revokes every refresh token of the user
func (r *refreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		return wrapError("delete user refresh tokens", err)
	}
	return nil
}
