package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerReader defines the read-only aggregate queries the dashboard is computed from
// Every method is scoped to a single user
type LedgerReader interface {
	// SumByType returns the sum of amounts of the given type
	// If period is nil, the whole history is summed. No matching rows yields zero.
	SumByType(ctx context.Context, userID uuid.UUID, txType TransactionType, period *Period) (decimal.Decimal, error)

	// SumByMonthAndType returns sums grouped by calendar month (in loc) and type for dates >= from
	SumByMonthAndType(ctx context.Context, userID uuid.UUID, from time.Time, loc *time.Location) ([]MonthlyTypeTotal, error)

	// SumByCategory returns the sum per category for the given type, ordered by category ID
	SumByCategory(ctx context.Context, userID uuid.UUID, txType TransactionType) ([]CategoryTotal, error)

	// RecentTransactions returns up to limit transactions, newest first, with their category summary
	RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error)
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// Create creates a new user. Returns ErrConflict if the email is taken.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by email. Returns ErrNotFound if missing.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// RefreshTokenRepository defines the interface for refresh token persistence operations
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *RefreshToken) error

	// GetByToken returns ErrNotFound if the token was never issued or already rotated
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)

	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes every refresh token of the user
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	// Create creates a new category. Returns ErrConflict if the name is taken for the user.
	Create(ctx context.Context, category *Category) error

	// GetByID retrieves a category owned by userID. Returns ErrNotFound otherwise.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Category, error)

	// GetByName retrieves a category by its per-user unique name. Returns ErrNotFound if missing.
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)

	// List retrieves the user's categories ordered by name
	// If typeFilter is empty, returns all categories
	List(ctx context.Context, userID uuid.UUID, typeFilter TransactionType) ([]*Category, error)

	// Update persists name, color and type. Returns ErrNotFound if no row matched.
	Update(ctx context.Context, category *Category) error

	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// SortOrder orders transaction listings by date
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	UserID     uuid.UUID
	Search     string // case-insensitive substring of description
	Type       TransactionType
	CategoryID *uuid.UUID
	Sort       SortOrder
	Page       int // 1-based
	Limit      int
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error

	// GetByID retrieves a transaction owned by userID with its category summary. Returns ErrNotFound otherwise.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*Transaction, error)

	// List returns one page of matching transactions and the total number of matches
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, int, error)

	// Update persists the mutable fields. Returns ErrNotFound if no row matched.
	Update(ctx context.Context, tx *Transaction) error

	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TokenVerifier resolves an access token to the caller's identity
// Fails with an error matching ErrUnauthorized on invalid or expired tokens
type TokenVerifier interface {
	VerifyAccessToken(token string) (Identity, error)
}
