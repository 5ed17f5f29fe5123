package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// categoryRepository implements domain.CategoryRepository
type categoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) domain.CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, user_id, name, color, type, created_at, updated_at`

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, color, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		string(category.Type),
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return wrapError("create category", err)
	}
	return nil
}

// GetByID retrieves a category owned by userID
func (r *categoryRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, wrapError("get category by ID", err)
	}
	return category, nil
}

// GetByName retrieves a category by its per-user name
func (r *categoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND name = $2`

	category, err := scanCategory(r.db.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		return nil, wrapError("get category by name", err)
	}
	return category, nil
}

// List retrieves the user's categories ordered by name
func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1`
	args := []interface{}{userID}

	if typeFilter != "" {
		query += ` AND type = $2`
		args = append(args, string(typeFilter))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError("list categories", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, wrapError("scan category", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate categories", err)
	}
	return categories, nil
}

// Update persists name, color and type
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $3, color = $4, type = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2
	`

	res, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		string(category.Type),
		category.UpdatedAt,
	)
	if err != nil {
		return wrapError("update category", err)
	}
	return expectAffected("update category", res)
}

// Delete removes a category owned by userID
// Returns ErrConflict while transactions still reference it
func (r *categoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapError("delete category", err)
	}
	return expectAffected("delete category", res)
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
