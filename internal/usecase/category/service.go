package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// CreateCategoryInput represents the input for creating a category
type CreateCategoryInput struct {
	Name  string
	Color string
	Type  domain.TransactionType
}

// UpdateCategoryInput carries the fields to change; nil fields are left as they are
type UpdateCategoryInput struct {
	Name  *string
	Color *string
	Type  *domain.TransactionType
}

// CategoryService handles category operations
type CategoryService struct {
	CategoryRepo domain.CategoryRepository
	Now          func() time.Time
}

// NewCategoryService creates a new CategoryService instance
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{
		CategoryRepo: categoryRepo,
		Now:          time.Now,
	}
}

var errNotFound = domain.NewNotFoundError("Category not found")
var errDuplicateName = domain.NewConflictError("Category with this name already exists")

// Create creates a category for userID; names are unique per user
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, input CreateCategoryInput) (*domain.Category, error) {
	now := s.Now()
	category := &domain.Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Color:     input.Color,
		Type:      input.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, userID, category.Name); err != nil {
		return nil, err
	}

	if err := s.CategoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, errDuplicateName
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// Get returns a category owned by userID
func (s *CategoryService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error) {
	category, err := s.CategoryRepo.GetByID(ctx, id, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// List returns the user's categories, optionally only those of typeFilter
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, typeFilter domain.TransactionType) ([]*domain.Category, error) {
	categories, err := s.CategoryRepo.List(ctx, userID, typeFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update applies input to a category owned by userID
// A rename re-checks name uniqueness
func (s *CategoryService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name != category.Name {
			if err := s.ensureNameFree(ctx, userID, name); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}
	if input.Color != nil {
		category.Color = *input.Color
	}
	if input.Type != nil {
		category.Type = *input.Type
	}
	category.UpdatedAt = s.Now()

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.CategoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, errNotFound
		case errors.Is(err, domain.ErrConflict):
			return nil, errDuplicateName
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// Delete removes a category owned by userID
// Categories still referenced by transactions cannot be deleted
func (s *CategoryService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.CategoryRepo.Delete(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return errNotFound
		case errors.Is(err, domain.ErrConflict):
			return domain.NewConflictError("Category is used by existing transactions")
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string) error {
	_, err := s.CategoryRepo.GetByName(ctx, userID, name)
	if err == nil {
		return errDuplicateName
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up category name: %w", err)
	}
	return nil
}
