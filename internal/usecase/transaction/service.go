package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// Listing bounds
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPage          = 1_000_000 // keeps (page-1)*limit well inside the offset range
)

// CreateTransactionInput represents the input for recording a transaction
type CreateTransactionInput struct {
	Amount      decimal.Decimal
	Description string
	Type        domain.TransactionType
	CategoryID  uuid.UUID
	IsRecurring bool
	Date        time.Time
}

// UpdateTransactionInput carries the fields to change; nil fields are left as they are
type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	Description *string
	Type        *domain.TransactionType
	CategoryID  *uuid.UUID
	IsRecurring *bool
	Date        *time.Time
}

// ListResult is one page of a transaction listing
type ListResult struct {
	Items      []*domain.Transaction
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// TransactionService handles transaction operations
type TransactionService struct {
	TransactionRepo domain.TransactionRepository
	CategoryRepo    domain.CategoryRepository
	Now             func() time.Time
}

// NewTransactionService creates a new TransactionService instance
func NewTransactionService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *TransactionService {
	return &TransactionService{
		TransactionRepo: transactionRepo,
		CategoryRepo:    categoryRepo,
		Now:             time.Now,
	}
}

var errNotFound = domain.NewNotFoundError("Transaction not found")

// Create records a transaction for userID
// Logic:
//  1. Validate the transaction
//  2. The category must exist for the user and have the transaction's type
//  3. Save using TransactionRepo.Create
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	now := s.Now()
	tx := &domain.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  input.CategoryID,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		Type:        input.Type,
		IsRecurring: input.IsRecurring,
		Date:        input.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 1. Domain rules
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	// 2. Category consistency
	category, err := s.categoryFor(ctx, tx)
	if err != nil {
		return nil, err
	}

	// 3. Persist
	if err := s.TransactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	tx.Category = summarize(category)
	return tx, nil
}

// Get returns a transaction owned by userID with its category summary
func (s *TransactionService) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.TransactionRepo.GetByID(ctx, id, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// List returns one page of the user's transactions
// Page defaults to 1 (capped at MaxPage), limit to DefaultPageLimit (capped at MaxPageLimit), sort to newest first
func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) (*ListResult, error) {
	filter = normalizeFilter(filter)

	items, total, err := s.TransactionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if items == nil {
		items = []*domain.Transaction{}
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// Update applies input to a transaction owned by userID
// The resulting type must still equal the resulting category's type
func (s *TransactionService) Update(ctx context.Context, id, userID uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		tx.Amount = *input.Amount
	}
	if input.Description != nil {
		tx.Description = strings.TrimSpace(*input.Description)
	}
	if input.Type != nil {
		tx.Type = *input.Type
	}
	if input.CategoryID != nil {
		tx.CategoryID = *input.CategoryID
	}
	if input.IsRecurring != nil {
		tx.IsRecurring = *input.IsRecurring
	}
	if input.Date != nil {
		tx.Date = *input.Date
	}
	tx.UpdatedAt = s.Now()

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if input.Type != nil || input.CategoryID != nil {
		category, err := s.categoryFor(ctx, tx)
		if err != nil {
			return nil, err
		}
		tx.Category = summarize(category)
	}

	if err := s.TransactionRepo.Update(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

// Delete removes a transaction owned by userID
func (s *TransactionService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.TransactionRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// categoryFor loads tx's category for its owner and checks the type rule
func (s *TransactionService) categoryFor(ctx context.Context, tx *domain.Transaction) (*domain.Category, error) {
	category, err := s.CategoryRepo.GetByID(ctx, tx.CategoryID, tx.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFoundError("Category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if category.Type != tx.Type {
		return nil, domain.NewValidationError("Transaction type must match category type")
	}
	return category, nil
}

func summarize(c *domain.Category) *domain.CategorySummary {
	return &domain.CategorySummary{ID: c.ID, Name: c.Name, Color: c.Color}
}

func normalizeFilter(filter domain.TransactionFilter) domain.TransactionFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Page > MaxPage {
		filter.Page = MaxPage
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	if filter.Sort != domain.SortOldest {
		filter.Sort = domain.SortNewest
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return filter
}
