package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger movement
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// AmountScale is the fixed number of fractional digits amounts are stored with (numeric(19,4))
const AmountScale = 4

// MaxAmountIntegerDigits is the integer precision left by numeric(19,4)
const MaxAmountIntegerDigits = 15

// MaxAmount is the smallest amount that no longer fits the column
var MaxAmount = decimal.New(1, MaxAmountIntegerDigits)

// MaxDescriptionLength mirrors the varchar(500) column
const MaxDescriptionLength = 500

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a single income or expense entry in a user's ledger
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	Amount      decimal.Decimal // Always >= 0, direction comes from Type
	Description string
	Type        TransactionType // Must equal the referenced category's type
	IsRecurring bool
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Category is populated by reads that join categories. Nil when the category row is gone.
	Category *CategorySummary
}

// Validate ensures the transaction adheres to domain rules
// The category/type consistency rule needs the category and is enforced by the transaction use case
func (t *Transaction) Validate() error {
	verr := NewValidationError("invalid transaction")

	if t.Amount.IsNegative() {
		verr.Add("amount", "amount must not be negative")
	} else if !t.Amount.Equal(t.Amount.Truncate(AmountScale)) {
		verr.Add("amount", "amount must have at most 4 decimal places")
	} else if t.Amount.GreaterThanOrEqual(MaxAmount) {
		verr.Add("amount", "amount must have at most 15 integer digits")
	}

	if t.Description == "" {
		verr.Add("description", "description is required")
	} else if len([]rune(t.Description)) > MaxDescriptionLength {
		verr.Add("description", "description must be at most 500 characters")
	}

	if !t.Type.Valid() {
		verr.Add("type", "type must be income or expense")
	}

	if t.CategoryID == uuid.Nil {
		verr.Add("categoryId", "categoryId is required")
	}

	if t.Date.IsZero() {
		verr.Add("date", "date is required")
	}

	if verr.HasFields() {
		return verr
	}
	return nil
}
