package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Fallbacks reported when a transaction's category can no longer be joined
const (
	UnknownCategoryName  = "Unknown"
	UnknownCategoryColor = "#000000"
)

// MaxCategoryNameLength mirrors the varchar(100) column
const MaxCategoryNameLength = 100

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category groups transactions of a single type for one user
// Name is unique per user
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Color     string // "#RRGGBB"
	Type      TransactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategorySummary is the slice of a category embedded in transaction reads
type CategorySummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// Validate ensures the category adheres to domain rules
func (c *Category) Validate() error {
	verr := NewValidationError("invalid category")

	if c.Name == "" {
		verr.Add("name", "name is required")
	} else if len([]rune(c.Name)) > MaxCategoryNameLength {
		verr.Add("name", "name must be at most 100 characters")
	}

	if !ValidColor(c.Color) {
		verr.Add("color", "Color must be in hex format (#RRGGBB)")
	}

	if !c.Type.Valid() {
		verr.Add("type", "type must be income or expense")
	}

	if verr.HasFields() {
		return verr
	}
	return nil
}

// ValidColor reports whether s is a "#RRGGBB" hex color
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}
