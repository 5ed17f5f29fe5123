package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is an inclusive [Start, End] time window
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthlyTypeTotal is one row of the month x type aggregate
type MonthlyTypeTotal struct {
	Month string // "YYYY-MM"
	Type  TransactionType
	Total decimal.Decimal
}

// CategoryTotal is one row of the per-category aggregate
// Category is nil when the referenced category row no longer exists
type CategoryTotal struct {
	CategoryID uuid.UUID
	Category   *CategorySummary
	Total      decimal.Decimal
}

// DashboardSnapshot is the derived, per-request view of a user's ledger
type DashboardSnapshot struct {
	Balance            Balance             `json:"balance"`
	Monthly            MonthlyMetrics      `json:"monthly"`
	Chart              Chart               `json:"chart"`
	Breakdown          Breakdown           `json:"breakdown"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

// Balance is the all-time net balance
type Balance struct {
	Total string `json:"total"`
}

// MonthlyMetrics compares the current calendar month with the previous one
type MonthlyMetrics struct {
	Income         string  `json:"income"`
	Expenses       string  `json:"expenses"`
	Savings        string  `json:"savings"`
	IncomeChange   float64 `json:"incomeChange"`
	ExpensesChange float64 `json:"expensesChange"`
	SavingsChange  float64 `json:"savingsChange"`
}

// Chart holds the trend series
type Chart struct {
	Last6Months []ChartPoint `json:"last6Months"`
}

// ChartPoint is one month of the trend series
type ChartPoint struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
}

// Breakdown holds per-category totals for both transaction types
type Breakdown struct {
	IncomeByCategory   []CategoryBreakdown `json:"incomeByCategory"`
	ExpensesByCategory []CategoryBreakdown `json:"expensesByCategory"`
}

// CategoryBreakdown is one category's share of a type's grand total
type CategoryBreakdown struct {
	CategoryID    uuid.UUID `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	CategoryColor string    `json:"categoryColor"`
	Total         string    `json:"total"`
	Percentage    float64   `json:"percentage"`
}

// RecentTransaction is a transaction as listed on the dashboard
type RecentTransaction struct {
	ID          uuid.UUID        `json:"id"`
	Amount      string           `json:"amount"`
	Description string           `json:"description"`
	Type        TransactionType  `json:"type"`
	Date        time.Time        `json:"date"`
	Category    *CategorySummary `json:"category"`
}
