package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

const (
	// DefaultRecentLimit is the number of recent transactions listed when no limit is given
	DefaultRecentLimit = 10

	// ChartMonths is the length of the trend series, current month included
	ChartMonths = 6
)

// Dashboard parts, as reported to the Observer
const (
	PartBalance          = "balance"
	PartMonthly          = "monthly"
	PartChart            = "chart"
	PartIncomeBreakdown  = "income_breakdown"
	PartExpenseBreakdown = "expense_breakdown"
	PartRecent           = "recent"
)

// Observer is notified after each dashboard part completes
type Observer interface {
	ObservePart(part string, d time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObservePart(string, time.Duration, error) {}

// Option configures a DashboardService
type Option func(*DashboardService)

// WithClock overrides the wall clock used for month windows
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.Now = now }
}

// WithLocation sets the time zone calendar months are computed in
func WithLocation(loc *time.Location) Option {
	return func(s *DashboardService) {
		if loc != nil {
			s.Location = loc
		}
	}
}

// WithRecentLimit sets how many transactions the snapshot lists
func WithRecentLimit(limit int) Option {
	return func(s *DashboardService) {
		if limit > 0 {
			s.RecentLimit = limit
		}
	}
}

// WithObserver reports per-part durations and failures
func WithObserver(o Observer) Option {
	return func(s *DashboardService) {
		if o != nil {
			s.Observer = o
		}
	}
}

// DashboardService computes dashboard aggregates from a user's ledger
// It never writes and holds no per-request state
type DashboardService struct {
	LedgerReader domain.LedgerReader
	Now          func() time.Time
	Location     *time.Location
	RecentLimit  int
	Observer     Observer
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(ledgerReader domain.LedgerReader, opts ...Option) *DashboardService {
	s := &DashboardService{
		LedgerReader: ledgerReader,
		Now:          time.Now,
		Location:     time.UTC,
		RecentLimit:  DefaultRecentLimit,
		Observer:     noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDashboard computes every part concurrently and composes them into one snapshot
// The first failing part cancels the others and fails the whole call
func (s *DashboardService) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardSnapshot, error) {
	// Read the clock once so every window is computed against the same instant
	now := s.Now()

	var (
		balance          domain.Balance
		monthly          domain.MonthlyMetrics
		chart            domain.Chart
		incomeBreakdown  []domain.CategoryBreakdown
		expenseBreakdown []domain.CategoryBreakdown
		recent           []domain.RecentTransaction
	)

	g, gctx := errgroup.WithContext(ctx)

	s.run(ctx, gctx, g, PartBalance, func() (err error) {
		balance, err = s.Balance(gctx, userID)
		return err
	})
	s.run(ctx, gctx, g, PartMonthly, func() (err error) {
		monthly, err = s.Monthly(gctx, userID, now)
		return err
	})
	s.run(ctx, gctx, g, PartChart, func() (err error) {
		chart, err = s.Chart(gctx, userID, now)
		return err
	})
	s.run(ctx, gctx, g, PartIncomeBreakdown, func() (err error) {
		incomeBreakdown, err = s.Breakdown(gctx, userID, domain.TransactionTypeIncome)
		return err
	})
	s.run(ctx, gctx, g, PartExpenseBreakdown, func() (err error) {
		expenseBreakdown, err = s.Breakdown(gctx, userID, domain.TransactionTypeExpense)
		return err
	})
	s.run(ctx, gctx, g, PartRecent, func() (err error) {
		recent, err = s.Recent(gctx, userID, s.RecentLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.DashboardSnapshot{
		Balance: balance,
		Monthly: monthly,
		Chart:   chart,
		Breakdown: domain.Breakdown{
			IncomeByCategory:   incomeBreakdown,
			ExpensesByCategory: expenseBreakdown,
		},
		RecentTransactions: recent,
	}, nil
}

// run starts fn on g and reports its duration under part
// A part aborted because a sibling failed is not reported
func (s *DashboardService) run(ctx, gctx context.Context, g *errgroup.Group, part string, fn func() error) {
	g.Go(func() error {
		start := time.Now()
		err := fn()
		if !cancelledBySibling(ctx, gctx, err) {
			s.Observer.ObservePart(part, time.Since(start), err)
		}
		if err != nil {
			return fmt.Errorf("failed to compute dashboard %s: %w", part, err)
		}
		return nil
	})
}

// cancelledBySibling reports whether err comes from the group context being
// cancelled while the caller's context is still live
func cancelledBySibling(ctx, gctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) && ctx.Err() == nil && gctx.Err() != nil
}

// Balance calculates the all-time net balance
// Logic: sum(income) - sum(expense) over the whole history
func (s *DashboardService) Balance(ctx context.Context, userID uuid.UUID) (domain.Balance, error) {
	income, err := s.LedgerReader.SumByType(ctx, userID, domain.TransactionTypeIncome, nil)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("failed to sum income: %w", err)
	}

	expenses, err := s.LedgerReader.SumByType(ctx, userID, domain.TransactionTypeExpense, nil)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return domain.Balance{Total: formatAmount(income.Sub(expenses))}, nil
}

// Monthly compares the calendar month containing now with the previous one
// Logic:
//  1. Sum income and expenses for both months
//  2. savings = income - expenses
//  3. Change percent per metric, previous month as the base
func (s *DashboardService) Monthly(ctx context.Context, userID uuid.UUID, now time.Time) (domain.MonthlyMetrics, error) {
	current := CurrentMonth(now, s.Location)
	previous := PreviousMonth(now, s.Location)

	sum := func(txType domain.TransactionType, period domain.Period) (decimal.Decimal, error) {
		total, err := s.LedgerReader.SumByType(ctx, userID, txType, &period)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to sum %s for %s: %w", txType, MonthKey(period.Start, s.Location), err)
		}
		return total, nil
	}

	// 1. Sums
	currentIncome, err := sum(domain.TransactionTypeIncome, current)
	if err != nil {
		return domain.MonthlyMetrics{}, err
	}
	currentExpenses, err := sum(domain.TransactionTypeExpense, current)
	if err != nil {
		return domain.MonthlyMetrics{}, err
	}
	previousIncome, err := sum(domain.TransactionTypeIncome, previous)
	if err != nil {
		return domain.MonthlyMetrics{}, err
	}
	previousExpenses, err := sum(domain.TransactionTypeExpense, previous)
	if err != nil {
		return domain.MonthlyMetrics{}, err
	}

	// 2. Savings
	currentSavings := currentIncome.Sub(currentExpenses)
	previousSavings := previousIncome.Sub(previousExpenses)

	// 3. Changes
	return domain.MonthlyMetrics{
		Income:         formatAmount(currentIncome),
		Expenses:       formatAmount(currentExpenses),
		Savings:        formatAmount(currentSavings),
		IncomeChange:   ChangePercent(currentIncome, previousIncome),
		ExpensesChange: ChangePercent(currentExpenses, previousExpenses),
		SavingsChange:  ChangePercent(currentSavings, previousSavings),
	}, nil
}

// Chart builds the income/expense series for the last ChartMonths months, oldest first
// Months without transactions report "0"
func (s *DashboardService) Chart(ctx context.Context, userID uuid.UUID, now time.Time) (domain.Chart, error) {
	months := LastMonths(now, ChartMonths, s.Location)

	// 1. Seed every month so empty months still appear
	points := make(map[string]*domain.ChartPoint, len(months))
	for _, m := range months {
		key := MonthKey(m, s.Location)
		points[key] = &domain.ChartPoint{Month: key, Income: "0", Expenses: "0"}
	}

	// 2. Overlay the grouped sums
	rows, err := s.LedgerReader.SumByMonthAndType(ctx, userID, months[0], s.Location)
	if err != nil {
		return domain.Chart{}, fmt.Errorf("failed to sum by month: %w", err)
	}

	for _, row := range rows {
		point, ok := points[row.Month]
		if !ok {
			continue
		}
		switch row.Type {
		case domain.TransactionTypeIncome:
			point.Income = formatAmount(row.Total)
		case domain.TransactionTypeExpense:
			point.Expenses = formatAmount(row.Total)
		}
	}

	// 3. Emit chronologically
	series := make([]domain.ChartPoint, 0, len(months))
	for _, m := range months {
		series = append(series, *points[MonthKey(m, s.Location)])
	}

	return domain.Chart{Last6Months: series}, nil
}

// Breakdown reports every category of txType with its total and share of the type's grand total
// Totals of deleted categories are reported under the Unknown category
func (s *DashboardService) Breakdown(ctx context.Context, userID uuid.UUID, txType domain.TransactionType) ([]domain.CategoryBreakdown, error) {
	rows, err := s.LedgerReader.SumByCategory(ctx, userID, txType)
	if err != nil {
		return nil, fmt.Errorf("failed to sum %s by category: %w", txType, err)
	}

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.Total)
	}

	breakdown := make([]domain.CategoryBreakdown, 0, len(rows))
	for _, row := range rows {
		name, color := domain.UnknownCategoryName, domain.UnknownCategoryColor
		if row.Category != nil {
			name, color = row.Category.Name, row.Category.Color
		}

		breakdown = append(breakdown, domain.CategoryBreakdown{
			CategoryID:    row.CategoryID,
			CategoryName:  name,
			CategoryColor: color,
			Total:         formatAmount(row.Total),
			Percentage:    SharePercent(row.Total, grandTotal),
		})
	}

	return breakdown, nil
}

// Recent lists the user's latest transactions, newest first
// A non-positive limit falls back to DefaultRecentLimit
func (s *DashboardService) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.RecentTransaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	txs, err := s.LedgerReader.RecentTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}

	recent := make([]domain.RecentTransaction, 0, len(txs))
	for _, tx := range txs {
		item := domain.RecentTransaction{
			ID:          tx.ID,
			Amount:      formatAmount(tx.Amount),
			Description: tx.Description,
			Type:        tx.Type,
			Date:        tx.Date,
		}
		if tx.Category != nil {
			category := *tx.Category
			item.Category = &category
		}
		recent = append(recent, item)
	}

	return recent, nil
}
