package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// ledgerReader implements domain.LedgerReader
type ledgerReader struct {
	db *DB
}

// NewLedgerReader creates the aggregate query side used by the dashboard
func NewLedgerReader(db *DB) domain.LedgerReader {
	return &ledgerReader{db: db}
}

// SumByType sums amounts of txType, optionally within an inclusive period
func (r *ledgerReader) SumByType(ctx context.Context, userID uuid.UUID, txType domain.TransactionType, period *domain.Period) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM transactions
		WHERE user_id = $1 AND type = $2
	`
	args := []interface{}{userID, string(txType)}

	if period != nil {
		query += ` AND date >= $3 AND date <= $4`
		args = append(args, period.Start, period.End)
	}

	var totalStr string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&totalStr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s transactions: %w", txType, err)
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse sum: %w", err)
	}
	return total, nil
}

// SumByMonthAndType groups sums by calendar month in loc and by type, for dates >= from
func (r *ledgerReader) SumByMonthAndType(ctx context.Context, userID uuid.UUID, from time.Time, loc *time.Location) ([]domain.MonthlyTypeTotal, error) {
	query := `
		SELECT TO_CHAR(date AT TIME ZONE $3, 'YYYY-MM') AS month, type, SUM(amount)::text
		FROM transactions
		WHERE user_id = $1 AND date >= $2
		GROUP BY month, type
		ORDER BY month, type
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, loc.String())
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by month: %w", err)
	}
	defer rows.Close()

	var totals []domain.MonthlyTypeTotal
	for rows.Next() {
		var row domain.MonthlyTypeTotal
		var totalStr string
		if err := rows.Scan(&row.Month, &row.Type, &totalStr); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		if row.Total, err = decimal.NewFromString(totalStr); err != nil {
			return nil, fmt.Errorf("failed to parse monthly total: %w", err)
		}
		totals = append(totals, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}
	return totals, nil
}

// SumByCategory sums amounts of txType per category, ordered by category ID
// Transactions whose category row is gone are kept with a nil Category
func (r *ledgerReader) SumByCategory(ctx context.Context, userID uuid.UUID, txType domain.TransactionType) ([]domain.CategoryTotal, error) {
	query := `
		SELECT t.category_id, c.name, c.color, SUM(t.amount)::text
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id AND c.user_id = t.user_id
		WHERE t.user_id = $1 AND t.type = $2
		GROUP BY t.category_id, c.name, c.color
		ORDER BY t.category_id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, string(txType))
	if err != nil {
		return nil, fmt.Errorf("failed to sum %s by category: %w", txType, err)
	}
	defer rows.Close()

	var totals []domain.CategoryTotal
	for rows.Next() {
		var row domain.CategoryTotal
		var name, color sql.NullString
		var totalStr string
		if err := rows.Scan(&row.CategoryID, &name, &color, &totalStr); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		if row.Total, err = decimal.NewFromString(totalStr); err != nil {
			return nil, fmt.Errorf("failed to parse category total: %w", err)
		}
		if name.Valid {
			row.Category = &domain.CategorySummary{ID: row.CategoryID, Name: name.String, Color: color.String}
		}
		totals = append(totals, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return totals, nil
}

// RecentTransactions returns the latest limit transactions, newest first
func (r *ledgerReader) RecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id AND c.user_id = t.user_id
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}
