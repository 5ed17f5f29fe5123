package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// transactionColumns is the select list shared by every transaction read
// It expects transactions aliased t and a left-joined categories aliased c
const transactionColumns = `
	t.id, t.user_id, t.category_id, t.amount::text, t.description, t.type,
	t.is_recurring, t.date, t.created_at, t.updated_at,
	c.id, c.name, c.color`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create creates a new transaction
func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, category_id, amount, description, type, is_recurring, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.CategoryID,
		tx.Amount.String(),
		tx.Description,
		string(tx.Type),
		tx.IsRecurring,
		tx.Date,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return wrapError("create transaction", err)
	}

	return nil
}

// GetByID retrieves a transaction owned by userID with its category summary
func (r *transactionRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id AND c.user_id = t.user_id
		WHERE t.id = $1 AND t.user_id = $2
	`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, wrapError("get transaction by ID", err)
	}
	return tx, nil
}

// List returns one page of matching transactions and the number of matches
func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	conditions := []string{"t.user_id = $1"}
	args := []interface{}{filter.UserID}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("t.description ILIKE $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conditions = append(conditions, fmt.Sprintf("t.type = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions t WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	order := "DESC"
	if filter.Sort == domain.SortOldest {
		order = "ASC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT %s
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id AND c.user_id = t.user_id
		WHERE %s
		ORDER BY t.date %s, t.id %s
		LIMIT $%d OFFSET $%d
	`, transactionColumns, where, order, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// Update persists the mutable fields of a transaction
func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $3, amount = $4, description = $5, type = $6, is_recurring = $7, date = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2
	`

	res, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.CategoryID,
		tx.Amount.String(),
		tx.Description,
		string(tx.Type),
		tx.IsRecurring,
		tx.Date,
		tx.UpdatedAt,
	)
	if err != nil {
		return wrapError("update transaction", err)
	}
	return expectAffected("update transaction", res)
}

// Delete removes a transaction owned by userID
func (r *transactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapError("delete transaction", err)
	}
	return expectAffected("delete transaction", res)
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amountStr string
	var categoryID, categoryName, categoryColor sql.NullString

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.CategoryID,
		&amountStr,
		&tx.Description,
		&tx.Type,
		&tx.IsRecurring,
		&tx.Date,
		&tx.CreatedAt,
		&tx.UpdatedAt,
		&categoryID,
		&categoryName,
		&categoryColor,
	)
	if err != nil {
		return nil, err
	}

	// Parse amount (NUMERIC)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	tx.Amount = amount

	// Category is nullable through the left join
	if categoryID.Valid {
		id, err := uuid.Parse(categoryID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse category id: %w", err)
		}
		tx.Category = &domain.CategorySummary{ID: id, Name: categoryName.String, Color: categoryColor.String}
	}

	return &tx, nil
}

func scanTransactions(rows *sql.Rows) ([]*domain.Transaction, error) {
	txs := []*domain.Transaction{}
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// escapeLike escapes ILIKE wildcards so search terms match literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
