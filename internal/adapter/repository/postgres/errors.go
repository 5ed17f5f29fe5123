package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

// Postgres error codes translated into domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// wrapError translates driver errors into domain sentinels and adds the failed action
func wrapError(action string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, domain.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", action, pqErr.Constraint, domain.ErrConflict)
		}
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

// expectAffected returns ErrNotFound when a write matched no row
func expectAffected(action string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", action, domain.ErrNotFound)
	}
	return nil
}
