package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/ledgerflow-backend/internal/domain"
)

type fakeResult struct {
	affected int64
	err      error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, r.err }

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		notIs   error
		wantMsg string
	}{
		{
			name:    "No rows becomes not found",
			err:     sql.ErrNoRows,
			wantIs:  domain.ErrNotFound,
			wantMsg: "get category by ID: not found",
		},
		{
			name:   "Unique violation becomes conflict",
			err:    &pq.Error{Code: "23505", Constraint: "unique_user_category"},
			wantIs: domain.ErrConflict,
		},
		{
			name:   "Wrapped foreign key violation becomes conflict",
			err:    fmt.Errorf("exec: %w", &pq.Error{Code: "23503"}),
			wantIs: domain.ErrConflict,
		},
		{
			name:  "Other driver errors pass through",
			err:   &pq.Error{Code: "57014"},
			notIs: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError("get category by ID", tt.err)

			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.notIs != nil {
				assert.NotErrorIs(t, err, tt.notIs)
				assert.ErrorIs(t, err, tt.err)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestExpectAffected(t *testing.T) {
	assert.NoError(t, expectAffected("update category", fakeResult{affected: 1}))
	assert.ErrorIs(t, expectAffected("update category", fakeResult{affected: 0}), domain.ErrNotFound)

	driverErr := errors.New("driver does not support RowsAffected")
	assert.ErrorIs(t, expectAffected("update category", fakeResult{err: driverErr}), driverErr)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "coffee", escapeLike("coffee"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
}
