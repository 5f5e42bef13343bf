package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/finance-tracker/internal/common"
)

func TestClassifyError(t *testing.T) {
	plain := errors.New("syntax error")

	tests := []struct {
		err  error
		want error
		name string
	}{
		{name: "nil", err: nil, want: nil},
		{name: "sql no rows", err: sql.ErrNoRows, want: common.ErrNotFound},
		{name: "pgx no rows", err: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: common.ErrNotFound},
		{name: "context canceled passes through", err: context.Canceled, want: context.Canceled},
		{
			name: "sqlite unique constraint",
			err:  sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			want: common.ErrDuplicateEntry,
		},
		{
			name: "sqlite busy",
			err:  sqlite3.Error{Code: sqlite3.ErrBusy},
			want: common.ErrStoreUnavailable,
		},
		{
			name: "postgres unique violation",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			want: common.ErrDuplicateEntry,
		},
		{
			name: "postgres connection failure",
			err:  &pgconn.PgError{Code: pgerrcode.ConnectionFailure},
			want: common.ErrStoreUnavailable,
		},
		{
			name: "postgres too many connections",
			err:  &pgconn.PgError{Code: pgerrcode.TooManyConnections},
			want: common.ErrStoreUnavailable,
		},
		{name: "connection done", err: sql.ErrConnDone, want: common.ErrStoreUnavailable},
		{name: "unknown error unchanged", err: plain, want: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyError_PostgresOtherCodesUnchanged(t *testing.T) {
	err := &pgconn.PgError{Code: pgerrcode.CheckViolation}
	got := classifyError(err)

	assert.False(t, errors.Is(got, common.ErrDuplicateEntry))
	assert.False(t, errors.Is(got, common.ErrStoreUnavailable))
	assert.Equal(t, err, got)
}
