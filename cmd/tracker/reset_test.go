package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finance-tracker/internal/model"
	"github.com/Veraticus/finance-tracker/internal/testutil"
)

func TestResetStore(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStats model.StoreStats
		force     bool
		wantOut   string
	}{
		{
			name:      "force skips the prompt",
			force:     true,
			wantStats: model.StoreStats{},
			wantOut:   "Database reset",
		},
		{
			name:      "confirmed",
			input:     "y\n",
			wantStats: model.StoreStats{},
			wantOut:   "Database reset",
		},
		{
			name:      "confirmed long form",
			input:     " YES \n",
			wantStats: model.StoreStats{},
			wantOut:   "Database reset",
		},
		{
			name:      "declined",
			input:     "n\n",
			wantStats: model.StoreStats{Users: 2},
			wantOut:   "Reset canceled.",
		},
		{
			name:      "no input",
			input:     "",
			wantStats: model.StoreStats{Users: 2},
			wantOut:   "Reset canceled.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			db.MustCreateUser("user1@example.com")
			db.MustCreateUser("user2@example.com")

			var out bytes.Buffer
			err := resetStore(context.Background(), db.Storage, strings.NewReader(tt.input), &out, tt.force)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStats, db.MustStats())
			assert.Contains(t, out.String(), tt.wantOut)
			if !tt.force {
				assert.Contains(t, out.String(), "This will delete 2 users, 0 transactions and 0 budgets.")
			}
		})
	}
}
