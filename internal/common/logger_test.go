package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer

	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	slog.New(handler).Info("Seeded", "users", 10)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Seeded", record["msg"])
	assert.InDelta(t, 10, record["users"], 0)

	buf.Reset()
	handler, err = NewHandler(&buf, slog.LevelWarn, "console")
	require.NoError(t, err)
	logger := slog.New(handler)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelDebug, "console")
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), slog.New(handler).With("run_id", "abc"))
	assert.NotSame(t, slog.Default(), LoggerFrom(ctx))
	assert.Same(t, slog.Default(), LoggerFrom(context.Background()))

	LogInfo(ctx, "Created demo user", Fields{"user_id": 3})
	LogWarn(ctx, "Worker cancelled", Fields{"worker": "Tx-User3-Food"})
	LogDebug(ctx, "Completed budgets", nil)
	LogError(ctx, errors.New("boom"), "Worker failed", Fields{"worker": "Budget-User3"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Contains(t, line, "run_id=abc")
	}
	assert.Contains(t, lines[0], "user_id=3")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[2], "level=DEBUG")
	assert.Contains(t, lines[3], "error=boom")
	assert.Contains(t, lines[3], "worker=Budget-User3")
}

func TestUserError(t *testing.T) {
	cause := errors.New("database is locked")
	err := NewUserError("Could not reset demo data", cause)

	assert.Equal(t, "Could not reset demo data: database is locked", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "Could not reset demo data", userErr.UserMessage)

	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}
