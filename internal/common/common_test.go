package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundHierarchy(t *testing.T) {
	wrapped := fmt.Errorf("%w: %q", ErrCategoryNotFound, "Toys")

	assert.True(t, IsNotFound(wrapped))
	assert.True(t, errors.Is(wrapped, ErrCategoryNotFound))
	assert.False(t, errors.Is(wrapped, ErrProductNotFound))
	assert.False(t, IsNotFound(ErrInsufficientStock))
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not save inventory", ErrIO)

	assert.Equal(t, "could not save inventory: i/o failure", err.Error())
	assert.True(t, errors.Is(err, ErrIO))

	bare := &UserError{UserMessage: "nothing to do"}
	assert.Equal(t, "nothing to do", bare.Error())
}

func TestLineError(t *testing.T) {
	err := &LineError{Line: 3, Text: "Milk 2.50", Err: ErrMalformedInput}

	assert.Equal(t, `line 3 "Milk 2.50": malformed input`, err.Error())
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "info", input: "info", want: slog.LevelInfo},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "upper case", input: "WARN", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "unknown", input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	logger.Info("sale completed", "product", "Milk")
	assert.Contains(t, buf.String(), `"product":"Milk"`)

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestWithRetry(t *testing.T) {
	errBusy := errors.New("database is locked")
	fast := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	tests := []struct {
		name      string
		failures  int
		permanent bool
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first time", failures: 0, wantCalls: 1},
		{name: "succeeds after retries", failures: 2, wantCalls: 3},
		{name: "exhausts attempts", failures: 5, wantCalls: 3, wantErr: ErrMaxRetries},
		{name: "permanent error stops", failures: 5, permanent: true, wantCalls: 1, wantErr: errBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls > tt.failures {
					return nil
				}
				if tt.permanent {
					return Permanent(errBusy)
				}
				return errBusy
			}, fast)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, errBusy)
		})
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error { return ErrIO }, RetryOptions{InitialDelay: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}
