package errors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeConnectionFailed, "Connection failed"),
			expected: "[SDMO1001] ERROR: Connection failed",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeConnectionFailed, "Connection failed").
				WithSuggestions("Check network", "Verify credentials"),
			expected: "[SDMO1001] ERROR: Connection failed\nSuggestions:\n  1. Check network\n  2. Verify credentials",
		},
		{
			name: "context is not rendered",
			err: New(ErrCodeConnectionFailed, "Connection failed").
				WithContext("account", "xy12345"),
			expected: "[SDMO1001] ERROR: Connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := fmt.Errorf("connection refused")

	appErr := Wrap(baseErr, ErrCodeConnectionFailed, "Failed to connect to Snowflake")
	require.NotNil(t, appErr)
	assert.Equal(t, baseErr, appErr.Cause)
	assert.ErrorIs(t, appErr, baseErr)
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
}

func TestWrapInheritsContext(t *testing.T) {
	inner := New(ErrCodeSQLTimeout, "slow").WithContext("table", "CLAIMS").AsRecoverable()
	outer := Wrap(inner, ErrCodeLoadFailed, "load failed")

	assert.Equal(t, "CLAIMS", outer.Context["table"])
	assert.True(t, outer.Recoverable)
	assert.Equal(t, ErrCodeLoadFailed, GetErrorCode(outer))
}

func TestSQLErrorClassification(t *testing.T) {
	tests := []struct {
		cause error
		code  ErrorCode
	}{
		{fmt.Errorf("SQL access control error: Insufficient privileges to operate on schema"), ErrCodeSQLPermission},
		{fmt.Errorf("Object 'CLAIMS' does not exist or not authorized"), ErrCodeSQLObjectNotFound},
		{fmt.Errorf("SQL compilation error: syntax error line 1"), ErrCodeSQLSyntax},
		{fmt.Errorf("statement timeout reached"), ErrCodeSQLTimeout},
		{fmt.Errorf("something else"), ErrCodeSQLExecution},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := SQLError("Statement failed", "SELECT 1", tt.cause)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, "SELECT 1", err.Context["query"])
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ConnectionError("boom", fmt.Errorf("x"))))
	assert.True(t, IsFatal(New(ErrCodeFileNotFound, "missing").AsFatal()))
	assert.False(t, IsFatal(New(ErrCodeSQLExecution, "failed")))
	assert.False(t, IsFatal(fmt.Errorf("plain")))
}

func TestRetryLogic(t *testing.T) {
	attempts := 0
	maxAttempts := 3

	config := &RetryConfig{
		MaxRetries:   maxAttempts - 1,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		RetryableError: func(err error) bool {
			return true
		},
	}

	err := Retry(context.Background(), config, func(ctx context.Context) error {
		attempts++
		if attempts < maxAttempts {
			return New(ErrCodeConnectionTimeout, "Timeout").AsRecoverable()
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, maxAttempts, attempts)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), DefaultRetryConfig(), func(ctx context.Context) error {
		attempts++
		return New(ErrCodeAuthenticationFailed, "bad password")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, ErrCodeAuthenticationFailed, GetErrorCode(err))
}

func TestRetryExhausted(t *testing.T) {
	var retried []int
	config := &RetryConfig{
		MaxRetries:     2,
		InitialDelay:   time.Millisecond,
		MaxDelay:       5 * time.Millisecond,
		Multiplier:     2.0,
		RetryableError: func(error) bool { return true },
		OnRetry: func(attempt int, _ time.Duration, _ error) {
			retried = append(retried, attempt)
		},
	}

	err := Retry(context.Background(), config, func(ctx context.Context) error {
		return fmt.Errorf("still down")
	})

	require.Error(t, err)
	assert.Equal(t, ErrCodeResourceExhausted, GetErrorCode(err))
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetryDelaysGrowAndCap(t *testing.T) {
	var delays []time.Duration
	config := &RetryConfig{
		MaxRetries:     3,
		InitialDelay:   time.Millisecond,
		MaxDelay:       3 * time.Millisecond,
		Multiplier:     2.0,
		RetryableError: func(error) bool { return true },
		OnRetry: func(_ int, delay time.Duration, _ error) {
			delays = append(delays, delay)
		},
	}

	attempts := 0
	err := Retry(context.Background(), config, func(ctx context.Context) error {
		attempts++
		return fmt.Errorf("down")
	})

	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}, delays)
}

func TestRetryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	config := &RetryConfig{
		MaxRetries:     5,
		InitialDelay:   time.Hour,
		MaxDelay:       time.Hour,
		Multiplier:     2.0,
		RetryableError: func(error) bool { return true },
		OnRetry:        func(int, time.Duration, error) { cancel() },
	}

	err := Retry(ctx, config, func(ctx context.Context) error {
		return fmt.Errorf("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetErrorCodePlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, GetErrorCode(fmt.Errorf("plain")))
}
