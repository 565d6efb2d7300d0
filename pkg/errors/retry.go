package errors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	Jitter         bool
	RetryableError func(error) bool
	// OnRetry is called before each wait; nil disables the callback.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
		RetryableError: func(err error) bool {
			if IsRecoverable(err) {
				return true
			}

			switch GetErrorCode(err) {
			case ErrCodeConnectionTimeout,
				ErrCodeNetworkUnavailable,
				ErrCodeTimeout,
				ErrCodeServiceUnavailable:
				return true
			default:
				return false
			}
		},
	}
}

// RetryableFunc represents a function that can be retried
type RetryableFunc func(ctx context.Context) error

// Retry runs fn until it succeeds, returns an error RetryableError rejects,
// or MaxRetries retries are spent. Exhaustion is reported as
// ErrCodeResourceExhausted wrapping the last error.
func Retry(ctx context.Context, config *RetryConfig, fn RetryableFunc) error {
	var (
		attempts  int
		permanent bool
	)

	op := func() error {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if config.RetryableError == nil || !config.RetryableError(err) {
			permanent = true
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		if config.OnRetry != nil {
			config.OnRetry(attempts, delay, err)
		}
	}

	err := backoff.RetryNotify(op, newBackOff(ctx, config), notify)
	switch {
	case err == nil:
		return nil
	case permanent:
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return Wrap(err, ErrCodeResourceExhausted,
		fmt.Sprintf("Operation failed after %d attempts", attempts)).
		WithSeverity(SeverityCritical)
}

func newBackOff(ctx context.Context, config *RetryConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.InitialDelay
	b.MaxInterval = config.MaxDelay
	b.Multiplier = config.Multiplier
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0
	if config.Jitter {
		b.RandomizationFactor = 0.3
	}
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(config.MaxRetries)), ctx)
}
