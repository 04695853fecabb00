package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a Redis call that failed below the protocol level.
var ErrNetwork = errors.New("network error")

// RetryableError marks a transient backend failure.
type RetryableError struct{ Err error }

// Retryable wraps err; nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff step; tests shorten it.
var retryDelay = 200 * time.Millisecond

const retryAttempts = 3

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or retryAttempts calls have failed. The delay doubles after each
// failure and waiting stops early when ctx ends.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	err := fn()
	for attempt := 1; attempt < retryAttempts && IsRetryable(err); attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}
