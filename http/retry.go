package http

import (
	"context"
	"time"
)

// retryableError marks a transport failure worth another attempt. HTTP
// status errors and malformed bodies are never retryable.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// FetchFunc performs one attempt.
type FetchFunc func(ctx context.Context) ([]byte, error)

// FetchWithRetry calls fetch up to retries+1 times, waiting delay between
// attempts. Only errors wrapped as retryable trigger another attempt; any
// other error is returned at once. The last error is returned unwrapped.
func FetchWithRetry(ctx context.Context, retries int, delay time.Duration, fetch FetchFunc) ([]byte, error) {
	if retries < 0 {
		retries = 0
	}
	maxAttempts := retries + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := fetch(ctx)
		if err == nil {
			return body, nil
		}
		re, ok := err.(*retryableError)
		if !ok {
			return nil, err
		}
		lastErr = re.err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}
