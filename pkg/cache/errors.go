package cache

import "errors"

// Gateway failure classes. The gateway joins them with the underlying
// error so callers can branch with errors.Is.
var (
	// ErrNotFound means the content path does not exist upstream.
	ErrNotFound = errors.New("content not found")

	// ErrNetwork covers timeouts, refused connections and 5xx responses.
	ErrNetwork = errors.New("content API unreachable")
)

// RetryableError marks a transient failure. Nothing retries automatically;
// the CLI uses it to suggest trying again or running offline.
type RetryableError struct{ Err error }

// Retryable wraps err. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err wraps a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
