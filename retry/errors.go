package retry

import (
	"context"
	"errors"
)

var ErrDeadlineExceeded = errors.New("deadline exceeded")
var ErrMaxAttemptsExceeded = errors.New("max attempts exceeded")

type permanentError struct {
	error
}

func (err permanentError) Unwrap() error { return err.error }

// Disable marks err as not worth retrying.
func Disable(err error) error {
	if !Retryable(err) {
		return err
	}
	return permanentError{err}
}

// Retryable reports whether err may succeed on another attempt.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var pe permanentError
	return !errors.As(err, &pe)
}
