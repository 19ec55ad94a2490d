package llm

import "errors"

// ErrNoProvider is returned by New when no provider is configured, and by
// the Disabled generator on every call.
var ErrNoProvider = errors.New("no language model provider configured")

// ErrEmptyResponse is returned when the model answered with no content.
var ErrEmptyResponse = errors.New("language model returned an empty response")

// TransientError represents a temporary error that may succeed on retry.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string { return e.err.Error() }
func (e *TransientError) Unwrap() error { return e.err }

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError represents a permanent error that should not be retried.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string { return e.err.Error() }
func (e *FatalError) Unwrap() error { return e.err }

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsFatal reports whether err is permanent.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// classifyStatus maps an HTTP status from a provider to an error class.
func classifyStatus(status int, err error) error {
	switch {
	case status == 429 || status >= 500:
		return NewTransientError(err)
	case status >= 400:
		return NewFatalError(err)
	default:
		return err
	}
}
