// internal/db/errors.go
package db

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ConnectionError wraps database connection failures
type ConnectionError struct {
	Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Underlying)
}

func (e *ConnectionError) Unwrap() error { return e.Underlying }

// QueryError wraps query execution failures
type QueryError struct {
	Underlying error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Underlying)
}

func (e *QueryError) Unwrap() error { return e.Underlying }

// Message returns the engine's own message without the wrapper prefix.
func (e *QueryError) Message() string {
	if e.Underlying == nil {
		return "empty query"
	}
	return e.Underlying.Error()
}

// WrapConnectionError creates a ConnectionError from underlying error
func WrapConnectionError(err error) error {
	return &ConnectionError{Underlying: err}
}

// WrapQueryError creates a QueryError from underlying error
func WrapQueryError(err error) error {
	return &QueryError{Underlying: err}
}

// ErrUnsupported is returned when the active driver cannot perform an operation
// that only the embedded engine provides (dump, backup).
var ErrUnsupported = errors.New("operation not supported by this driver")

// IsQueryError reports whether err is (or wraps) a QueryError and returns it.
func IsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
