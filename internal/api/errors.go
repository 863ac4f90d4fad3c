package api

import (
	"errors"
	"fmt"
)

// AppError is a well-formed response whose body carries an error field.
type AppError struct {
	Op      string
	Message string
}

func (e *AppError) Error() string { return e.Message }

// TransportError means the request never completed or its response could
// not be parsed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// IsApp reports whether err is (or wraps) an application-level error and
// returns its message.
func IsApp(err error) (string, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Message, true
	}
	return "", false
}
