// Package exitcode defines the process exit codes and a coded error type
// used to carry them from deep inside startup code to main.
package exitcode

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	OK            = 0
	NotPressed    = 1 // switch subcommand only
	Config        = 2
	OutputAccess  = 3
	StatusChannel = 4
	Runtime       = 5
)

// Error is an error that knows which exit code it maps to.
type Error struct {
	Code    int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error.
func New(code int, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// From returns the exit code for err. Nil maps to OK, uncoded errors to Runtime.
func From(err error) int {
	if err == nil {
		return OK
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return Runtime
}
