// Package errors provides the error helpers shared across hostpath.
//
// It is a thin layer over github.com/pkg/errors: WrapAndTrace annotates an
// error with the caller's file and line so a failure deep inside a remote
// command round-trip can be traced back without a debugger.
package errors

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// ValidationError is returned for rejected inputs, such as a malformed host
// descriptor or an invalid path component.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Message: message}
}

var _ error = ValidationError{}

func (v ValidationError) Error() string {
	return v.Message
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// WrapAndTrace wraps an error with the file and line of the caller plus any
// extra messages. A nil error stays nil.
func WrapAndTrace(err error, messages ...string) error {
	if err == nil {
		return nil
	}
	message := ""
	for _, m := range messages {
		message += fmt.Sprintf(" %s", m)
	}
	return errors.Wrap(err, MakeErrorMessage(message))
}

func MakeErrorMessage(message string) string {
	_, fn, line, _ := runtime.Caller(2)
	return fmt.Sprintf("[error] %s:%d %s\n\t", fn, line, message)
}

func New(message string) error {
	return errors.New(message)
}

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Cause(err error) error {
	return errors.Cause(err)
}
