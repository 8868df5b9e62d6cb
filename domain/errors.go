package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeDependency ErrorCode = "DEPENDENCY_UNMET"
	ErrCodeParse      ErrorCode = "PARSE_ERROR"
	ErrCodeFormat     ErrorCode = "FORMAT_ERROR"
	ErrCodeInvalid    ErrorCode = "INVALID"
	ErrCodeInternal   ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrTaskNotFound reports an operation referencing a task id absent from the store.
var ErrTaskNotFound = NewError(ErrCodeNotFound, "task not found")

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	var depErr *DependencyError
	if errors.As(err, &depErr) {
		return code == ErrCodeDependency
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return code == ErrCodeParse
	}
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		return code == ErrCodeFormat
	}
	return false
}

// DependencyError blocks a completion: every id in Unmet either does not
// resolve to a stored task or resolves to one that is not completed.
type DependencyError struct {
	TaskID string
	Unmet  []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("task %s has unmet dependencies: %s", e.TaskID, strings.Join(e.Unmet, ", "))
}

// ParseError reports deadline text the date parser could not understand.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse deadline %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("cannot parse deadline %q", e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatError reports a malformed snapshot payload. The store is left
// untouched when one is returned.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed snapshot: %s: %v", e.Reason, e.Err)
	}
	return "malformed snapshot: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
