package errors

import (
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrTypeFileFailure marks a file that could not be opened, read or parsed
	ErrTypeFileFailure ErrorType = "FILE_FAILURE"
	// ErrTypeEncodingExhausted marks a file no configured encoding could decode
	ErrTypeEncodingExhausted ErrorType = "ENCODING_EXHAUSTED"
	// ErrTypeExport marks a failure writing an output artifact
	ErrTypeExport ErrorType = "EXPORT"
	// ErrTypeConfig marks configuration that could not be loaded or failed validation
	ErrTypeConfig ErrorType = "CONFIG"
	// ErrTypeFatal marks a condition that makes the whole run meaningless
	ErrTypeFatal ErrorType = "FATAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	File    string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Message)
	if e.File != "" {
		fmt.Fprintf(&b, " (%s)", e.File)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewFileError creates a per-file failure. The run continues past it.
func NewFileError(file, message string, cause error) *AppError {
	e := NewAppError(ErrTypeFileFailure, message, cause)
	e.File = file
	return e
}

// NewDecodeError reports that every candidate encoding failed for file.
// The returned error matches ErrEncodingExhausted and the last decoder error.
func NewDecodeError(file string, attempted []string, last error) *AppError {
	e := NewAppError(ErrTypeEncodingExhausted,
		fmt.Sprintf("no encoding could decode file (tried %s)", strings.Join(attempted, ", ")),
		&exhaustedError{last: last})
	e.File = file
	return e.WithContext("encodings", attempted)
}

// NewExportError creates an error for a failed output artifact
func NewExportError(path string, cause error) *AppError {
	e := NewAppError(ErrTypeExport, "failed to write output", cause)
	e.File = path
	return e
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewFatalError creates an error that aborts the run
func NewFatalError(message string, cause error) *AppError {
	return NewAppError(ErrTypeFatal, message, cause)
}

// exhaustedError chains ErrEncodingExhausted in front of the last decoder error
type exhaustedError struct {
	last error
}

func (e *exhaustedError) Error() string {
	if e.last == nil {
		return ErrEncodingExhausted.Error()
	}
	return fmt.Sprintf("%s: %v", ErrEncodingExhausted, e.last)
}

func (e *exhaustedError) Unwrap() []error {
	if e.last == nil {
		return []error{ErrEncodingExhausted}
	}
	return []error{ErrEncodingExhausted, e.last}
}
