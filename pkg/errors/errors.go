// Package errors provides structured error handling for typedbuf with error
// categorization, key-value context and stack capture.
//
// Every failure of the conversion packages is reported as an *Error whose
// Type names the failure category:
//
//	buf, err := codec.BufferToSequence(raw, typedarray.Float64)
//	if errors.IsType(err, errors.ErrorTypeBufferLengthMismatch) {
//	    // raw is not a whole number of float64 elements
//	}
//
// Error instances are not safe for concurrent modification. Add details
// before sharing an error across goroutines.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of an error.
type ErrorType string

const (
	// ErrorTypeUnsupportedInputKind means a value could not be placed in any
	// numeric category (not a sequence, image-like or canvas-like input, or a
	// kind that the operation does not accept).
	ErrorTypeUnsupportedInputKind ErrorType = "unsupported_input_kind"
	// ErrorTypeBufferLengthMismatch means a byte buffer length is not a
	// multiple of the requested element width.
	ErrorTypeBufferLengthMismatch ErrorType = "buffer_length_mismatch"
	// ErrorTypeInvalidBase64 means the text is not valid padded standard base64.
	ErrorTypeInvalidBase64 ErrorType = "invalid_base64"
	// ErrorTypeInconsistentColumnLength means columns disagree on length.
	ErrorTypeInconsistentColumnLength ErrorType = "inconsistent_column_length"
	// ErrorTypeInvalidHistogramRange means a non-positive bin count or max <= min.
	ErrorTypeInvalidHistogramRange ErrorType = "invalid_histogram_range"
	// ErrorTypeTransferred means the memory was handed off by Region.Transfer
	// and can no longer be read through the original owner.
	ErrorTypeTransferred ErrorType = "transferred"
	// ErrorTypeLossyFallback means a generic decode would silently narrow
	// through a fallback kind other than float64.
	ErrorTypeLossyFallback ErrorType = "lossy_fallback"
	// ErrorTypeNotFound represents a missing field or column
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents invalid arguments such as schemas
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData represents corrupt payload or IPC data
	ErrorTypeData ErrorType = "data"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. Calls can be chained.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the
// original as the cause. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the outermost structured error in the chain has the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of the outermost structured error, or
// ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// IsInputError reports whether err was caused by the caller's input rather
// than by a failure inside the library.
func IsInputError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Type {
	case ErrorTypeUnsupportedInputKind, ErrorTypeBufferLengthMismatch, ErrorTypeInvalidBase64,
		ErrorTypeInconsistentColumnLength, ErrorTypeInvalidHistogramRange, ErrorTypeTransferred,
		ErrorTypeLossyFallback, ErrorTypeNotFound, ErrorTypeValidation, ErrorTypeData:
		return true
	default:
		return false
	}
}

// captureStack captures the current call stack.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
