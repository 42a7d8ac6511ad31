// Package errors provides structured errors with stable codes so that a
// failed simulation run can report which phase rejected it.
package errors

import (
	"fmt"
)

// Error codes for the phases of a simulation run.
const (
	CodeConfig      = "CONFIG_ERROR"      // invalid experiment declaration, caught before any row runs
	CodeGeneration  = "GENERATION_ERROR"  // a data generator failed on a condition row
	CodeAnalysis    = "ANALYSIS_ERROR"    // a statistical test could not be computed
	CodeAggregation = "AGGREGATION_ERROR" // summary grouping keys disagree with the varied parameters
	CodeRender      = "RENDER_ERROR"      // a table or figure could not be written
	CodeInternal    = "INTERNAL_ERROR"
)

// AppError represents a structured application error.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving an existing code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode attaches a specific code to an existing error.
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// Code returns the error code if err is an AppError, otherwise "UNKNOWN".
func Code(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code,
// walking the cause chain.
func HasCode(err error, code string) bool {
	for err != nil {
		appErr, ok := err.(*AppError)
		if !ok {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Cause
	}
	return false
}
