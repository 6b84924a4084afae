// Package errors provides structured error handling for poolstrap.
//
// Every fatal error carries a category from the bootstrap failure taxonomy
// and, where one exists, an actionable suggestion the operator can run
// before re-invoking the workflow.
package errors

import (
	"fmt"
)

// Category defines error categories for classification.
type Category string

const (
	// CategoryEnvironment indicates a missing or misconfigured host tool or service.
	CategoryEnvironment Category = "ENVIRONMENT"
	// CategoryExternal indicates a non-zero exit from an external tool invocation.
	CategoryExternal Category = "EXTERNAL"
	// CategoryPatch indicates a patch application or verification failure.
	CategoryPatch Category = "PATCH"
	// CategoryPrecondition indicates an expected file or directory is missing.
	CategoryPrecondition Category = "PRECONDITION"
)

// StageError is the structured error type for bootstrap stage failures.
type StageError struct {
	// Category classifies the failure.
	Category Category

	// Message is the human-readable error message.
	Message string

	// Suggestion is an actionable remediation command or hint.
	Suggestion string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds an actionable suggestion for the operator.
// Returns the error for method chaining.
func (e *StageError) WithSuggestion(suggestion string) *StageError {
	e.Suggestion = suggestion
	return e
}

// New creates a new StageError.
func New(category Category, message string, cause error) *StageError {
	return &StageError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// Environment creates an environment-related error.
func Environment(message string, cause error) *StageError {
	return New(CategoryEnvironment, message, cause)
}

// External creates an external-invocation error.
func External(message string, cause error) *StageError {
	return New(CategoryExternal, message, cause)
}

// Patch creates a patch-related error.
func Patch(message string, cause error) *StageError {
	return New(CategoryPatch, message, cause)
}

// Precondition creates a missing-precondition error.
func Precondition(message string, cause error) *StageError {
	return New(CategoryPrecondition, message, cause)
}
