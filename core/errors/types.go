// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides sentinel errors for correlation and aggregation plus structured API errors

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelTimeout is returned when no accepted reply arrives before the deadline
	ErrChannelTimeout = errors.New("channel reply timed out")

	// ErrCorrelationExhausted is returned when every correlated attempt failed
	ErrCorrelationExhausted = errors.New("correlation attempts exhausted")

	// ErrInsufficientCandidates is returned when validation produced fewer candidates than required
	ErrInsufficientCandidates = errors.New("insufficient validated candidates")
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// BackendUnavailableError reports that one discovery or agenda backend could not be queried
type BackendUnavailableError struct {
	Backend string
	Err     error
}

// Error implements the error interface
func (e *BackendUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("backend %s unavailable", e.Backend)
	}
	return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying cause
func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsBackendUnavailable checks if an error is a BackendUnavailableError
func IsBackendUnavailable(err error) bool {
	var backendErr *BackendUnavailableError
	return errors.As(err, &backendErr)
}

// IsTimeout checks if an error is, or wraps, ErrChannelTimeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrChannelTimeout)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
