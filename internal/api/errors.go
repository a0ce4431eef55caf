package api

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents a resource not found error with contextual information.
// It is returned by repositories and services whenever a requested record
// (test plan, mapping, credential profile) does not exist.
type NotFoundError struct {
	// ResourceType categorizes the type of resource that was not found
	// (e.g., "test plan", "mapping", "credential profile")
	ResourceType string

	// ResourceName is the specific identifier of the resource that was not found
	ResourceName string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
//
// Example:
//
//	plan, err := repo.FindByID(ctx, id)
//	if api.IsNotFound(err) {
//	    // Handle not found case
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// ValidationError reports caller input that cannot be accepted. It is raised
// synchronously, before any state is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError with no field attribution.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation checks if an error is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// UnresolvedError builds the validation error reported when some selectors
// did not match any platform component, e.g.
// "Could not resolve the following names: Foo, Bar".
func UnresolvedError(kind string, values []string) *ValidationError {
	return &ValidationError{
		Message: fmt.Sprintf("Could not resolve the following %s: %s", kind, strings.Join(values, ", ")),
	}
}

// ConflictError reports a request that clashes with existing state, such as a
// duplicate mapping.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// IsConflict checks if an error is or wraps a ConflictError or InvalidStateError.
func IsConflict(err error) bool {
	var c *ConflictError
	if errors.As(err, &c) {
		return true
	}
	var s *InvalidStateError
	return errors.As(err, &s)
}

// InvalidStateError is returned when an operation is not allowed for a plan's
// current status.
type InvalidStateError struct {
	PlanID string
	From   TestPlanStatus
	To     TestPlanStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("test plan %s cannot move from %s to %s", e.PlanID, e.From, e.To)
}

// AuthenticationError reports rejected platform credentials (HTTP 401/403).
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("authentication with the integration platform failed (status %d)", e.StatusCode)
}

// IsAuthentication checks if an error is or wraps an AuthenticationError.
func IsAuthentication(err error) bool {
	var a *AuthenticationError
	return errors.As(err, &a)
}

// PlatformError is a failed call to the integration platform after retries.
// Attempts is the number of requests made, including the first.
type PlatformError struct {
	StatusCode int
	Attempts   int
	Message    string
	Err        error
}

func (e *PlatformError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("integration platform request failed after %d attempt(s): %s", e.Attempts, msg)
	}
	return fmt.Sprintf("integration platform request failed with status %d after %d attempt(s): %s",
		e.StatusCode, e.Attempts, msg)
}

func (e *PlatformError) Unwrap() error { return e.Err }

// IsPlatformError checks if an error is or wraps a PlatformError.
func IsPlatformError(err error) bool {
	var p *PlatformError
	return errors.As(err, &p)
}

// Errors returned by the handler accessors when nothing is registered.
var (
	ErrTestPlanHandlerNotRegistered   = errors.New("test plan handler not registered")
	ErrMappingHandlerNotRegistered    = errors.New("mapping handler not registered")
	ErrCredentialHandlerNotRegistered = errors.New("credential handler not registered")
	ErrResultHandlerNotRegistered     = errors.New("result handler not registered")
)
