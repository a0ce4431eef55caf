package cli

import (
	"errors"

	"testplanner/internal/api"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitError      = 1
	ExitNotFound   = 2
	ExitValidation = 3
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case api.IsNotFound(err):
		return ExitNotFound
	case api.IsValidation(err), isUsageError(err):
		return ExitValidation
	default:
		return ExitError
	}
}

// UsageError reports invalid flags or arguments detected by a command.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// NewUsageError creates a UsageError.
func NewUsageError(message string) *UsageError {
	return &UsageError{Message: message}
}

func isUsageError(err error) bool {
	var usageErr *UsageError
	return errors.As(err, &usageErr)
}
