package config

import (
	"fmt"
	"net/url"
	"strings"

	"testplanner/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks a fully loaded configuration.
func Validate(cfg Config) ValidationErrors {
	var errs ValidationErrors

	p := cfg.Platform
	if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs.Add("platform.baseURL", "must be an absolute URL", p.BaseURL)
	}
	if p.PollInterval <= 0 {
		errs.Add("platform.pollInterval", "must be positive", p.PollInterval)
	}
	if p.MaxPolls < 1 {
		errs.Add("platform.maxPolls", "must be at least 1", p.MaxPolls)
	}
	if p.MaxRetries < 1 {
		errs.Add("platform.maxRetries", "must be at least 1", p.MaxRetries)
	}
	if p.InitialDelay < 0 {
		errs.Add("platform.initialDelay", "must not be negative", p.InitialDelay)
	}
	if p.MaxJitter < 0 {
		errs.Add("platform.maxJitter", "must not be negative", p.MaxJitter)
	}
	if p.ConcurrencyLimit < 1 {
		errs.Add("platform.concurrencyLimit", "must be at least 1", p.ConcurrencyLimit)
	}

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs.Add("server.port", "must be between 0 and 65535", cfg.Server.Port)
	}

	if cfg.Logging.Level != "" {
		if _, ok := logging.ParseLevel(cfg.Logging.Level); !ok {
			errs.Add("logging.level", "must be one of: debug, info, warn, error", cfg.Logging.Level)
		}
	}
	if cfg.Logging.Format != "" {
		if err := ValidateOneOf("logging.format", cfg.Logging.Format, []string{logging.FormatText, logging.FormatJSON}); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}

	return errs
}
