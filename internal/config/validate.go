package config

import "fmt"

// Maximum valid TCP port number.
const maxPort = 65535

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the validation error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validatePort checks that a port number is within the valid TCP range.
func validatePort(field string, port int) error {
	if port < 1 || port > maxPort {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between 1 and %d, got %d", maxPort, port),
		}
	}
	return nil
}
