package ports

import (
	"errors"
	"fmt"
)

// Common collaborator errors raised outside the poll model itself.
var (
	// ErrConfigNotFound indicates that required configuration is missing.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrInvalidConfig indicates that configuration was present but failed
	// validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrGenerationFailed indicates that a PollListGenerator could not
	// build a poll list.
	ErrGenerationFailed = errors.New("poll generation failed")
)

// ConfigError represents an error from configuration operations.
type ConfigError struct {
	// ConfigKey is the configuration key that was involved in the failed
	// operation.
	ConfigKey string

	// Err is the underlying error that caused the configuration operation
	// to fail.
	Err error
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: key=%s, err=%v", e.ConfigKey, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError with the given details.
func NewConfigError(key string, err error) *ConfigError {
	return &ConfigError{
		ConfigKey: key,
		Err:       err,
	}
}

// GenerationError reports which poll a generator failed on.
type GenerationError struct {
	// Poll is the name of the poll being generated.
	Poll string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface for GenerationError.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error: poll=%s, err=%v", e.Poll, e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error { return e.Err }

// Is reports ErrGenerationFailed for every GenerationError so callers can
// match the category without knowing the cause.
func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// NewGenerationError creates a new GenerationError.
func NewGenerationError(poll string, err error) *GenerationError {
	return &GenerationError{Poll: poll, Err: err}
}
