package foundations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidArgument is matched by every builder validation failure.
var ErrInvalidArgument = errors.New("foundations: invalid argument")

// Error codes for builder validation failures.
const (
	ErrCodeRequired       = "required"
	ErrCodeInvalidLocator = "invalid_locator"
)

// ValidationError aggregates builder validation failures.
type ValidationError struct {
	FieldErrors []FieldError
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return "builder validation failed: no errors"
	}

	var b strings.Builder
	if len(e.FieldErrors) == 1 {
		b.WriteString("builder validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "builder validation failed: %d errors\n", len(e.FieldErrors))
	}

	for _, fe := range e.FieldErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", fe.FieldPath, fe.Code, fe.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Is makes errors.Is(err, ErrInvalidArgument) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// FieldError represents a single builder field failure.
type FieldError struct {
	FieldPath string // Builder field (e.g., "logger", "defaults[2]")
	Code      string // Error code (e.g., "required")
	Message   string // Human-readable description
}

// SourceError records a default source that failed during a load.
type SourceError struct {
	ConfigID uuid.UUID
	Source   string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("configuration %s: source %s: %v", e.ConfigID, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// BaseLoadError records a persistent configuration whose file could not be read.
type BaseLoadError struct {
	ConfigID uuid.UUID
	Path     string
	Err      error
}

func (e *BaseLoadError) Error() string {
	return fmt.Sprintf("configuration %s: load %s: %v", e.ConfigID, e.Path, e.Err)
}

func (e *BaseLoadError) Unwrap() error { return e.Err }

// SaveError records a failed write of a persistent configuration.
type SaveError struct {
	ConfigID uuid.UUID
	Path     string
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("configuration %s: save %s: %v", e.ConfigID, e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
