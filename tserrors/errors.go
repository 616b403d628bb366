package tserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfig indicates a provider or engine configuration failure.
	ErrConfig = errors.New("configuration error")

	// ErrNotFound indicates a declaration lookup found nothing.
	ErrNotFound = errors.New("declaration not found")

	// ErrAmbiguous indicates several declarations matched a name.
	ErrAmbiguous = errors.New("ambiguous declaration")

	// ErrUnresolvable indicates a type could not be resolved to a shape.
	ErrUnresolvable = errors.New("unresolvable type")

	// ErrDisposed indicates an engine was used after Dispose.
	ErrDisposed = errors.New("engine disposed")
)

// ConfigError represents an invalid configuration or a provider that could
// not be initialized. It is the only fatal error category.
type ConfigError struct {
	// Option is the name of the problematic configuration option or source
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NotFoundError reports that no declaration matched a requested name.
type NotFoundError struct {
	// Name is the requested class identifier
	Name string
	// Hint is the location hint supplied with the request, if any
	Hint string
}

// Error returns a human-readable error message.
func (e *NotFoundError) Error() string {
	msg := "declaration not found: " + e.Name
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AmbiguityError reports that several same-named declarations scored equally.
type AmbiguityError struct {
	// Name is the colliding declaration name
	Name string
	// Candidates lists the locations of the tied candidates in discovery order
	Candidates []string
	// Chosen is the location of the candidate that was used
	Chosen string
}

// Error returns a human-readable error message.
func (e *AmbiguityError) Error() string {
	var sb strings.Builder
	sb.WriteString("ambiguous declaration ")
	sb.WriteString(e.Name)
	if len(e.Candidates) > 0 {
		sb.WriteString(": candidates [")
		sb.WriteString(strings.Join(e.Candidates, ", "))
		sb.WriteString("]")
	}
	if e.Chosen != "" {
		sb.WriteString(", using ")
		sb.WriteString(e.Chosen)
	}
	return sb.String()
}

// Is reports whether target matches this error type.
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguous
}

// UnresolvableError reports a type that could not be classified past an
// opaque shape and for which the provider supplied no members.
type UnresolvableError struct {
	// Type is the textual form of the unresolved type
	Type string
	// Path is the property path where the type was encountered
	Path string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *UnresolvableError) Error() string {
	msg := "unresolvable type"
	if e.Type != "" {
		msg += " " + e.Type
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnresolvableError) Is(target error) bool {
	return target == ErrUnresolvable
}
