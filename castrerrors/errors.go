// Package castrerrors provides structured error types for castr.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - RefError: $ref resolution failures (invalid shape, missing component, nested ref)
//   - SpecViolationError: OpenAPI features used outside their documented constraints
//   - EmitError: IR schema shapes the writers refuse to emit
//   - SourceParseError: per-declaration failures while parsing generated source
//   - ConfigError: invalid configuration or input options
//
// Resolution and spec-violation errors are always thrown synchronously and
// never swallowed: a broken reference is a structural defect in the input that
// invalidates every downstream dependency-graph and ordering guarantee.
// Source-parse errors are the exception: they aggregate per declaration so
// that one unparseable declaration does not abort the rest of the file.
//
// # Usage with errors.Is
//
//	build, err := ir.Build(doc)
//	if err != nil {
//	    var refErr *castrerrors.RefError
//	    if errors.As(err, &refErr) {
//	        if refErr.Kind == castrerrors.RefKindNested {
//	            // The document must be re-bundled before building.
//	        }
//	    }
//	}
package castrerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrRef indicates a reference resolution failure.
	ErrRef = errors.New("reference error")

	// ErrInvalidRef indicates a $ref whose shape does not match
	// #/components/{type}/{name}.
	ErrInvalidRef = errors.New("invalid reference")

	// ErrComponentNotFound indicates a $ref whose target component is absent.
	ErrComponentNotFound = errors.New("component not found")

	// ErrNestedRef indicates a $ref whose target is itself a bare $ref.
	ErrNestedRef = errors.New("nested reference")

	// ErrSpecViolation indicates an OpenAPI feature used outside its
	// documented constraints.
	ErrSpecViolation = errors.New("specification violation")

	// ErrEmit indicates an IR schema shape the writer does not recognize.
	ErrEmit = errors.New("emit error")

	// ErrSourceParse indicates a failure to parse generated source.
	ErrSourceParse = errors.New("source parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// RefKind identifies the specific way a reference failed to resolve.
type RefKind int

const (
	// RefKindInvalid means the ref string does not match the
	// #/components/{type}/{name} shape.
	RefKindInvalid RefKind = iota

	// RefKindNotFound means the component type or name is absent from the
	// document's components section.
	RefKindNotFound

	// RefKindNested means the resolved target is itself a bare $ref object.
	// Nested refs are never silently chased; the document must be pre-bundled
	// so that refs resolve directly to concrete schemas.
	RefKindNested
)

// String returns the string representation of the ref failure kind.
func (k RefKind) String() string {
	switch k {
	case RefKindInvalid:
		return "invalid"
	case RefKindNotFound:
		return "not-found"
	case RefKindNested:
		return "nested"
	default:
		return "unknown"
	}
}

// RefError represents a failure to resolve a $ref against a document's
// components section.
type RefError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Kind identifies the failure mode
	Kind RefKind
	// ComponentType is the {type} segment of the ref, when parseable
	ComponentType string
	// Name is the {name} segment of the ref, when parseable
	Name string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *RefError) Error() string {
	var msg string
	switch e.Kind {
	case RefKindInvalid:
		msg = "invalid reference"
	case RefKindNotFound:
		msg = "component not found"
	case RefKindNested:
		msg = "nested reference"
	default:
		msg = "reference error"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
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
func (e *RefError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrRef always, and the kind-specific sentinel for the error's Kind.
func (e *RefError) Is(target error) bool {
	if target == ErrRef {
		return true
	}
	switch target {
	case ErrInvalidRef:
		return e.Kind == RefKindInvalid
	case ErrComponentNotFound:
		return e.Kind == RefKindNotFound
	case ErrNestedRef:
		return e.Kind == RefKindNested
	}
	return false
}

// SpecViolationError represents an OpenAPI feature used outside its documented
// constraints, such as a parameter with neither schema nor content, or an
// unsupported request-body media type.
type SpecViolationError struct {
	// Path is the JSON path to the offending element (e.g., "paths./pets.get.parameters[0]")
	Path string
	// Element names the offending element (operation id, parameter name, ...)
	Element string
	// Message describes the violation
	Message string
	// SpecRef is a URL to the relevant OAS specification section
	SpecRef string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecViolationError) Error() string {
	msg := "specification violation"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Element != "" {
		msg += " (" + e.Element + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.SpecRef != "" {
		msg += " (see " + e.SpecRef + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecViolationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecViolationError) Is(target error) bool {
	return target == ErrSpecViolation
}

// EmitError represents an IR schema shape the writer does not recognize.
// Unrecognized shapes always fail fast; silently degrading to an
// accept-anything schema would mask generator bugs and produce runtime-unsafe
// validators.
type EmitError struct {
	// Component is the IR component being emitted
	Component string
	// Path is the path within the component's schema tree
	Path string
	// Message describes the unrecognized shape
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *EmitError) Error() string {
	msg := "emit error"
	if e.Component != "" {
		msg += " in " + e.Component
	}
	if e.Path != "" {
		msg += " at " + e.Path
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
func (e *EmitError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *EmitError) Is(target error) bool {
	return target == ErrEmit
}

// SourceParseError represents a failure to parse one top-level declaration in
// generated validation source. These errors are aggregated per declaration
// rather than thrown: partial success is more useful to a tool author than an
// all-or-nothing failure.
type SourceParseError struct {
	// Code classifies the failure (see the sourceparser package for codes)
	Code string
	// Decl is the name of the top-level declaration that failed
	Decl string
	// Message describes the parse failure
	Message string
	// Line is the 1-based source line (0 if unknown)
	Line int
	// Column is the 1-based source column (0 if unknown)
	Column int
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SourceParseError) Error() string {
	msg := "source parse error"
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Decl != "" {
		msg += " in " + e.Decl
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
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
func (e *SourceParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SourceParseError) Is(target error) bool {
	return target == ErrSourceParse
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
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
