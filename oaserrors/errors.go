package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrFetch indicates a network or file retrieval failure.
	ErrFetch = errors.New("fetch error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure of any kind.
	ErrReference = errors.New("reference error")

	// ErrReferenceCycle indicates an external $ref cycle through distinct files.
	ErrReferenceCycle = errors.New("reference cycle")

	// ErrUnresolvedReference indicates a $ref target that could not be found.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrWrite indicates an output write failure.
	ErrWrite = errors.New("write error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// FetchError represents a failure to retrieve specification bytes.
// This covers network errors, timeouts, non-2xx responses, and missing files.
type FetchError struct {
	// Source is the URL or file path that failed
	Source string
	// StatusCode is the HTTP status code (0 for file sources or transport failures)
	StatusCode int
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.Source != "" {
		msg += " for " + e.Source
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
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
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// ParseError represents a failure to parse a specification document.
// This includes YAML/JSON deserialization errors in both the primary
// document and any externally referenced document.
type ParseError struct {
	// Path is the file path, URL, or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
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
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceCycleError represents a $ref cycle the bundler cannot inline:
// either external files referencing each other (file A references file B
// which references file A), or a self-recursive fragment inside an external
// document. Self-references within the primary document are not cycles; the
// bundler leaves them in place.
type ReferenceCycleError struct {
	// Ref is the reference string that closed the cycle
	Ref string
	// Chain is the sequence of documents on the resolution stack when the
	// cycle was detected, in resolution order
	Chain []string
}

// Error returns a human-readable error message.
func (e *ReferenceCycleError) Error() string {
	msg := "reference cycle"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if len(e.Chain) > 0 {
		msg += " (via " + strings.Join(e.Chain, " -> ") + ")"
	}
	return msg
}

// Unwrap returns nil as ReferenceCycleError has no underlying cause.
func (e *ReferenceCycleError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// Matches both ErrReference and ErrReferenceCycle.
func (e *ReferenceCycleError) Is(target error) bool {
	return target == ErrReference || target == ErrReferenceCycle
}

// UnresolvedReferenceError represents a $ref whose target file or fragment
// does not exist.
type UnresolvedReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Target is the resolved file path or URL of the reference target
	Target string
	// Fragment is the JSON Pointer fragment that was not found ("" when the
	// whole target document was missing)
	Fragment string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *UnresolvedReferenceError) Error() string {
	msg := "unresolved reference"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Fragment != "" {
		msg += " (missing fragment #" + e.Fragment + ")"
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
func (e *UnresolvedReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches both ErrReference and ErrUnresolvedReference.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrReference || target == ErrUnresolvedReference
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when reference resolution exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// WriteError represents a failure to serialize or persist the output document.
type WriteError struct {
	// Path is the output file path
	Path string
	// Message describes the write failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *WriteError) Error() string {
	msg := "write error"
	if e.Path != "" {
		msg += " for " + e.Path
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
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
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
