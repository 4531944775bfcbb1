// Package oaserrors provides structured error types for the apimprep pipeline.
//
// Import path: github.com/erraggy/apimprep/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors. Every
// error in the pipeline is fatal to the run; the taxonomy exists so callers can
// report the failure precisely, not so they can recover from it.
//
// # Error Types
//
// The package provides seven core error types:
//
//   - [FetchError]: network failures, non-2xx responses, missing input files
//   - [ParseError]: malformed YAML/JSON in a source or referenced document
//   - [ReferenceCycleError]: a $ref cycle the bundler cannot inline
//   - [UnresolvedReferenceError]: a $ref target file or fragment that does not exist
//   - [ResourceLimitError]: resource exhaustion (depth, size, count limits)
//   - [WriteError]: output serialization or file write failures
//   - [ConfigError]: invalid pipeline options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel for use with errors.Is():
//
//   - [ErrFetch]: Matches any [FetchError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceCycleError] or [UnresolvedReferenceError]
//   - [ErrReferenceCycle]: Matches any [ReferenceCycleError]
//   - [ErrUnresolvedReference]: Matches any [UnresolvedReferenceError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrWrite]: Matches any [WriteError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage
//
//	result, err := prep.PrepareWithOptions(ctx, prep.WithSource("api.json"))
//	if err != nil {
//	    var cycleErr *oaserrors.ReferenceCycleError
//	    if errors.As(err, &cycleErr) {
//	        log.Fatalf("reference cycle: %s", strings.Join(cycleErr.Chain, " -> "))
//	    }
//	}
package oaserrors
