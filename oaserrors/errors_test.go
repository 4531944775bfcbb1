package oaserrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFetchError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &FetchError{
			Source:     "https://example.com/api.json",
			StatusCode: 503,
			Message:    "server unavailable",
			Cause:      cause,
		}

		msg := err.Error()
		want := "fetch error for https://example.com/api.json (HTTP 503): server unavailable: connection refused"
		if msg != want {
			t.Errorf("unexpected error message: %s", msg)
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &FetchError{}
		if err.Error() != "fetch error" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("file source has no status code", func(t *testing.T) {
		err := &FetchError{Source: "missing.yaml", Cause: errors.New("no such file")}
		if err.Error() != "fetch error for missing.yaml: no such file" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrFetch", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &FetchError{Source: "api.json"})
		if !errors.Is(err, ErrFetch) {
			t.Error("expected errors.Is(err, ErrFetch) to be true")
		}
		if errors.Is(err, ErrParse) {
			t.Error("expected errors.Is(err, ErrParse) to be false")
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &FetchError{Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("expected errors.Is to find the cause")
		}
	})
}

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("yaml: line 3: did not find expected key")
		err := &ParseError{
			Path:    "inference.json",
			Message: "invalid document",
			Cause:   cause,
		}
		want := "parse error in inference.json: invalid document: yaml: line 3: did not find expected key"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrParse", func(t *testing.T) {
		if !errors.Is(&ParseError{}, ErrParse) {
			t.Error("expected ParseError to match ErrParse")
		}
	})
}

func TestReferenceCycleError(t *testing.T) {
	t.Run("Error message with chain", func(t *testing.T) {
		err := &ReferenceCycleError{
			Ref:   "./a.yaml#/components/schemas/A",
			Chain: []string{"a.yaml", "b.yaml"},
		}
		want := "reference cycle: ./a.yaml#/components/schemas/A (via a.yaml -> b.yaml)"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message without chain", func(t *testing.T) {
		err := &ReferenceCycleError{Ref: "./a.yaml"}
		if err.Error() != "reference cycle: ./a.yaml" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrReference and ErrReferenceCycle", func(t *testing.T) {
		err := &ReferenceCycleError{Ref: "./a.yaml"}
		if !errors.Is(err, ErrReference) {
			t.Error("expected match on ErrReference")
		}
		if !errors.Is(err, ErrReferenceCycle) {
			t.Error("expected match on ErrReferenceCycle")
		}
		if errors.Is(err, ErrUnresolvedReference) {
			t.Error("did not expect match on ErrUnresolvedReference")
		}
	})
}

func TestUnresolvedReferenceError(t *testing.T) {
	t.Run("Error message with fragment", func(t *testing.T) {
		err := &UnresolvedReferenceError{
			Ref:      "./common.yaml#/components/schemas/Missing",
			Fragment: "/components/schemas/Missing",
		}
		want := "unresolved reference: ./common.yaml#/components/schemas/Missing (missing fragment #/components/schemas/Missing)"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrReference and ErrUnresolvedReference", func(t *testing.T) {
		err := &UnresolvedReferenceError{Ref: "./common.yaml"}
		if !errors.Is(err, ErrReference) {
			t.Error("expected match on ErrReference")
		}
		if !errors.Is(err, ErrUnresolvedReference) {
			t.Error("expected match on ErrUnresolvedReference")
		}
		if errors.Is(err, ErrReferenceCycle) {
			t.Error("did not expect match on ErrReferenceCycle")
		}
	})
}

func TestResourceLimitError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        100,
			Actual:       101,
			Message:      "too many external reference documents",
		}
		want := "resource limit exceeded: cached_documents (limit: 100, actual: 101): too many external reference documents"
		if err.Error() != want {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &ResourceLimitError{}
		if err.Error() != "resource limit exceeded" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrResourceLimit", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &ResourceLimitError{ResourceType: "ref_depth"})
		if !errors.Is(err, ErrResourceLimit) {
			t.Error("expected errors.Is(err, ErrResourceLimit) to be true")
		}
		if errors.Is(err, ErrReference) {
			t.Error("did not expect match on ErrReference")
		}
	})
}

func TestWriteError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &WriteError{Path: "out.json", Cause: errors.New("permission denied")}
		if err.Error() != "write error for out.json: permission denied" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrWrite", func(t *testing.T) {
		if !errors.Is(&WriteError{}, ErrWrite) {
			t.Error("expected WriteError to match ErrWrite")
		}
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with option and value", func(t *testing.T) {
		err := &ConfigError{Option: "source", Value: "", Message: "cannot be empty"}
		// Value is the empty string which is non-nil, so it is included.
		if err.Error() != "configuration error for source (value: ): cannot be empty" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("matches ErrConfig", func(t *testing.T) {
		if !errors.Is(&ConfigError{}, ErrConfig) {
			t.Error("expected ConfigError to match ErrConfig")
		}
	})
}
