package checker

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/apimprep/oaserrors"
)

// Check loads serialized output with kin-openapi and reports whether it
// still parses as an OpenAPI document. External references are disallowed:
// a prepared document must be self-contained.
func Check(ctx context.Context, data []byte) error {
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return &oaserrors.ParseError{
			Message: "prepared output does not parse as an OpenAPI document",
			Cause:   err,
		}
	}
	if doc.OpenAPI == "" {
		return &oaserrors.ParseError{
			Message: "prepared output is missing the openapi version field",
		}
	}
	return nil
}
