package bundler

import (
	"strconv"
	"strings"

	"github.com/erraggy/apimprep/oaserrors"
)

// resolveFragment traverses a parsed document along a JSON Pointer fragment
// (RFC 6901) and returns the addressed value. ref and target are only used
// to build error messages.
func resolveFragment(doc any, fragment, ref, target string) (any, error) {
	trimmed := strings.TrimPrefix(fragment, "/")
	if trimmed == "" {
		return doc, nil
	}

	current := doc
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = unescapeJSONPointer(part)

		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, &oaserrors.UnresolvedReferenceError{
					Ref:      ref,
					Target:   target,
					Fragment: fragment,
					Message:  "missing key: " + part,
				}
			}
			current = next

		case []any:
			// Array indexing per RFC 6901
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(v) {
				return nil, &oaserrors.UnresolvedReferenceError{
					Ref:      ref,
					Target:   target,
					Fragment: fragment,
					Message:  "invalid array index: " + part,
				}
			}
			current = v[index]

		default:
			return nil, &oaserrors.UnresolvedReferenceError{
				Ref:      ref,
				Target:   target,
				Fragment: fragment,
				Message:  "cannot traverse into scalar at /" + strings.Join(parts[:i], "/"),
			}
		}
	}

	return current, nil
}

// unescapeJSONPointer unescapes JSON Pointer tokens
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
