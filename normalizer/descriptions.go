package normalizer

import (
	"encoding/json"

	"github.com/erraggy/apimprep/oaserrors"
)

// flattenDescriptions walks the tree and replaces description values that
// are mappings or sequences with their JSON serialization. Gateways expect
// descriptions to be plain strings and fail the import otherwise.
func flattenDescriptions(node any, path string, result *Result) error {
	switch typed := node.(type) {
	case map[string]any:
		for key, value := range typed {
			if key == "description" && isStructured(value) {
				serialized, err := json.MarshalIndent(value, "", "  ")
				if err != nil {
					return &oaserrors.ParseError{
						Message: "failed to serialize description value at " + childPath(path, key),
						Cause:   err,
					}
				}
				typed[key] = string(serialized)
				result.Rewrites = append(result.Rewrites, Rewrite{
					Type:        RewriteTypeFlattenedDescription,
					Path:        childPath(path, key),
					Description: "serialized structured description value to a JSON string",
					Before:      value,
					After:       typed[key],
				})
				continue
			}
			if err := flattenDescriptions(value, childPath(path, key), result); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range typed {
			if err := flattenDescriptions(item, indexPath(path, i), result); err != nil {
				return err
			}
		}
	}
	return nil
}

// isStructured reports whether a value is a mapping or sequence rather than
// a scalar.
func isStructured(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
