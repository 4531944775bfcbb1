package bundler

// deepCopyValue copies a parsed YAML/JSON value so spliced content never
// aliases the cached external document. Sharing nodes would let a later
// mutation (or a second splice of the same fragment) corrupt earlier work.
func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, val := range t {
			cp[k] = deepCopyValue(val)
		}
		return cp
	case []any:
		cp := make([]any, len(t))
		for i, val := range t {
			cp[i] = deepCopyValue(val)
		}
		return cp
	default:
		// Scalars (string, bool, numbers, nil) are immutable.
		return t
	}
}
