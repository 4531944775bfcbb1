package normalizer

// unsupportedKeywords are JSON Schema 2020-12 keywords that gateway
// importers reject. They carry no meaning after bundling, so they are
// deleted outright.
var unsupportedKeywords = []string{"$recursiveAnchor", "$recursiveRef", "propertyNames"}

// removeKeywords walks the tree deleting unsupported keywords from every
// mapping, at any depth.
func removeKeywords(node any, path string, result *Result) {
	switch typed := node.(type) {
	case map[string]any:
		for _, keyword := range unsupportedKeywords {
			value, present := typed[keyword]
			if !present {
				continue
			}
			delete(typed, keyword)
			result.Rewrites = append(result.Rewrites, Rewrite{
				Type:        RewriteTypeRemovedKeyword,
				Path:        childPath(path, keyword),
				Description: "removed unsupported keyword " + keyword,
				Before:      value,
			})
		}
		for key, value := range typed {
			removeKeywords(value, childPath(path, key), result)
		}
	case []any:
		for i, item := range typed {
			removeKeywords(item, indexPath(path, i), result)
		}
	}
}
