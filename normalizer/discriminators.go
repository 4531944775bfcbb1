package normalizer

import "fmt"

// polymorphKeys are the schema combinators whose sub-schemas must also
// require the discriminator property.
var polymorphKeys = []string{"oneOf", "anyOf", "allOf"}

// repairDiscriminators walks the tree and ensures every schema declaring a
// discriminator requires the discriminating property, both on the declaring
// schema and on each immediate oneOf/anyOf/allOf sub-schema. Gateways
// validate discriminators strictly and reject schemas where the property is
// optional.
func repairDiscriminators(node any, path string, result *Result) {
	switch typed := node.(type) {
	case map[string]any:
		if propName := discriminatorProperty(typed); propName != "" {
			requireProperty(typed, propName, path, result)
			for _, key := range polymorphKeys {
				subs, ok := typed[key].([]any)
				if !ok {
					continue
				}
				for i, sub := range subs {
					subSchema, ok := sub.(map[string]any)
					if !ok {
						continue
					}
					requireProperty(subSchema, propName, childPath(path, fmt.Sprintf("%s[%d]", key, i)), result)
				}
			}
		}
		for key, value := range typed {
			repairDiscriminators(value, childPath(path, key), result)
		}
	case []any:
		for i, item := range typed {
			repairDiscriminators(item, indexPath(path, i), result)
		}
	}
}

// discriminatorProperty returns the discriminator propertyName declared by
// schema, or "" if the schema has no well-formed discriminator.
func discriminatorProperty(schema map[string]any) string {
	disc, ok := schema["discriminator"].(map[string]any)
	if !ok {
		return ""
	}
	propName, ok := disc["propertyName"].(string)
	if !ok {
		return ""
	}
	return propName
}

// requireProperty appends propName to the schema's required list unless it is
// already present, preserving the order of existing entries.
func requireProperty(schema map[string]any, propName, path string, result *Result) {
	required, _ := schema["required"].([]any)
	for _, entry := range required {
		if entry == propName {
			return
		}
	}

	before := schema["required"]
	schema["required"] = append(required, propName)
	result.Rewrites = append(result.Rewrites, Rewrite{
		Type:        RewriteTypeDiscriminatorRequired,
		Path:        childPath(path, "required"),
		Description: fmt.Sprintf("added discriminator property %q to required list", propName),
		Before:      before,
		After:       schema["required"],
	})
}
