package normalizer

import "fmt"

// RewriteType identifies the type of rewrite applied
type RewriteType string

const (
	// RewriteTypeDiscriminatorRequired indicates a discriminator property was
	// added to a schema's required list
	RewriteTypeDiscriminatorRequired RewriteType = "discriminator-required"
	// RewriteTypeFlattenedDescription indicates a structured description value
	// was serialized to a JSON string
	RewriteTypeFlattenedDescription RewriteType = "flattened-description"
	// RewriteTypeRemovedKeyword indicates an unsupported JSON Schema keyword
	// was deleted
	RewriteTypeRemovedKeyword RewriteType = "removed-keyword"
)

// Rewrite represents a single rewrite applied to the document
type Rewrite struct {
	// Type identifies the category of rewrite
	Type RewriteType
	// Path is the dotted path to the rewritten location
	// (e.g., "components.schemas.Pet.required")
	Path string
	// Description is a human-readable description of the rewrite
	Description string
	// Before is the state before the rewrite (nil if adding a new element)
	Before any
	// After is the value that was added or changed (nil if removed)
	After any
}

// Result contains the results of a normalize operation
type Result struct {
	// Document is the normalized document tree (mutated in place)
	Document map[string]any
	// Rewrites contains all rewrites applied
	Rewrites []Rewrite
	// RewriteCount is the total number of rewrites applied
	RewriteCount int
}

// HasRewrites returns true if any rewrites were applied
func (r *Result) HasRewrites() bool {
	return r.RewriteCount > 0
}

// Normalizer applies gateway compatibility rewrites to a document tree
type Normalizer struct {
	// EnabledRewrites specifies which rewrite types to apply.
	// If nil or empty, all rewrite types are enabled.
	EnabledRewrites []RewriteType
}

// New creates a new Normalizer with all rewrites enabled
func New() *Normalizer {
	return &Normalizer{
		EnabledRewrites: nil, // all rewrites enabled
	}
}

// isRewriteEnabled checks whether a rewrite type should be applied
func (n *Normalizer) isRewriteEnabled(rewriteType RewriteType) bool {
	if len(n.EnabledRewrites) == 0 {
		return true
	}
	for _, enabled := range n.EnabledRewrites {
		if enabled == rewriteType {
			return true
		}
	}
	return false
}

// Normalize applies the enabled rewrites to doc in order, mutating it in
// place. The discriminator pass runs first so the description and keyword
// passes see its additions.
func (n *Normalizer) Normalize(doc map[string]any) (*Result, error) {
	result := &Result{Document: doc}

	if n.isRewriteEnabled(RewriteTypeDiscriminatorRequired) {
		repairDiscriminators(doc, "", result)
	}
	if n.isRewriteEnabled(RewriteTypeFlattenedDescription) {
		if err := flattenDescriptions(doc, "", result); err != nil {
			return nil, err
		}
	}
	if n.isRewriteEnabled(RewriteTypeRemovedKeyword) {
		removeKeywords(doc, "", result)
	}

	result.RewriteCount = len(result.Rewrites)
	return result, nil
}

// childPath extends a dotted path by one segment
func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// indexPath extends a dotted path with a sequence index
func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
