// Package normalizer applies the structural rewrites an APIM-class gateway
// needs before it can import an OpenAPI 3.1 document.
//
// The rewrites run in a fixed order over the fully bundled document tree:
//
//  1. Discriminator repair: every schema declaring a discriminator with a
//     propertyName gets that property appended to its required list, and to
//     the required lists of its immediate oneOf, anyOf, and allOf sub-schemas.
//  2. Description flattening: description fields holding a mapping or
//     sequence are replaced with their JSON serialization.
//  3. Keyword removal: $recursiveRef, $recursiveAnchor, and propertyNames
//     keys are deleted wherever they appear.
//
// All rewrites mutate the tree in place and are idempotent, so re-running
// Normalize on already-normalized output reports zero rewrites. The document
// version field is never touched.
//
// Example:
//
//	n := normalizer.New()
//	result, err := n.Normalize(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rw := range result.Rewrites {
//	    fmt.Printf("%s at %s: %s\n", rw.Type, rw.Path, rw.Description)
//	}
package normalizer
