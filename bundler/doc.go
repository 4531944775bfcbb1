// Package bundler produces a single self-contained specification tree by
// inlining external $ref targets while preserving the primary document's
// internal references.
//
// A [Resolver] is the per-run resolution context: it holds the memoization
// map (keyed by resolved file+fragment), the per-file document cache, and
// the cycle-detection stack. Resolution is depth-first and mutates the tree
// in place:
//
//   - References internal to the primary document (#/...) are left
//     unchanged. They are valid in the target format and keep the output
//     compact; this includes recursive self-references.
//   - External references (file or URL, with or without a #/fragment) are
//     loaded relative to the referencing document, recursively bundled so
//     that spliced content never carries external references of its own,
//     and then deep-copied into place of the reference node.
//   - References internal to an external document (a #/... pointer declared
//     inside a referenced file, or a file referencing itself by name) are
//     inlined against that document; once its content is spliced into the
//     primary document, such pointers would dangle.
//
// External references that form a cycle through distinct files abort the
// run with [oaserrors.ReferenceCycleError], as does a self-recursive
// fragment inside an external document, which has no finite expansion.
// Missing target files or fragments abort with
// [oaserrors.UnresolvedReferenceError].
//
//	r := bundler.New(filepath.Dir(specPath))
//	result, err := r.Bundle(doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("spliced %d external refs from %d documents\n",
//		result.ResolvedRefs, len(result.Documents))
package bundler
