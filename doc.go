// Package apimprep rewrites OpenAPI 3.1 specification documents so they can
// be imported by API management gateways that only accept a restricted
// subset of OpenAPI 3.1.
//
// Gateways such as Azure API Management reject specifications that are
// spread across multiple files or that use newer JSON Schema keywords. The
// Azure OpenAI inference specification is the canonical example: it is
// published as OpenAPI 3.1.0 with external file references and keywords like
// $recursiveRef that break the import. apimprep fetches such a document,
// bundles it into a single self-contained tree, strips the unsupported
// constructs, and writes one importable JSON file.
//
// # Overview
//
// The library consists of five primary packages, applied in order by the
// prep pipeline:
//
//   - fetcher: Retrieve specification bytes from a URL or local path
//   - bundler: Inline external $ref targets while preserving internal refs
//   - normalizer: Apply the fixed set of gateway-compatibility rewrites
//   - writer: Serialize the transformed tree to a JSON file
//   - prep: Orchestrate the full fetch -> bundle -> normalize -> write run
//
// Supporting packages:
//
//   - oaserrors: Structured error types for programmatic handling
//   - checker: Load the produced document with kin-openapi as a sanity check
//
// # Quick Start
//
// Run the whole pipeline with functional options:
//
//	import "github.com/erraggy/apimprep/prep"
//
//	result, err := prep.PrepareWithOptions(ctx,
//		prep.WithSource("https://example.com/inference.json"),
//		prep.WithOutput("inference_fixed.json"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Resolved %d external refs, applied %d rewrites\n",
//		result.ResolvedRefs, result.RewriteCount)
//
// Or use the individual stages. Bundle a document that is already in memory:
//
//	import "github.com/erraggy/apimprep/bundler"
//
//	r := bundler.New(filepath.Dir(specPath))
//	bres, err := r.Bundle(doc)
//
// And normalize it:
//
//	import "github.com/erraggy/apimprep/normalizer"
//
//	n := normalizer.New()
//	nres, err := n.Normalize(doc)
//	for _, rw := range nres.Rewrites {
//		fmt.Printf("[%s] %s: %s\n", rw.Type, rw.Path, rw.Description)
//	}
//
// # Transformations
//
// Three rewrites are applied, in order:
//
//  1. Discriminator repair: every schema declaring a discriminator gets the
//     discriminator property appended to its required list, and to the
//     required list of each oneOf/anyOf/allOf branch.
//  2. Description flattening: description values that are objects or arrays
//     are replaced with their JSON serialization.
//  3. Keyword removal: $recursiveRef, $recursiveAnchor, and propertyNames
//     are deleted from every object at any depth.
//
// All rewrites are idempotent. The openapi version field is never touched;
// the importing gateway performs its own downgrade.
//
// # Error Handling
//
// Every failure aborts the run; there is no partial output. Errors are typed
// in the oaserrors package and support errors.Is / errors.As:
//
//	result, err := prep.PrepareWithOptions(ctx, prep.WithSource(src))
//	if errors.Is(err, oaserrors.ErrReferenceCycle) {
//		// two or more files reference each other
//	}
//
// # Command-Line Interface
//
// The apimprep command wraps the pipeline:
//
//	# Fetch, fix, and write inference_fixed.json
//	apimprep prep
//
//	# Fix a local file, keeping the raw download artifact
//	apimprep prep -k -o fixed.json ./inference.json
//
//	# Individual stages
//	apimprep bundle -o bundled.json api.yaml
//	apimprep normalize -o fixed.json bundled.json
//
// Install the CLI:
//
//	go install github.com/erraggy/apimprep/cmd/apimprep@latest
package apimprep
