// Package prep orchestrates the full preparation pipeline: fetch a
// specification, bundle its external references, normalize it for gateway
// import, and write the result as self-contained JSON.
//
// The pipeline is one-shot and strictly sequential. Each run is independent:
// no caches or state survive between calls.
//
// Example:
//
//	result, err := prep.PrepareWithOptions(ctx,
//	    prep.WithSource("openapi.yaml"),
//	    prep.WithOutput("prepared.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("resolved %d refs, applied %d rewrites\n",
//	    result.ResolvedRefs, result.RewriteCount)
//
// With no options the pipeline downloads the Azure OpenAI inference
// specification and writes inference_fixed.json, mirroring the workflow the
// tool was built for.
package prep
