package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimprep/prep"
)

type prepInput struct {
	Spec     specInput `json:"spec"                jsonschema:"The specification to prepare (file or url; inline content is not supported)"`
	Output   string    `json:"output,omitempty"    jsonschema:"Output file path for the prepared specification (default inference_fixed.json)"`
	RawPath  string    `json:"raw_path,omitempty"  jsonschema:"Path for the downloaded raw specification (default inference_downloaded.json)"`
	KeepRaw  bool      `json:"keep_raw,omitempty"  jsonschema:"Keep the downloaded raw specification file"`
	Check    bool      `json:"check,omitempty"     jsonschema:"Verify the output still parses as an OpenAPI document"`
	Rewrites []string  `json:"rewrites,omitempty"  jsonschema:"Rewrite types to apply (default all): discriminator-required\\, flattened-description\\, removed-keyword"`
	Offset   int       `json:"offset,omitempty"    jsonschema:"Skip the first N rewrites (for pagination)"`
	Limit    int       `json:"limit,omitempty"     jsonschema:"Maximum number of rewrites to return (default 100)"`
}

type rewriteApplied struct {
	Type        string `json:"type"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

type prepOutput struct {
	Source       string           `json:"source"`
	OutputPath   string           `json:"output_path"`
	RawPath      string           `json:"raw_path,omitempty"`
	ResolvedRefs int              `json:"resolved_refs"`
	Documents    []string         `json:"documents,omitempty"`
	RewriteCount int              `json:"rewrite_count"`
	Returned     int              `json:"returned"`
	Rewrites     []rewriteApplied `json:"rewrites,omitempty"`
	SourceSize   int64            `json:"source_size"`
	OutputSize   int64            `json:"output_size"`
}

func handlePrep(ctx context.Context, _ *mcp.CallToolRequest, input prepInput) (*mcp.CallToolResult, prepOutput, error) {
	source, err := input.Spec.source()
	if err != nil {
		return errResult(err), prepOutput{}, nil
	}

	rewrites, err := parseRewriteTypes(input.Rewrites)
	if err != nil {
		return errResult(err), prepOutput{}, nil
	}

	opts := []prep.Option{
		prep.WithSource(source),
		prep.WithKeepRaw(input.KeepRaw),
		prep.WithCheckOutput(input.Check || cfg.CheckOutput),
		// Agent-supplied URLs (and any URL $refs inside them) must not reach
		// private or loopback addresses.
		prep.WithHTTPClient(newSafeHTTPClient()),
	}
	if input.Output != "" {
		opts = append(opts, prep.WithOutput(input.Output))
	}
	if input.RawPath != "" {
		opts = append(opts, prep.WithRawPath(input.RawPath))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, prep.WithUserAgent(cfg.UserAgent))
	}
	if len(rewrites) > 0 {
		opts = append(opts, prep.WithEnabledRewrites(rewrites...))
	}

	result, err := prep.PrepareWithOptions(ctx, opts...)
	if err != nil {
		return errResult(err), prepOutput{}, nil
	}

	output := prepOutput{
		Source:       result.Source,
		OutputPath:   result.OutputPath,
		RawPath:      result.RawPath,
		ResolvedRefs: result.ResolvedRefs,
		Documents:    result.Documents,
		RewriteCount: result.RewriteCount,
		SourceSize:   result.SourceSize,
		OutputSize:   result.OutputSize,
	}

	output.Rewrites = makeSlice[rewriteApplied](len(result.Rewrites))
	for _, rw := range result.Rewrites {
		output.Rewrites = append(output.Rewrites, rewriteApplied{
			Type:        string(rw.Type),
			Path:        rw.Path,
			Description: rw.Description,
		})
	}
	output.Rewrites = paginate(output.Rewrites, input.Offset, input.Limit)
	output.Returned = len(output.Rewrites)

	return nil, output, nil
}
