package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimprep/normalizer"
	"github.com/erraggy/apimprep/writer"
)

type normalizeInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The specification to normalize"`
	Rewrites        []string  `json:"rewrites,omitempty"         jsonschema:"Rewrite types to apply (default all): discriminator-required\\, flattened-description\\, removed-keyword"`
	Output          string    `json:"output,omitempty"           jsonschema:"File path to write the normalized document. If omitted the document is returned inline when include_document is true."`
	IncludeDocument bool      `json:"include_document,omitempty" jsonschema:"Include the full normalized document in output"`
	Offset          int       `json:"offset,omitempty"           jsonschema:"Skip the first N rewrites (for pagination)"`
	Limit           int       `json:"limit,omitempty"            jsonschema:"Maximum number of rewrites to return (default 100)"`
}

type normalizeOutput struct {
	RewriteCount int              `json:"rewrite_count"`
	Returned     int              `json:"returned"`
	Rewrites     []rewriteApplied `json:"rewrites,omitempty"`
	WrittenTo    string           `json:"written_to,omitempty"`
	Document     string           `json:"document,omitempty"`
}

func handleNormalize(_ context.Context, _ *mcp.CallToolRequest, input normalizeInput) (*mcp.CallToolResult, normalizeOutput, error) {
	doc, _, err := input.Spec.loadDocument()
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	rewrites, err := parseRewriteTypes(input.Rewrites)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	n := normalizer.New()
	n.EnabledRewrites = rewrites
	result, err := n.Normalize(doc)
	if err != nil {
		return errResult(err), normalizeOutput{}, nil
	}

	output := normalizeOutput{RewriteCount: result.RewriteCount}

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

	if input.Output != "" || input.IncludeDocument {
		data, err := writer.Marshal(doc)
		if err != nil {
			return errResult(err), normalizeOutput{}, nil
		}
		if input.Output != "" {
			if err := writer.WriteBytes(data, input.Output); err != nil {
				return errResult(fmt.Errorf("failed to write output file: %w", err)), normalizeOutput{}, nil
			}
			output.WrittenTo = input.Output
		}
		if input.IncludeDocument {
			output.Document = string(data)
		}
	}

	return nil, output, nil
}

// parseRewriteTypes validates rewrite type names from tool input.
// An empty list enables all rewrites.
func parseRewriteTypes(names []string) ([]normalizer.RewriteType, error) {
	if len(names) == 0 {
		return nil, nil
	}

	valid := map[normalizer.RewriteType]bool{
		normalizer.RewriteTypeDiscriminatorRequired: true,
		normalizer.RewriteTypeFlattenedDescription:  true,
		normalizer.RewriteTypeRemovedKeyword:        true,
	}

	rewrites := make([]normalizer.RewriteType, 0, len(names))
	for _, name := range names {
		rt := normalizer.RewriteType(name)
		if !valid[rt] {
			return nil, fmt.Errorf("invalid rewrite type %q: must be one of: %s, %s, %s", name,
				normalizer.RewriteTypeDiscriminatorRequired,
				normalizer.RewriteTypeFlattenedDescription,
				normalizer.RewriteTypeRemovedKeyword)
		}
		rewrites = append(rewrites, rt)
	}
	return rewrites, nil
}
