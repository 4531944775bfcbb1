package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimprep/writer"
)

type bundleInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The specification to bundle"`
	Output          string    `json:"output,omitempty"           jsonschema:"File path to write the bundled document. If omitted the document is returned inline when include_document is true."`
	IncludeDocument bool      `json:"include_document,omitempty" jsonschema:"Include the full bundled document in output"`
}

type bundleOutput struct {
	ResolvedRefs int      `json:"resolved_refs"`
	Documents    []string `json:"documents,omitempty"`
	WrittenTo    string   `json:"written_to,omitempty"`
	Document     string   `json:"document,omitempty"`
}

func handleBundle(_ context.Context, _ *mcp.CallToolRequest, input bundleInput) (*mcp.CallToolResult, bundleOutput, error) {
	doc, resolver, err := input.Spec.loadDocument()
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	result, err := resolver.Bundle(doc)
	if err != nil {
		return errResult(err), bundleOutput{}, nil
	}

	output := bundleOutput{
		ResolvedRefs: result.ResolvedRefs,
		Documents:    result.Documents,
	}

	if input.Output != "" || input.IncludeDocument {
		data, err := writer.Marshal(doc)
		if err != nil {
			return errResult(err), bundleOutput{}, nil
		}
		if input.Output != "" {
			if err := writer.WriteBytes(data, input.Output); err != nil {
				return errResult(fmt.Errorf("failed to write output file: %w", err)), bundleOutput{}, nil
			}
			output.WrittenTo = input.Output
		}
		if input.IncludeDocument {
			output.Document = string(data)
		}
	}

	return nil, output, nil
}
