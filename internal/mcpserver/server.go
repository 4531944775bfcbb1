// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apimprep capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apimprep"
)

const serverInstructions = `apimprep MCP server — prepares OpenAPI 3.1 documents for API-management-gateway import.

Tools:
- prep: the full pipeline. Fetch a spec, inline external $refs, apply gateway compatibility rewrites, write self-contained JSON.
- bundle: inline external $refs only, preserving internal (#/) references. No rewrites.
- normalize: apply compatibility rewrites to an already-bundled document (discriminator required lists, structured descriptions, unsupported keywords).

Configuration: defaults are configurable via APIMPREP_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- APIMPREP_MAX_INLINE_SIZE (default: 10485760) — max bytes of inline spec content
- APIMPREP_REWRITE_LIMIT (default: 100) — default pagination limit for rewrite listings
- APIMPREP_CHECK_OUTPUT (default: false) — run the structural output check by default in prep
- APIMPREP_USER_AGENT — override the User-Agent for HTTP fetches`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apimprep", Version: apimprep.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "prep",
		Description: "Run the full preparation pipeline on an OpenAPI document: fetch, inline external $refs (preserving internal ones), apply gateway compatibility rewrites, and write self-contained JSON. Requires a file or url input; use output to choose the destination path. Use check=true to verify the result still parses as an OpenAPI document.",
	}, handlePrep)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Inline all external $ref targets of an OpenAPI document, producing a self-contained tree. Internal (#/) references are preserved and no rewrites are applied. Accepts file, url, or inline content. Use include_document=true to get the bundled JSON inline, or output to write it to a file.",
	}, handleBundle)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize",
		Description: "Apply gateway compatibility rewrites to an already-bundled OpenAPI document: add discriminator properties to required lists, serialize structured description values to JSON strings, and delete $recursiveRef/$recursiveAnchor/propertyNames. Accepts file, url, or inline content. Use rewrites to restrict which rewrite types run, and offset/limit to paginate the rewrite listing.",
	}, handleNormalize)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.RewriteLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.RewriteLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
