// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the castr pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrhq/castr"
)

const serverInstructions = `castr MCP server — converts OpenAPI documents to a lossless IR and generates Go validation schemas, and parses generated source back to IR.

Tools:
- build: OpenAPI document -> generated Go validation source (plus optional type declarations)
- ir: OpenAPI document -> the IR as JSON, with per-schema dependency metadata
- graph: OpenAPI document -> schema dependency report (direct/transitive deps, topological order, cycles)
- reverse: generated Go validation source -> recovered IR components

Inputs accept either a file path or inline content; provide exactly one. Inline content is limited to 4 MiB.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "castr", Version: castr.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "build",
		Description: "Generate Go validation source from an OpenAPI 3.x document. Options: package_name (default schemas), strict_objects (close objects without explicit additionalProperties: true), default_response_mode (spec-compliant or auto-correct), complexity_threshold (node count above which inline schemas are hoisted to named components), emit_types (also return Go type declarations).",
	}, handleBuild)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ir",
		Description: "Build the castr IR from an OpenAPI 3.x document and return it as JSON. The IR records every schema with source order, nullability, required positions, circular references, and the document-level dependency graph. Use this to inspect what build would generate from.",
	}, handleIR)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph",
		Description: "Report the schema dependency graph of an OpenAPI 3.x document: direct and transitive dependencies per schema, reverse dependencies, a deterministic topological order, and the schemas participating in reference cycles.",
	}, handleGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reverse",
		Description: "Parse generated Go validation source back into the castr IR. Returns recovered components plus per-declaration errors with stable codes; one unparseable declaration does not abort the rest of the file.",
	}, handleReverse)
}

// sanitizeError strips absolute filesystem paths from error messages to
// avoid leaking directory structure to MCP clients.
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
