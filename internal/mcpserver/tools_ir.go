package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type irInput struct {
	Spec                specInput `json:"spec"                            jsonschema:"The OpenAPI document to build the IR from"`
	DefaultResponseMode string    `json:"default_response_mode,omitempty" jsonschema:"How to treat default responses: spec-compliant (default) or auto-correct"`
	ComplexityThreshold int       `json:"complexity_threshold,omitempty" jsonschema:"Inline schema node count above which schemas are hoisted to named components (default 10)"`
}

type irOutput struct {
	IR             string      `json:"ir"`
	SchemaCount    int         `json:"schema_count"`
	OperationCount int         `json:"operation_count"`
	Issues         []toolIssue `json:"issues,omitempty"`
}

func handleIR(_ context.Context, _ *mcp.CallToolRequest, input irInput) (*mcp.CallToolResult, irOutput, error) {
	build, err := buildDocument(input.Spec, input.DefaultResponseMode, input.ComplexityThreshold)
	if err != nil {
		return errResult(err), irOutput{}, nil
	}

	data, err := json.MarshalIndent(build.Document, "", "  ")
	if err != nil {
		return errResult(err), irOutput{}, nil
	}

	return nil, irOutput{
		IR:             string(data),
		SchemaCount:    build.SchemaCount,
		OperationCount: build.OperationCount,
		Issues:         toolIssues(build.Issues),
	}, nil
}
