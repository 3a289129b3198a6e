package mcpserver

import (
	"context"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type graphInput struct {
	Spec specInput `json:"spec" jsonschema:"The OpenAPI document to analyze"`
}

type graphNode struct {
	Name         string   `json:"name"`
	DependsOn    []string `json:"depends_on,omitempty"`
	Transitive   []string `json:"transitive,omitempty"`
	ReferencedBy []string `json:"referenced_by,omitempty"`
	Depth        int      `json:"depth"`
	Circular     bool     `json:"circular,omitempty"`
}

type graphOutput struct {
	Nodes []graphNode `json:"nodes"`
	// Order lists schema names in topological order, dependencies first.
	Order []string `json:"order"`
	// Cycles lists the schema names that participate in reference cycles,
	// sorted.
	Cycles []string `json:"cycles,omitempty"`
}

func handleGraph(_ context.Context, _ *mcp.CallToolRequest, input graphInput) (*mcp.CallToolResult, graphOutput, error) {
	build, err := buildDocument(input.Spec, "", 0)
	if err != nil {
		return errResult(err), graphOutput{}, nil
	}

	doc := build.Document
	output := graphOutput{}
	if doc.DependencyGraph != nil {
		output.Order = doc.DependencyGraph.Order
	}

	for _, c := range doc.SchemaComponents() {
		node := graphNode{Name: c.Name}
		if meta := c.Schema.Metadata; meta != nil {
			node.DependsOn = meta.Dependencies.References
			node.ReferencedBy = meta.Dependencies.ReferencedBy
			node.Depth = meta.Dependencies.Depth
			node.Circular = meta.IsCircular()
			if node.Circular {
				output.Cycles = append(output.Cycles, c.Name)
			}
		}
		if doc.DependencyGraph != nil {
			node.Transitive = doc.DependencyGraph.Deep[c.Name]
		}
		output.Nodes = append(output.Nodes, node)
	}
	sort.Strings(output.Cycles)

	return nil, output, nil
}
