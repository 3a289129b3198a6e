package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrhq/castr/sourceparser"
)

type reverseInput struct {
	Source sourceInput `json:"source" jsonschema:"The generated Go validation source to parse"`
}

type reverseComponent struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Circular bool   `json:"circular,omitempty"`
}

type reverseError struct {
	Code    string `json:"code"`
	Decl    string `json:"decl,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type reverseOutput struct {
	Components      []reverseComponent `json:"components"`
	IR              string             `json:"ir"`
	Errors          []reverseError     `json:"errors,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
}

func handleReverse(_ context.Context, _ *mcp.CallToolRequest, input reverseInput) (*mcp.CallToolResult, reverseOutput, error) {
	src, filename, err := input.Source.resolve()
	if err != nil {
		return errResult(err), reverseOutput{}, nil
	}

	result, err := sourceparser.Parse(src, filename)
	if err != nil {
		return errResult(err), reverseOutput{}, nil
	}

	output := reverseOutput{Recommendations: result.Recommendations}

	for _, c := range result.Document.Components {
		output.Components = append(output.Components, reverseComponent{
			Name:     c.Name,
			Kind:     c.Schema.Kind().String(),
			Circular: c.Schema.Metadata.IsCircular(),
		})
	}

	for _, parseErr := range result.Errors {
		output.Errors = append(output.Errors, reverseError{
			Code:    parseErr.Code,
			Decl:    parseErr.Decl,
			Message: parseErr.Message,
			Line:    parseErr.Line,
			Column:  parseErr.Column,
		})
	}

	data, err := json.MarshalIndent(result.Document, "", "  ")
	if err != nil {
		return errResult(err), reverseOutput{}, nil
	}
	output.IR = string(data)

	return nil, output, nil
}
