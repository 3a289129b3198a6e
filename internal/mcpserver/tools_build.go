package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/castrhq/castr/internal/issues"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/writer"
)

type buildInput struct {
	Spec                specInput `json:"spec"                            jsonschema:"The OpenAPI document to build from"`
	PackageName         string    `json:"package_name,omitempty"         jsonschema:"Package name for the generated source (default schemas)"`
	StrictObjects       bool      `json:"strict_objects,omitempty"       jsonschema:"Close objects that lack an explicit additionalProperties: true"`
	DefaultResponseMode string    `json:"default_response_mode,omitempty" jsonschema:"How to treat default responses: spec-compliant (default) or auto-correct"`
	ComplexityThreshold int       `json:"complexity_threshold,omitempty" jsonschema:"Inline schema node count above which schemas are hoisted to named components (default 10)"`
	EmitTypes           bool      `json:"emit_types,omitempty"           jsonschema:"Also return Go type declarations for a companion types package"`
}

type toolIssue struct {
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Code     string `json:"code,omitempty"`
}

type buildOutput struct {
	Source         string      `json:"source"`
	TypesSource    string      `json:"types_source,omitempty"`
	SchemaCount    int         `json:"schema_count"`
	OperationCount int         `json:"operation_count"`
	Issues         []toolIssue `json:"issues,omitempty"`
}

func handleBuild(_ context.Context, _ *mcp.CallToolRequest, input buildInput) (*mcp.CallToolResult, buildOutput, error) {
	build, err := buildDocument(input.Spec, input.DefaultResponseMode, input.ComplexityThreshold)
	if err != nil {
		return errResult(err), buildOutput{}, nil
	}

	var writerOpts []writer.Option
	if input.PackageName != "" {
		writerOpts = append(writerOpts, writer.WithPackageName(input.PackageName))
	}
	if input.StrictObjects {
		writerOpts = append(writerOpts, writer.WithStrictObjects(true))
	}
	w, err := writer.New(writerOpts...)
	if err != nil {
		return errResult(err), buildOutput{}, nil
	}

	src, err := w.WriteDocument(build.Document)
	if err != nil {
		return errResult(err), buildOutput{}, nil
	}

	output := buildOutput{
		Source:         string(src),
		SchemaCount:    build.SchemaCount,
		OperationCount: build.OperationCount,
		Issues:         toolIssues(build.Issues),
	}

	if input.EmitTypes {
		types, err := w.WriteTypesFile(build.Document)
		if err != nil {
			return errResult(err), buildOutput{}, nil
		}
		output.TypesSource = string(types)
	}

	return nil, output, nil
}

// buildDocument loads a document and builds the IR with the options shared by
// the build, ir, and graph tools.
func buildDocument(spec specInput, mode string, threshold int) (*ir.BuildResult, error) {
	result, err := spec.resolve()
	if err != nil {
		return nil, err
	}

	var opts []ir.Option
	if mode != "" {
		opts = append(opts, ir.WithDefaultResponseMode(ir.DefaultResponseMode(mode)))
	}
	if threshold > 0 {
		opts = append(opts, ir.WithComplexityThreshold(threshold))
	}
	return ir.Build(result.Document, opts...)
}

func toolIssues(in []issues.Issue) []toolIssue {
	if len(in) == 0 {
		return nil
	}
	out := make([]toolIssue, 0, len(in))
	for _, issue := range in {
		out = append(out, toolIssue{
			Path:     issue.Path,
			Message:  issue.Message,
			Severity: issue.Severity.String(),
			Code:     issue.Code,
		})
	}
	return out
}
