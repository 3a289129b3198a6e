// Package commands provides CLI command handlers for castr.
package commands

import (
	"fmt"
	"os"

	"github.com/castrhq/castr/internal/issues"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// loadSpec loads an OpenAPI document from a file path, or from stdin when the
// path is "-".
func loadSpec(specPath string) (*parser.LoadResult, error) {
	if specPath == StdinFilePath {
		return parser.LoadWithOptions(
			parser.WithReader(os.Stdin),
			parser.WithSourceName("<stdin>"),
		)
	}
	return parser.LoadWithOptions(parser.WithFilePath(specPath))
}

// buildIR loads a document and builds the IR with the shared command flags.
func buildIR(specPath, responseMode string, complexityThreshold int) (*parser.LoadResult, *ir.BuildResult, error) {
	loaded, err := loadSpec(specPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading specification: %w", err)
	}

	var opts []ir.Option
	if responseMode != "" {
		opts = append(opts, ir.WithDefaultResponseMode(ir.DefaultResponseMode(responseMode)))
	}
	if complexityThreshold > 0 {
		opts = append(opts, ir.WithComplexityThreshold(complexityThreshold))
	}

	build, err := ir.Build(loaded.Document, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("building IR: %w", err)
	}
	return loaded, build, nil
}

// printIssues prints build issues indented one level.
func printIssues(list []issues.Issue) {
	for _, issue := range list {
		fmt.Printf("  %s\n", issue.String())
	}
}
