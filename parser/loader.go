package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/castrhq/castr/castrerrors"
)

// SourceFormat identifies the serialization format of the loaded document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was YAML.
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was JSON.
	SourceFormatJSON SourceFormat = "json"
)

// LoadResult contains the results of loading an OpenAPI document.
type LoadResult struct {
	// Document is the parsed document
	Document *Document
	// Version is the declared OpenAPI version string (e.g., "3.1.0")
	Version string
	// SourceFormat is the detected serialization format
	SourceFormat SourceFormat
	// SourcePath identifies where the document came from
	SourcePath string
	// Errors contains structural validation errors
	Errors []error
	// Warnings contains non-fatal observations
	Warnings []string
}

// Option is a function that configures a load operation.
type Option func(*loadConfig) error

type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	validateStructure bool
	logger            Logger
	sourceName        *string
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return &castrerrors.ConfigError{Option: "WithReader", Message: "reader cannot be nil"}
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies raw document bytes as the input source.
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		cfg.bytes = data
		return nil
	}
}

// WithValidateStructure enables or disables structural validation of the
// loaded document (enabled by default).
func WithValidateStructure(validate bool) Option {
	return func(cfg *loadConfig) error {
		cfg.validateStructure = validate
		return nil
	}
}

// WithLogger sets the logger used during loading. Defaults to a no-op logger.
func WithLogger(logger Logger) Option {
	return func(cfg *loadConfig) error {
		if logger == nil {
			return &castrerrors.ConfigError{Option: "WithLogger", Message: "logger cannot be nil"}
		}
		cfg.logger = logger
		return nil
	}
}

// WithSourceName overrides the SourcePath recorded in the result.
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.sourceName = &name
		return nil
	}
}

// LoadWithOptions loads an OpenAPI 3.x document using functional options.
//
// Example:
//
//	result, err := parser.LoadWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	)
func LoadWithOptions(opts ...Option) (*LoadResult, error) {
	cfg := &loadConfig{
		validateStructure: true,
		logger:            NopLogger(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("parser: invalid options: %w", err)
		}
	}

	sources := 0
	for _, set := range []bool{cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return nil, &castrerrors.ConfigError{
			Message: "must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		}
	}
	if sources > 1 {
		return nil, &castrerrors.ConfigError{
			Message: "must specify exactly one input source",
		}
	}

	var (
		data       []byte
		sourcePath string
		err        error
	)
	switch {
	case cfg.filePath != nil:
		sourcePath = *cfg.filePath
		data, err = os.ReadFile(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read %s: %w", sourcePath, err)
		}
	case cfg.reader != nil:
		sourcePath = "LoadReader.yaml"
		data, err = io.ReadAll(cfg.reader)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read input: %w", err)
		}
	default:
		sourcePath = "LoadBytes.yaml"
		data = cfg.bytes
	}
	if cfg.sourceName != nil {
		sourcePath = *cfg.sourceName
	}

	result := &LoadResult{
		SourcePath:   sourcePath,
		SourceFormat: detectFormat(data),
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parser: failed to parse %s: %w", sourcePath, err)
	}
	result.Document = &doc
	result.Version = doc.OpenAPI

	cfg.logger.Debug("document parsed",
		"source", sourcePath,
		"version", doc.OpenAPI,
		"format", string(result.SourceFormat))

	if cfg.validateStructure {
		result.Errors = validateStructure(&doc)
		result.Warnings = structureWarnings(&doc)
		for _, e := range result.Errors {
			cfg.logger.Warn("structural validation error", "error", e.Error())
		}
	}

	return result, nil
}

// detectFormat sniffs the first non-whitespace byte. The YAML parser handles
// both formats; this only records provenance for format-preserving output.
func detectFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// validateStructure checks the minimal structural requirements of an OAS 3.x
// document. Deeper semantic validation happens during IR construction.
func validateStructure(doc *Document) []error {
	var errs []error

	switch {
	case doc.OpenAPI == "":
		errs = append(errs, &castrerrors.SpecViolationError{
			Path:    "openapi",
			Message: "missing required 'openapi' version field",
		})
	case !strings.HasPrefix(doc.OpenAPI, "3."):
		errs = append(errs, &castrerrors.SpecViolationError{
			Path:    "openapi",
			Message: fmt.Sprintf("unsupported OpenAPI version %q: only 3.x documents are supported", doc.OpenAPI),
		})
	}

	if doc.Info == nil {
		errs = append(errs, &castrerrors.SpecViolationError{
			Path:    "info",
			Message: "missing required 'info' object",
		})
	} else {
		if doc.Info.Title == "" {
			errs = append(errs, &castrerrors.SpecViolationError{
				Path:    "info.title",
				Message: "missing required 'title' field",
			})
		}
		if doc.Info.Version == "" {
			errs = append(errs, &castrerrors.SpecViolationError{
				Path:    "info.version",
				Message: "missing required 'version' field",
			})
		}
	}

	return errs
}

// structureWarnings reports non-fatal observations about the document.
func structureWarnings(doc *Document) []string {
	var warnings []string
	if len(doc.Paths) == 0 && (doc.Components == nil || doc.Components.Schemas.Len() == 0) {
		warnings = append(warnings, "document has no paths and no component schemas; nothing to generate")
	}
	return warnings
}
