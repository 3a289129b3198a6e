package writer

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

// ValidImportPath is the import path of the runtime DSL targeted by
// generated code.
const ValidImportPath = "github.com/castrhq/castr/valid"

// Writer emits IR documents as Go validation source.
type Writer struct {
	packageName   string
	strictObjects bool
	logger        parser.Logger
}

// Option configures a Writer.
type Option func(*Writer) error

// WithPackageName sets the package name of generated files. Defaults to
// "schemas".
func WithPackageName(name string) Option {
	return func(w *Writer) error {
		if name == "" {
			return &castrerrors.ConfigError{Option: "WithPackageName", Message: "package name cannot be empty"}
		}
		w.packageName = name
		return nil
	}
}

// WithStrictObjects closes every object that does not explicitly set
// additionalProperties: true.
func WithStrictObjects(strict bool) Option {
	return func(w *Writer) error {
		w.strictObjects = strict
		return nil
	}
}

// WithLogger sets the logger used during emission.
func WithLogger(logger parser.Logger) Option {
	return func(w *Writer) error {
		if logger == nil {
			return &castrerrors.ConfigError{Option: "WithLogger", Message: "logger cannot be nil"}
		}
		w.logger = logger
		return nil
	}
}

// New returns a Writer with the given options applied.
func New(opts ...Option) (*Writer, error) {
	w := &Writer{
		packageName: "schemas",
		logger:      parser.NopLogger(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// WriteDocument renders the full generated file for an IR document:
// header, imports, schema declarations in topological order, endpoint
// validators, and the registry init function. The output is formatted with
// imports.Process, so it is valid, gofmt-clean Go.
func (w *Writer) WriteDocument(doc *ir.CastrDocument) ([]byte, error) {
	components := doc.SchemaComponents()
	byName := make(map[string]*ir.Component, len(components))
	for _, c := range components {
		byName[c.Name] = c
	}

	circular := circularNames(components)
	order := declarationOrder(doc, components)

	var sb strings.Builder
	sb.WriteString("// Code generated by castr. DO NOT EDIT.\n")
	if doc.Info != nil && doc.Info.Title != "" {
		fmt.Fprintf(&sb, "//\n// Source: %s %s (OpenAPI %s)\n",
			doc.Info.Title, doc.Info.Version, doc.OpenAPIVersion)
	}
	fmt.Fprintf(&sb, "\npackage %s\n\n", w.packageName)
	fmt.Fprintf(&sb, "import %q\n\n", ValidImportPath)

	for _, name := range order {
		c, ok := byName[name]
		if !ok {
			continue
		}
		expr, err := w.WriteSchema(SchemaContext{
			Kind:          ContextComponent,
			Schema:        c.Schema,
			ComponentName: c.Name,
			CircularNames: circular,
		})
		if err != nil {
			return nil, err
		}
		if c.Schema.Description != "" {
			fmt.Fprintf(&sb, "// %s %s\n", ExportedName(c.Name), firstLine(c.Schema.Description))
		}
		fmt.Fprintf(&sb, "var %s = %s\n\n", ExportedName(c.Name), expr)
	}

	if err := w.writeEndpoints(&sb, doc, circular); err != nil {
		return nil, err
	}

	if len(order) > 0 {
		sb.WriteString("func init() {\n")
		for _, name := range order {
			if _, ok := byName[name]; !ok {
				continue
			}
			fmt.Fprintf(&sb, "\tvalid.Register(%q, %s)\n", name, ExportedName(name))
		}
		sb.WriteString("}\n")
	}

	src := []byte(sb.String())
	formatted, err := imports.Process(w.packageName+".go", src, nil)
	if err != nil {
		return nil, fmt.Errorf("writer: generated source does not format: %w", err)
	}
	w.logger.Debug("document written",
		"schemas", len(components),
		"operations", len(doc.Operations),
		"bytes", len(formatted))
	return formatted, nil
}

// WriteFile renders the document and writes it to path.
func (w *Writer) WriteFile(path string, doc *ir.CastrDocument) error {
	out, err := w.WriteDocument(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// circularNames collects every schema name recorded in any component's
// circular-reference metadata.
func circularNames(components []*ir.Component) map[string]bool {
	out := make(map[string]bool)
	for _, c := range components {
		if c.Schema == nil || c.Schema.Metadata == nil {
			continue
		}
		for _, ref := range c.Schema.Metadata.CircularReferences {
			if name, ok := parser.SchemaNameFromRef(ref); ok {
				out[name] = true
			}
		}
	}
	return out
}

// declarationOrder prefers the document's topological order so dependencies
// are declared before dependents; without a graph, source order stands.
func declarationOrder(doc *ir.CastrDocument, components []*ir.Component) []string {
	if doc.DependencyGraph != nil && len(doc.DependencyGraph.Order) > 0 {
		return doc.DependencyGraph.Order
	}
	order := make([]string, 0, len(components))
	for _, c := range components {
		order = append(order, c.Name)
	}
	return order
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
