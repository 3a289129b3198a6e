package sourceparser

import (
	"errors"
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"strconv"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
	"github.com/castrhq/castr/writer"
)

// Failure codes carried by SourceParseError.Code.
const (
	// CodeInvalidSource marks a file that does not parse as Go.
	CodeInvalidSource = "INVALID_SOURCE"
	// CodeMissingImport marks a file that does not import the valid package.
	CodeMissingImport = "MISSING_VALID_IMPORT"
	// CodeUnrecognizedConstruct marks an unknown DSL constructor.
	CodeUnrecognizedConstruct = "UNRECOGNIZED_CONSTRUCT"
	// CodeUnrecognizedCall marks an unknown chain method.
	CodeUnrecognizedCall = "UNRECOGNIZED_CALL"
	// CodeUnsupportedArgument marks an argument shape the parser cannot
	// evaluate statically.
	CodeUnsupportedArgument = "UNSUPPORTED_ARGUMENT"
	// CodeUnsupportedConstruct marks a recognized DSL construct that has no
	// IR representation, like Refine's arbitrary check functions.
	CodeUnsupportedConstruct = "UNSUPPORTED_CONSTRUCT"
	// CodeForeignReference marks an expression rooted in another package.
	CodeForeignReference = "FOREIGN_REFERENCE"
	// CodeUnknownIdentifier marks a bare identifier that names no declaration
	// in the file.
	CodeUnknownIdentifier = "UNKNOWN_IDENTIFIER"
)

// Result is the outcome of parsing one generated source file.
type Result struct {
	// Document holds the recovered IR: one schema component per parsed
	// declaration, with circular-reference metadata reattached.
	Document *ir.CastrDocument

	// Errors lists per-declaration failures. A declaration that fails leaves
	// no component but does not abort the rest of the file.
	Errors []*castrerrors.SourceParseError

	// Recommendations are human-readable notes about declarations that were
	// skipped or constructs that will not round-trip.
	Recommendations []string
}

// Option configures Parse.
type Option func(*config) error

type config struct {
	logger parser.Logger
}

// WithLogger sets the logger used during parsing.
func WithLogger(logger parser.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &castrerrors.ConfigError{Option: "WithLogger", Message: "logger cannot be nil"}
		}
		c.logger = logger
		return nil
	}
}

// Parse reads generated validation source and recovers the IR components it
// declares. The returned error is reserved for file-level failures (invalid
// Go, invalid options); per-declaration failures land in Result.Errors.
func Parse(src []byte, filename string, opts ...Option) (*Result, error) {
	cfg := &config{logger: parser.NopLogger()}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, filename, src, goparser.ParseComments)
	if err != nil {
		return nil, &castrerrors.SourceParseError{
			Code:    CodeInvalidSource,
			Message: "source is not valid Go",
			Cause:   err,
		}
	}

	result := &Result{
		Document: &ir.CastrDocument{Version: ir.IRVersion},
	}

	pkgName := validImportName(file)
	if pkgName == "" {
		result.Errors = append(result.Errors, &castrerrors.SourceParseError{
			Code:    CodeMissingImport,
			Message: fmt.Sprintf("file does not import %s", writer.ValidImportPath),
		})
		result.Recommendations = append(result.Recommendations,
			"only files generated against "+writer.ValidImportPath+" can be parsed back to IR")
		return result, nil
	}

	declared := declaredNames(file)
	registered := registryNames(file, pkgName)

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range vs.Names {
				if i >= len(vs.Values) {
					continue
				}
				cp := &chainParser{
					fset:       fset,
					pkgName:    pkgName,
					decl:       name.Name,
					declared:   declared,
					registered: registered,
				}
				if !usesDSL(vs.Values[i], pkgName, declared) {
					result.Recommendations = append(result.Recommendations,
						fmt.Sprintf("declaration %s does not use the validation DSL; skipped", name.Name))
					continue
				}
				schema, err := cp.parseExpr(vs.Values[i])
				if err != nil {
					var parseErr *castrerrors.SourceParseError
					if !errors.As(err, &parseErr) {
						parseErr = &castrerrors.SourceParseError{
							Code: CodeUnrecognizedConstruct, Decl: name.Name, Message: err.Error(),
						}
					}
					result.Errors = append(result.Errors, parseErr)
					cfg.logger.Warn("declaration failed to parse",
						"decl", name.Name, "code", parseErr.Code)
					continue
				}
				componentName := name.Name
				if raw, ok := registered[name.Name]; ok {
					componentName = raw
				}
				if schema.Metadata == nil {
					schema.Metadata = metadata(false, false)
				}
				result.Document.Components = append(result.Document.Components, &ir.Component{
					Type:   ir.ComponentSchema,
					Name:   componentName,
					Schema: schema,
				})
			}
		}
	}

	ir.DetectCircular(result.Document.SchemaComponents())
	cfg.logger.Debug("source parsed",
		"components", len(result.Document.Components),
		"errors", len(result.Errors))
	return result, nil
}

// validImportName resolves the local identifier bound to the valid package
// import. Matching is by import path, so aliases work and unrelated packages
// named "valid" do not.
func validImportName(file *ast.File) string {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != writer.ValidImportPath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}
		return "valid"
	}
	return ""
}

// declaredNames collects every top-level var name, so bare identifiers in
// initializers can be recognized as references to sibling declarations.
func declaredNames(file *ast.File) map[string]bool {
	out := make(map[string]bool)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				for _, name := range vs.Names {
					out[name.Name] = true
				}
			}
		}
	}
	return out
}

// registryNames maps exported declaration names back to the raw component
// names recorded by the generated init function's Register calls.
func registryNames(file *ast.File, pkgName string) map[string]string {
	out := make(map[string]string)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "init" || fn.Body == nil {
			continue
		}
		for _, stmt := range fn.Body.List {
			expr, ok := stmt.(*ast.ExprStmt)
			if !ok {
				continue
			}
			call, ok := expr.X.(*ast.CallExpr)
			if !ok || len(call.Args) != 2 {
				continue
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || sel.Sel.Name != "Register" {
				continue
			}
			if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != pkgName {
				continue
			}
			lit, ok := call.Args[0].(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			raw, err := strconv.Unquote(lit.Value)
			if err != nil {
				continue
			}
			if ident, ok := call.Args[1].(*ast.Ident); ok {
				out[ident.Name] = raw
			}
		}
	}
	return out
}

// usesDSL reports whether the expression is rooted in the valid package or
// references a sibling declaration.
func usesDSL(expr ast.Expr, pkgName string, declared map[string]bool) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		if found {
			return false
		}
		if ident, ok := n.(*ast.Ident); ok {
			if ident.Name == pkgName || declared[ident.Name] {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

func exprString(expr ast.Expr) string {
	return types.ExprString(expr)
}
