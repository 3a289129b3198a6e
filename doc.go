// Package castr converts OpenAPI documents into a lossless intermediate
// representation (IR) and projects that IR into generated source artifacts.
//
// castr's pipeline is: parse an OpenAPI 3.x document, build a canonical schema
// graph, detect circular references, compute a deterministic topological
// ordering, assemble the IR, and emit generated Go validation schemas, type
// declarations, or a regenerated OpenAPI document. The pipeline also runs in
// reverse: generated validation source can be parsed back into the IR for
// round-tripping and editing.
//
// # Packages
//
//   - parser: OpenAPI 3.x document model, loading, and $ref resolution
//   - graph: schema dependency graphs and topological ordering
//   - ir: the CastrDocument IR, IR construction, and circular-reference detection
//   - writer: IR projection into generated Go source and regenerated OpenAPI
//   - sourceparser: generated Go source back into the IR via AST traversal
//   - valid: the runtime validation DSL that generated code links against
//   - castrerrors: structured error types shared by all packages
//
// # Quick Start
//
// Build the IR for a document and emit a validation-schema file:
//
//	result, err := parser.LoadWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	build, err := ir.Build(result.Document)
//	if err != nil {
//		log.Fatal(err)
//	}
//	w, err := writer.New(writer.WithPackageName("schemas"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.WriteFile("schemas.gen.go", build.Document); err != nil {
//		log.Fatal(err)
//	}
//
// The IR is the single source of truth: once built, downstream consumers never
// re-read the raw OpenAPI document.
package castr
