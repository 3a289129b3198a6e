// Package writer projects IR documents into output representations:
// validation-schema declarations (the valid DSL), Go type declarations, and
// regenerated OpenAPI documents.
//
// Schema emission is context-driven: every write carries a SchemaContext
// describing where the schema sits (component root, object property, array
// items, composition member, parameter) so emission decisions are locally
// correct without re-walking the parent tree. Unrecognized shapes fail fast
// with an EmitError; silently degrading to an accept-anything schema would
// mask generator bugs.
//
// Emitted files are deterministic: components are declared in topological
// order, object properties in sorted order, and the result is formatted with
// golang.org/x/tools/imports so regeneration diffs stay minimal.
package writer
