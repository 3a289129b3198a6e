package writer

import "github.com/castrhq/castr/ir"

// ContextKind discriminates the positions a schema can be written from.
type ContextKind int

const (
	// ContextComponent is a top-level named component declaration.
	ContextComponent ContextKind = iota
	// ContextProperty is an object property value.
	ContextProperty
	// ContextParameter is an operation parameter schema.
	ContextParameter
	// ContextArrayItems is an array's item schema.
	ContextArrayItems
	// ContextCompositionMember is a member of allOf/oneOf/anyOf.
	ContextCompositionMember
)

// SchemaContext carries a schema plus enough surrounding information to make
// locally-correct emission decisions without re-walking the parent tree.
type SchemaContext struct {
	Kind   ContextKind
	Schema *ir.CastrSchema

	// ComponentName names the enclosing top-level component; used in error
	// paths and for self-reference detection.
	ComponentName string

	// PropertyName is set for ContextProperty.
	PropertyName string

	// Required is true when the surrounding position mandates presence (a
	// required property, a path parameter).
	Required bool

	// DiscriminatorKey is set for ContextCompositionMember inside a
	// discriminated oneOf.
	DiscriminatorKey string

	// CircularNames holds schema names participating in cycles anywhere in
	// the document; references to these are emitted as deferred registry
	// lookups instead of plain identifiers.
	CircularNames map[string]bool

	// Path locates the schema within the component for error reporting.
	Path string
}

// child derives a context for a nested schema position.
func (c SchemaContext) child(kind ContextKind, schema *ir.CastrSchema, pathSegment string) SchemaContext {
	return SchemaContext{
		Kind:          kind,
		Schema:        schema,
		ComponentName: c.ComponentName,
		CircularNames: c.CircularNames,
		Path:          joinPath(c.Path, pathSegment),
	}
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}
