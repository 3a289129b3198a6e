package ir

import (
	"github.com/castrhq/castr/internal/orderedmap"
	"github.com/castrhq/castr/parser"
)

// Kind is the explicit discriminant over the schema shapes the writers
// recognize. It replaces duck-typed branching on field presence: exactly one
// kind applies to any given schema, checked in a fixed precedence order.
type Kind int

const (
	// KindEmpty is a schema with no type, composition, ref, or enum. Valid
	// OAS 3.1 ("accept anything"), emitted as an unknown-value construct.
	KindEmpty Kind = iota
	// KindReference is a $ref leaf.
	KindReference
	// KindAllOf is an intersection composition.
	KindAllOf
	// KindOneOf is an exclusive union composition.
	KindOneOf
	// KindAnyOf is an inclusive union composition.
	KindAnyOf
	// KindEnum is an enumerated-value schema.
	KindEnum
	// KindObject is an object schema.
	KindObject
	// KindArray is an array or tuple schema.
	KindArray
	// KindPrimitive is a string/number/integer/boolean/null schema.
	KindPrimitive
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindReference:
		return "reference"
	case KindAllOf:
		return "allOf"
	case KindOneOf:
		return "oneOf"
	case KindAnyOf:
		return "anyOf"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// CastrSchema is one IR schema node. Every field except Metadata is optional;
// Metadata is never nil on a schema produced by the builder.
type CastrSchema struct {
	// Ref is a verbatim $ref string; a non-empty Ref makes this a reference
	// leaf and no inline fields apply.
	Ref string `json:"$ref,omitempty"`

	// Type holds the primitive name(s); multiple names encode a nullable
	// union like ["string","null"].
	Type parser.TypeSet `json:"type,omitempty"`

	// Enum and Const hold enumerated values.
	Enum  []any `json:"enum,omitempty"`
	Const any   `json:"const,omitempty"`

	// Presentation metadata.
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Example     any    `json:"example,omitempty"`
	Examples    []any  `json:"examples,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
	WriteOnly   bool   `json:"writeOnly,omitempty"`

	// Numeric constraints.
	MultipleOf       *float64          `json:"multipleOf,omitempty"`
	Maximum          *float64          `json:"maximum,omitempty"`
	Minimum          *float64          `json:"minimum,omitempty"`
	ExclusiveMaximum *parser.Exclusive `json:"exclusiveMaximum,omitempty"`
	ExclusiveMinimum *parser.Exclusive `json:"exclusiveMinimum,omitempty"`

	// String constraints.
	MaxLength *int   `json:"maxLength,omitempty"`
	MinLength *int   `json:"minLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"`

	// Array shape. Items and TupleItems are mutually exclusive.
	Items       *CastrSchema   `json:"items,omitempty"`
	TupleItems  []*CastrSchema `json:"tupleItems,omitempty"`
	MaxItems    *int           `json:"maxItems,omitempty"`
	MinItems    *int           `json:"minItems,omitempty"`
	UniqueItems bool           `json:"uniqueItems,omitempty"`

	// Object shape. Properties preserves source declaration order.
	Properties           *orderedmap.Map[*CastrSchema] `json:"properties,omitempty"`
	AdditionalProperties *AdditionalProperties         `json:"additionalProperties,omitempty"`
	Required             []string                      `json:"required,omitempty"`
	MaxProperties        *int                          `json:"maxProperties,omitempty"`
	MinProperties        *int                          `json:"minProperties,omitempty"`

	// Compositions. A non-nil empty slice is meaningful: it records an empty
	// composition present in the source, which the writers emit as an
	// explicit terminal sentinel. The JSON encoding keeps the nil/empty
	// distinction, so these carry no omitempty.
	AllOf []*CastrSchema `json:"allOf"`
	OneOf []*CastrSchema `json:"oneOf"`
	AnyOf []*CastrSchema `json:"anyOf"`

	Discriminator *parser.Discriminator `json:"discriminator,omitempty"`

	// Metadata is mandatory.
	Metadata *SchemaNode `json:"metadata,omitempty"`
}

// AdditionalProperties mirrors the OAS keyword on IR schemas: a boolean or a
// schema validating extra keys. Exactly one field is set.
type AdditionalProperties struct {
	Bool   *bool        `json:"bool,omitempty"`
	Schema *CastrSchema `json:"schema,omitempty"`
}

// Allows reports whether extra properties are permitted. Absent and true both
// permit; only an explicit false forbids.
func (ap *AdditionalProperties) Allows() bool {
	if ap == nil || ap.Bool == nil {
		return true
	}
	return *ap.Bool
}

// Kind classifies the schema shape. Precedence: reference, composition, enum,
// object, array, primitive, empty.
func (s *CastrSchema) Kind() Kind {
	switch {
	case s.Ref != "":
		return KindReference
	case s.AllOf != nil:
		return KindAllOf
	case s.OneOf != nil:
		return KindOneOf
	case s.AnyOf != nil:
		return KindAnyOf
	case len(s.Enum) > 0 || s.Const != nil:
		return KindEnum
	case s.Type.Contains("object") || s.Properties.Len() > 0 || s.AdditionalProperties != nil:
		return KindObject
	case s.Type.Contains("array") || s.Items != nil || s.TupleItems != nil:
		return KindArray
	case len(s.Type) > 0:
		// Whether the name is a known primitive is the writer's concern;
		// an unrecognized name fails fast there.
		return KindPrimitive
	}
	return KindEmpty
}

// SchemaNode is the mandatory metadata carried by every CastrSchema.
type SchemaNode struct {
	// Required reports whether the schema sits in a required position
	// (a property named in its parent's required list, a path parameter, ...).
	Required bool `json:"required"`

	// Nullable is true when type includes "null" or the OAS 3.0 nullable
	// flag is set.
	Nullable bool `json:"nullable"`

	// Chain summarizes applied chain-method calls so round-tripping between
	// generated code and IR does not lose ordering or calls that have no
	// first-class IR field.
	Chain ValidationChain `json:"chain"`

	// Dependencies describes this node's position in the document dependency
	// graph. Populated on component roots.
	Dependencies DependencyInfo `json:"dependencies"`

	// CircularReferences lists fully-qualified #/components/schemas/{name}
	// refs that participate in a cycle reachable from this node.
	CircularReferences []string `json:"circularReferences,omitempty"`
}

// ValidationChain is a structured summary of chain-method calls applied to a
// schema declaration.
type ValidationChain struct {
	// Presence is "required" or "optional".
	Presence string `json:"presence,omitempty"`
	// Validations lists constraint calls in application order (e.g. "Min(1)").
	Validations []string `json:"validations,omitempty"`
	// Defaults lists arguments of applied default calls.
	Defaults []any `json:"defaults,omitempty"`
}

// DependencyInfo describes a component's place in the dependency graph.
type DependencyInfo struct {
	// References lists schema names this component depends on, sorted.
	References []string `json:"references,omitempty"`
	// ReferencedBy lists schema names depending on this component, sorted.
	ReferencedBy []string `json:"referencedBy,omitempty"`
	// Depth is the length of the longest acyclic dependency chain below
	// this component; leaves have depth 0.
	Depth int `json:"depth"`
}

// IsCircular reports whether the node participates in any reference cycle.
func (n *SchemaNode) IsCircular() bool {
	return n != nil && len(n.CircularReferences) > 0
}
