package valid

// kind identifies the base construct of a schema.
type kind int

const (
	kindString kind = iota
	kindNumber
	kindInteger
	kindBoolean
	kindNull
	kindUnknown
	kindNever
	kindLiteral
	kindEnum
	kindArray
	kindTuple
	kindObject
	kindRecord
	kindAnyOf
	kindXOr
	kindDiscriminated
	kindIntersection
	kindRef
	kindLazy
)

// objectMode controls how extra object keys are treated.
type objectMode int

const (
	modePassthrough objectMode = iota
	modeStrict
	modeCatchall
)

// Schema is one validation schema node. Zero value is not usable; build
// schemas through the package constructors.
type Schema struct {
	kind kind

	// literal / enum
	literal    any
	enumValues []string

	// array / tuple / record
	item       *Schema
	tupleItems []*Schema

	// object
	fields []ObjectField
	mode   objectMode
	// catchall validates extra keys in catchall mode
	catchall *Schema

	// compositions
	members []*Schema

	// discriminated union
	discriminatorKey string

	// ref / lazy
	refName string
	lazyFn  func() *Schema

	// constraints
	min          *float64
	max          *float64
	exclusiveMin *float64
	exclusiveMax *float64
	multipleOf   *float64
	length       *int
	pattern      string
	format       string
	uniqueItems  bool

	// presence and defaults
	optional   bool
	nullable   bool
	hasDefault bool
	defaultVal any

	// presentation metadata
	description string
	title       string
	deprecated  bool
	readOnly    bool
	writeOnly   bool
	example     any

	// custom checks run after the structural constraints
	refinements []func(any) error
}

// ObjectField is one object property with its schema.
type ObjectField struct {
	Name   string
	Schema *Schema
}

// Field pairs a property name with its schema for use in Object.
func Field(name string, schema *Schema) ObjectField {
	return ObjectField{Name: name, Schema: schema}
}

// String returns a string schema.
func String() *Schema { return &Schema{kind: kindString} }

// Number returns a number schema accepting integers and floats.
func Number() *Schema { return &Schema{kind: kindNumber} }

// Integer returns an integer schema.
func Integer() *Schema { return &Schema{kind: kindInteger} }

// Boolean returns a boolean schema.
func Boolean() *Schema { return &Schema{kind: kindBoolean} }

// Null returns a schema accepting only null.
func Null() *Schema { return &Schema{kind: kindNull} }

// Unknown returns a schema accepting any value.
func Unknown() *Schema { return &Schema{kind: kindUnknown} }

// Never returns a schema rejecting every value.
func Never() *Schema { return &Schema{kind: kindNever} }

// Literal returns a schema accepting exactly the given value.
func Literal(value any) *Schema {
	return &Schema{kind: kindLiteral, literal: value}
}

// Enum returns a schema accepting any of the given string values.
func Enum(values ...string) *Schema {
	return &Schema{kind: kindEnum, enumValues: values}
}

// Array returns an array schema with homogeneous items. A nil item accepts
// arrays of anything.
func Array(item *Schema) *Schema {
	return &Schema{kind: kindArray, item: item}
}

// Tuple returns a fixed-shape array schema with positional items.
func Tuple(items ...*Schema) *Schema {
	return &Schema{kind: kindTuple, tupleItems: items}
}

// Object returns an object schema over the given fields. Field order is
// preserved for deterministic error reporting.
func Object(fields ...ObjectField) *Schema {
	return &Schema{kind: kindObject, fields: fields}
}

// Record returns an object schema whose every value must match the given
// schema, with no fixed keys.
func Record(value *Schema) *Schema {
	return &Schema{kind: kindRecord, item: value}
}

// AnyOf returns an inclusive union: at least one member must validate.
func AnyOf(members ...*Schema) *Schema {
	return &Schema{kind: kindAnyOf, members: members}
}

// XOr returns an exclusive union: exactly one member must validate.
func XOr(members ...*Schema) *Schema {
	return &Schema{kind: kindXOr, members: members}
}

// DiscriminatedUnion returns a tagged union dispatched on the named property
// for O(1) branch selection. Each member must be an object schema carrying a
// literal-valued field with the discriminator name.
func DiscriminatedUnion(key string, members ...*Schema) *Schema {
	return &Schema{kind: kindDiscriminated, discriminatorKey: key, members: members}
}

// Intersect returns an intersection: every member must validate.
func Intersect(members ...*Schema) *Schema {
	return &Schema{kind: kindIntersection, members: members}
}

// Ref returns a schema resolved by name against the registry at validation
// time. Generated code uses it for circular references, which cannot be
// expressed as direct package-level initializers.
func Ref(name string) *Schema {
	return &Schema{kind: kindRef, refName: name}
}

// Lazy returns a schema produced by fn on first use, for hand-written
// self-referential declarations.
func Lazy(fn func() *Schema) *Schema {
	return &Schema{kind: kindLazy, lazyFn: fn}
}

// clone returns a shallow copy. Chain methods operate on the copy so that
// generated code applying modifiers to a shared component identifier, like
// Address.Optional() inside another object literal, never alters the
// component every other schema references.
func (s *Schema) clone() *Schema {
	c := *s
	return &c
}

// Min sets the inclusive minimum: numeric value for numbers, length for
// strings and arrays, property count for records.
func (s *Schema) Min(n float64) *Schema { c := s.clone(); c.min = &n; return c }

// Max sets the inclusive maximum, interpreted like Min.
func (s *Schema) Max(n float64) *Schema { c := s.clone(); c.max = &n; return c }

// ExclusiveMin sets an exclusive numeric lower bound.
func (s *Schema) ExclusiveMin(n float64) *Schema { c := s.clone(); c.exclusiveMin = &n; return c }

// ExclusiveMax sets an exclusive numeric upper bound.
func (s *Schema) ExclusiveMax(n float64) *Schema { c := s.clone(); c.exclusiveMax = &n; return c }

// MultipleOf requires the value to be a multiple of n.
func (s *Schema) MultipleOf(n float64) *Schema { c := s.clone(); c.multipleOf = &n; return c }

// Length requires an exact length for strings and arrays.
func (s *Schema) Length(n int) *Schema { c := s.clone(); c.length = &n; return c }

// Pattern requires strings to match the given regular expression.
func (s *Schema) Pattern(expr string) *Schema { c := s.clone(); c.pattern = expr; return c }

// Format records a named string format (date-time, uuid, email, ...).
// Recognized formats are checked; unrecognized names are annotations only.
func (s *Schema) Format(name string) *Schema { c := s.clone(); c.format = name; return c }

// UniqueItems requires array elements to be pairwise distinct.
func (s *Schema) UniqueItems() *Schema { c := s.clone(); c.uniqueItems = true; return c }

// Strict forbids object keys not named by a field.
func (s *Schema) Strict() *Schema { c := s.clone(); c.mode = modeStrict; return c }

// Passthrough allows unnamed object keys through unvalidated.
func (s *Schema) Passthrough() *Schema { c := s.clone(); c.mode = modePassthrough; return c }

// Catchall validates unnamed object keys against the given schema.
func (s *Schema) Catchall(extra *Schema) *Schema {
	c := s.clone()
	c.mode = modeCatchall
	c.catchall = extra
	return c
}

// Optional marks the schema as omittable in its surrounding object.
func (s *Schema) Optional() *Schema { c := s.clone(); c.optional = true; return c }

// Nullable additionally accepts null.
func (s *Schema) Nullable() *Schema { c := s.clone(); c.nullable = true; return c }

// Default records the value substituted when the input omits this schema's
// position. The default is metadata; Validate does not mutate input.
func (s *Schema) Default(value any) *Schema {
	c := s.clone()
	c.hasDefault = true
	c.defaultVal = value
	return c
}

// Describe attaches a description.
func (s *Schema) Describe(text string) *Schema { c := s.clone(); c.description = text; return c }

// Title attaches a title.
func (s *Schema) Title(text string) *Schema { c := s.clone(); c.title = text; return c }

// Deprecated marks the schema deprecated.
func (s *Schema) Deprecated() *Schema { c := s.clone(); c.deprecated = true; return c }

// ReadOnly marks the schema read-only.
func (s *Schema) ReadOnly() *Schema { c := s.clone(); c.readOnly = true; return c }

// WriteOnly marks the schema write-only.
func (s *Schema) WriteOnly() *Schema { c := s.clone(); c.writeOnly = true; return c }

// Example attaches an example value.
func (s *Schema) Example(value any) *Schema { c := s.clone(); c.example = value; return c }

// Refine adds a custom check run after the structural constraints pass. The
// check is an arbitrary Go function, so refined schemas cannot be recovered
// into an OpenAPI document by the source parser.
func (s *Schema) Refine(fn func(value any) error) *Schema {
	c := s.clone()
	checks := make([]func(any) error, 0, len(s.refinements)+1)
	checks = append(checks, s.refinements...)
	c.refinements = append(checks, fn)
	return c
}

// And intersects the schema with another, folding left: a.And(b).And(c)
// validates against a, b, and c.
func (s *Schema) And(other *Schema) *Schema {
	if s.kind == kindIntersection {
		c := s.clone()
		c.members = append(append([]*Schema(nil), s.members...), other)
		return c
	}
	return &Schema{kind: kindIntersection, members: []*Schema{s, other}}
}

// IsOptional reports whether the schema was marked optional.
func (s *Schema) IsOptional() bool { return s.optional }

// Description returns the attached description.
func (s *Schema) Description() string { return s.description }
