package parser

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/castrhq/castr/internal/orderedmap"
)

// Schema represents a JSON-Schema-like node as used by OAS 3.0 and 3.1.
//
// Polymorphic keywords (type, items, additionalProperties, exclusive bounds)
// decode into small tagged wrapper types rather than interface{} soup, so the
// mutually-exclusive shapes are explicit and exhaustively checkable.
type Schema struct {
	// JSON Schema Core
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`
	Example     any    `yaml:"example,omitempty" json:"example,omitempty"`   // OAS 3.0 (deprecated in 3.1+)
	Examples    []any  `yaml:"examples,omitempty" json:"examples,omitempty"` // OAS 3.1+

	// Type validation
	Type TypeSet `yaml:"type,omitempty" json:"type,omitempty"` // string or []string (OAS 3.1+)
	Enum []any   `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const any    `yaml:"const,omitempty" json:"const,omitempty"` // OAS 3.1+

	// Numeric validation
	MultipleOf       *float64   `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64   `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum *Exclusive `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"` // bool in 3.0, number in 3.1+
	Minimum          *float64   `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum *Exclusive `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"` // bool in 3.0, number in 3.1+

	// String validation
	MaxLength *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Format    string `yaml:"format,omitempty" json:"format,omitempty"`

	// Array validation
	Items       *Items    `yaml:"items,omitempty" json:"items,omitempty"` // single schema or tuple
	PrefixItems []*Schema `yaml:"prefixItems,omitempty" json:"prefixItems,omitempty"` // OAS 3.1+
	MaxItems    *int      `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems    *int      `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems bool      `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object validation
	Properties           *orderedmap.Map[*Schema] `yaml:"properties,omitempty" json:"properties,omitempty"`
	AdditionalProperties *AdditionalProperties    `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"` // schema or bool
	Required             []string                 `yaml:"required,omitempty" json:"required,omitempty"`
	MaxProperties        *int                     `yaml:"maxProperties,omitempty" json:"maxProperties,omitempty"`
	MinProperties        *int                     `yaml:"minProperties,omitempty" json:"minProperties,omitempty"`

	// Schema composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Not   *Schema   `yaml:"not,omitempty" json:"not,omitempty"`

	// OAS specific extensions
	Nullable      bool           `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only (replaced by type: [T, "null"] in 3.1+)
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	ReadOnly      bool           `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	WriteOnly     bool           `yaml:"writeOnly,omitempty" json:"writeOnly,omitempty"`
	XML           *XML           `yaml:"xml,omitempty" json:"xml,omitempty"`
	ExternalDocs  *ExternalDocs  `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	Deprecated    bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Extension fields
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// IsRef reports whether the schema is a pure reference node.
func (s *Schema) IsRef() bool {
	return s != nil && s.Ref != ""
}

// Discriminator represents a discriminator for polymorphism (OAS 3.0+)
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// XML represents metadata for XML encoding (OAS 3.0+)
type XML struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Prefix    string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Attribute bool   `yaml:"attribute,omitempty" json:"attribute,omitempty"`
	Wrapped   bool   `yaml:"wrapped,omitempty" json:"wrapped,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// TypeSet is the type keyword: a single primitive name or, in OAS 3.1+, an
// array of primitive names (used for nullable unions like ["string","null"]).
type TypeSet []string

// UnmarshalYAML accepts either a scalar type name or a sequence of names.
func (t *TypeSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		*t = TypeSet{single}
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*t = TypeSet(many)
	default:
		return fmt.Errorf("type must be a string or array of strings (line %d)", node.Line)
	}
	return nil
}

// MarshalYAML emits a scalar for a single type and a sequence otherwise.
func (t TypeSet) MarshalYAML() (any, error) {
	if len(t) == 1 {
		return t[0], nil
	}
	return []string(t), nil
}

// Single returns the sole non-"null" type name, if exactly one exists.
func (t TypeSet) Single() (string, bool) {
	var name string
	count := 0
	for _, v := range t {
		if v != "null" {
			name = v
			count++
		}
	}
	if count == 1 {
		return name, true
	}
	return "", false
}

// HasNull reports whether "null" is among the type names.
func (t TypeSet) HasNull() bool {
	for _, v := range t {
		if v == "null" {
			return true
		}
	}
	return false
}

// Contains reports whether name is among the type names.
func (t TypeSet) Contains(name string) bool {
	for _, v := range t {
		if v == name {
			return true
		}
	}
	return false
}

// Items is the items keyword: a single schema for homogeneous arrays or a
// tuple of schemas for positional arrays. Exactly one field is set.
type Items struct {
	Schema *Schema
	Tuple  []*Schema
}

// UnmarshalYAML accepts a mapping (single schema) or a sequence (tuple).
func (it *Items) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var s Schema
		if err := node.Decode(&s); err != nil {
			return err
		}
		it.Schema = &s
	case yaml.SequenceNode:
		var tuple []*Schema
		if err := node.Decode(&tuple); err != nil {
			return err
		}
		it.Tuple = tuple
	default:
		return fmt.Errorf("items must be a schema or array of schemas (line %d)", node.Line)
	}
	return nil
}

// MarshalYAML emits whichever variant is populated.
func (it *Items) MarshalYAML() (any, error) {
	if it.Tuple != nil {
		return it.Tuple, nil
	}
	return it.Schema, nil
}

// AdditionalProperties is the additionalProperties keyword: a boolean or a
// schema validating extra keys. Exactly one field is set.
type AdditionalProperties struct {
	Bool   *bool
	Schema *Schema
}

// Allows reports whether extra properties are permitted. Absent (nil receiver)
// and true both permit; only an explicit false forbids.
func (ap *AdditionalProperties) Allows() bool {
	if ap == nil || ap.Bool == nil {
		return true
	}
	return *ap.Bool
}

// UnmarshalYAML accepts a boolean or a schema mapping.
func (ap *AdditionalProperties) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := node.Decode(&b); err != nil {
			return fmt.Errorf("additionalProperties must be a boolean or schema (line %d)", node.Line)
		}
		ap.Bool = &b
	case yaml.MappingNode:
		var s Schema
		if err := node.Decode(&s); err != nil {
			return err
		}
		ap.Schema = &s
	default:
		return fmt.Errorf("additionalProperties must be a boolean or schema (line %d)", node.Line)
	}
	return nil
}

// MarshalYAML emits whichever variant is populated.
func (ap *AdditionalProperties) MarshalYAML() (any, error) {
	if ap.Schema != nil {
		return ap.Schema, nil
	}
	if ap.Bool != nil {
		return *ap.Bool, nil
	}
	return nil, nil
}

// Exclusive is an exclusive bound: a boolean flag modifying minimum/maximum in
// OAS 3.0, or a standalone numeric bound in OAS 3.1+.
type Exclusive struct {
	Bool  *bool
	Value *float64
}

// UnmarshalYAML accepts a boolean (3.0 style) or a number (3.1 style).
func (e *Exclusive) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("exclusive bound must be a boolean or number (line %d)", node.Line)
	}
	var b bool
	if err := node.Decode(&b); err == nil {
		e.Bool = &b
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return fmt.Errorf("exclusive bound must be a boolean or number (line %d)", node.Line)
	}
	e.Value = &v
	return nil
}

// MarshalYAML emits whichever variant is populated.
func (e *Exclusive) MarshalYAML() (any, error) {
	if e.Value != nil {
		return *e.Value, nil
	}
	if e.Bool != nil {
		return *e.Bool, nil
	}
	return nil, nil
}

// MarshalJSON emits whichever variant is populated.
func (e *Exclusive) MarshalJSON() ([]byte, error) {
	if e.Value != nil {
		return json.Marshal(*e.Value)
	}
	if e.Bool != nil {
		return json.Marshal(*e.Bool)
	}
	return []byte("null"), nil
}
