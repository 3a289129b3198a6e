package parser

import (
	"strings"

	"github.com/castrhq/castr/castrerrors"
)

// Component kinds addressable via #/components/{type}/{name}.
const (
	ComponentSchemas         = "schemas"
	ComponentParameters      = "parameters"
	ComponentResponses       = "responses"
	ComponentRequestBodies   = "requestBodies"
	ComponentSecuritySchemes = "securitySchemes"
)

// RefParts is a parsed component reference.
type RefParts struct {
	// ExtHash is the x-ext namespace hash for externally-bundled refs,
	// empty for standard local refs.
	ExtHash string
	// Kind is the component type segment (e.g., "schemas")
	Kind string
	// Name is the component name segment
	Name string
}

// Canonical returns the standard-form ref, folding any x-ext namespace away.
// Externally-sourced and locally-defined schemas merge into one consistent
// dependency graph through this normalization.
func (p RefParts) Canonical() string {
	return "#/components/" + p.Kind + "/" + p.Name
}

// ParseRef validates and decomposes a $ref string.
//
// Two shapes are accepted:
//
//	#/components/{type}/{name}
//	#/x-ext/{hash}/components/schemas/{name}
//
// Anything else is a RefError with Kind=RefKindInvalid.
func ParseRef(ref string) (RefParts, error) {
	rest, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return RefParts{}, invalidRef(ref, "must start with '#/'")
	}

	segments := strings.Split(rest, "/")

	// External-document namespace extension.
	if segments[0] == "x-ext" {
		if len(segments) != 5 || segments[2] != "components" {
			return RefParts{}, invalidRef(ref, "expected #/x-ext/{hash}/components/{type}/{name}")
		}
		if segments[1] == "" || segments[4] == "" {
			return RefParts{}, invalidRef(ref, "empty hash or component name")
		}
		if !knownComponentKind(segments[3]) {
			return RefParts{}, invalidRef(ref, "unknown component type '"+segments[3]+"'")
		}
		return RefParts{ExtHash: segments[1], Kind: segments[3], Name: segments[4]}, nil
	}

	if len(segments) != 3 || segments[0] != "components" {
		return RefParts{}, invalidRef(ref, "expected #/components/{type}/{name}")
	}
	if !knownComponentKind(segments[1]) {
		return RefParts{}, invalidRef(ref, "unknown component type '"+segments[1]+"'")
	}
	if segments[2] == "" {
		return RefParts{}, invalidRef(ref, "empty component name")
	}
	return RefParts{Kind: segments[1], Name: segments[2]}, nil
}

// NormalizeRef folds an x-ext namespaced ref into standard form for
// dependency-graph purposes. Invalid refs pass through unchanged; they fail
// later at resolution with a precise error.
func NormalizeRef(ref string) string {
	parts, err := ParseRef(ref)
	if err != nil {
		return ref
	}
	return parts.Canonical()
}

// SchemaNameFromRef extracts the schema name from a schema $ref, folding any
// x-ext namespace. Returns false when the ref is not a schema reference.
func SchemaNameFromRef(ref string) (string, bool) {
	parts, err := ParseRef(ref)
	if err != nil || parts.Kind != ComponentSchemas {
		return "", false
	}
	return parts.Name, true
}

// Resolve resolves a $ref against the document's components section.
// The returned value is *Schema, *Parameter, *Response, *RequestBody, or
// *SecurityScheme depending on the ref's component type.
//
// It returns a RefError with Kind=RefKindInvalid when the ref shape does not
// match, and Kind=RefKindNotFound when the component type or name is absent.
func Resolve(doc *Document, ref string) (any, error) {
	parts, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}

	components := doc.Components
	if parts.ExtHash != "" {
		ext, ok := doc.XExt[parts.ExtHash]
		if !ok || ext == nil {
			return nil, notFound(ref, parts, "no x-ext bundle with hash '"+parts.ExtHash+"'")
		}
		components = ext.Components
	}
	if components == nil {
		return nil, notFound(ref, parts, "document has no components section")
	}

	switch parts.Kind {
	case ComponentSchemas:
		if schema, ok := components.Schemas.Get(parts.Name); ok {
			return schema, nil
		}
	case ComponentParameters:
		if param, ok := components.Parameters[parts.Name]; ok {
			return param, nil
		}
	case ComponentResponses:
		if resp, ok := components.Responses[parts.Name]; ok {
			return resp, nil
		}
	case ComponentRequestBodies:
		if body, ok := components.RequestBodies[parts.Name]; ok {
			return body, nil
		}
	case ComponentSecuritySchemes:
		if scheme, ok := components.SecuritySchemes[parts.Name]; ok {
			return scheme, nil
		}
	}
	return nil, notFound(ref, parts, "")
}

// ResolveSchemaRef resolves a schema-only $ref. In addition to the failures
// Resolve reports, it returns a RefError with Kind=RefKindNested when the
// resolved target is itself a bare reference object. Nested refs are never
// silently chased; the document must be pre-bundled so refs resolve directly
// to concrete schemas.
func ResolveSchemaRef(doc *Document, ref string) (*Schema, error) {
	parts, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if parts.Kind != ComponentSchemas {
		return nil, invalidRef(ref, "expected a schema reference, got component type '"+parts.Kind+"'")
	}

	resolved, err := Resolve(doc, ref)
	if err != nil {
		return nil, err
	}
	schema := resolved.(*Schema)
	if schema.IsRef() {
		return nil, &castrerrors.RefError{
			Ref:           ref,
			Kind:          castrerrors.RefKindNested,
			ComponentType: parts.Kind,
			Name:          parts.Name,
			Message:       "target is itself a reference (" + schema.Ref + "); bundle the document so refs resolve to concrete schemas",
		}
	}
	return schema, nil
}

func knownComponentKind(kind string) bool {
	switch kind {
	case ComponentSchemas, ComponentParameters, ComponentResponses,
		ComponentRequestBodies, ComponentSecuritySchemes:
		return true
	}
	return false
}

func invalidRef(ref, message string) *castrerrors.RefError {
	return &castrerrors.RefError{
		Ref:     ref,
		Kind:    castrerrors.RefKindInvalid,
		Message: message,
	}
}

func notFound(ref string, parts RefParts, message string) *castrerrors.RefError {
	return &castrerrors.RefError{
		Ref:           ref,
		Kind:          castrerrors.RefKindNotFound,
		ComponentType: parts.Kind,
		Name:          parts.Name,
		Message:       message,
	}
}
