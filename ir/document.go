package ir

import "github.com/castrhq/castr/parser"

// IRVersion identifies the IR format produced by this builder.
const IRVersion = "1"

// CastrDocument is the IR document root.
//
// Components keep source insertion order; consumers that need dependency
// order must re-sort explicitly via graph.TopoSort (or use
// DependencyGraph.Order).
type CastrDocument struct {
	// Version is the IR format version.
	Version string `json:"version"`
	// OpenAPIVersion is the declared version of the source document.
	OpenAPIVersion string `json:"openapiVersion"`
	// Info is carried over from the source document.
	Info *parser.Info `json:"info,omitempty"`
	// Components lists every named component in source order, hoisted
	// components appended last.
	Components []*Component `json:"components"`
	// Operations lists extracted path operations, path-then-method ordered.
	Operations []*Operation `json:"operations,omitempty"`
	// DependencyGraph is the document-level schema dependency graph.
	DependencyGraph *DependencyGraph `json:"dependencyGraph,omitempty"`
}

// SchemaComponents returns the schema-kind components in order.
func (d *CastrDocument) SchemaComponents() []*Component {
	out := make([]*Component, 0, len(d.Components))
	for _, c := range d.Components {
		if c.Type == ComponentSchema {
			out = append(out, c)
		}
	}
	return out
}

// Component returns the named component of the given type, or nil.
func (d *CastrDocument) Component(typ ComponentType, name string) *Component {
	for _, c := range d.Components {
		if c.Type == typ && c.Name == name {
			return c
		}
	}
	return nil
}

// ComponentType discriminates the component union.
type ComponentType string

const (
	ComponentSchema         ComponentType = "schema"
	ComponentParameter      ComponentType = "parameter"
	ComponentResponse       ComponentType = "response"
	ComponentRequestBody    ComponentType = "requestBody"
	ComponentSecurityScheme ComponentType = "securityScheme"
)

// Component is one named, reusable document component. Schema is set for
// every type that carries one; SecurityScheme is set only for
// securityScheme-kind components.
type Component struct {
	Type ComponentType `json:"type"`
	// Name is unique within the document for its type.
	Name   string       `json:"name"`
	Schema *CastrSchema `json:"schema,omitempty"`

	SecurityScheme *parser.SecurityScheme `json:"securityScheme,omitempty"`

	// Hoisted marks components extracted from inline operation schemas
	// rather than declared in components.schemas.
	Hoisted bool `json:"hoisted,omitempty"`
}

// DependencyGraph is the document-level dependency graph keyed by schema name.
type DependencyGraph struct {
	// Direct maps a schema name to its direct dependency names, sorted.
	Direct map[string][]string `json:"direct"`
	// Deep maps a schema name to its transitive dependency names, sorted.
	Deep map[string][]string `json:"deep"`
	// Order lists schema names in topological order, dependencies first.
	Order []string `json:"order"`
}

// Operation is one extracted method/path operation.
type Operation struct {
	// ID is the operationId, or a deterministic method+path alias when the
	// source omits one.
	ID          string   `json:"id"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`

	Parameters  []*Param     `json:"parameters,omitempty"`
	RequestBody *RequestBody `json:"requestBody,omitempty"`

	// Responses lists every kept response in source declaration order.
	Responses []*Response `json:"responses,omitempty"`
	// Main is the success response, when one was identified.
	Main *Response `json:"main,omitempty"`
	// Errors lists non-success responses.
	Errors []*Response `json:"errors,omitempty"`
	// IgnoredFallback is true when a default response was present in the
	// source but dropped by the spec-compliant policy.
	IgnoredFallback bool `json:"ignoredFallback,omitempty"`
}

// Param is one operation parameter.
type Param struct {
	Name string `json:"name"`
	// Location is "path", "query", "header", or "cookie".
	Location    string       `json:"location"`
	Required    bool         `json:"required"`
	Deprecated  bool         `json:"deprecated,omitempty"`
	Description string       `json:"description,omitempty"`
	Schema      *CastrSchema `json:"schema,omitempty"`
}

// RequestBody is an operation request body with content-type-keyed schemas.
type RequestBody struct {
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	// ContentTypes lists the media type keys in sorted order.
	ContentTypes []string `json:"contentTypes,omitempty"`
	// Content maps media type to schema.
	Content map[string]*CastrSchema `json:"content,omitempty"`
}

// Response is one operation response.
type Response struct {
	// Status is the status code, a wildcard pattern like "2XX", or "default".
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	// ContentTypes lists the media type keys in sorted order.
	ContentTypes []string `json:"contentTypes,omitempty"`
	// Content maps media type to schema. Empty for body-less responses.
	Content map[string]*CastrSchema `json:"content,omitempty"`
}
