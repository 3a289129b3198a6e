package parser

import (
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Paths holds the relative paths to individual endpoints and their operations
type Paths map[string]*PathItem

// PathItem describes the operations available on a single path
type PathItem struct {
	Ref         string       `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Summary     string       `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Get         *Operation   `yaml:"get,omitempty" json:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty" json:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty" json:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty" json:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty" json:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty" json:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty" json:"patch,omitempty"`
	Trace       *Operation   `yaml:"trace,omitempty" json:"trace,omitempty"`
	Servers     []*Server    `yaml:"servers,omitempty" json:"servers,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Operations returns the defined operations keyed by lowercase HTTP method,
// in a fixed method order suitable for deterministic iteration.
func (p *PathItem) Operations() []MethodOperation {
	all := []MethodOperation{
		{"get", p.Get},
		{"put", p.Put},
		{"post", p.Post},
		{"delete", p.Delete},
		{"options", p.Options},
		{"head", p.Head},
		{"patch", p.Patch},
		{"trace", p.Trace},
	}
	out := make([]MethodOperation, 0, len(all))
	for _, mo := range all {
		if mo.Operation != nil {
			out = append(out, mo)
		}
	}
	return out
}

// MethodOperation pairs an HTTP method with its operation.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Operation describes a single API operation on a path
type Operation struct {
	Tags         []string              `yaml:"tags,omitempty" json:"tags,omitempty"`
	Summary      string                `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description  string                `yaml:"description,omitempty" json:"description,omitempty"`
	ExternalDocs *ExternalDocs         `yaml:"externalDocs,omitempty" json:"externalDocs,omitempty"`
	OperationID  string                `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters   []*Parameter          `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody  *RequestBody          `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses    *Responses            `yaml:"responses,omitempty" json:"responses,omitempty"`
	Deprecated   bool                  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Security     []SecurityRequirement `yaml:"security,omitempty" json:"security,omitempty"`
	Servers      []*Server             `yaml:"servers,omitempty" json:"servers,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Parameter describes a single operation parameter
type Parameter struct {
	Ref             string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Name            string                `yaml:"name,omitempty" json:"name,omitempty"`
	In              string                `yaml:"in,omitempty" json:"in,omitempty"` // "path", "query", "header", "cookie"
	Description     string                `yaml:"description,omitempty" json:"description,omitempty"`
	Required        bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated      bool                  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	AllowEmptyValue bool                  `yaml:"allowEmptyValue,omitempty" json:"allowEmptyValue,omitempty"`
	Style           string                `yaml:"style,omitempty" json:"style,omitempty"`
	Explode         *bool                 `yaml:"explode,omitempty" json:"explode,omitempty"`
	Schema          *Schema               `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example         any                   `yaml:"example,omitempty" json:"example,omitempty"`
	Examples        map[string]*Example   `yaml:"examples,omitempty" json:"examples,omitempty"`
	Content         map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// RequestBody describes a single request body
type RequestBody struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// MediaType provides schema and examples for one media type
type MediaType struct {
	Schema   *Schema             `yaml:"schema,omitempty" json:"schema,omitempty"`
	Example  any                 `yaml:"example,omitempty" json:"example,omitempty"`
	Examples map[string]*Example `yaml:"examples,omitempty" json:"examples,omitempty"`
	Encoding map[string]any      `yaml:"encoding,omitempty" json:"encoding,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Header follows the structure of Parameter, minus name and location
type Header struct {
	Ref         string                `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool                  `yaml:"required,omitempty" json:"required,omitempty"`
	Deprecated  bool                  `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Schema      *Schema               `yaml:"schema,omitempty" json:"schema,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Responses is a container for the expected responses of an operation.
// Status codes keep their source declaration order in Order.
type Responses struct {
	Default *Response            `yaml:"default,omitempty" json:"default,omitempty"`
	Codes   map[string]*Response `yaml:"-" json:"-"`
	// Order lists status codes in source declaration order.
	Order []string `yaml:"-" json:"-"`
}

// UnmarshalYAML implements custom unmarshaling for Responses to separate the
// special "default" key from status codes and to validate status code shape
// during parsing.
func (r *Responses) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("responses must be a mapping (line %d)", node.Line)
	}

	r.Codes = make(map[string]*Response)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("invalid responses key at line %d: %w", node.Content[i].Line, err)
		}

		if key == "default" {
			var resp Response
			if err := node.Content[i+1].Decode(&resp); err != nil {
				return fmt.Errorf("failed to unmarshal default response: %w", err)
			}
			r.Default = &resp
			continue
		}

		// Extension fields pass through untouched.
		if len(key) > 2 && key[:2] == "x-" {
			continue
		}

		if !validStatusCode(key) {
			return fmt.Errorf("invalid status code '%s' in responses: must be a valid HTTP status code (e.g., \"200\", \"404\") or wildcard pattern (e.g., \"2XX\")", key)
		}

		var resp Response
		if err := node.Content[i+1].Decode(&resp); err != nil {
			return fmt.Errorf("failed to unmarshal response for status code %s: %w", key, err)
		}
		r.Codes[key] = &resp
		r.Order = append(r.Order, key)
	}

	return nil
}

// MarshalYAML emits status codes in source order followed by default.
func (r *Responses) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	appendPair := func(key string, value any) error {
		var kn, vn yaml.Node
		if err := kn.Encode(key); err != nil {
			return err
		}
		if err := vn.Encode(value); err != nil {
			return err
		}
		node.Content = append(node.Content, &kn, &vn)
		return nil
	}

	codes := r.Order
	if codes == nil {
		for code := range r.Codes {
			codes = append(codes, code)
		}
	}
	for _, code := range codes {
		if resp, ok := r.Codes[code]; ok {
			if err := appendPair(code, resp); err != nil {
				return nil, err
			}
		}
	}
	if r.Default != nil {
		if err := appendPair("default", r.Default); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// validStatusCode accepts three-digit codes ("200") and wildcard
// patterns ("2XX").
func validStatusCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	if code[0] < '1' || code[0] > '5' {
		return false
	}
	digits := code[1] >= '0' && code[1] <= '9' && code[2] >= '0' && code[2] <= '9'
	wildcard := (code[1] == 'X' || code[1] == 'x') && (code[2] == 'X' || code[2] == 'x')
	return digits || wildcard
}

// Response describes a single response from an API Operation
type Response struct {
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	// Description uses omitempty because responses can be defined via $ref.
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Headers     map[string]*Header    `yaml:"headers,omitempty" json:"headers,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}
