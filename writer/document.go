package writer

import (
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/castrhq/castr/internal/orderedmap"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

// WriteOpenAPI regenerates an OpenAPI document from the IR and marshals it
// to YAML. Schema components and operations round-trip; parameter, response,
// and request body components were flattened to their schemas during IR
// construction, so they reappear under the operations that use them rather
// than as named components.
func (w *Writer) WriteOpenAPI(doc *ir.CastrDocument) ([]byte, error) {
	out := &parser.Document{
		OpenAPI: doc.OpenAPIVersion,
		Info:    doc.Info,
	}
	version31 := strings.HasPrefix(doc.OpenAPIVersion, "3.1")

	schemas := orderedmap.New[*parser.Schema]()
	for _, c := range doc.SchemaComponents() {
		schemas.Set(c.Name, irSchema(c.Schema, version31))
	}
	securitySchemes := make(map[string]*parser.SecurityScheme)
	for _, c := range doc.Components {
		if c.Type == ir.ComponentSecurityScheme && c.SecurityScheme != nil {
			securitySchemes[c.Name] = c.SecurityScheme
		}
	}
	if schemas.Len() > 0 || len(securitySchemes) > 0 {
		out.Components = &parser.Components{}
		if schemas.Len() > 0 {
			out.Components.Schemas = schemas
		}
		if len(securitySchemes) > 0 {
			out.Components.SecuritySchemes = securitySchemes
		}
	}

	if len(doc.Operations) > 0 {
		out.Paths = make(parser.Paths)
		for _, op := range doc.Operations {
			item := out.Paths[op.Path]
			if item == nil {
				item = &parser.PathItem{}
				out.Paths[op.Path] = item
			}
			setOperation(item, op.Method, irOperation(op, version31))
		}
	}

	return yaml.Marshal(out)
}

func setOperation(item *parser.PathItem, method string, op *parser.Operation) {
	switch method {
	case "get":
		item.Get = op
	case "put":
		item.Put = op
	case "post":
		item.Post = op
	case "delete":
		item.Delete = op
	case "options":
		item.Options = op
	case "head":
		item.Head = op
	case "patch":
		item.Patch = op
	case "trace":
		item.Trace = op
	}
}

func irOperation(op *ir.Operation, version31 bool) *parser.Operation {
	out := &parser.Operation{
		OperationID: op.ID,
		Summary:     op.Summary,
		Description: op.Description,
		Tags:        op.Tags,
		Deprecated:  op.Deprecated,
	}
	for _, p := range op.Parameters {
		out.Parameters = append(out.Parameters, &parser.Parameter{
			Name:        p.Name,
			In:          p.Location,
			Description: p.Description,
			Required:    p.Required,
			Deprecated:  p.Deprecated,
			Schema:      irSchema(p.Schema, version31),
		})
	}
	if op.RequestBody != nil {
		out.RequestBody = &parser.RequestBody{
			Description: op.RequestBody.Description,
			Required:    op.RequestBody.Required,
			Content:     irContent(op.RequestBody.Content, version31),
		}
	}
	if len(op.Responses) > 0 {
		responses := &parser.Responses{Codes: make(map[string]*parser.Response)}
		for _, resp := range op.Responses {
			conv := &parser.Response{
				Description: resp.Description,
				Content:     irContent(resp.Content, version31),
			}
			if resp.Status == "default" {
				responses.Default = conv
				continue
			}
			responses.Codes[resp.Status] = conv
			responses.Order = append(responses.Order, resp.Status)
		}
		out.Responses = responses
	}
	return out
}

func irContent(content map[string]*ir.CastrSchema, version31 bool) map[string]*parser.MediaType {
	if len(content) == 0 {
		return nil
	}
	out := make(map[string]*parser.MediaType, len(content))
	for ct, schema := range content {
		out[ct] = &parser.MediaType{Schema: irSchema(schema, version31)}
	}
	return out
}

// irSchema converts an IR schema back to a parser schema. Nullability is
// re-encoded per target version: a "null" member of the type array for 3.1,
// the nullable keyword for 3.0.
func irSchema(s *ir.CastrSchema, version31 bool) *parser.Schema {
	if s == nil {
		return nil
	}
	out := &parser.Schema{
		Ref:              s.Ref,
		Title:            s.Title,
		Description:      s.Description,
		Default:          s.Default,
		Example:          s.Example,
		Examples:         s.Examples,
		Type:             s.Type,
		Enum:             s.Enum,
		Const:            s.Const,
		MultipleOf:       s.MultipleOf,
		Maximum:          s.Maximum,
		ExclusiveMaximum: s.ExclusiveMaximum,
		Minimum:          s.Minimum,
		ExclusiveMinimum: s.ExclusiveMinimum,
		MaxLength:        s.MaxLength,
		MinLength:        s.MinLength,
		Pattern:          s.Pattern,
		Format:           s.Format,
		MaxItems:         s.MaxItems,
		MinItems:         s.MinItems,
		UniqueItems:      s.UniqueItems,
		Required:         s.Required,
		MaxProperties:    s.MaxProperties,
		MinProperties:    s.MinProperties,
		Discriminator:    s.Discriminator,
		Deprecated:       s.Deprecated,
		ReadOnly:         s.ReadOnly,
		WriteOnly:        s.WriteOnly,
	}

	if s.Metadata != nil && s.Metadata.Nullable && s.Ref == "" && !s.Type.HasNull() {
		if version31 {
			if len(s.Type) > 0 {
				out.Type = append(append(parser.TypeSet{}, s.Type...), "null")
			}
		} else {
			out.Nullable = true
		}
	}

	if len(s.TupleItems) > 0 {
		tuple := make([]*parser.Schema, 0, len(s.TupleItems))
		for _, item := range s.TupleItems {
			tuple = append(tuple, irSchema(item, version31))
		}
		if version31 {
			out.PrefixItems = tuple
		} else {
			out.Items = &parser.Items{Tuple: tuple}
		}
	} else if s.Items != nil {
		out.Items = &parser.Items{Schema: irSchema(s.Items, version31)}
	}

	if s.Properties != nil && s.Properties.Len() > 0 {
		props := orderedmap.New[*parser.Schema]()
		s.Properties.All(func(name string, prop *ir.CastrSchema) bool {
			props.Set(name, irSchema(prop, version31))
			return true
		})
		out.Properties = props
	}

	if s.AdditionalProperties != nil {
		ap := &parser.AdditionalProperties{}
		if s.AdditionalProperties.Schema != nil {
			ap.Schema = irSchema(s.AdditionalProperties.Schema, version31)
		} else if s.AdditionalProperties.Bool != nil {
			b := *s.AdditionalProperties.Bool
			ap.Bool = &b
		}
		out.AdditionalProperties = ap
	}

	if s.AllOf != nil {
		out.AllOf = convertMembers(s.AllOf, version31)
	}
	if s.OneOf != nil {
		out.OneOf = convertMembers(s.OneOf, version31)
	}
	if s.AnyOf != nil {
		out.AnyOf = convertMembers(s.AnyOf, version31)
	}
	return out
}

func convertMembers(members []*ir.CastrSchema, version31 bool) []*parser.Schema {
	out := make([]*parser.Schema, 0, len(members))
	for _, m := range members {
		out = append(out, irSchema(m, version31))
	}
	return out
}
