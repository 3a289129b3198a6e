package writer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/castrhq/castr/ir"
)

// writeEndpoints emits per-operation validators: a parameter object, a
// request body schema, and the main response schema. Operations come from
// the IR already sorted by path then method, so output order is stable.
func (w *Writer) writeEndpoints(sb *strings.Builder, doc *ir.CastrDocument, circular map[string]bool) error {
	for _, op := range doc.Operations {
		name := ExportedName(op.ID)
		wrote := false
		header := func() {
			if !wrote {
				fmt.Fprintf(sb, "// %s %s\n", strings.ToUpper(op.Method), op.Path)
				wrote = true
			}
		}

		if len(op.Parameters) > 0 {
			expr, err := w.writeParamsObject(op, circular)
			if err != nil {
				return err
			}
			header()
			fmt.Fprintf(sb, "var %sParams = %s\n", name, expr)
		}

		if op.RequestBody != nil {
			if schema := preferredContent(op.RequestBody.Content); schema != nil {
				expr, err := w.WriteSchema(SchemaContext{
					Kind:          ContextComponent,
					Schema:        schema,
					ComponentName: op.ID,
					CircularNames: circular,
					Path:          "requestBody",
				})
				if err != nil {
					return err
				}
				header()
				fmt.Fprintf(sb, "var %sBody = %s\n", name, expr)
			}
		}

		if op.Main != nil {
			if schema := preferredContent(op.Main.Content); schema != nil {
				expr, err := w.WriteSchema(SchemaContext{
					Kind:          ContextComponent,
					Schema:        schema,
					ComponentName: op.ID,
					CircularNames: circular,
					Path:          "responses." + op.Main.Status,
				})
				if err != nil {
					return err
				}
				header()
				fmt.Fprintf(sb, "var %sResponse = %s\n", name, expr)
			}
		}

		if wrote {
			sb.WriteString("\n")
		}
	}
	return nil
}

// writeParamsObject renders an operation's parameters as one object schema
// keyed by parameter name.
func (w *Writer) writeParamsObject(op *ir.Operation, circular map[string]bool) (string, error) {
	fields := make([]string, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		ctx := SchemaContext{
			Kind:          ContextParameter,
			Schema:        p.Schema,
			ComponentName: op.ID,
			PropertyName:  p.Name,
			Required:      p.Required,
			CircularNames: circular,
			Path:          "parameters." + p.Name,
		}
		expr, err := w.WriteSchema(ctx)
		if err != nil {
			return "", err
		}
		fields = append(fields, fmt.Sprintf("valid.Field(%q, %s)", p.Name, expr))
	}
	return "valid.Object(\n\t" + strings.Join(fields, ",\n\t") + ",\n)", nil
}

// preferredContent picks the schema to validate for a body or response:
// application/json when present, otherwise the first content type in sorted
// order.
func preferredContent(content map[string]*ir.CastrSchema) *ir.CastrSchema {
	if len(content) == 0 {
		return nil
	}
	if s, ok := content["application/json"]; ok {
		return s
	}
	cts := make([]string, 0, len(content))
	for ct := range content {
		cts = append(cts, ct)
	}
	sort.Strings(cts)
	return content[cts[0]]
}
