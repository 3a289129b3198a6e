package writer

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

// WriteTypesFile renders a complete Go source file of type declarations for
// the schema components. Type names mirror the validator names, so the file
// belongs in its own package rather than alongside the generated validators.
func (w *Writer) WriteTypesFile(doc *ir.CastrDocument) ([]byte, error) {
	decls, err := w.WriteTypes(doc)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("// Code generated by castr. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", w.packageName)
	sb.Write(decls)

	formatted, err := imports.Process(w.packageName+".go", []byte(sb.String()), nil)
	if err != nil {
		return nil, fmt.Errorf("writer: generated types do not format: %w", err)
	}
	return formatted, nil
}

// WriteTypes renders Go type declarations for every schema component. The
// declarations target decoded JSON payloads: optional and nullable fields
// become pointers, references become named types, and shapes Go cannot
// express statically (untagged unions, mixed enums) fall back to any.
func (w *Writer) WriteTypes(doc *ir.CastrDocument) ([]byte, error) {
	components := doc.SchemaComponents()
	tw := &typeWriter{circular: circularNames(components)}

	var sb strings.Builder
	for _, c := range components {
		name := ExportedName(c.Name)
		if c.Schema.Description != "" {
			fmt.Fprintf(&sb, "// %s %s\n", name, firstLine(c.Schema.Description))
		}
		expr, err := tw.typeExpr(c.Schema, c.Name)
		if err != nil {
			return nil, err
		}
		if c.Schema.Kind() == ir.KindReference {
			// A pure alias component shares the target's identity.
			fmt.Fprintf(&sb, "type %s = %s\n\n", name, expr)
			continue
		}
		fmt.Fprintf(&sb, "type %s %s\n\n", name, expr)
	}
	return []byte(sb.String()), nil
}

type typeWriter struct {
	// circular names force pointer fields so generated structs stay
	// representable.
	circular map[string]bool
}

func (tw *typeWriter) typeExpr(s *ir.CastrSchema, component string) (string, error) {
	if s == nil {
		return "any", nil
	}
	switch s.Kind() {
	case ir.KindReference:
		name, ok := parser.SchemaNameFromRef(s.Ref)
		if !ok {
			return "", &castrerrors.EmitError{
				Component: component,
				Message:   fmt.Sprintf("cannot derive a type name from reference %q", s.Ref),
			}
		}
		return ExportedName(name), nil

	case ir.KindEnum:
		return enumType(s), nil

	case ir.KindPrimitive:
		return primitiveType(s), nil

	case ir.KindArray:
		if len(s.TupleItems) > 0 {
			return "[]any", nil
		}
		inner, err := tw.typeExpr(s.Items, component)
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil

	case ir.KindObject:
		return tw.objectType(s, component)

	case ir.KindAllOf:
		return tw.allOfType(s, component)

	case ir.KindOneOf, ir.KindAnyOf:
		members := s.OneOf
		if s.Kind() == ir.KindAnyOf {
			members = s.AnyOf
		}
		if len(members) == 1 {
			return tw.typeExpr(members[0], component)
		}
		// Untagged unions have no static Go shape.
		return "any", nil

	default:
		return "any", nil
	}
}

func (tw *typeWriter) objectType(s *ir.CastrSchema, component string) (string, error) {
	if s.Properties == nil || s.Properties.Len() == 0 {
		if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
			inner, err := tw.typeExpr(s.AdditionalProperties.Schema, component)
			if err != nil {
				return "", err
			}
			return "map[string]" + inner, nil
		}
		return "map[string]any", nil
	}
	fields, err := tw.structFields(s, component)
	if err != nil {
		return "", err
	}
	return "struct {\n" + strings.Join(fields, "\n") + "\n}", nil
}

// allOfType merges intersection members into one struct: referenced objects
// embed by name, inline objects contribute their fields. Members outside
// those shapes make the intersection unexpressable and degrade to any.
func (tw *typeWriter) allOfType(s *ir.CastrSchema, component string) (string, error) {
	if len(s.AllOf) == 0 {
		return "any", nil
	}
	if len(s.AllOf) == 1 {
		return tw.typeExpr(s.AllOf[0], component)
	}
	var lines []string
	for _, member := range s.AllOf {
		switch member.Kind() {
		case ir.KindReference:
			name, ok := parser.SchemaNameFromRef(member.Ref)
			if !ok {
				return "any", nil
			}
			lines = append(lines, "\t"+ExportedName(name))
		case ir.KindObject:
			fields, err := tw.structFields(member, component)
			if err != nil {
				return "", err
			}
			lines = append(lines, fields...)
		default:
			return "any", nil
		}
	}
	return "struct {\n" + strings.Join(lines, "\n") + "\n}", nil
}

func (tw *typeWriter) structFields(s *ir.CastrSchema, component string) ([]string, error) {
	requiredSet := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		requiredSet[name] = true
	}

	names := make([]string, 0, s.Properties.Len())
	for _, name := range s.Properties.Keys() {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		prop, _ := s.Properties.Get(name)
		required := requiredSet[name] || (prop != nil && prop.Metadata != nil && prop.Metadata.Required)
		nullable := prop != nil && prop.Metadata != nil && prop.Metadata.Nullable

		typ, err := tw.typeExpr(prop, component)
		if err != nil {
			return nil, err
		}
		typ = tw.pointerize(typ, prop, required, nullable)

		tag := name
		if !required {
			tag += ",omitempty"
		}
		lines = append(lines, fmt.Sprintf("\t%s %s `json:%q`", ExportedName(name), typ, tag))
	}
	return lines, nil
}

// pointerize decides whether a field type needs indirection: optional or
// nullable scalars and structs take a pointer, while slices, maps, and any
// already have a usable zero value. References into a cycle always take a
// pointer so the struct remains representable.
func (tw *typeWriter) pointerize(typ string, prop *ir.CastrSchema, required, nullable bool) string {
	if typ == "any" || strings.HasPrefix(typ, "[]") || strings.HasPrefix(typ, "map[") {
		return typ
	}
	if prop != nil && prop.Kind() == ir.KindReference {
		if name, ok := parser.SchemaNameFromRef(prop.Ref); ok && tw.circular[name] {
			return "*" + typ
		}
	}
	if !required || nullable {
		return "*" + typ
	}
	return typ
}

func enumType(s *ir.CastrSchema) string {
	values := s.Enum
	if s.Const != nil {
		values = []any{s.Const}
	}
	allStrings := len(values) > 0
	for _, v := range values {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		return "string"
	}
	return "any"
}

func primitiveType(s *ir.CastrSchema) string {
	name, ok := s.Type.Single()
	if !ok {
		return "any"
	}
	switch name {
	case "string":
		if s.Format == "date-time" || s.Format == "date" {
			return "time.Time"
		}
		return "string"
	case "integer":
		if s.Format == "int32" {
			return "int32"
		}
		return "int64"
	case "number":
		if s.Format == "float" {
			return "float32"
		}
		return "float64"
	case "boolean":
		return "bool"
	default:
		return "any"
	}
}
