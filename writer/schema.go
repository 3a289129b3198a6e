package writer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

// WriteSchema emits the valid-DSL expression for a schema in context.
func (w *Writer) WriteSchema(ctx SchemaContext) (string, error) {
	base, err := w.writeBase(ctx)
	if err != nil {
		return "", err
	}
	return base + w.writeModifiers(ctx), nil
}

// writeBase emits the construct and its shape-specific constraint calls,
// without presence or presentation modifiers.
func (w *Writer) writeBase(ctx SchemaContext) (string, error) {
	s := ctx.Schema
	if s == nil {
		return "valid.Unknown()", nil
	}

	switch s.Kind() {
	case ir.KindReference:
		return w.writeReference(ctx)
	case ir.KindAllOf:
		return w.writeAllOf(ctx)
	case ir.KindOneOf:
		return w.writeOneOf(ctx)
	case ir.KindAnyOf:
		return w.writeAnyOf(ctx)
	case ir.KindEnum:
		return w.writeEnum(ctx)
	case ir.KindObject:
		return w.writeObject(ctx)
	case ir.KindArray:
		return w.writeArray(ctx)
	case ir.KindPrimitive:
		return w.writePrimitive(ctx)
	case ir.KindEmpty:
		// A genuinely empty schema is valid OAS 3.1 and deliberately emits
		// the accept-anything construct; this is not the fail-fast case.
		return "valid.Unknown()", nil
	}
	return "", w.emitErr(ctx, "unrecognized schema shape")
}

func (w *Writer) writeReference(ctx SchemaContext) (string, error) {
	name, ok := parser.SchemaNameFromRef(ctx.Schema.Ref)
	if !ok {
		return "", w.emitErr(ctx, fmt.Sprintf("reference %q is not a schema ref", ctx.Schema.Ref))
	}
	// Cycle participants cannot be referenced as plain identifiers: eager
	// package-level initialization would recurse at init time. The registry
	// defers resolution to validation time.
	if ctx.CircularNames[name] {
		return fmt.Sprintf("valid.Ref(%q)", name), nil
	}
	return ExportedName(name), nil
}

func (w *Writer) writeAllOf(ctx SchemaContext) (string, error) {
	members := ctx.Schema.AllOf
	switch len(members) {
	case 0:
		// An empty intersection is vacuously anything.
		return "valid.Unknown()", nil
	case 1:
		return w.WriteSchema(ctx.child(ContextCompositionMember, members[0], "allOf[0]"))
	}
	exprs, err := w.writeMembers(ctx, members, "allOf")
	if err != nil {
		return "", err
	}
	// Left fold: a.And(b).And(c).
	out := exprs[0]
	for _, expr := range exprs[1:] {
		out += ".And(" + expr + ")"
	}
	return out, nil
}

func (w *Writer) writeOneOf(ctx SchemaContext) (string, error) {
	members := ctx.Schema.OneOf
	switch len(members) {
	case 0:
		// An empty union matches nothing.
		return "valid.Never()", nil
	case 1:
		return w.WriteSchema(ctx.child(ContextCompositionMember, members[0], "oneOf[0]"))
	}
	exprs, err := w.writeMembers(ctx, members, "oneOf")
	if err != nil {
		return "", err
	}
	if d := ctx.Schema.Discriminator; d != nil && d.PropertyName != "" {
		return fmt.Sprintf("valid.DiscriminatedUnion(%q, %s)",
			d.PropertyName, strings.Join(exprs, ", ")), nil
	}
	// Exactly one branch must validate; "any branch" is anyOf's semantics.
	return "valid.XOr(" + strings.Join(exprs, ", ") + ")", nil
}

func (w *Writer) writeAnyOf(ctx SchemaContext) (string, error) {
	members := ctx.Schema.AnyOf
	switch len(members) {
	case 0:
		return "valid.Never()", nil
	case 1:
		return w.WriteSchema(ctx.child(ContextCompositionMember, members[0], "anyOf[0]"))
	}
	exprs, err := w.writeMembers(ctx, members, "anyOf")
	if err != nil {
		return "", err
	}
	return "valid.AnyOf(" + strings.Join(exprs, ", ") + ")", nil
}

func (w *Writer) writeMembers(ctx SchemaContext, members []*ir.CastrSchema, label string) ([]string, error) {
	var discriminatorKey string
	if d := ctx.Schema.Discriminator; d != nil {
		discriminatorKey = d.PropertyName
	}
	exprs := make([]string, 0, len(members))
	for i, member := range members {
		child := ctx.child(ContextCompositionMember, member, fmt.Sprintf("%s[%d]", label, i))
		child.DiscriminatorKey = discriminatorKey
		expr, err := w.WriteSchema(child)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func (w *Writer) writeEnum(ctx SchemaContext) (string, error) {
	s := ctx.Schema
	if s.Const != nil {
		lit, err := goValue(s.Const)
		if err != nil {
			return "", w.emitErr(ctx, err.Error())
		}
		return "valid.Literal(" + lit + ")", nil
	}
	if len(s.Enum) == 1 {
		lit, err := goValue(s.Enum[0])
		if err != nil {
			return "", w.emitErr(ctx, err.Error())
		}
		return "valid.Literal(" + lit + ")", nil
	}

	allStrings := true
	for _, v := range s.Enum {
		if _, ok := v.(string); !ok {
			allStrings = false
			break
		}
	}
	if allStrings {
		quoted := make([]string, len(s.Enum))
		for i, v := range s.Enum {
			quoted[i] = strconv.Quote(v.(string))
		}
		return "valid.Enum(" + strings.Join(quoted, ", ") + ")", nil
	}

	// Mixed-type enums become a union of per-value literal checks.
	literals := make([]string, len(s.Enum))
	for i, v := range s.Enum {
		lit, err := goValue(v)
		if err != nil {
			return "", w.emitErr(ctx, err.Error())
		}
		literals[i] = "valid.Literal(" + lit + ")"
	}
	return "valid.AnyOf(" + strings.Join(literals, ", ") + ")", nil
}

func (w *Writer) writeObject(ctx SchemaContext) (string, error) {
	s := ctx.Schema

	ap := s.AdditionalProperties
	if s.Properties.Len() == 0 && ap != nil && ap.Schema != nil {
		inner, err := w.WriteSchema(ctx.child(ContextProperty, ap.Schema, "additionalProperties"))
		if err != nil {
			return "", err
		}
		return "valid.Record(" + inner + ")" + w.writeObjectCountConstraints(s), nil
	}

	requiredSet := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		requiredSet[name] = true
	}

	// Sorted rather than insertion order, so output stays diff-stable
	// across regenerations.
	names := s.Properties.Keys()
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		prop, _ := s.Properties.Get(name)
		child := ctx.child(ContextProperty, prop, "properties."+name)
		child.PropertyName = name
		child.Required = requiredSet[name] || (prop.Metadata != nil && prop.Metadata.Required)
		expr, err := w.WriteSchema(child)
		if err != nil {
			return "", err
		}
		fields = append(fields, fmt.Sprintf("valid.Field(%q, %s)", name, expr))
	}

	var sb strings.Builder
	sb.WriteString("valid.Object(")
	if len(fields) > 0 {
		sb.WriteString("\n\t" + strings.Join(fields, ",\n\t") + ",\n")
	}
	sb.WriteString(")")

	switch {
	case ap != nil && ap.Bool != nil && !*ap.Bool:
		sb.WriteString(".Strict()")
	case w.strictObjects && (ap == nil || ap.Bool == nil || !*ap.Bool):
		// Strict-objects mode closes everything not explicitly opened.
		sb.WriteString(".Strict()")
	case ap != nil && ap.Schema != nil:
		inner, err := w.WriteSchema(ctx.child(ContextProperty, ap.Schema, "additionalProperties"))
		if err != nil {
			return "", err
		}
		sb.WriteString(".Catchall(" + inner + ")")
	}

	sb.WriteString(w.writeObjectCountConstraints(s))
	return sb.String(), nil
}

func (w *Writer) writeObjectCountConstraints(s *ir.CastrSchema) string {
	var sb strings.Builder
	if s.MinProperties != nil {
		fmt.Fprintf(&sb, ".Min(%d)", *s.MinProperties)
	}
	if s.MaxProperties != nil {
		fmt.Fprintf(&sb, ".Max(%d)", *s.MaxProperties)
	}
	return sb.String()
}

func (w *Writer) writeArray(ctx SchemaContext) (string, error) {
	s := ctx.Schema

	var sb strings.Builder
	if len(s.TupleItems) > 0 {
		exprs := make([]string, 0, len(s.TupleItems))
		for i, item := range s.TupleItems {
			expr, err := w.WriteSchema(ctx.child(ContextArrayItems, item, fmt.Sprintf("items[%d]", i)))
			if err != nil {
				return "", err
			}
			exprs = append(exprs, expr)
		}
		sb.WriteString("valid.Tuple(" + strings.Join(exprs, ", ") + ")")
	} else if s.Items != nil {
		inner, err := w.WriteSchema(ctx.child(ContextArrayItems, s.Items, "items"))
		if err != nil {
			return "", err
		}
		sb.WriteString("valid.Array(" + inner + ")")
	} else {
		sb.WriteString("valid.Array(valid.Unknown())")
	}

	switch {
	case s.MinItems != nil && s.MaxItems != nil && *s.MinItems == *s.MaxItems:
		fmt.Fprintf(&sb, ".Length(%d)", *s.MinItems)
	default:
		if s.MinItems != nil {
			fmt.Fprintf(&sb, ".Min(%d)", *s.MinItems)
		}
		if s.MaxItems != nil {
			fmt.Fprintf(&sb, ".Max(%d)", *s.MaxItems)
		}
	}
	if s.UniqueItems {
		sb.WriteString(".UniqueItems()")
	}
	return sb.String(), nil
}

func (w *Writer) writePrimitive(ctx SchemaContext) (string, error) {
	s := ctx.Schema
	name, _ := s.Type.Single()
	if name == "" {
		if s.Type.HasNull() && len(s.Type) == 1 {
			return "valid.Null()", nil
		}
		return w.writeTypeUnion(ctx)
	}

	switch name {
	case "string":
		var sb strings.Builder
		sb.WriteString("valid.String()")
		if s.MinLength != nil {
			fmt.Fprintf(&sb, ".Min(%d)", *s.MinLength)
		}
		if s.MaxLength != nil {
			fmt.Fprintf(&sb, ".Max(%d)", *s.MaxLength)
		}
		if s.Pattern != "" {
			fmt.Fprintf(&sb, ".Pattern(%q)", s.Pattern)
		}
		if s.Format != "" {
			fmt.Fprintf(&sb, ".Format(%q)", s.Format)
		}
		return sb.String(), nil
	case "number", "integer":
		var sb strings.Builder
		if name == "integer" {
			sb.WriteString("valid.Integer()")
		} else {
			sb.WriteString("valid.Number()")
		}
		sb.WriteString(w.writeNumericBounds(s))
		return sb.String(), nil
	case "boolean":
		return "valid.Boolean()", nil
	case "null":
		return "valid.Null()", nil
	}
	// A corrupted type matching no known shape must fail, never degrade to
	// an accept-anything schema.
	return "", w.emitErr(ctx, fmt.Sprintf("unknown type %q", name))
}

// writeTypeUnion handles multi-type sets like ["string","integer"], emitted
// as an inclusive union of the per-type schemas.
func (w *Writer) writeTypeUnion(ctx SchemaContext) (string, error) {
	var exprs []string
	for _, name := range ctx.Schema.Type {
		if name == "null" {
			continue
		}
		single := *ctx.Schema
		single.Type = parser.TypeSet{name}
		child := ctx
		child.Schema = &single
		expr, err := w.writePrimitive(child)
		if err != nil {
			return "", err
		}
		exprs = append(exprs, expr)
	}
	switch len(exprs) {
	case 0:
		return "", w.emitErr(ctx, "type set contains no usable type")
	case 1:
		return exprs[0], nil
	}
	return "valid.AnyOf(" + strings.Join(exprs, ", ") + ")", nil
}

// writeNumericBounds renders minimum/maximum with both OAS 3.0 boolean-flag
// and OAS 3.1 standalone-value exclusive styles.
func (w *Writer) writeNumericBounds(s *ir.CastrSchema) string {
	var sb strings.Builder
	switch {
	case s.ExclusiveMinimum != nil && s.ExclusiveMinimum.Value != nil:
		fmt.Fprintf(&sb, ".ExclusiveMin(%s)", formatFloat(*s.ExclusiveMinimum.Value))
	case s.Minimum != nil && s.ExclusiveMinimum != nil && s.ExclusiveMinimum.Bool != nil && *s.ExclusiveMinimum.Bool:
		fmt.Fprintf(&sb, ".ExclusiveMin(%s)", formatFloat(*s.Minimum))
	case s.Minimum != nil:
		fmt.Fprintf(&sb, ".Min(%s)", formatFloat(*s.Minimum))
	}
	switch {
	case s.ExclusiveMaximum != nil && s.ExclusiveMaximum.Value != nil:
		fmt.Fprintf(&sb, ".ExclusiveMax(%s)", formatFloat(*s.ExclusiveMaximum.Value))
	case s.Maximum != nil && s.ExclusiveMaximum != nil && s.ExclusiveMaximum.Bool != nil && *s.ExclusiveMaximum.Bool:
		fmt.Fprintf(&sb, ".ExclusiveMax(%s)", formatFloat(*s.Maximum))
	case s.Maximum != nil:
		fmt.Fprintf(&sb, ".Max(%s)", formatFloat(*s.Maximum))
	}
	if s.MultipleOf != nil {
		fmt.Fprintf(&sb, ".MultipleOf(%s)", formatFloat(*s.MultipleOf))
	}
	return sb.String()
}

// writeModifiers appends presence and presentation chain calls.
func (w *Writer) writeModifiers(ctx SchemaContext) string {
	s := ctx.Schema
	if s == nil {
		return ""
	}
	var sb strings.Builder

	switch ctx.Kind {
	case ContextProperty, ContextParameter:
		if !ctx.Required {
			sb.WriteString(".Optional()")
		}
	}
	if s.Metadata != nil && s.Metadata.Nullable {
		sb.WriteString(".Nullable()")
	}
	if s.Default != nil {
		if lit, err := goValue(s.Default); err == nil {
			sb.WriteString(".Default(" + lit + ")")
		}
	}
	if s.Description != "" {
		fmt.Fprintf(&sb, ".Describe(%q)", s.Description)
	}
	if s.Title != "" {
		fmt.Fprintf(&sb, ".Title(%q)", s.Title)
	}
	if s.Deprecated {
		sb.WriteString(".Deprecated()")
	}
	if s.ReadOnly {
		sb.WriteString(".ReadOnly()")
	}
	if s.WriteOnly {
		sb.WriteString(".WriteOnly()")
	}
	return sb.String()
}

func (w *Writer) emitErr(ctx SchemaContext, message string) error {
	return &castrerrors.EmitError{
		Component: ctx.ComponentName,
		Path:      ctx.Path,
		Message:   message,
	}
}

// goValue renders a decoded-YAML value as a Go expression.
func goValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "nil", nil
	case string:
		return strconv.Quote(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return formatFloat(val), nil
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			part, err := goValue(item)
			if err != nil {
				return "", err
			}
			parts[i] = part
		}
		return "[]any{" + strings.Join(parts, ", ") + "}", nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			part, err := goValue(val[key])
			if err != nil {
				return "", err
			}
			parts[i] = strconv.Quote(key) + ": " + part
		}
		return "map[string]any{" + strings.Join(parts, ", ") + "}", nil
	}
	return "", fmt.Errorf("cannot render %T as a Go literal", v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
