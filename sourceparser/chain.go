package sourceparser

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/internal/orderedmap"
	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

// chainParser converts one declaration's initializer expression into an IR
// schema. It is stateful only for error reporting.
type chainParser struct {
	fset *token.FileSet
	// pkgName is the local identifier the valid package is imported as.
	pkgName string
	// decl is the declaration under parse, for error context.
	decl string
	// declared holds the names of every top-level DSL declaration in the
	// file, so bare identifiers can be recognized as schema references.
	declared map[string]bool
	// registered maps declaration identifiers to the raw component names from
	// the init Register calls, so refs use source-document names.
	registered map[string]string
}

// parseExpr converts an initializer expression to an IR schema.
func (cp *chainParser) parseExpr(expr ast.Expr) (*ir.CastrSchema, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		// A bare identifier names another declaration in this file; it
		// round-trips as a component reference under the name the declaration
		// was registered with, falling back to the identifier itself.
		if cp.declared[e.Name] {
			name := e.Name
			if raw, ok := cp.registered[e.Name]; ok {
				name = raw
			}
			return refSchema(name), nil
		}
		return nil, cp.errorf(e.Pos(), CodeUnknownIdentifier,
			"identifier %q does not name a schema declaration in this file", e.Name)

	case *ast.CallExpr:
		return cp.parseCall(e)

	case *ast.ParenExpr:
		return cp.parseExpr(e.X)

	case *ast.SelectorExpr:
		return nil, cp.errorf(e.Pos(), CodeForeignReference,
			"selector %s is not rooted in the validation package", exprString(e))
	}
	return nil, cp.errorf(expr.Pos(), CodeUnrecognizedConstruct,
		"expression %T is not part of the validation DSL", expr)
}

func (cp *chainParser) parseCall(call *ast.CallExpr) (*ir.CastrSchema, error) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil, cp.errorf(call.Pos(), CodeUnrecognizedConstruct,
			"call %s is not part of the validation DSL", exprString(call.Fun))
	}

	// Constructor: the receiver is the package identifier bound to the valid
	// import. Matching happens on the resolved import binding, never on the
	// literal name "valid".
	if pkg, ok := sel.X.(*ast.Ident); ok && pkg.Name == cp.pkgName && pkg.Obj == nil {
		return cp.parseConstructor(sel.Sel.Name, call)
	}

	// Method call: parse the receiver chain first, then apply.
	base, err := cp.parseExpr(sel.X)
	if err != nil {
		return nil, err
	}
	return cp.applyMethod(base, sel.Sel.Name, call)
}

func (cp *chainParser) parseConstructor(name string, call *ast.CallExpr) (*ir.CastrSchema, error) {
	switch name {
	case "String":
		return typed("string"), nil
	case "Number":
		return typed("number"), nil
	case "Integer":
		return typed("integer"), nil
	case "Boolean":
		return typed("boolean"), nil
	case "Null":
		return typed("null"), nil
	case "Unknown":
		return &ir.CastrSchema{}, nil
	case "Never":
		// The writer renders an empty union as Never; the reverse holds.
		return &ir.CastrSchema{OneOf: []*ir.CastrSchema{}}, nil

	case "Literal":
		if len(call.Args) != 1 {
			return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "Literal takes exactly one value")
		}
		value, err := cp.literalValue(call.Args[0])
		if err != nil {
			return nil, err
		}
		return &ir.CastrSchema{Const: value}, nil

	case "Enum":
		values := make([]any, 0, len(call.Args))
		for _, arg := range call.Args {
			value, err := cp.literalValue(arg)
			if err != nil {
				return nil, err
			}
			if _, ok := value.(string); !ok {
				return nil, cp.errorf(arg.Pos(), CodeUnsupportedArgument, "Enum values must be strings")
			}
			values = append(values, value)
		}
		s := typed("string")
		s.Enum = values
		return s, nil

	case "Array":
		s := typed("array")
		if len(call.Args) == 1 {
			if ident, ok := call.Args[0].(*ast.Ident); ok && ident.Name == "nil" {
				return s, nil
			}
			item, err := cp.parseExpr(call.Args[0])
			if err != nil {
				return nil, err
			}
			if item.Kind() != ir.KindEmpty {
				s.Items = item
			}
			return s, nil
		}
		return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "Array takes exactly one item schema")

	case "Tuple":
		s := typed("array")
		s.TupleItems = make([]*ir.CastrSchema, 0, len(call.Args))
		for _, arg := range call.Args {
			item, err := cp.parseExpr(arg)
			if err != nil {
				return nil, err
			}
			s.TupleItems = append(s.TupleItems, item)
		}
		return s, nil

	case "Object":
		return cp.parseObject(call)

	case "Record":
		if len(call.Args) != 1 {
			return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "Record takes exactly one value schema")
		}
		value, err := cp.parseExpr(call.Args[0])
		if err != nil {
			return nil, err
		}
		s := typed("object")
		s.AdditionalProperties = &ir.AdditionalProperties{Schema: value}
		return s, nil

	case "AnyOf":
		members, err := cp.parseMembers(call.Args)
		if err != nil {
			return nil, err
		}
		return &ir.CastrSchema{AnyOf: members}, nil

	case "XOr":
		members, err := cp.parseMembers(call.Args)
		if err != nil {
			return nil, err
		}
		return &ir.CastrSchema{OneOf: members}, nil

	case "DiscriminatedUnion":
		if len(call.Args) < 1 {
			return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "DiscriminatedUnion requires a key")
		}
		key, err := cp.stringValue(call.Args[0])
		if err != nil {
			return nil, err
		}
		members, err := cp.parseMembers(call.Args[1:])
		if err != nil {
			return nil, err
		}
		return &ir.CastrSchema{
			OneOf:         members,
			Discriminator: &parser.Discriminator{PropertyName: key},
		}, nil

	case "Intersect":
		members, err := cp.parseMembers(call.Args)
		if err != nil {
			return nil, err
		}
		return &ir.CastrSchema{AllOf: members}, nil

	case "Ref":
		if len(call.Args) != 1 {
			return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "Ref takes exactly one name")
		}
		name, err := cp.stringValue(call.Args[0])
		if err != nil {
			return nil, err
		}
		return refSchema(name), nil

	case "Lazy":
		return cp.parseLazy(call)
	}

	return nil, cp.errorf(call.Pos(), CodeUnrecognizedConstruct,
		"unrecognized constructor %s.%s", cp.pkgName, name)
}

func (cp *chainParser) parseObject(call *ast.CallExpr) (*ir.CastrSchema, error) {
	s := typed("object")
	s.Properties = orderedmap.New[*ir.CastrSchema]()

	for _, arg := range call.Args {
		fieldCall, ok := arg.(*ast.CallExpr)
		if !ok {
			return nil, cp.errorf(arg.Pos(), CodeUnsupportedArgument, "Object arguments must be Field calls")
		}
		fieldSel, ok := fieldCall.Fun.(*ast.SelectorExpr)
		if !ok || fieldSel.Sel.Name != "Field" {
			return nil, cp.errorf(arg.Pos(), CodeUnsupportedArgument, "Object arguments must be Field calls")
		}
		if pkg, ok := fieldSel.X.(*ast.Ident); !ok || pkg.Name != cp.pkgName {
			return nil, cp.errorf(arg.Pos(), CodeForeignReference, "Field must come from the validation package")
		}
		if len(fieldCall.Args) != 2 {
			return nil, cp.errorf(arg.Pos(), CodeUnsupportedArgument, "Field takes a name and a schema")
		}

		name, err := cp.stringValue(fieldCall.Args[0])
		if err != nil {
			return nil, err
		}
		prop, err := cp.parseExpr(fieldCall.Args[1])
		if err != nil {
			return nil, err
		}

		required := prop.Metadata == nil || prop.Metadata.Required
		if required {
			s.Required = append(s.Required, name)
		}
		if prop.Metadata == nil {
			prop.Metadata = metadata(required, false)
		}
		s.Properties.Set(name, prop)
	}
	return s, nil
}

// parseLazy accepts the generated shape Lazy(func() *valid.Schema { return X })
// and parses X in place.
func (cp *chainParser) parseLazy(call *ast.CallExpr) (*ir.CastrSchema, error) {
	if len(call.Args) != 1 {
		return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "Lazy takes exactly one function")
	}
	fn, ok := call.Args[0].(*ast.FuncLit)
	if !ok {
		return nil, cp.errorf(call.Args[0].Pos(), CodeUnsupportedArgument, "Lazy argument must be a function literal")
	}
	if len(fn.Body.List) != 1 {
		return nil, cp.errorf(fn.Pos(), CodeUnsupportedArgument, "Lazy function must be a single return statement")
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return nil, cp.errorf(fn.Pos(), CodeUnsupportedArgument, "Lazy function must be a single return statement")
	}
	return cp.parseExpr(ret.Results[0])
}

func (cp *chainParser) parseMembers(args []ast.Expr) ([]*ir.CastrSchema, error) {
	members := make([]*ir.CastrSchema, 0, len(args))
	for _, arg := range args {
		member, err := cp.parseExpr(arg)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, nil
}

// applyMethod folds one chain call into the schema. Min/Max/Length map to
// different IR fields depending on the base shape, mirroring how the valid
// runtime interprets them.
func (cp *chainParser) applyMethod(s *ir.CastrSchema, name string, call *ast.CallExpr) (*ir.CastrSchema, error) {
	record := func() {
		if s.Metadata == nil {
			s.Metadata = metadata(true, false)
		}
		s.Metadata.Chain.Validations = append(s.Metadata.Chain.Validations, name)
	}

	switch name {
	case "And":
		if len(call.Args) != 1 {
			return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "And takes exactly one schema")
		}
		other, err := cp.parseExpr(call.Args[0])
		if err != nil {
			return nil, err
		}
		if s.Kind() == ir.KindAllOf {
			s.AllOf = append(s.AllOf, other)
			return s, nil
		}
		return &ir.CastrSchema{AllOf: []*ir.CastrSchema{s, other}}, nil

	case "Min":
		n, err := cp.floatValue(call)
		if err != nil {
			return nil, err
		}
		record()
		cp.applyBound(s, n, false)
		return s, nil

	case "Max":
		n, err := cp.floatValue(call)
		if err != nil {
			return nil, err
		}
		record()
		cp.applyBound(s, n, true)
		return s, nil

	case "ExclusiveMin":
		n, err := cp.floatValue(call)
		if err != nil {
			return nil, err
		}
		record()
		s.ExclusiveMinimum = &parser.Exclusive{Value: &n}
		return s, nil

	case "ExclusiveMax":
		n, err := cp.floatValue(call)
		if err != nil {
			return nil, err
		}
		record()
		s.ExclusiveMaximum = &parser.Exclusive{Value: &n}
		return s, nil

	case "MultipleOf":
		n, err := cp.floatValue(call)
		if err != nil {
			return nil, err
		}
		record()
		s.MultipleOf = &n
		return s, nil

	case "Length":
		n, err := cp.intValue(call)
		if err != nil {
			return nil, err
		}
		record()
		if s.Type.Contains("string") {
			s.MinLength, s.MaxLength = intPtr(n), intPtr(n)
		} else {
			s.MinItems, s.MaxItems = intPtr(n), intPtr(n)
		}
		return s, nil

	case "Pattern":
		text, err := cp.singleString(call)
		if err != nil {
			return nil, err
		}
		record()
		s.Pattern = text
		return s, nil

	case "Format":
		text, err := cp.singleString(call)
		if err != nil {
			return nil, err
		}
		record()
		s.Format = text
		return s, nil

	case "UniqueItems":
		record()
		s.UniqueItems = true
		return s, nil

	case "Strict":
		f := false
		s.AdditionalProperties = &ir.AdditionalProperties{Bool: &f}
		return s, nil

	case "Passthrough":
		s.AdditionalProperties = nil
		return s, nil

	case "Catchall":
		if len(call.Args) != 1 {
			return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "Catchall takes exactly one schema")
		}
		extra, err := cp.parseExpr(call.Args[0])
		if err != nil {
			return nil, err
		}
		s.AdditionalProperties = &ir.AdditionalProperties{Schema: extra}
		return s, nil

	case "Optional":
		if s.Metadata == nil {
			s.Metadata = metadata(false, false)
		} else {
			s.Metadata.Required = false
			s.Metadata.Chain.Presence = "optional"
		}
		return s, nil

	case "Nullable":
		if s.Metadata == nil {
			s.Metadata = metadata(true, true)
		} else {
			s.Metadata.Nullable = true
		}
		return s, nil

	case "Default":
		value, err := cp.singleValue(call)
		if err != nil {
			return nil, err
		}
		s.Default = value
		if s.Metadata == nil {
			s.Metadata = metadata(true, false)
		}
		s.Metadata.Chain.Defaults = append(s.Metadata.Chain.Defaults, value)
		return s, nil

	case "Describe":
		text, err := cp.singleString(call)
		if err != nil {
			return nil, err
		}
		s.Description = text
		return s, nil

	case "Title":
		text, err := cp.singleString(call)
		if err != nil {
			return nil, err
		}
		s.Title = text
		return s, nil

	case "Deprecated":
		s.Deprecated = true
		return s, nil

	case "ReadOnly":
		s.ReadOnly = true
		return s, nil

	case "WriteOnly":
		s.WriteOnly = true
		return s, nil

	case "Example":
		value, err := cp.singleValue(call)
		if err != nil {
			return nil, err
		}
		s.Example = value
		return s, nil

	case "Refine":
		// Recognized runtime construct, but the check is an arbitrary Go
		// function with no IR representation.
		return nil, cp.errorf(call.Pos(), CodeUnsupportedConstruct,
			".Refine() checks are Go functions and cannot be recovered into the IR")
	}

	return nil, cp.errorf(call.Pos(), CodeUnrecognizedCall, "unrecognized chain call .%s()", name)
}

// applyBound routes Min/Max to the field matching the base shape: character
// length for strings, element count for arrays, property count for objects,
// numeric bound otherwise.
func (cp *chainParser) applyBound(s *ir.CastrSchema, n float64, isMax bool) {
	switch {
	case s.Type.Contains("string"):
		if isMax {
			s.MaxLength = intPtr(int(n))
		} else {
			s.MinLength = intPtr(int(n))
		}
	case s.Type.Contains("array"):
		if isMax {
			s.MaxItems = intPtr(int(n))
		} else {
			s.MinItems = intPtr(int(n))
		}
	case s.Type.Contains("object"):
		if isMax {
			s.MaxProperties = intPtr(int(n))
		} else {
			s.MinProperties = intPtr(int(n))
		}
	default:
		if isMax {
			s.Maximum = &n
		} else {
			s.Minimum = &n
		}
	}
}

func (cp *chainParser) floatValue(call *ast.CallExpr) (float64, error) {
	value, err := cp.singleValue(call)
	if err != nil {
		return 0, err
	}
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, cp.errorf(call.Pos(), CodeUnsupportedArgument, "argument must be numeric")
}

func (cp *chainParser) intValue(call *ast.CallExpr) (int, error) {
	value, err := cp.singleValue(call)
	if err != nil {
		return 0, err
	}
	if n, ok := value.(int); ok {
		return n, nil
	}
	return 0, cp.errorf(call.Pos(), CodeUnsupportedArgument, "argument must be an integer")
}

func (cp *chainParser) singleString(call *ast.CallExpr) (string, error) {
	value, err := cp.singleValue(call)
	if err != nil {
		return "", err
	}
	if text, ok := value.(string); ok {
		return text, nil
	}
	return "", cp.errorf(call.Pos(), CodeUnsupportedArgument, "argument must be a string literal")
}

func (cp *chainParser) singleValue(call *ast.CallExpr) (any, error) {
	if len(call.Args) != 1 {
		return nil, cp.errorf(call.Pos(), CodeUnsupportedArgument, "call takes exactly one argument")
	}
	return cp.literalValue(call.Args[0])
}

func (cp *chainParser) stringValue(expr ast.Expr) (string, error) {
	value, err := cp.literalValue(expr)
	if err != nil {
		return "", err
	}
	if text, ok := value.(string); ok {
		return text, nil
	}
	return "", cp.errorf(expr.Pos(), CodeUnsupportedArgument, "argument must be a string literal")
}

// literalValue evaluates the literal expressions the writer can emit:
// scalars, negated numbers, []any and map[string]any composites.
func (cp *chainParser) literalValue(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.STRING:
			return strconv.Unquote(e.Value)
		case token.INT:
			n, err := strconv.Atoi(e.Value)
			if err != nil {
				return nil, cp.errorf(e.Pos(), CodeUnsupportedArgument, "invalid integer literal %s", e.Value)
			}
			return n, nil
		case token.FLOAT:
			f, err := strconv.ParseFloat(e.Value, 64)
			if err != nil {
				return nil, cp.errorf(e.Pos(), CodeUnsupportedArgument, "invalid float literal %s", e.Value)
			}
			return f, nil
		}

	case *ast.Ident:
		switch e.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		}

	case *ast.UnaryExpr:
		if e.Op == token.SUB {
			inner, err := cp.literalValue(e.X)
			if err != nil {
				return nil, err
			}
			switch v := inner.(type) {
			case int:
				return -v, nil
			case float64:
				return -v, nil
			}
		}

	case *ast.CompositeLit:
		return cp.compositeValue(e)
	}

	return nil, cp.errorf(expr.Pos(), CodeUnsupportedArgument,
		"expression %s is not a supported literal", exprString(expr))
}

func (cp *chainParser) compositeValue(lit *ast.CompositeLit) (any, error) {
	switch t := lit.Type.(type) {
	case *ast.ArrayType:
		out := make([]any, 0, len(lit.Elts))
		for _, elt := range lit.Elts {
			v, err := cp.literalValue(elt)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *ast.MapType:
		out := make(map[string]any, len(lit.Elts))
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				return nil, cp.errorf(elt.Pos(), CodeUnsupportedArgument, "map literal entries must be key: value")
			}
			key, err := cp.stringValue(kv.Key)
			if err != nil {
				return nil, err
			}
			value, err := cp.literalValue(kv.Value)
			if err != nil {
				return nil, err
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, cp.errorf(lit.Pos(), CodeUnsupportedArgument,
			"composite literal %s is not supported", exprString(t))
	}
}

func (cp *chainParser) errorf(pos token.Pos, code, format string, args ...any) error {
	position := cp.fset.Position(pos)
	return &castrerrors.SourceParseError{
		Code:    code,
		Decl:    cp.decl,
		Message: fmt.Sprintf(format, args...),
		Line:    position.Line,
		Column:  position.Column,
	}
}

func typed(name string) *ir.CastrSchema {
	return &ir.CastrSchema{Type: parser.TypeSet{name}}
}

func refSchema(name string) *ir.CastrSchema {
	return &ir.CastrSchema{Ref: "#/components/schemas/" + name}
}

func metadata(required, nullable bool) *ir.SchemaNode {
	presence := "optional"
	if required {
		presence = "required"
	}
	return &ir.SchemaNode{
		Required: required,
		Nullable: nullable,
		Chain:    ir.ValidationChain{Presence: presence},
	}
}

func intPtr(n int) *int { return &n }
