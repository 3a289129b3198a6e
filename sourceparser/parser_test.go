package sourceparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrhq/castr/ir"
	"github.com/castrhq/castr/parser"
)

func srcFile(body string) []byte {
	return []byte("package schemas\n\nimport \"github.com/castrhq/castr/valid\"\n\n" + body)
}

// parseOne parses a file with a single schema declaration and returns it.
func parseOne(t *testing.T, expr string) *ir.CastrSchema {
	t.Helper()
	result, err := Parse(srcFile("var S = "+expr+"\n"), "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Document.Components, 1)
	return result.Document.Components[0].Schema
}

func TestParsePrimitives(t *testing.T) {
	tests := []struct {
		name string
		expr string
		typ  string
	}{
		{"string", "valid.String()", "string"},
		{"number", "valid.Number()", "number"},
		{"integer", "valid.Integer()", "integer"},
		{"boolean", "valid.Boolean()", "boolean"},
		{"null", "valid.Null()", "null"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := parseOne(t, tc.expr)
			assert.Equal(t, parser.TypeSet{tc.typ}, s.Type)
		})
	}

	t.Run("unknown is empty", func(t *testing.T) {
		s := parseOne(t, "valid.Unknown()")
		assert.Equal(t, ir.KindEmpty, s.Kind())
	})

	t.Run("never is the empty union", func(t *testing.T) {
		s := parseOne(t, "valid.Never()")
		require.NotNil(t, s.OneOf)
		assert.Empty(t, s.OneOf)
	})
}

func TestParseStringConstraints(t *testing.T) {
	s := parseOne(t, `valid.String().Min(2).Max(5).Pattern("^a").Format("email")`)
	require.NotNil(t, s.MinLength)
	assert.Equal(t, 2, *s.MinLength)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, 5, *s.MaxLength)
	assert.Equal(t, "^a", s.Pattern)
	assert.Equal(t, "email", s.Format)
	assert.Equal(t, []string{"Min", "Max", "Pattern", "Format"}, s.Metadata.Chain.Validations)
}

func TestParseNumericBounds(t *testing.T) {
	s := parseOne(t, "valid.Integer().ExclusiveMin(0).Max(10).MultipleOf(2)")
	require.NotNil(t, s.ExclusiveMinimum)
	assert.Equal(t, 0.0, *s.ExclusiveMinimum.Value)
	require.NotNil(t, s.Maximum)
	assert.Equal(t, 10.0, *s.Maximum)
	require.NotNil(t, s.MultipleOf)
	assert.Equal(t, 2.0, *s.MultipleOf)
}

func TestParsePresenceAndDefaults(t *testing.T) {
	s := parseOne(t, `valid.String().Optional().Nullable().Default("none").Describe("a label")`)
	require.NotNil(t, s.Metadata)
	assert.False(t, s.Metadata.Required)
	assert.Equal(t, "optional", s.Metadata.Chain.Presence)
	assert.True(t, s.Metadata.Nullable)
	assert.Equal(t, "none", s.Default)
	assert.Equal(t, []any{"none"}, s.Metadata.Chain.Defaults)
	assert.Equal(t, "a label", s.Description)
}

func TestParseArraysAndTuples(t *testing.T) {
	s := parseOne(t, "valid.Array(valid.String()).Min(1).Max(4).UniqueItems()")
	assert.Equal(t, ir.KindArray, s.Kind())
	require.NotNil(t, s.Items)
	assert.Equal(t, parser.TypeSet{"string"}, s.Items.Type)
	assert.Equal(t, 1, *s.MinItems)
	assert.Equal(t, 4, *s.MaxItems)
	assert.True(t, s.UniqueItems)

	tuple := parseOne(t, "valid.Tuple(valid.String(), valid.Integer())")
	require.Len(t, tuple.TupleItems, 2)

	length := parseOne(t, "valid.Array(valid.Integer()).Length(3)")
	assert.Equal(t, 3, *length.MinItems)
	assert.Equal(t, 3, *length.MaxItems)
}

func TestParseObject(t *testing.T) {
	s := parseOne(t, `valid.Object(
	valid.Field("id", valid.Integer()),
	valid.Field("name", valid.String().Optional()),
).Strict()`)

	assert.Equal(t, ir.KindObject, s.Kind())
	assert.Equal(t, []string{"id", "name"}, s.Properties.Keys())
	assert.Equal(t, []string{"id"}, s.Required)

	name, _ := s.Properties.Get("name")
	require.NotNil(t, name.Metadata)
	assert.False(t, name.Metadata.Required)

	require.NotNil(t, s.AdditionalProperties)
	require.NotNil(t, s.AdditionalProperties.Bool)
	assert.False(t, *s.AdditionalProperties.Bool)
}

func TestParseRecordAndCatchall(t *testing.T) {
	record := parseOne(t, "valid.Record(valid.Integer()).Min(1)")
	require.NotNil(t, record.AdditionalProperties)
	require.NotNil(t, record.AdditionalProperties.Schema)
	assert.Equal(t, 1, *record.MinProperties)

	catchall := parseOne(t, `valid.Object(valid.Field("id", valid.Integer())).Catchall(valid.String())`)
	require.NotNil(t, catchall.AdditionalProperties)
	require.NotNil(t, catchall.AdditionalProperties.Schema)
	assert.Equal(t, parser.TypeSet{"string"}, catchall.AdditionalProperties.Schema.Type)
}

func TestParseEnumsAndLiterals(t *testing.T) {
	enum := parseOne(t, `valid.Enum("available", "sold")`)
	assert.Equal(t, []any{"available", "sold"}, enum.Enum)
	assert.Equal(t, parser.TypeSet{"string"}, enum.Type)

	lit := parseOne(t, "valid.Literal(42)")
	assert.Equal(t, 42, lit.Const)

	neg := parseOne(t, "valid.Literal(-1.5)")
	assert.Equal(t, -1.5, neg.Const)
}

func TestParseCompositions(t *testing.T) {
	folded := parseOne(t, "valid.String().And(valid.Integer()).And(valid.Boolean())")
	require.Len(t, folded.AllOf, 3)
	assert.Equal(t, ir.KindAllOf, folded.Kind())

	intersect := parseOne(t, "valid.Intersect(valid.String(), valid.Integer())")
	require.Len(t, intersect.AllOf, 2)

	xor := parseOne(t, "valid.XOr(valid.String(), valid.Integer())")
	require.Len(t, xor.OneOf, 2)
	assert.Nil(t, xor.Discriminator)

	anyOf := parseOne(t, "valid.AnyOf(valid.String(), valid.Integer())")
	require.Len(t, anyOf.AnyOf, 2)

	union := parseOne(t, `valid.DiscriminatedUnion("petType", valid.Object(valid.Field("petType", valid.Literal("cat"))))`)
	require.NotNil(t, union.Discriminator)
	assert.Equal(t, "petType", union.Discriminator.PropertyName)
	require.Len(t, union.OneOf, 1)
}

func TestParseReferences(t *testing.T) {
	src := srcFile(`var Address = valid.Object(valid.Field("street", valid.String()))

var User = valid.Object(
	valid.Field("address", Address),
	valid.Field("backup", valid.Ref("Address")),
)
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Document.Components, 2)

	user := result.Document.Components[1].Schema
	address, _ := user.Properties.Get("address")
	assert.Equal(t, "#/components/schemas/Address", address.Ref)
	backup, _ := user.Properties.Get("backup")
	assert.Equal(t, "#/components/schemas/Address", backup.Ref)
}

func TestParseLazy(t *testing.T) {
	s := parseOne(t, "valid.Lazy(func() *valid.Schema { return valid.String() })")
	assert.Equal(t, parser.TypeSet{"string"}, s.Type)
}

func TestParseCircularMetadataReattached(t *testing.T) {
	src := srcFile(`var TreeNode = valid.Object(
	valid.Field("value", valid.String()),
	valid.Field("children", valid.Array(valid.Ref("TreeNode")).Optional()),
)
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	node := result.Document.Components[0].Schema
	require.NotNil(t, node.Metadata)
	assert.True(t, node.Metadata.IsCircular())
	assert.Contains(t, node.Metadata.CircularReferences, "#/components/schemas/TreeNode")
}

func TestParseRegistryNamesRecoverRawNames(t *testing.T) {
	src := srcFile(`var UserProfile = valid.Object(valid.Field("id", valid.Integer()))

func init() {
	valid.Register("user_profile", UserProfile)
}
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Len(t, result.Document.Components, 1)
	assert.Equal(t, "user_profile", result.Document.Components[0].Name)
}

func TestParseBareIdentifierResolvesThroughRegistry(t *testing.T) {
	src := srcFile(`var PetTag = valid.Object(valid.Field("label", valid.String()))

var Pet = valid.Object(valid.Field("tag", PetTag))

func init() {
	valid.Register("pet_tag", PetTag)
	valid.Register("pet", Pet)
}
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Document.Components, 2)

	assert.Equal(t, "pet_tag", result.Document.Components[0].Name)
	assert.Equal(t, "pet", result.Document.Components[1].Name)

	// The sibling reference must use the registered name, not the Go
	// identifier, or the recovered ref dangles.
	tag, _ := result.Document.Components[1].Schema.Properties.Get("tag")
	require.NotNil(t, tag)
	assert.Equal(t, "#/components/schemas/pet_tag", tag.Ref)
}

func TestParseRegisteredNamesKeepCycleMetadata(t *testing.T) {
	// A cycle closed through a bare identifier on one side and a registry
	// ref on the other: both edges must resolve to the registered names or
	// the cycle goes undetected.
	src := srcFile(`var Employee = valid.Object(
	valid.Field("employer", valid.Ref("org")),
)

var Org = valid.Object(
	valid.Field("staff", Employee),
)

func init() {
	valid.Register("employee", Employee)
	valid.Register("org", Org)
}
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Document.Components, 2)

	for _, c := range result.Document.Components {
		require.NotNil(t, c.Schema.Metadata, c.Name)
		assert.True(t, c.Schema.Metadata.IsCircular(), c.Name)
	}
}

func TestParseAliasedImport(t *testing.T) {
	src := []byte(`package schemas

import v "github.com/castrhq/castr/valid"

var S = v.String()
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Document.Components, 1)
}

func TestParseRejectsForeignValidPackage(t *testing.T) {
	src := []byte(`package schemas

import valid "example.com/other/valid"

var S = valid.String()
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeMissingImport, result.Errors[0].Code)
	assert.Empty(t, result.Document.Components)
}

func TestParseRecoversPerDeclaration(t *testing.T) {
	src := srcFile(`var Good = valid.String()

var Bad = valid.Bogus()

var AlsoGood = valid.Integer()
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)

	require.Len(t, result.Document.Components, 2)
	assert.Equal(t, "Good", result.Document.Components[0].Name)
	assert.Equal(t, "AlsoGood", result.Document.Components[1].Name)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeUnrecognizedConstruct, result.Errors[0].Code)
	assert.Equal(t, "Bad", result.Errors[0].Decl)
	assert.Positive(t, result.Errors[0].Line)
}

func TestParseUnrecognizedChainCall(t *testing.T) {
	src := srcFile("var S = valid.String().Frobnicate()\n")
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeUnrecognizedCall, result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "Frobnicate")
}

func TestParseRefineIsUnsupported(t *testing.T) {
	src := srcFile(`var S = valid.String().Refine(func(v any) error { return nil })
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeUnsupportedConstruct, result.Errors[0].Code)
	assert.Contains(t, result.Errors[0].Message, "Refine")
	assert.Equal(t, "S", result.Errors[0].Decl)
	assert.Positive(t, result.Errors[0].Line)
}

func TestParseSkipsNonDSLDeclarations(t *testing.T) {
	src := srcFile(`var answer = 42

var S = valid.String()
`)
	result, err := Parse(src, "schemas.go")
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Document.Components, 1)
	require.Len(t, result.Recommendations, 1)
	assert.Contains(t, result.Recommendations[0], "answer")
}

func TestParseInvalidGo(t *testing.T) {
	_, err := Parse([]byte("this is not go"), "schemas.go")
	require.Error(t, err)
}
