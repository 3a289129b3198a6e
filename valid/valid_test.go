package valid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveValidation(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		value   any
		wantErr bool
	}{
		{"string ok", String(), "hello", false},
		{"string type mismatch", String(), 42, true},
		{"string min length", String().Min(3), "ab", true},
		{"string max length", String().Max(3), "abcd", true},
		{"string exact length", String().Length(2), "ab", false},
		{"string exact length violated", String().Length(2), "abc", true},
		{"string pattern", String().Pattern(`^[a-z]+$`), "abc", false},
		{"string pattern violated", String().Pattern(`^[a-z]+$`), "ABC", true},
		{"number ok", Number(), 3.14, false},
		{"number from int", Number(), 3, false},
		{"number min", Number().Min(0), -1.0, true},
		{"number exclusive min", Number().ExclusiveMin(0), 0.0, true},
		{"number exclusive max", Number().ExclusiveMax(10), 10.0, true},
		{"number multipleOf", Number().MultipleOf(0.5), 2.5, false},
		{"number multipleOf violated", Number().MultipleOf(2), 3.0, true},
		{"integer ok", Integer(), 5, false},
		{"integer fraction rejected", Integer(), 5.5, true},
		{"integer from whole float", Integer(), 5.0, false},
		{"boolean ok", Boolean(), true, false},
		{"boolean mismatch", Boolean(), "true", true},
		{"null accepts nil", Null(), nil, false},
		{"null rejects value", Null(), 1, true},
		{"unknown accepts anything", Unknown(), map[string]any{"x": 1}, false},
		{"never rejects everything", Never(), "anything", true},
		{"literal match", Literal("cat"), "cat", false},
		{"literal mismatch", Literal("cat"), "dog", true},
		{"literal numeric widening", Literal(5), 5.0, false},
		{"enum match", Enum("red", "green"), "green", false},
		{"enum mismatch", Enum("red", "green"), "blue", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.NoError(t, String().Format("date-time").Validate("2026-08-27T10:00:00Z"))
	assert.Error(t, String().Format("date-time").Validate("yesterday"))
	assert.NoError(t, String().Format("date").Validate("2026-08-27"))
	assert.NoError(t, String().Format("uuid").Validate("123e4567-e89b-12d3-a456-426614174000"))
	assert.Error(t, String().Format("uuid").Validate("not-a-uuid"))
	assert.NoError(t, String().Format("email").Validate("dev@example.com"))
	assert.Error(t, String().Format("email").Validate("nope"))
	// Unrecognized formats are annotations, not constraints.
	assert.NoError(t, String().Format("hostname").Validate("anything at all"))
}

func TestNullable(t *testing.T) {
	assert.Error(t, String().Validate(nil))
	assert.NoError(t, String().Nullable().Validate(nil))
	assert.NoError(t, String().Nullable().Validate("still a string"))
	assert.Error(t, String().Nullable().Validate(7))
}

func TestArrayValidation(t *testing.T) {
	schema := Array(String()).Min(1).Max(3)

	assert.NoError(t, schema.Validate([]any{"a", "b"}))
	assert.Error(t, schema.Validate([]any{}))
	assert.Error(t, schema.Validate([]any{"a", "b", "c", "d"}))
	assert.Error(t, schema.Validate([]any{"a", 2}))
	assert.Error(t, schema.Validate("not an array"))

	assert.NoError(t, Array(Integer()).Length(2).Validate([]any{1, 2}))
	assert.Error(t, Array(Integer()).Length(2).Validate([]any{1}))

	unique := Array(Integer()).UniqueItems()
	assert.NoError(t, unique.Validate([]any{1, 2, 3}))
	assert.Error(t, unique.Validate([]any{1, 2, 1}))

	// Untyped items accept anything.
	assert.NoError(t, Array(nil).Validate([]any{1, "two", true}))
}

func TestTupleValidation(t *testing.T) {
	schema := Tuple(String(), Integer())
	assert.NoError(t, schema.Validate([]any{"x", 1}))
	assert.Error(t, schema.Validate([]any{"x"}))
	assert.Error(t, schema.Validate([]any{1, "x"}))
}

func TestObjectValidation(t *testing.T) {
	user := Object(
		Field("id", Integer()),
		Field("name", String().Min(1)),
		Field("tag", String().Optional()),
	)

	assert.NoError(t, user.Validate(map[string]any{"id": 1, "name": "Rex"}))
	assert.NoError(t, user.Validate(map[string]any{"id": 1, "name": "Rex", "tag": "good"}))

	err := user.Validate(map[string]any{"name": "Rex"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")
	assert.Contains(t, err.Error(), "missing required property")

	err = user.Validate(map[string]any{"id": 1, "name": ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestObjectModes(t *testing.T) {
	base := func() *Schema { return Object(Field("a", String())) }
	value := map[string]any{"a": "x", "extra": 1}

	assert.NoError(t, base().Passthrough().Validate(value))
	assert.NoError(t, base().Validate(value), "passthrough is the default")
	assert.Error(t, base().Strict().Validate(value))

	catchall := base().Catchall(Integer())
	assert.NoError(t, catchall.Validate(value))
	assert.Error(t, catchall.Validate(map[string]any{"a": "x", "extra": "nope"}))
}

func TestDefaultSatisfiesPresence(t *testing.T) {
	schema := Object(Field("limit", Integer().Default(20)))
	assert.NoError(t, schema.Validate(map[string]any{}))
	assert.NoError(t, schema.Validate(map[string]any{"limit": 5}))
	assert.Error(t, schema.Validate(map[string]any{"limit": "five"}))
}

func TestRecordValidation(t *testing.T) {
	schema := Record(Integer())
	assert.NoError(t, schema.Validate(map[string]any{"a": 1, "b": 2}))
	assert.Error(t, schema.Validate(map[string]any{"a": "one"}))
}

func TestUnionValidation(t *testing.T) {
	stringOrInt := AnyOf(String(), Integer())
	assert.NoError(t, stringOrInt.Validate("x"))
	assert.NoError(t, stringOrInt.Validate(3))
	assert.Error(t, stringOrInt.Validate(true))

	// XOr requires exactly one branch; a whole float satisfies both Number
	// and Integer, so it must be rejected.
	exactlyOne := XOr(Number(), Integer())
	assert.Error(t, exactlyOne.Validate(5.0))
	assert.NoError(t, exactlyOne.Validate(5.5))
}

func TestIntersection(t *testing.T) {
	schema := Object(Field("id", Integer())).And(Object(Field("name", String())))
	assert.NoError(t, schema.Validate(map[string]any{"id": 1, "name": "x"}))
	assert.Error(t, schema.Validate(map[string]any{"id": 1}))

	// Left fold keeps earlier members.
	three := Object(Field("a", String())).
		And(Object(Field("b", String()))).
		And(Object(Field("c", String())))
	assert.Error(t, three.Validate(map[string]any{"a": "1", "b": "2"}))
	assert.NoError(t, three.Validate(map[string]any{"a": "1", "b": "2", "c": "3"}))
}

func TestDiscriminatedUnion(t *testing.T) {
	cat := Object(
		Field("petType", Literal("cat")),
		Field("meows", Boolean()),
	)
	dog := Object(
		Field("petType", Literal("dog")),
		Field("barks", Boolean()),
	)
	pet := DiscriminatedUnion("petType", cat, dog)

	assert.NoError(t, pet.Validate(map[string]any{"petType": "cat", "meows": true}))
	assert.NoError(t, pet.Validate(map[string]any{"petType": "dog", "barks": false}))

	err := pet.Validate(map[string]any{"petType": "fish"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized discriminator value")

	err = pet.Validate(map[string]any{"meows": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing discriminator")

	// Wrong member shape still fails after dispatch.
	assert.Error(t, pet.Validate(map[string]any{"petType": "cat", "meows": "yes"}))
}

func TestDiscriminatedUnionStringTaggedMembers(t *testing.T) {
	// Generated schemas type the discriminator property as a plain string
	// rather than a literal; dispatch falls back to full validation.
	cat := Object(
		Field("petType", String()),
		Field("meows", Boolean().Optional()),
	)
	dog := Object(
		Field("petType", String()),
		Field("barks", Boolean().Optional()),
	)
	pet := DiscriminatedUnion("petType", cat, dog)

	assert.NoError(t, pet.Validate(map[string]any{"petType": "Cat", "meows": true}))
	assert.NoError(t, pet.Validate(map[string]any{"petType": "Dog", "barks": false}))
	assert.Error(t, pet.Validate(map[string]any{"meows": true}))
	assert.Error(t, pet.Validate(map[string]any{"petType": 7}))
}

func TestChainMethodsDoNotMutateReceiver(t *testing.T) {
	address := Object(Field("street", String()))

	// A sibling schema marks its reference to the shared component optional;
	// other schemas referencing it must still require the property.
	visitor := Object(Field("address", address.Optional()))
	owner := Object(Field("address", address))

	assert.NoError(t, visitor.Validate(map[string]any{}))

	err := owner.Validate(map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required property")

	name := String()
	_ = name.Min(3)
	_ = name.Nullable()
	_ = name.Default("x")
	assert.NoError(t, name.Validate("ab"), "Min applied to a copy")
	assert.Error(t, name.Validate(nil), "Nullable applied to a copy")
	assert.False(t, name.IsOptional())
}

func TestRefAndRegistry(t *testing.T) {
	registryName := "test.TreeNode"
	node := Object(
		Field("value", String()),
		Field("children", Array(Ref(registryName)).Optional()),
	)
	Register(registryName, node)

	tree := map[string]any{
		"value": "root",
		"children": []any{
			map[string]any{"value": "leaf"},
			map[string]any{
				"value":    "branch",
				"children": []any{map[string]any{"value": "deep"}},
			},
		},
	}
	assert.NoError(t, node.Validate(tree))

	bad := map[string]any{
		"value":    "root",
		"children": []any{map[string]any{}},
	}
	err := node.Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "children[0].value")

	_, ok := Lookup(registryName)
	assert.True(t, ok)
	_, ok = Lookup("test.Missing")
	assert.False(t, ok)

	err = Ref("test.Missing").Validate("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema registered")
}

func TestRefine(t *testing.T) {
	reserved := String().Refine(func(v any) error {
		if v == "admin" {
			return errors.New("name is reserved")
		}
		return nil
	})

	assert.NoError(t, reserved.Validate("rex"))

	err := reserved.Validate("admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is reserved")

	// Structural constraints run first.
	assert.Error(t, reserved.Validate(42))

	// Refine clones like every other chain method.
	base := String()
	_ = base.Refine(func(any) error { return errors.New("never") })
	assert.NoError(t, base.Validate("anything"))
}

func TestLazy(t *testing.T) {
	var linked *Schema
	linked = Object(
		Field("value", Integer()),
		Field("next", Lazy(func() *Schema { return linked }).Optional().Nullable()),
	)

	assert.NoError(t, linked.Validate(map[string]any{
		"value": 1,
		"next":  map[string]any{"value": 2, "next": nil},
	}))
	assert.Error(t, linked.Validate(map[string]any{
		"value": 1,
		"next":  map[string]any{"value": "two"},
	}))
}

func TestIsolatedRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("X", String())
	got, ok := r.Lookup("X")
	require.True(t, ok)
	assert.NoError(t, got.Validate("hello"))

	_, ok = r.Lookup("Y")
	assert.False(t, ok)
}
