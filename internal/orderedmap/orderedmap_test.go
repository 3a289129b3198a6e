package orderedmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestSetGetOrder(t *testing.T) {
	m := New[int]()
	m.Set("zebra", 1)
	m.Set("apple", 2)
	m.Set("mango", 3)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())

	v, ok := m.Get("apple")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// Updating keeps position.
	m.Set("apple", 20)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())
	v, _ = m.Get("apple")
	assert.Equal(t, 20, v)
}

func TestDelete(t *testing.T) {
	m := New[string]()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("c", "3")

	m.Delete("b")
	assert.Equal(t, []string{"a", "c"}, m.Keys())
	assert.False(t, m.Has("b"))
	assert.Equal(t, 2, m.Len())

	// Deleting a missing key is a no-op.
	m.Delete("missing")
	assert.Equal(t, 2, m.Len())
}

func TestNilSafety(t *testing.T) {
	var m *Map[int]
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, ok := m.Get("x")
	assert.False(t, ok)
	m.All(func(string, int) bool { t.Fatal("should not iterate"); return true })
}

func TestYAMLRoundTripPreservesOrder(t *testing.T) {
	src := "zebra: 1\napple: 2\nmango: 3\nbanana: 4\n"

	var m Map[int]
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	assert.Equal(t, []string{"zebra", "apple", "mango", "banana"}, m.Keys())

	out, err := yaml.Marshal(&m)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestYAMLNestedValues(t *testing.T) {
	type inner struct {
		Name string `yaml:"name"`
	}
	src := "second: {name: two}\nfirst: {name: one}\n"

	var m Map[inner]
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	assert.Equal(t, []string{"second", "first"}, m.Keys())

	v, ok := m.Get("first")
	require.True(t, ok)
	assert.Equal(t, "one", v.Name)
}

func TestYAMLNull(t *testing.T) {
	var m Map[int]
	require.NoError(t, yaml.Unmarshal([]byte("null\n"), &m))
	assert.Equal(t, 0, m.Len())
}

func TestYAMLRejectsSequence(t *testing.T) {
	var m Map[int]
	err := yaml.Unmarshal([]byte("- 1\n- 2\n"), &m)
	assert.Error(t, err)
}

func TestJSONRoundTripPreservesOrder(t *testing.T) {
	src := `{"zebra":1,"apple":2,"mango":3}`

	var m Map[int]
	require.NoError(t, json.Unmarshal([]byte(src), &m))
	assert.Equal(t, []string{"zebra", "apple", "mango"}, m.Keys())

	out, err := json.Marshal(&m)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestJSONEmptyAndNilMarshal(t *testing.T) {
	var m *Map[int]
	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(New[int]())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestJSONRejectsArray(t *testing.T) {
	var m Map[int]
	err := m.UnmarshalJSON([]byte("[1,2]"))
	assert.Error(t, err)
}

func TestAllEarlyStop(t *testing.T) {
	m := New[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	var seen []string
	m.All(func(k string, _ int) bool {
		seen = append(seen, k)
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestFromPairs(t *testing.T) {
	m := FromPairs[int]("x", 1, "y", 2)
	assert.Equal(t, []string{"x", "y"}, m.Keys())
	assert.True(t, m.IsZero() == false)
}
