// Package orderedmap provides a string-keyed map that preserves insertion
// order, with YAML marshaling support.
//
// OpenAPI property and component declaration order is semantically visible in
// generated output, so the document model cannot use plain Go maps for those
// sections. This map keeps keys in first-insertion order through a
// parse → IR → regenerate round trip.
package orderedmap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// Map is an insertion-ordered string-keyed map.
// The zero value is not usable; call New.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New creates an empty ordered map.
func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

// Set inserts or updates a key. A new key is appended to the iteration order;
// updating an existing key keeps its original position.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil || m.values == nil {
		var zero V
		return zero, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes a key, preserving the order of the remaining keys.
func (m *Map[V]) Delete(key string) {
	if m == nil || m.values == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries. Safe on a nil map.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates entries in insertion order, stopping if fn returns false.
func (m *Map[V]) All(fn func(key string, value V) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// UnmarshalYAML decodes a YAML mapping, preserving key order.
func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	return m.decodeNode(node)
}

func (m *Map[V]) decodeNode(node *yaml.Node) error {
	// Chase alias nodes so anchors behave like inline mappings.
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("orderedmap: expected mapping node, got %v", node.Kind)
	}

	m.keys = m.keys[:0]
	m.values = make(map[string]V, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := node.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("orderedmap: decoding key at line %d: %w", keyNode.Line, err)
		}

		var value V
		if err := valNode.Decode(&value); err != nil {
			return fmt.Errorf("orderedmap: decoding value for %q at line %d: %w", key, valNode.Line, err)
		}
		m.Set(key, value)
	}
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in insertion order.
func (m *Map[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return node, nil
	}
	for _, k := range m.keys {
		var keyNode yaml.Node
		if err := keyNode.Encode(k); err != nil {
			return nil, err
		}
		var valNode yaml.Node
		if err := valNode.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("orderedmap: encoding value for %q: %w", k, err)
		}
		node.Content = append(node.Content, &keyNode, &valNode)
	}
	return node, nil
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *Map[V]) MarshalJSON() ([]byte, error) {
	if m == nil || len(m.keys) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("orderedmap: encoding value for %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (m *Map[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("orderedmap: expected JSON object, got %v", tok)
	}

	m.keys = m.keys[:0]
	m.values = make(map[string]V)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("orderedmap: expected string key, got %v", keyTok)
		}
		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("orderedmap: decoding value for %q: %w", key, err)
		}
		m.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// IsZero reports whether the map is empty, so omitempty works on fields.
func (m *Map[V]) IsZero() bool {
	return m.Len() == 0
}

// FromPairs constructs a map from alternating key/value pairs in order.
func FromPairs[V any](pairs ...any) *Map[V] {
	m := New[V]()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(V))
	}
	return m
}
