package valid

import (
	"fmt"
	"sync"
)

// Registry maps schema names to schemas for Ref resolution.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register stores a schema under name, replacing any previous entry.
func (r *Registry) Register(name string, schema *Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[name] = schema
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// defaultRegistry backs the package-level Register/Lookup used by generated
// init functions.
var defaultRegistry = NewRegistry()

// Register stores a schema in the default registry.
func Register(name string, schema *Schema) {
	defaultRegistry.Register(name, schema)
}

// Lookup returns a schema from the default registry.
func Lookup(name string) (*Schema, bool) {
	return defaultRegistry.Lookup(name)
}

// resolve chases Ref and Lazy indirection to a concrete schema.
func resolve(s *Schema) (*Schema, error) {
	for depth := 0; s != nil && depth < 64; depth++ {
		switch s.kind {
		case kindRef:
			target, ok := Lookup(s.refName)
			if !ok {
				return nil, fmt.Errorf("valid: no schema registered as %q", s.refName)
			}
			s = target
		case kindLazy:
			s = s.lazyFn()
		default:
			return s, nil
		}
	}
	return nil, fmt.Errorf("valid: reference chain too deep")
}
