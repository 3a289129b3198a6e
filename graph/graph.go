package graph

import (
	"sort"

	"github.com/castrhq/castr/parser"
)

// RefSet is a set of normalized component refs.
type RefSet map[string]struct{}

// Add inserts ref into the set.
func (s RefSet) Add(ref string) {
	s[ref] = struct{}{}
}

// Has reports whether ref is in the set.
func (s RefSet) Has(ref string) bool {
	_, ok := s[ref]
	return ok
}

// Sorted returns the set members in lexical order.
func (s RefSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for ref := range s {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// Graph holds the direct dependency map and its transitive closure, both
// keyed by normalized root ref. Every root is present in both maps even when
// it has no dependencies.
type Graph struct {
	Direct map[string]RefSet
	Deep   map[string]RefSet
}

// Build walks each root schema and records its $ref dependencies.
//
// The walk descends through composition members (allOf, oneOf, anyOf), array
// items (single schema or tuple), object properties, and schema-valued
// additionalProperties. A $ref node records an edge and recurses into its
// resolved target; a ref-name visited set short-circuits cycles. Pointer
// identity tracking additionally guards against loops where the same
// in-memory schema is reachable through multiple paths without a $ref.
//
// Resolution failures abort the build: a broken reference invalidates every
// downstream ordering guarantee.
func Build(refs []string, doc *parser.Document) (*Graph, error) {
	g := &Graph{
		Direct: make(map[string]RefSet, len(refs)),
		Deep:   make(map[string]RefSet, len(refs)),
	}

	w := &walker{doc: doc}
	for _, ref := range refs {
		root := parser.NormalizeRef(ref)
		if _, done := g.Direct[root]; done {
			continue
		}

		deps := make(RefSet)
		schema, err := parser.ResolveSchemaRef(doc, root)
		if err != nil {
			return nil, err
		}

		w.deps = deps
		w.seenRefs = map[string]bool{root: true}
		w.seenPtrs = map[*parser.Schema]bool{}
		if err := w.visit(schema); err != nil {
			return nil, err
		}
		g.Direct[root] = deps
	}

	for root := range g.Direct {
		g.Deep[root] = deepClose(root, g.Direct)
	}
	return g, nil
}

// walker carries per-root traversal state.
type walker struct {
	doc      *parser.Document
	deps     RefSet
	seenRefs map[string]bool
	seenPtrs map[*parser.Schema]bool
}

func (w *walker) visit(schema *parser.Schema) error {
	if schema == nil || w.seenPtrs[schema] {
		return nil
	}
	w.seenPtrs[schema] = true

	if schema.IsRef() {
		ref := parser.NormalizeRef(schema.Ref)
		w.deps.Add(ref)
		if w.seenRefs[ref] {
			return nil
		}
		w.seenRefs[ref] = true
		target, err := parser.ResolveSchemaRef(w.doc, schema.Ref)
		if err != nil {
			return err
		}
		return w.visit(target)
	}

	for _, member := range schema.AllOf {
		if err := w.visit(member); err != nil {
			return err
		}
	}
	for _, member := range schema.OneOf {
		if err := w.visit(member); err != nil {
			return err
		}
	}
	for _, member := range schema.AnyOf {
		if err := w.visit(member); err != nil {
			return err
		}
	}

	if schema.Items != nil {
		if err := w.visit(schema.Items.Schema); err != nil {
			return err
		}
		for _, item := range schema.Items.Tuple {
			if err := w.visit(item); err != nil {
				return err
			}
		}
	}
	for _, item := range schema.PrefixItems {
		if err := w.visit(item); err != nil {
			return err
		}
	}

	if schema.Properties != nil {
		var visitErr error
		schema.Properties.All(func(_ string, prop *parser.Schema) bool {
			visitErr = w.visit(prop)
			return visitErr == nil
		})
		if visitErr != nil {
			return visitErr
		}
	}
	if schema.AdditionalProperties != nil {
		if err := w.visit(schema.AdditionalProperties.Schema); err != nil {
			return err
		}
	}
	return nil
}

// deepClose unions direct dependencies transitively until a fixpoint.
// The visited set bounds work to one expansion per (root, ref) pair.
func deepClose(root string, direct map[string]RefSet) RefSet {
	closed := make(RefSet, len(direct[root]))
	visited := make(map[string]bool)

	stack := make([]string, 0, len(direct[root]))
	for dep := range direct[root] {
		stack = append(stack, dep)
	}
	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[ref] {
			continue
		}
		visited[ref] = true
		closed.Add(ref)
		for dep := range direct[ref] {
			if !visited[dep] {
				stack = append(stack, dep)
			}
		}
	}
	return closed
}
