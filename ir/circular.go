package ir

import (
	"sort"

	"github.com/castrhq/castr/parser"
)

// DetectCircular finds self- and mutually-referencing schema cycles and
// records them in each affected component's Metadata.CircularReferences.
//
// For each component, a DFS runs from that component's name with a path
// stack distinct from the per-run visited set: a dependency already on the
// path closes a cycle, and every name on the closed segment is recorded
// (as a fully-qualified #/components/schemas/{name} ref) into the
// originating component's list. The visited set prevents re-exploration of
// already-explored subtrees. Self-loops and mutual loops fall out of the
// same mechanism without special-casing.
func DetectCircular(components []*Component) {
	adjacency := componentAdjacency(components)

	for _, c := range components {
		cyclic := make(map[string]bool)
		detectFrom(c.Name, adjacency, map[string]bool{}, []string{}, cyclic)

		if len(cyclic) == 0 {
			continue
		}
		refs := make([]string, 0, len(cyclic))
		for name := range cyclic {
			refs = append(refs, "#/components/schemas/"+name)
		}
		sort.Strings(refs)
		c.Schema.Metadata.CircularReferences = refs
	}
}

// detectFrom walks the adjacency map depth-first. path is the current
// ancestor stack; hitting a name already on it marks the closing segment.
func detectFrom(name string, adj map[string]map[string]bool, visited map[string]bool, path []string, cyclic map[string]bool) {
	path = append(path, name)
	for _, dep := range setToSorted(adj[name]) {
		if onPath := indexOf(path, dep); onPath >= 0 {
			for _, cycleName := range path[onPath:] {
				cyclic[cycleName] = true
			}
			continue
		}
		if visited[dep] {
			continue
		}
		detectFrom(dep, adj, visited, path, cyclic)
	}
	visited[name] = true
}

func indexOf(path []string, name string) int {
	for i, p := range path {
		if p == name {
			return i
		}
	}
	return -1
}

// componentAdjacency builds a name→refset map of direct schema-to-schema
// references by walking $ref, properties, items (single or tuple), and
// composition members. Refs to names outside the component set are kept;
// the consumers that need keys-only views filter themselves.
func componentAdjacency(components []*Component) map[string]map[string]bool {
	adjacency := make(map[string]map[string]bool, len(components))
	for _, c := range components {
		deps := make(map[string]bool)
		collectSchemaRefs(c.Schema, deps)
		adjacency[c.Name] = deps
	}
	return adjacency
}

// collectSchemaRefs gathers the schema names directly referenced by s.
func collectSchemaRefs(s *CastrSchema, deps map[string]bool) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		if name, ok := parser.SchemaNameFromRef(s.Ref); ok {
			deps[name] = true
		}
		return
	}
	if s.Properties != nil {
		s.Properties.All(func(_ string, prop *CastrSchema) bool {
			collectSchemaRefs(prop, deps)
			return true
		})
	}
	collectSchemaRefs(s.Items, deps)
	for _, item := range s.TupleItems {
		collectSchemaRefs(item, deps)
	}
	for _, member := range s.AllOf {
		collectSchemaRefs(member, deps)
	}
	for _, member := range s.OneOf {
		collectSchemaRefs(member, deps)
	}
	for _, member := range s.AnyOf {
		collectSchemaRefs(member, deps)
	}
}
