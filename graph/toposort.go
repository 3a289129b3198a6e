package graph

import "sort"

// TopoSort orders the graph's keys so that dependencies precede dependents.
//
// Classic post-order DFS: each node's dependencies are emitted before the node
// itself. An ancestors set per DFS path breaks cycles at the closing edge, so
// cyclic graphs still produce a total order; exactly one edge per cycle is
// dropped for ordering purposes only. Keys and dependency sets are iterated in
// sorted order, making the output deterministic. The output is always a
// permutation of the adjacency map's keys; dependencies that are not
// themselves keys are ignored.
func TopoSort(adj map[string]RefSet) []string {
	keys := make([]string, 0, len(adj))
	for key := range adj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(adj))
	visited := make(map[string]bool, len(adj))
	ancestors := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] || ancestors[name] {
			return
		}
		ancestors[name] = true
		for _, dep := range adj[name].Sorted() {
			if _, isKey := adj[dep]; !isKey {
				continue
			}
			visit(dep)
		}
		delete(ancestors, name)
		visited[name] = true
		out = append(out, name)
	}

	for _, key := range keys {
		visit(key)
	}
	return out
}
