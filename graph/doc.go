// Package graph builds schema dependency graphs and orders them.
//
// The builder walks component schema trees and records every $ref edge,
// producing a direct adjacency map and its transitive ("deep") closure. The
// topological sorter orders schema names so dependencies precede dependents,
// breaking cycles deterministically at the closing edge.
//
// Traversal state (visited sets, ancestor stacks) is explicit local state
// passed through recursive calls, so independent documents can be processed
// concurrently without coordination.
package graph
