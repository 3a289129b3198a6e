package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/parser"
)

func loadDoc(t *testing.T, src string) *parser.Document {
	t.Helper()
	var doc parser.Document
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return &doc
}

func schemaRefs(doc *parser.Document) []string {
	refs := make([]string, 0, doc.Components.Schemas.Len())
	for _, name := range doc.Components.Schemas.Keys() {
		refs = append(refs, "#/components/schemas/"+name)
	}
	return refs
}

const chainedDoc = `openapi: 3.1.0
info: {title: T, version: "1"}
components:
  schemas:
    Address:
      type: object
      properties:
        street: {type: string}
    User:
      type: object
      properties:
        name: {type: string}
        address:
          $ref: "#/components/schemas/Address"
    Team:
      type: object
      properties:
        members:
          type: array
          items:
            $ref: "#/components/schemas/User"
`

func TestBuildDirectAndDeep(t *testing.T) {
	doc := loadDoc(t, chainedDoc)
	g, err := Build(schemaRefs(doc), doc)
	require.NoError(t, err)

	addr := "#/components/schemas/Address"
	user := "#/components/schemas/User"
	team := "#/components/schemas/Team"

	assert.Empty(t, g.Direct[addr].Sorted())
	assert.Equal(t, []string{addr}, g.Direct[user].Sorted())
	assert.Equal(t, []string{addr, user}, g.Direct[team].Sorted())

	assert.Equal(t, []string{addr, user}, g.Deep[team].Sorted())
	assert.Equal(t, []string{addr}, g.Deep[user].Sorted())

	// Leaves get empty entries, never absent ones.
	_, ok := g.Direct[addr]
	assert.True(t, ok)
	_, ok = g.Deep[addr]
	assert.True(t, ok)
}

func TestBuildSelfReference(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
components:
  schemas:
    TreeNode:
      type: object
      properties:
        value: {type: string}
        children:
          type: array
          items:
            $ref: "#/components/schemas/TreeNode"
`)
	g, err := Build(schemaRefs(doc), doc)
	require.NoError(t, err)

	node := "#/components/schemas/TreeNode"
	assert.True(t, g.Direct[node].Has(node), "self-edge must be kept")
	assert.True(t, g.Deep[node].Has(node))
}

func TestBuildMutualCycle(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
components:
  schemas:
    Organization:
      type: object
      properties:
        departments:
          type: array
          items:
            $ref: "#/components/schemas/Department"
    Department:
      type: object
      properties:
        parent:
          $ref: "#/components/schemas/Organization"
        head:
          $ref: "#/components/schemas/Employee"
    Employee:
      type: object
      properties:
        reports:
          type: array
          items:
            $ref: "#/components/schemas/Employee"
`)
	g, err := Build(schemaRefs(doc), doc)
	require.NoError(t, err)

	org := "#/components/schemas/Organization"
	dept := "#/components/schemas/Department"
	emp := "#/components/schemas/Employee"

	assert.True(t, g.Deep[org].Has(dept))
	assert.True(t, g.Deep[org].Has(emp))
	assert.True(t, g.Deep[org].Has(org), "cycle closes back on the root")
	assert.True(t, g.Deep[dept].Has(dept))
	assert.True(t, g.Deep[emp].Has(emp), "self-loop survives the closure")
}

func TestBuildCompositionEdges(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
components:
  schemas:
    Base:
      type: object
    Left: {type: object}
    Right: {type: object}
    Extra: {type: string}
    Mixed:
      allOf:
        - $ref: "#/components/schemas/Base"
      oneOf:
        - $ref: "#/components/schemas/Left"
      anyOf:
        - $ref: "#/components/schemas/Right"
      additionalProperties:
        $ref: "#/components/schemas/Extra"
`)
	g, err := Build(schemaRefs(doc), doc)
	require.NoError(t, err)

	mixed := g.Direct["#/components/schemas/Mixed"]
	assert.Equal(t, []string{
		"#/components/schemas/Base",
		"#/components/schemas/Extra",
		"#/components/schemas/Left",
		"#/components/schemas/Right",
	}, mixed.Sorted())
}

func TestBuildBrokenRefFails(t *testing.T) {
	doc := loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
components:
  schemas:
    User:
      type: object
      properties:
        address:
          $ref: "#/components/schemas/Missing"
`)
	_, err := Build(schemaRefs(doc), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, castrerrors.ErrComponentNotFound)
}

func TestTopoSortDependenciesFirst(t *testing.T) {
	doc := loadDoc(t, chainedDoc)
	g, err := Build(schemaRefs(doc), doc)
	require.NoError(t, err)

	order := TopoSort(g.Direct)
	require.Len(t, order, 3)

	position := make(map[string]int, len(order))
	for i, ref := range order {
		position[ref] = i
	}

	// Every edge A->B puts B strictly before A.
	for root, deps := range g.Direct {
		for dep := range deps {
			assert.Less(t, position[dep], position[root],
				"%s should precede %s", dep, root)
		}
	}
}

func TestTopoSortCycleTolerance(t *testing.T) {
	a := "#/components/schemas/A"
	b := "#/components/schemas/B"
	adj := map[string]RefSet{
		a: {b: {}},
		b: {a: {}},
	}

	order := TopoSort(adj)
	assert.ElementsMatch(t, []string{a, b}, order)
}

func TestTopoSortDeterministic(t *testing.T) {
	adj := map[string]RefSet{
		"c": {},
		"a": {},
		"b": {},
	}
	first := TopoSort(adj)
	for range 20 {
		assert.Equal(t, first, TopoSort(adj))
	}
	assert.Equal(t, []string{"a", "b", "c"}, first)
}

func TestTopoSortIgnoresForeignDeps(t *testing.T) {
	adj := map[string]RefSet{
		"a": {"external": {}},
	}
	assert.Equal(t, []string{"a"}, TopoSort(adj))
}
