package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphTool(t *testing.T) {
	input := graphInput{
		Spec: specInput{Content: testSpecYAML},
	}
	result, output, err := handleGraph(context.Background(), nil, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, []string{"Category", "Pet"}, output.Order)
	assert.Empty(t, output.Cycles)

	require.Len(t, output.Nodes, 2)
	byName := map[string]graphNode{}
	for _, n := range output.Nodes {
		byName[n.Name] = n
	}

	pet := byName["Pet"]
	assert.Equal(t, []string{"Category"}, pet.DependsOn)
	assert.Equal(t, 1, pet.Depth)
	assert.False(t, pet.Circular)

	category := byName["Category"]
	assert.Equal(t, []string{"Pet"}, category.ReferencedBy)
	assert.Equal(t, 0, category.Depth)
}

func TestGraphTool_Cycles(t *testing.T) {
	input := graphInput{
		Spec: specInput{Content: testCyclicSpecYAML},
	}
	result, output, err := handleGraph(context.Background(), nil, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, []string{"TreeNode"}, output.Cycles)
	require.Len(t, output.Nodes, 1)
	assert.True(t, output.Nodes[0].Circular)
}

func TestGraphTool_InvalidSpec(t *testing.T) {
	input := graphInput{
		Spec: specInput{Content: "not valid yaml: ["},
	}
	result, _, err := handleGraph(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
