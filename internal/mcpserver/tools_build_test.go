package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecYAML = `openapi: "3.1.0"
info:
  title: Pet Store
  version: "1.0.0"
paths:
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
components:
  schemas:
    Category:
      type: object
      properties:
        name:
          type: string
    Pet:
      type: object
      required: [id]
      properties:
        id:
          type: integer
        category:
          $ref: "#/components/schemas/Category"
`

const testCyclicSpecYAML = `openapi: "3.1.0"
info:
  title: Trees
  version: "1.0.0"
paths: {}
components:
  schemas:
    TreeNode:
      type: object
      properties:
        value:
          type: string
        children:
          type: array
          items:
            $ref: "#/components/schemas/TreeNode"
`

func TestBuildTool(t *testing.T) {
	input := buildInput{
		Spec: specInput{Content: testSpecYAML},
	}
	result, output, err := handleBuild(context.Background(), nil, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 2, output.SchemaCount)
	assert.Equal(t, 1, output.OperationCount)

	assert.Contains(t, output.Source, "package schemas")
	assert.Contains(t, output.Source, "var Category = valid.Object(")
	assert.Contains(t, output.Source, "var Pet = valid.Object(")
	assert.Contains(t, output.Source, "var GetPetParams")
	assert.Contains(t, output.Source, `valid.Register("Pet", Pet)`)
	assert.Empty(t, output.TypesSource)
}

func TestBuildTool_PackageName(t *testing.T) {
	input := buildInput{
		Spec:        specInput{Content: testSpecYAML},
		PackageName: "petapi",
	}
	result, output, err := handleBuild(context.Background(), nil, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Contains(t, output.Source, "package petapi")
}

func TestBuildTool_EmitTypes(t *testing.T) {
	input := buildInput{
		Spec:      specInput{Content: testSpecYAML},
		EmitTypes: true,
	}
	result, output, err := handleBuild(context.Background(), nil, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.Contains(t, output.TypesSource, "type Pet struct")
	assert.Contains(t, output.TypesSource, "type Category struct")
}

func TestBuildTool_InvalidSpec(t *testing.T) {
	input := buildInput{
		Spec: specInput{Content: "not valid yaml: ["},
	}
	result, output, err := handleBuild(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.Source)
}

func TestBuildTool_BadDefaultResponseMode(t *testing.T) {
	input := buildInput{
		Spec:                specInput{Content: testSpecYAML},
		DefaultResponseMode: "bogus",
	}
	result, _, err := handleBuild(context.Background(), nil, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestBuildTool_RequiresExactlyOneInput(t *testing.T) {
	result, _, err := handleBuild(context.Background(), nil, buildInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
