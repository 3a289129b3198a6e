package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrhq/castr/castrerrors"
)

func TestOperationIDFallback(t *testing.T) {
	result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets/{petId}/toys:
    get:
      responses:
        "200":
          description: toys
          content:
            application/json:
              schema: {type: array}
`))
	require.NoError(t, err)

	require.Len(t, result.Document.Operations, 1)
	op := result.Document.Operations[0]
	assert.Equal(t, "getPetsPetIdToys", op.ID)
	assert.GreaterOrEqual(t, result.WarningCount, 1)
}

func TestPathParametersForcedRequired(t *testing.T) {
	result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        required: false
        schema: {type: integer}
    get:
      operationId: getPet
      parameters:
        - name: verbose
          in: query
          schema: {type: boolean}
      responses:
        "200":
          description: pet
          content:
            application/json:
              schema: {type: object}
`))
	require.NoError(t, err)

	op := result.Document.Operations[0]
	require.Len(t, op.Parameters, 2)

	byName := map[string]*Param{}
	for _, p := range op.Parameters {
		byName[p.Name] = p
	}

	petID := byName["petId"]
	require.NotNil(t, petID)
	assert.Equal(t, "path", petID.Location)
	assert.True(t, petID.Required, "path parameters are always required")
	assert.True(t, petID.Schema.Metadata.Required)

	verbose := byName["verbose"]
	require.NotNil(t, verbose)
	assert.Equal(t, "query", verbose.Location)
	assert.False(t, verbose.Required)
}

func TestOperationParameterOverridesPathItem(t *testing.T) {
	result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    parameters:
      - name: limit
        in: query
        schema: {type: integer}
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
          description: overridden
          schema: {type: integer}
      responses:
        "200":
          description: pets
          content:
            application/json:
              schema: {type: array}
`))
	require.NoError(t, err)

	op := result.Document.Operations[0]
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "overridden", op.Parameters[0].Description)
}

func TestParameterWithoutSchemaOrContent(t *testing.T) {
	_, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - name: limit
          in: query
      responses:
        "200":
          description: pets
          content:
            application/json:
              schema: {type: array}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, castrerrors.ErrSpecViolation)
	assert.Contains(t, err.Error(), "must have either 'schema' or 'content'")
}

func TestParameterResolvedByRef(t *testing.T) {
	result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      parameters:
        - $ref: "#/components/parameters/limitParam"
      responses:
        "200":
          description: pets
          content:
            application/json:
              schema: {type: array}
components:
  parameters:
    limitParam:
      name: limit
      in: query
      schema: {type: integer}
`))
	require.NoError(t, err)

	op := result.Document.Operations[0]
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "limit", op.Parameters[0].Name)
	assert.Equal(t, "query", op.Parameters[0].Location)
}

func TestRequestBodyContentTypes(t *testing.T) {
	t.Run("supported", func(t *testing.T) {
		result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema: {type: object}
          application/x-www-form-urlencoded:
            schema: {type: object}
          multipart/form-data:
            schema: {type: object}
          application/octet-stream:
            schema: {type: string, format: binary}
      responses:
        "201":
          description: created
          content:
            application/json:
              schema: {type: object}
`))
		require.NoError(t, err)

		body := result.Document.Operations[0].RequestBody
		require.NotNil(t, body)
		assert.True(t, body.Required)
		assert.Equal(t, []string{
			"application/json",
			"application/octet-stream",
			"application/x-www-form-urlencoded",
			"multipart/form-data",
		}, body.ContentTypes)
	})

	t.Run("json suffix accepted", func(t *testing.T) {
		assert.True(t, supportedContentType("application/vnd.api+json"))
		assert.True(t, supportedContentType("application/json; charset=utf-8"))
		assert.True(t, supportedContentType("*/*"))
	})

	t.Run("unsupported throws", func(t *testing.T) {
		_, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    post:
      operationId: createPet
      requestBody:
        content:
          text/csv:
            schema: {type: string}
      responses:
        "201":
          description: created
          content:
            application/json:
              schema: {type: object}
`))
		require.Error(t, err)
		assert.ErrorIs(t, err, castrerrors.ErrSpecViolation)
		assert.Contains(t, err.Error(), "text/csv")
	})
}

const defaultResponseSrc = `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: pets
          content:
            application/json:
              schema: {type: array}
        default:
          description: unexpected error
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Error"
components:
  schemas:
    Error:
      type: object
      properties:
        message: {type: string}
`

func TestDefaultResponsePolicy(t *testing.T) {
	t.Run("spec-compliant ignores fallback", func(t *testing.T) {
		result, err := Build(loadDoc(t, defaultResponseSrc),
			WithDefaultResponseMode(DefaultResponseSpecCompliant))
		require.NoError(t, err)

		op := result.Document.Operations[0]
		assert.True(t, op.IgnoredFallback)
		require.NotNil(t, op.Main)
		assert.Equal(t, "200", op.Main.Status)
		assert.Empty(t, op.Errors)
		require.Len(t, op.Responses, 1)
	})

	t.Run("auto-correct demotes fallback to error", func(t *testing.T) {
		result, err := Build(loadDoc(t, defaultResponseSrc),
			WithDefaultResponseMode(DefaultResponseAutoCorrect))
		require.NoError(t, err)

		op := result.Document.Operations[0]
		assert.False(t, op.IgnoredFallback)
		require.NotNil(t, op.Main)
		assert.Equal(t, "200", op.Main.Status)
		require.Len(t, op.Errors, 1)
		assert.Equal(t, "default", op.Errors[0].Status)
	})

	t.Run("auto-correct promotes fallback without success response", func(t *testing.T) {
		result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        default:
          description: whatever comes back
          content:
            application/json:
              schema: {type: object}
`), WithDefaultResponseMode(DefaultResponseAutoCorrect))
		require.NoError(t, err)

		op := result.Document.Operations[0]
		require.NotNil(t, op.Main)
		assert.Equal(t, "default", op.Main.Status)
		assert.Empty(t, op.Errors)
	})
}

func TestResponseClassification(t *testing.T) {
	result, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "404":
          description: not found
          content:
            application/json:
              schema: {type: object}
        "200":
          description: pets
          content:
            application/json:
              schema: {type: array}
        "500":
          description: boom
          content:
            application/json:
              schema: {type: object}
`))
	require.NoError(t, err)

	op := result.Document.Operations[0]
	// Source declaration order survives.
	require.Len(t, op.Responses, 3)
	assert.Equal(t, "404", op.Responses[0].Status)
	assert.Equal(t, "200", op.Responses[1].Status)

	require.NotNil(t, op.Main)
	assert.Equal(t, "200", op.Main.Status)
	require.Len(t, op.Errors, 2)
	assert.Equal(t, "404", op.Errors[0].Status)
	assert.Equal(t, "500", op.Errors[1].Status)
}

func TestResponseWithoutContent(t *testing.T) {
	_, err := Build(loadDoc(t, `openapi: 3.1.0
info: {title: T, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: empty
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, castrerrors.ErrSpecViolation)
	assert.Contains(t, err.Error(), "must have either 'schema' or 'content'")
}

func TestFallbackOperationID(t *testing.T) {
	tests := []struct {
		method, path, want string
	}{
		{"get", "/pets", "getPets"},
		{"post", "/pets/{petId}/toys", "postPetsPetIdToys"},
		{"delete", "/", "delete"},
		{"put", "/user-profiles/{id}", "putUserProfilesId"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fallbackOperationID(tt.method, tt.path), tt.path)
	}
}
