package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/internal/orderedmap"
)

func testDocument() *Document {
	schemas := orderedmap.New[*Schema]()
	schemas.Set("Pet", &Schema{Type: TypeSet{"object"}})
	schemas.Set("Error", &Schema{Type: TypeSet{"object"}})
	schemas.Set("PetAlias", &Schema{Ref: "#/components/schemas/Pet"})

	extSchemas := orderedmap.New[*Schema]()
	extSchemas.Set("Address", &Schema{Type: TypeSet{"object"}})

	return &Document{
		OpenAPI: "3.1.0",
		Components: &Components{
			Schemas: schemas,
			Parameters: map[string]*Parameter{
				"limitParam": {Name: "limit", In: "query"},
			},
			Responses: map[string]*Response{
				"NotFound": {Description: "not found"},
			},
			RequestBodies: map[string]*RequestBody{
				"PetBody": {Required: true},
			},
			SecuritySchemes: map[string]*SecurityScheme{
				"apiKey": {Type: "apiKey", Name: "X-API-Key", In: "header"},
			},
		},
		XExt: map[string]*ExtDocument{
			"a1b2c3": {
				Components: &Components{Schemas: extSchemas},
			},
		},
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    RefParts
		wantErr bool
	}{
		{
			name: "schema ref",
			ref:  "#/components/schemas/Pet",
			want: RefParts{Kind: "schemas", Name: "Pet"},
		},
		{
			name: "parameter ref",
			ref:  "#/components/parameters/limitParam",
			want: RefParts{Kind: "parameters", Name: "limitParam"},
		},
		{
			name: "x-ext ref",
			ref:  "#/x-ext/a1b2c3/components/schemas/Address",
			want: RefParts{ExtHash: "a1b2c3", Kind: "schemas", Name: "Address"},
		},
		{
			name:    "missing fragment prefix",
			ref:     "components/schemas/Pet",
			wantErr: true,
		},
		{
			name:    "external file ref",
			ref:     "./common.yaml#/components/schemas/Pet",
			wantErr: true,
		},
		{
			name:    "unknown component type",
			ref:     "#/components/callbacks/onEvent",
			wantErr: true,
		},
		{
			name:    "too few segments",
			ref:     "#/components/schemas",
			wantErr: true,
		},
		{
			name:    "too many segments",
			ref:     "#/components/schemas/Pet/properties/name",
			wantErr: true,
		},
		{
			name:    "empty name",
			ref:     "#/components/schemas/",
			wantErr: true,
		},
		{
			name:    "x-ext missing hash",
			ref:     "#/x-ext//components/schemas/Address",
			wantErr: true,
		},
		{
			name:    "x-ext malformed",
			ref:     "#/x-ext/a1b2c3/schemas/Address",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, castrerrors.ErrInvalidRef)
				assert.ErrorIs(t, err, castrerrors.ErrRef)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "standard ref unchanged",
			ref:  "#/components/schemas/Pet",
			want: "#/components/schemas/Pet",
		},
		{
			name: "x-ext folds to standard form",
			ref:  "#/x-ext/a1b2c3/components/schemas/Address",
			want: "#/components/schemas/Address",
		},
		{
			name: "invalid ref passes through",
			ref:  "#/definitions/Pet",
			want: "#/definitions/Pet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRef(tt.ref))
		})
	}
}

func TestSchemaNameFromRef(t *testing.T) {
	name, ok := SchemaNameFromRef("#/components/schemas/Pet")
	require.True(t, ok)
	assert.Equal(t, "Pet", name)

	name, ok = SchemaNameFromRef("#/x-ext/a1b2c3/components/schemas/Address")
	require.True(t, ok)
	assert.Equal(t, "Address", name)

	_, ok = SchemaNameFromRef("#/components/responses/NotFound")
	assert.False(t, ok)

	_, ok = SchemaNameFromRef("not-a-ref")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	doc := testDocument()

	t.Run("schema", func(t *testing.T) {
		got, err := Resolve(doc, "#/components/schemas/Pet")
		require.NoError(t, err)
		schema, ok := got.(*Schema)
		require.True(t, ok)
		assert.Equal(t, TypeSet{"object"}, schema.Type)
	})

	t.Run("parameter", func(t *testing.T) {
		got, err := Resolve(doc, "#/components/parameters/limitParam")
		require.NoError(t, err)
		param, ok := got.(*Parameter)
		require.True(t, ok)
		assert.Equal(t, "limit", param.Name)
	})

	t.Run("response", func(t *testing.T) {
		got, err := Resolve(doc, "#/components/responses/NotFound")
		require.NoError(t, err)
		resp, ok := got.(*Response)
		require.True(t, ok)
		assert.Equal(t, "not found", resp.Description)
	})

	t.Run("requestBody", func(t *testing.T) {
		got, err := Resolve(doc, "#/components/requestBodies/PetBody")
		require.NoError(t, err)
		body, ok := got.(*RequestBody)
		require.True(t, ok)
		assert.True(t, body.Required)
	})

	t.Run("securityScheme", func(t *testing.T) {
		got, err := Resolve(doc, "#/components/securitySchemes/apiKey")
		require.NoError(t, err)
		scheme, ok := got.(*SecurityScheme)
		require.True(t, ok)
		assert.Equal(t, "apiKey", scheme.Type)
	})

	t.Run("x-ext schema", func(t *testing.T) {
		got, err := Resolve(doc, "#/x-ext/a1b2c3/components/schemas/Address")
		require.NoError(t, err)
		schema, ok := got.(*Schema)
		require.True(t, ok)
		assert.Equal(t, TypeSet{"object"}, schema.Type)
	})

	t.Run("missing component", func(t *testing.T) {
		_, err := Resolve(doc, "#/components/schemas/Missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, castrerrors.ErrComponentNotFound)

		var refErr *castrerrors.RefError
		require.True(t, errors.As(err, &refErr))
		assert.Equal(t, castrerrors.RefKindNotFound, refErr.Kind)
		assert.Equal(t, "schemas", refErr.ComponentType)
		assert.Equal(t, "Missing", refErr.Name)
	})

	t.Run("unknown x-ext hash", func(t *testing.T) {
		_, err := Resolve(doc, "#/x-ext/deadbeef/components/schemas/Address")
		require.Error(t, err)
		assert.ErrorIs(t, err, castrerrors.ErrComponentNotFound)
	})

	t.Run("no components section", func(t *testing.T) {
		empty := &Document{OpenAPI: "3.1.0"}
		_, err := Resolve(empty, "#/components/schemas/Pet")
		require.Error(t, err)
		assert.ErrorIs(t, err, castrerrors.ErrComponentNotFound)
	})
}

func TestResolveSchemaRef(t *testing.T) {
	doc := testDocument()

	t.Run("concrete schema", func(t *testing.T) {
		schema, err := ResolveSchemaRef(doc, "#/components/schemas/Pet")
		require.NoError(t, err)
		assert.Equal(t, TypeSet{"object"}, schema.Type)
	})

	t.Run("nested ref rejected", func(t *testing.T) {
		_, err := ResolveSchemaRef(doc, "#/components/schemas/PetAlias")
		require.Error(t, err)
		assert.ErrorIs(t, err, castrerrors.ErrNestedRef)

		var refErr *castrerrors.RefError
		require.True(t, errors.As(err, &refErr))
		assert.Equal(t, castrerrors.RefKindNested, refErr.Kind)
		assert.Contains(t, refErr.Error(), "#/components/schemas/Pet")
	})

	t.Run("non-schema ref rejected", func(t *testing.T) {
		_, err := ResolveSchemaRef(doc, "#/components/responses/NotFound")
		require.Error(t, err)
		assert.ErrorIs(t, err, castrerrors.ErrInvalidRef)
	})
}
