package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpecYAML = `openapi: "3.1.0"
info:
  title: Pet Store
  version: "1.0.0"
paths: {}
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

func writeTestSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSpecYAML), 0o644))
	return path
}

func TestSetupBuildFlags(t *testing.T) {
	fs, flags := SetupBuildFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, "", flags.Output)
		assert.Equal(t, "schemas", flags.PackageName)
		assert.False(t, flags.StrictObjects)
		assert.Equal(t, "", flags.DefaultResponseMode)
		assert.Equal(t, 0, flags.ComplexityThreshold)
		assert.False(t, flags.Quiet)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-o", "out.go", "-p", "petapi", "--strict-objects", "-q", "test.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "out.go", flags.Output)
		assert.Equal(t, "petapi", flags.PackageName)
		assert.True(t, flags.StrictObjects)
		assert.True(t, flags.Quiet)
		assert.Equal(t, "test.yaml", fs.Arg(0))
	})
}

func TestHandleBuild_NoArgs(t *testing.T) {
	err := HandleBuild([]string{})
	assert.Error(t, err)
}

func TestHandleBuild_Help(t *testing.T) {
	err := HandleBuild([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleBuild_WritesOutput(t *testing.T) {
	spec := writeTestSpec(t)
	out := filepath.Join(t.TempDir(), "schemas.gen.go")

	err := HandleBuild([]string{"-q", "-o", out, spec})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package schemas")
	assert.Contains(t, string(data), "var Pet = valid.Object(")
}

func TestHandleBuild_TypesOutput(t *testing.T) {
	spec := writeTestSpec(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "schemas.gen.go")
	typesOut := filepath.Join(dir, "types.gen.go")

	err := HandleBuild([]string{"-q", "-o", out, "--types-output", typesOut, spec})
	require.NoError(t, err)

	data, err := os.ReadFile(typesOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), "type Pet struct")
}

func TestHandleBuild_MissingFile(t *testing.T) {
	err := HandleBuild([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
