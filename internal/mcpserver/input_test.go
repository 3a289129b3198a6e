package mcpserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecInputResolveInline(t *testing.T) {
	result, err := specInput{Content: testSpecYAML}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", result.Version)
}

func TestSpecInputResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSpecYAML), 0o644))

	result, err := specInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", result.Version)
}

func TestSpecInputRejectsBothOrNeither(t *testing.T) {
	_, err := specInput{}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	_, err = specInput{File: "a.yaml", Content: "openapi: 3.1.0"}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestSpecInputRejectsOversizedInline(t *testing.T) {
	_, err := specInput{Content: strings.Repeat("a", maxInlineSize+1)}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSourceInputResolve(t *testing.T) {
	data, filename, err := sourceInput{Content: "package schemas"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "inline.go", filename)
	assert.Equal(t, []byte("package schemas"), data)

	path := filepath.Join(t.TempDir(), "schemas.go")
	require.NoError(t, os.WriteFile(path, []byte("package schemas"), 0o644))
	data, filename, err = sourceInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, path, filename)
	assert.Equal(t, []byte("package schemas"), data)
}

func TestSourceInputMissingFile(t *testing.T) {
	_, _, err := sourceInput{File: filepath.Join(t.TempDir(), "missing.go")}.resolve()
	require.Error(t, err)
}
