package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleMCP_Help(t *testing.T) {
	err := HandleMCP([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleMCP_RejectsArgs(t *testing.T) {
	err := HandleMCP([]string{"unexpected"})
	assert.Error(t, err)
}
