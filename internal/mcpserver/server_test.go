package mcpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "plain message",
			err:  errors.New("document has no components"),
			want: "document has no components",
		},
		{
			name: "home path stripped",
			err:  errors.New("open /home/alice/specs/api.yaml: no such file"),
			want: "open <path>: no such file",
		},
		{
			name: "tmp path stripped",
			err:  errors.New("read /tmp/build-1234/openapi.json failed"),
			want: "read <path> failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	result := errResult(errors.New("boom"))
	assert.True(t, result.IsError)
	assert.Len(t, result.Content, 1)
}
