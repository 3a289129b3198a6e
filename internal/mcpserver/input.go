package mcpserver

import (
	"fmt"
	"os"

	"github.com/castrhq/castr/parser"
)

// maxInlineSize bounds inline content so a single tool call cannot pin an
// arbitrarily large document in memory.
const maxInlineSize = 4 << 20

// specInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// resolve loads the document from whichever input was provided.
func (s specInput) resolve(extraOpts ...parser.Option) (*parser.LoadResult, error) {
	if err := exactlyOne(s.File, s.Content); err != nil {
		return nil, err
	}

	var opts []parser.Option
	switch {
	case s.File != "":
		opts = append(opts, parser.WithFilePath(s.File))
	default:
		if len(s.Content) > maxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead",
				len(s.Content), maxInlineSize)
		}
		opts = append(opts, parser.WithBytes([]byte(s.Content)), parser.WithSourceName("inline"))
	}
	opts = append(opts, extraOpts...)

	return parser.LoadWithOptions(opts...)
}

// sourceInput represents the two ways generated Go source can be provided.
// Exactly one of File or Content must be set.
type sourceInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a generated Go source file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline generated Go source"`
}

// resolve returns the source bytes and the filename to report positions
// against.
func (s sourceInput) resolve() ([]byte, string, error) {
	if err := exactlyOne(s.File, s.Content); err != nil {
		return nil, "", err
	}
	if s.File != "" {
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, "", err
		}
		return data, s.File, nil
	}
	if len(s.Content) > maxInlineSize {
		return nil, "", fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead",
			len(s.Content), maxInlineSize)
	}
	return []byte(s.Content), "inline.go", nil
}

func exactlyOne(file, content string) error {
	count := 0
	if file != "" {
		count++
	}
	if content != "" {
		count++
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}
	return nil
}
