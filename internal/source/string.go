package source

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// String serves fixed in-memory content.
type String struct {
	content string
}

func NewString(content string) *String {
	return &String{content: content}
}

// NewStringFromReader drains r once so the content can be replayed.
func NewStringFromReader(r io.Reader) (*String, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering string source: %w", err)
	}
	return &String{content: string(data)}, nil
}

func (s *String) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.content)), nil
}

func (s *String) String() string {
	return fmt.Sprintf("String(%d bytes)", len(s.content))
}
