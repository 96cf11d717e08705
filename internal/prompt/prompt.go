// Package prompt loads analysis prompt templates from the prompts directory.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Placeholder is the literal token replaced by Template.Render.
const Placeholder = "THEME_PLACEHOLDER"

// ErrNotFound is returned (wrapped with the expected path) when a prompt file
// does not exist.
var ErrNotFound = errors.New("prompt file not found")

// Template is the immutable text of one prompt.
type Template struct {
	ID   string
	Text string
}

// Render returns the template text with every occurrence of Placeholder
// replaced by value. The substitution is literal: value is not escaped and
// is never expanded again.
func (t Template) Render(value string) string {
	return strings.ReplaceAll(t.Text, Placeholder, value)
}

// HasPlaceholder reports whether the template contains Placeholder.
func (t Template) HasPlaceholder() bool {
	return strings.Contains(t.Text, Placeholder)
}

// Store reads prompt-<id>.txt files from Dir.
type Store struct {
	Dir string
}

// Path returns the file a prompt id is loaded from.
func (s Store) Path(id string) string {
	return filepath.Join(s.Dir, "prompt-"+id+".txt")
}

// Load reads the template for id.
func (s Store) Load(id string) (Template, error) {
	path := s.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Template{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Template{}, fmt.Errorf("reading prompt %s: %w", path, err)
	}
	return Template{ID: id, Text: string(data)}, nil
}
