// Package render projects a validated collection into output documents.
// Every renderer preserves section and entry order.
package render

import (
	"io"
	"sort"
	"strings"

	"github.com/dgallion1/qasheet/internal/qa"
)

// Renderer writes a collection in one output format.
type Renderer interface {
	Render(w io.Writer, c *qa.Collection) error
}

var formats = map[string]func() Renderer{
	"plain":    func() Renderer { return &PlainRenderer{} },
	"html":     func() Renderer { return NewHTMLRenderer() },
	"markdown": func() Renderer { return &MarkdownRenderer{} },
	"yaml":     func() Renderer { return &YAMLRenderer{} },
}

// ForFormat returns the renderer for a format selector. Selectors are
// case-insensitive.
func ForFormat(name string) (Renderer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	mk, ok := formats[key]
	if !ok {
		return nil, &qa.UnsupportedFormatError{Format: name, Supported: Formats()}
	}
	return mk(), nil
}

// Formats lists the supported selectors in sorted order.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for name := range formats {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
