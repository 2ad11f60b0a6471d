// Package render turns question, option and explanation markdown into HTML.
package render

import "html/template"

// Renderer renders rich text. Fenced code blocks tagged with a known language come
// out syntax highlighted; everything else is standard markdown, with untagged code
// shown as plain monospace text. Implementations must escape raw HTML in source.
type Renderer interface {
	Render(source string) (template.HTML, error)
}

// Plain renders text as escaped HTML without any markdown processing.
// It is the fallback when a richer renderer fails.
type Plain struct{}

func (Plain) Render(source string) (template.HTML, error) {
	return template.HTML(template.HTMLEscapeString(source)), nil
}
