package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the word-wrap width used by RenderPretty when width <= 0.
const DefaultWrap = 80

// RenderPretty renders Markdown for a terminal using glamour's automatic
// light/dark style detection.
func RenderPretty(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("render: terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render: terminal markdown: %w", err)
	}
	return out, nil
}
