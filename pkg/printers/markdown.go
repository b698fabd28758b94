package printers

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
)

// Markdown renders md for the terminal. Without colour the source is returned
// as-is.
func Markdown(md string, width int) (string, error) {
	if color.NoColor {
		return md, nil
	}
	style := "light"
	if termenv.HasDarkBackground() {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("printers: markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("printers: render markdown: %w", err)
	}
	return out, nil
}
