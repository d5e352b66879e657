// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import "github.com/charmbracelet/glamour"

// Markdown renders markdown for terminal display. On a renderer error, or
// when color is disabled, the raw text is returned unchanged.
func (c *Console) Markdown(text string) string {
	if !c.color {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}
