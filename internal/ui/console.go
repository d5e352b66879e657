// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui renders styled terminal output for the anvil commands.
//
// All styling state lives on a Console value that commands construct and
// pass around; there is no package-level console.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Console writes styled output to an explicit writer pair.
type Console struct {
	out   io.Writer
	errw  io.Writer
	color bool

	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	dim     lipgloss.Style
	bold    lipgloss.Style
	accent  lipgloss.Style
	panel   lipgloss.Style
}

// NewConsole returns a Console writing to out and errw. When color is false
// every render degrades to plain text.
func NewConsole(out, errw io.Writer, color bool) *Console {
	return &Console{
		out:     out,
		errw:    errw,
		color:   color,
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:     lipgloss.NewStyle().Faint(true),
		bold:    lipgloss.NewStyle().Bold(true),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("3")).
			Padding(0, 1),
	}
}

// Out returns the console's output writer.
func (c *Console) Out() io.Writer {
	return c.out
}

func (c *Console) render(style lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return style.Render(text)
}

// Printf writes unstyled output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes an unstyled line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Successf writes a green line to stdout.
func (c *Console) Successf(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(c.success, fmt.Sprintf(format, args...)))
}

// Errorf writes a red line to stderr.
func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintln(c.errw, c.render(c.failure, fmt.Sprintf(format, args...)))
}

// Warnf writes a yellow line to stdout.
func (c *Console) Warnf(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(c.warning, fmt.Sprintf(format, args...)))
}

// Dimf writes a faint line to stdout.
func (c *Console) Dimf(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(c.dim, fmt.Sprintf(format, args...)))
}

// Boldf writes a bold line to stdout.
func (c *Console) Boldf(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(c.bold, fmt.Sprintf(format, args...)))
}

// Accentf writes a bold cyan line to stdout.
func (c *Console) Accentf(format string, args ...any) {
	fmt.Fprintln(c.out, c.render(c.accent, fmt.Sprintf(format, args...)))
}

// Rule writes a dim horizontal separator.
func (c *Console) Rule() {
	c.Dimf("%s", strings.Repeat("=", 50))
}

// Panel writes body inside a rounded border with a title line.
func (c *Console) Panel(title, body string) {
	if !c.color {
		if title != "" {
			fmt.Fprintf(c.out, "-- %s --\n%s\n", title, body)
		} else {
			fmt.Fprintln(c.out, body)
		}
		return
	}
	content := body
	if title != "" {
		content = c.bold.Render(title) + "\n\n" + body
	}
	fmt.Fprintln(c.out, c.panel.Render(content))
}

// Stream renders a response as it arrives. Deltas are echoed immediately;
// Done closes the framed region.
type Stream struct {
	c *Console
}

// StartStream opens a titled streaming region on the console and returns a
// writer for the deltas.
func (c *Console) StartStream(title string) *Stream {
	c.Accentf("%s", title)
	c.Rule()
	return &Stream{c: c}
}

// Write echoes a response delta. Implements io.Writer.
func (s *Stream) Write(p []byte) (int, error) {
	return s.c.out.Write(p)
}

// Done closes the streaming region.
func (s *Stream) Done() {
	fmt.Fprintln(s.c.out)
	s.c.Rule()
}
