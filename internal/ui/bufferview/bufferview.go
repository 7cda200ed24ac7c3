// Package bufferview renders the committed text pane above the key
// surface. The buffer itself is owned by the engine; this component is
// a read-only view with a trailing cursor.
package bufferview

import (
	"strings"

	"tapboard/internal/textbuf"
	"tapboard/internal/ui/styles"

	"github.com/muesli/reflow/wordwrap"
)

// cursorGlyph trails the text to mark the insertion point.
const cursorGlyph = "▏"

// Model is the text pane component.
type Model struct {
	buffer textbuf.Buffer
	width  int
	height int
}

// New creates a buffer view over the engine's text sink.
func New(buffer textbuf.Buffer) Model {
	return Model{buffer: buffer}
}

// SetSize updates the pane dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Len returns the buffer length in characters.
func (m Model) Len() int { return m.buffer.Len() }

// View renders the pane.
func (m Model) View() string {
	innerWidth := m.width - 4 // border + padding
	if innerWidth < 1 {
		innerWidth = 1
	}

	text := m.buffer.String() + styles.BufferCursorStyle.Render(cursorGlyph)
	wrapped := wordwrap.String(text, innerWidth)

	// Keep only the last lines that fit the pane.
	if m.height > 2 {
		lines := strings.Split(wrapped, "\n")
		if max := m.height - 2; len(lines) > max {
			wrapped = strings.Join(lines[len(lines)-max:], "\n")
		}
	}

	style := styles.BufferPaneStyle
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	if m.height > 0 {
		style = style.Height(m.height - 2)
	}
	return style.Render(wrapped)
}
