// Package overlay composites a foreground panel over the rendered key
// surface without clearing it. The toaster, the help reference, and the
// log viewer all draw through here.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position anchors the panel within the viewport.
type Position int

const (
	// Center anchors the panel in the middle of the viewport.
	Center Position = iota
	// Top anchors the panel at the top, horizontally centered.
	Top
	// Bottom anchors the panel at the bottom, horizontally centered.
	Bottom
)

// Config describes where the panel lands.
type Config struct {
	// Width is the total viewport width.
	Width int
	// Height is the total viewport height.
	Height int
	// Position anchors the panel (Center, Top, Bottom).
	Position Position
	// PadX is the horizontal edge inset. Ignored for Center.
	PadX int
	// PadY is the vertical edge inset for Top/Bottom.
	PadY int
}

// Place draws fg over bg. Splicing is ANSI-aware on both sides, so key
// cap borders and colors under the panel survive to its left and right.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	fgHeight := len(fgLines)
	fgWidth := lipgloss.Width(fg)

	startX, startY := anchorPoint(cfg, fgWidth, fgHeight)

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}

		bgLine := bgLines[bgY]
		fgLineWidth := ansi.StringWidth(fgLine)

		left := ansi.Truncate(bgLine, startX, "")
		if leftWidth := ansi.StringWidth(left); leftWidth < startX {
			left += strings.Repeat(" ", startX-leftWidth)
		}

		// Background visible to the right of the panel, if any.
		endX := startX + fgLineWidth
		var right string
		if endX < ansi.StringWidth(bgLine) {
			right = ansi.TruncateLeft(bgLine, endX, "")
		}

		bgLines[bgY] = left + fgLine + right
	}

	return strings.Join(bgLines, "\n")
}

// anchorPoint resolves the panel's top-left corner, clamped on-screen.
func anchorPoint(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Top:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.PadY
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
