package surface

import (
	"context"
	"fmt"
	"time"

	"tapboard/internal/cachemanager"
	"tapboard/internal/layout"
	"tapboard/internal/ui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// capInnerWidth is the label area inside a key cap's border.
const capInnerWidth = 5

// capCacheTTL bounds how long a rendered cap stays cached. The cache
// key covers everything that affects the cap's pixels, so the TTL only
// controls memory, never staleness.
const capCacheTTL = 5 * time.Minute

// capInput carries everything renderCap needs to draw one key cap.
type capInput struct {
	Label    layout.DisplayLabel
	Flashing bool
	Width    int
}

// capCacheKey builds the render cache key. Every field that changes the
// output is part of the key: a modifier toggle or highlight flash
// produces a different key, so a stale cap can never be served.
func capCacheKey(layoutName string, row, col int, in capInput) string {
	return fmt.Sprintf("%s:%d:%d:%s:%s:%t:%d",
		layoutName, row, col, in.Label.Text, in.Label.Variant, in.Flashing, in.Width)
}

// newCapCache builds the read-through render cache for key caps.
func newCapCache() (*cachemanager.InMemoryCacheManager[string, string], *cachemanager.ReadThroughCache[string, string, capInput]) {
	mgr := cachemanager.NewInMemoryCacheManager[string, string](
		"keycap-render", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	rtc := cachemanager.NewReadThroughCache[string, string, capInput](mgr, renderCap, false)
	return mgr, rtc
}

// renderCap draws one key cap.
func renderCap(_ context.Context, in capInput) (string, error) {
	label := capGlyph(in.Label)
	label = runewidth.Truncate(label, in.Width, "")

	style := styles.KeyCapStyle
	switch {
	case in.Flashing:
		style = styles.KeyCapHighlightStyle
	case in.Label.Kind == layout.GlyphShift && in.Label.Variant != layout.ShiftPlain:
		style = styles.KeyCapActiveStyle
	}

	return style.Width(in.Width).Render(label), nil
}

// capGlyph returns the display text for a resolved label.
func capGlyph(l layout.DisplayLabel) string {
	switch l.Kind {
	case layout.GlyphChar:
		return l.Text
	case layout.GlyphSpace:
		return "␣"
	case layout.GlyphNewline:
		return "⏎"
	case layout.GlyphDelete:
		return "⌫"
	case layout.GlyphShift:
		if l.Variant == layout.ShiftCapsLocked {
			return "⇪"
		}
		return "⇧"
	default:
		return "?"
	}
}

// ModifierBadge renders the shift / caps-lock indicator for status
// lines. Empty when no modifier is active.
func ModifierBadge(v layout.ShiftVariant) string {
	switch v {
	case layout.ShiftHeld:
		return styles.KeyModifierBadgeStyle.Render("⇧ shift")
	case layout.ShiftCapsLocked:
		return styles.KeyModifierBadgeStyle.Render("⇪ caps")
	default:
		return ""
	}
}

// joinRow lays key caps out horizontally with a one-space gutter.
func joinRow(caps []string) string {
	spaced := make([]string, 0, len(caps)*2)
	for i, c := range caps {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}
