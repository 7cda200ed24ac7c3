package layout

import (
	"strings"

	"tapboard/internal/modifier"
)

// ShiftVariant is the display variant of the shift key itself. It is a
// derived view used for rendering and feedback color selection, never
// stored.
type ShiftVariant int

const (
	// ShiftPlain is the shift key with no modifier active.
	ShiftPlain ShiftVariant = iota
	// ShiftHeld is the shift key with one-shot shift active.
	ShiftHeld
	// ShiftCapsLocked is the shift key with caps-lock engaged.
	ShiftCapsLocked
)

func (v ShiftVariant) String() string {
	switch v {
	case ShiftHeld:
		return "shift-active"
	case ShiftCapsLocked:
		return "caps-lock"
	default:
		return "plain"
	}
}

// DisplayLabel is the state-resolved view of a key. Text is set only
// for character keys; Variant is meaningful only for the shift key.
type DisplayLabel struct {
	Kind    GlyphKind
	Text    string
	Variant ShiftVariant
}

// Resolve derives the current display label for a key definition.
// Alphabetic characters render uppercase while caps-lock or shift is
// active; non-alphabetic glyphs pass through unchanged. The result is
// computed fresh on every call so a modifier toggle is always visible.
func Resolve(def KeyDef, state modifier.State) DisplayLabel {
	switch def.Kind {
	case GlyphChar:
		text := def.Char
		if def.IsAlphabetic() && state.Uppercase() {
			text = strings.ToUpper(text)
		}
		return DisplayLabel{Kind: GlyphChar, Text: text}
	case GlyphShift:
		variant := ShiftPlain
		switch {
		case state.CapsLockActive:
			variant = ShiftCapsLocked
		case state.ShiftActive:
			variant = ShiftHeld
		}
		return DisplayLabel{Kind: GlyphShift, Variant: variant}
	default:
		return DisplayLabel{Kind: def.Kind}
	}
}
