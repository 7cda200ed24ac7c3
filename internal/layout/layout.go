// Package layout defines key layouts and display label resolution.
//
// A layout is a fixed, ordered sequence of key definitions of length
// rows*cols assigned at startup. Definitions are immutable for the
// lifetime of the layout; everything state-dependent (casing, shift key
// variants) is derived per call by Resolve.
package layout

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"tapboard/internal/grid"
)

// GlyphKind tags the variant of a key definition.
type GlyphKind int

const (
	// GlyphChar is a literal character key.
	GlyphChar GlyphKind = iota
	// GlyphSpace appends a space.
	GlyphSpace
	// GlyphNewline appends a line break.
	GlyphNewline
	// GlyphShift toggles shift / caps-lock.
	GlyphShift
	// GlyphDelete removes the last character, with press-and-hold repeat.
	GlyphDelete
)

func (k GlyphKind) String() string {
	switch k {
	case GlyphChar:
		return "char"
	case GlyphSpace:
		return "space"
	case GlyphNewline:
		return "newline"
	case GlyphShift:
		return "shift"
	case GlyphDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// KeyDef is one key slot's immutable definition.
// Char is set only for GlyphChar definitions.
type KeyDef struct {
	Kind GlyphKind
	Char string
}

// Char returns a literal character key definition.
func Char(s string) KeyDef { return KeyDef{Kind: GlyphChar, Char: s} }

// Space returns the space key definition.
func Space() KeyDef { return KeyDef{Kind: GlyphSpace} }

// Newline returns the newline key definition.
func Newline() KeyDef { return KeyDef{Kind: GlyphNewline} }

// Shift returns the shift key definition.
func Shift() KeyDef { return KeyDef{Kind: GlyphShift} }

// Delete returns the delete key definition.
func Delete() KeyDef { return KeyDef{Kind: GlyphDelete} }

// IsAlphabetic reports whether the definition is a single-letter key.
func (d KeyDef) IsAlphabetic() bool {
	if d.Kind != GlyphChar {
		return false
	}
	r, size := utf8.DecodeRuneInString(d.Char)
	return size == len(d.Char) && unicode.IsLetter(r)
}

// Layout is a named, validated key grid.
type Layout struct {
	name     string
	geometry grid.Geometry
	keys     []KeyDef
}

// New validates and builds a layout. The key sequence is row-major and
// must have exactly rows*cols entries.
func New(name string, geometry grid.Geometry, keys []KeyDef) (Layout, error) {
	if err := geometry.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout %q: %w", name, err)
	}
	want := geometry.Rows * geometry.Cols
	if len(keys) != want {
		return Layout{}, fmt.Errorf("layout %q: expected %d keys for %dx%d grid, got %d",
			name, want, geometry.Rows, geometry.Cols, len(keys))
	}
	for i, d := range keys {
		if d.Kind == GlyphChar && d.Char == "" {
			return Layout{}, fmt.Errorf("layout %q: key %d is a char key with no character", name, i)
		}
	}
	ks := make([]KeyDef, len(keys))
	copy(ks, keys)
	return Layout{name: name, geometry: geometry, keys: ks}, nil
}

// Name returns the layout name.
func (l Layout) Name() string { return l.name }

// Geometry returns the layout's grid geometry.
func (l Layout) Geometry() grid.Geometry { return l.geometry }

// WithGeometry returns a copy of the layout with the cell size from g.
// Row and column counts are fixed by the key sequence and are kept.
func (l Layout) WithGeometry(g grid.Geometry) Layout {
	out := l
	out.geometry.CellWidth = g.CellWidth
	out.geometry.CellHeight = g.CellHeight
	return out
}

// Key returns the definition at the cell, or false when the cell is
// outside the grid.
func (l Layout) Key(c grid.Cell) (KeyDef, bool) {
	if !l.geometry.Contains(c) {
		return KeyDef{}, false
	}
	return l.keys[l.geometry.Index(c)], true
}
