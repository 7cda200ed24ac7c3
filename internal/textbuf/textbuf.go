// Package textbuf holds the text sink the keyboard commits into.
//
// The engine only ever appends or removes the last character; cursor
// movement and editing belong to whatever consumes the buffer.
package textbuf

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Buffer is the opaque text sink mutated by key commits.
// RemoveLast on an empty buffer is a guarded no-op.
type Buffer interface {
	Append(s string)
	RemoveLast()
	Len() int
	String() string
}

// Memory is an in-memory Buffer that treats one grapheme cluster as one
// character, so RemoveLast never splits a multi-rune glyph.
type Memory struct {
	clusters []string
}

// NewMemory creates an empty in-memory buffer.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds text to the end of the buffer.
func (b *Memory) Append(s string) {
	if s == "" {
		return
	}
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		b.clusters = append(b.clusters, g.Str())
	}
}

// RemoveLast removes the final character. No-op when empty.
func (b *Memory) RemoveLast() {
	if len(b.clusters) == 0 {
		return
	}
	b.clusters = b.clusters[:len(b.clusters)-1]
}

// Len returns the number of characters (grapheme clusters) held.
func (b *Memory) Len() int { return len(b.clusters) }

// String returns the buffer contents.
func (b *Memory) String() string { return strings.Join(b.clusters, "") }

// Clear empties the buffer.
func (b *Memory) Clear() { b.clusters = b.clusters[:0] }
