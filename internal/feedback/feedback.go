// Package feedback delivers per-cell pulse notifications to whatever
// haptic, audio, or visual engine is attached.
//
// Delivery is fire-and-forget: a sink that is unavailable or slow must
// never block or abort a key commit. Text correctness never depends on
// feedback succeeding.
package feedback

import (
	"tapboard/internal/grid"
	"tapboard/internal/layout"
)

// Kind selects the pulse flavor for a cell entry.
type Kind string

const (
	KindLetter  Kind = "letter"
	KindDelete  Kind = "delete"
	KindShift   Kind = "shift"
	KindSpace   Kind = "space"
	KindNewline Kind = "newline"
	KindGeneric Kind = "generic"
)

// KindFor maps a key definition to its pulse kind.
func KindFor(def layout.KeyDef) Kind {
	switch def.Kind {
	case layout.GlyphChar:
		if def.IsAlphabetic() {
			return KindLetter
		}
		return KindGeneric
	case layout.GlyphSpace:
		return KindSpace
	case layout.GlyphNewline:
		return KindNewline
	case layout.GlyphShift:
		return KindShift
	case layout.GlyphDelete:
		return KindDelete
	default:
		return KindGeneric
	}
}

// Pulse is one delivered feedback event.
type Pulse struct {
	Cell grid.Cell
	Kind Kind
}

// Sink receives pulse and commit-result notifications.
type Sink interface {
	// Notify fires once per distinct cell entered during a drag.
	Notify(cell grid.Cell, kind Kind)
	// CommitResult fires once per completed (non-cancelled) interaction.
	CommitResult(success bool)
}

// Nop is a Sink that discards everything.
type Nop struct{}

func (Nop) Notify(grid.Cell, Kind) {}
func (Nop) CommitResult(bool)      {}

// Fanout delivers to every attached sink in order.
type Fanout []Sink

func (f Fanout) Notify(cell grid.Cell, kind Kind) {
	for _, s := range f {
		s.Notify(cell, kind)
	}
}

func (f Fanout) CommitResult(success bool) {
	for _, s := range f {
		s.CommitResult(success)
	}
}
