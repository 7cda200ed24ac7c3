// Package dispatch translates a released key into its mutation.
package dispatch

import (
	"tapboard/internal/grid"
	"tapboard/internal/layout"
	"tapboard/internal/log"
	"tapboard/internal/modifier"
	"tapboard/internal/textbuf"
)

// LayoutProvider supplies the currently active layout. The drag
// controller satisfies this, so a mode toggle is picked up without
// rewiring the dispatcher.
type LayoutProvider interface {
	Layout() layout.Layout
}

// Dispatcher applies key commits to the text buffer and the modifier
// machine. No input raises an error: an out-of-range cell is treated as
// a defensive no-op and delete on an empty buffer is guarded by the
// buffer itself.
type Dispatcher struct {
	layouts LayoutProvider
	machine *modifier.Machine
	buffer  textbuf.Buffer
}

// NewDispatcher wires a dispatcher to its collaborators.
func NewDispatcher(layouts LayoutProvider, machine *modifier.Machine, buffer textbuf.Buffer) *Dispatcher {
	return &Dispatcher{layouts: layouts, machine: machine, buffer: buffer}
}

// Commit finalizes the key at cell. It reports whether the cell mapped
// to a key; the mutation itself may still be a defined no-op (delete on
// an empty buffer).
func (d *Dispatcher) Commit(cell grid.Cell) bool {
	l := d.layouts.Layout()
	def, ok := l.Key(cell)
	if !ok {
		log.Warn(log.CatCommit, "commit for out-of-range cell ignored", "row", cell.Row, "col", cell.Col)
		return false
	}

	label := layout.Resolve(def, d.machine.State())

	switch label.Kind {
	case layout.GlyphSpace:
		d.buffer.Append(" ")
	case layout.GlyphNewline:
		d.buffer.Append("\n")
	case layout.GlyphShift:
		state := d.machine.OnShiftCommitted()
		log.Debug(log.CatModifier, "shift committed",
			"shift", state.ShiftActive, "caps", state.CapsLockActive, "streak", state.ShiftTapStreak)
	case layout.GlyphDelete:
		d.buffer.RemoveLast()
	case layout.GlyphChar:
		d.buffer.Append(label.Text)
		d.machine.OnCharacterCommitted(def.IsAlphabetic())
	}

	log.Debug(log.CatCommit, "key committed", "kind", label.Kind, "text", label.Text)
	return true
}
