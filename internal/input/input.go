// Package input turns a stream of pointer events into discrete key
// events.
//
// The controller is a two-state machine (idle, tracking) fed by
// pointer-down, pointer-move, pointer-up, and pointer-cancel. While
// tracking it resolves the cell under the pointer, fires one feedback
// pulse per distinct cell entered (revisits fire again), and commits
// exactly the cell under the finger at release. Cancel commits nothing.
//
// Long-press detection for the delete key is token based: entering a
// delete cell arms a token and the caller schedules a hold check after
// HoldThreshold; any cell change, release, or cancel invalidates the
// token so a stale check can never start a repeat session.
package input

import (
	"tapboard/internal/feedback"
	"tapboard/internal/grid"
	"tapboard/internal/layout"
	"tapboard/internal/log"
	"tapboard/internal/repeat"
)

// Committer finalizes a key press. Commit reports whether the cell
// produced a text or modifier mutation.
type Committer interface {
	Commit(cell grid.Cell) bool
}

// LongPressToken identifies one armed hold check. Zero is never issued.
type LongPressToken int

// Controller drives the drag gesture state machine. All methods must be
// called from the single goroutine that owns input handling.
type Controller struct {
	layout    layout.Layout
	sink      feedback.Sink
	committer Committer
	repeater  *repeat.Controller

	tracking   bool
	activeCell grid.Cell
	hasCell    bool

	lpToken LongPressToken // last issued token; stale tokens are ignored
	lpArmed bool
}

// NewController creates an idle drag controller over the given layout.
func NewController(l layout.Layout, sink feedback.Sink, committer Committer, repeater *repeat.Controller) *Controller {
	if sink == nil {
		sink = feedback.Nop{}
	}
	return &Controller{
		layout:    l,
		sink:      sink,
		committer: committer,
		repeater:  repeater,
	}
}

// Layout returns the active layout.
func (c *Controller) Layout() layout.Layout { return c.layout }

// SetCommitter attaches the commit target. The dispatcher resolves its
// layout through the controller, so wiring happens in two steps.
func (c *Controller) SetCommitter(committer Committer) { c.committer = committer }

// Tracking reports whether a drag is in progress.
func (c *Controller) Tracking() bool { return c.tracking }

// ActiveCell returns the cell currently under the pointer, if any.
func (c *Controller) ActiveCell() (grid.Cell, bool) { return c.activeCell, c.hasCell }

// SetLayout swaps the key surface and resets the session to idle.
// Used by the mode toggle and by live config reload.
func (c *Controller) SetLayout(l layout.Layout) {
	c.layout = l
	c.Reset()
}

// Reset abandons any in-flight interaction without committing.
func (c *Controller) Reset() {
	if c.repeater != nil {
		c.repeater.Stop()
	}
	c.disarmLongPress()
	c.tracking = false
	c.hasCell = false
}

// PointerDown starts tracking. Returns a long-press token when the
// caller should schedule a hold check.
func (c *Controller) PointerDown(p grid.Point) (LongPressToken, bool) {
	if c.tracking {
		// Single-pointer model: a second down means the previous
		// interaction never saw its release. Start over.
		c.Reset()
	}
	c.tracking = true

	cell, ok := grid.Locate(p, c.layout.Geometry())
	if !ok {
		c.hasCell = false
		return 0, false
	}
	c.enterCell(cell)
	return c.armIfDelete(cell)
}

// PointerMove re-resolves the cell under the pointer. A cell change
// (including to or from none) invalidates any pending hold check and
// pulses the newly entered cell; jitter within one cell does nothing.
func (c *Controller) PointerMove(p grid.Point) (LongPressToken, bool) {
	if !c.tracking {
		return 0, false
	}

	cell, ok := grid.Locate(p, c.layout.Geometry())
	if !ok {
		if c.hasCell {
			c.disarmLongPress()
			c.hasCell = false
		}
		return 0, false
	}
	if c.hasCell && cell == c.activeCell {
		return 0, false
	}

	c.disarmLongPress()
	c.enterCell(cell)
	return c.armIfDelete(cell)
}

// PointerUp ends the interaction, committing the cell under the finger.
// A release with no cell under the pointer commits nothing but still
// reports a failed result: every completed interaction produces exactly
// one CommitResult call.
func (c *Controller) PointerUp() {
	if !c.tracking {
		return
	}
	if c.repeater != nil {
		c.repeater.Stop()
	}
	c.disarmLongPress()

	success := false
	if c.hasCell && c.committer != nil {
		success = c.committer.Commit(c.activeCell)
	}
	c.sink.CommitResult(success)

	c.tracking = false
	c.hasCell = false
}

// PointerCancel ends the interaction with no commit and no feedback.
func (c *Controller) PointerCancel() {
	if !c.tracking {
		return
	}
	log.Debug(log.CatInput, "interaction cancelled")
	c.Reset()
}

// LongPressFired is called by the scheduler when a hold check matures.
// It starts the repeat session only if the token is still the armed one,
// so checks armed for an earlier cell are harmless.
func (c *Controller) LongPressFired(token LongPressToken) {
	if !c.lpArmed || token != c.lpToken {
		return
	}
	if !c.tracking || !c.hasCell {
		return
	}
	def, ok := c.layout.Key(c.activeCell)
	if !ok || def.Kind != layout.GlyphDelete {
		return
	}
	c.lpArmed = false
	if c.repeater != nil {
		c.repeater.Start()
	}
}

// enterCell records the cell and fires its pulse.
func (c *Controller) enterCell(cell grid.Cell) {
	c.activeCell = cell
	c.hasCell = true
	if def, ok := c.layout.Key(cell); ok {
		c.sink.Notify(cell, feedback.KindFor(def))
	}
}

// armIfDelete issues a fresh hold token when the cell is the delete key.
func (c *Controller) armIfDelete(cell grid.Cell) (LongPressToken, bool) {
	def, ok := c.layout.Key(cell)
	if !ok || def.Kind != layout.GlyphDelete {
		return 0, false
	}
	c.lpToken++
	c.lpArmed = true
	return c.lpToken, true
}

func (c *Controller) disarmLongPress() {
	c.lpArmed = false
}
