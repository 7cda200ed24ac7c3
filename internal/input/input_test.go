package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tapboard/internal/dispatch"
	"tapboard/internal/feedback"
	"tapboard/internal/grid"
	"tapboard/internal/layout"
	"tapboard/internal/modifier"
	"tapboard/internal/repeat"
	"tapboard/internal/textbuf"
)

// recordSink captures every pulse and commit result.
type recordSink struct {
	pulses  []feedback.Pulse
	results []bool
}

func (s *recordSink) Notify(cell grid.Cell, kind feedback.Kind) {
	s.pulses = append(s.pulses, feedback.Pulse{Cell: cell, Kind: kind})
}

func (s *recordSink) CommitResult(success bool) {
	s.results = append(s.results, success)
}

// recordCommitter records committed cells without a full dispatcher.
type recordCommitter struct {
	cells []grid.Cell
}

func (c *recordCommitter) Commit(cell grid.Cell) bool {
	c.cells = append(c.cells, cell)
	return true
}

// center returns a point in the middle of a cell for the builtin grid.
func center(c grid.Cell) grid.Point {
	geo := layout.DefaultGeometry
	return grid.Point{
		X: (float64(c.Col) + 0.5) * geo.CellWidth,
		Y: (float64(c.Row) + 0.5) * geo.CellHeight,
	}
}

var deleteCell = grid.Cell{Row: 2, Col: 9}

func newTestController(t *testing.T) (*Controller, *recordSink, *recordCommitter, *repeat.Controller) {
	t.Helper()
	sink := &recordSink{}
	committer := &recordCommitter{}
	repeater := repeat.NewController()
	t.Cleanup(repeater.Close)
	ctl := NewController(layout.Letters(), sink, committer, repeater)
	return ctl, sink, committer, repeater
}

func TestDrag_CommitsCellUnderFingerAtRelease(t *testing.T) {
	ctl, sink, committer, _ := newTestController(t)

	// (0,0) -> (0,1) -> (0,0), release over (0,0).
	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	ctl.PointerMove(center(grid.Cell{Row: 0, Col: 1}))
	ctl.PointerMove(center(grid.Cell{Row: 0, Col: 0}))
	ctl.PointerUp()

	require.Equal(t, []grid.Cell{{Row: 0, Col: 0}}, committer.cells,
		"exactly the release cell commits")
	require.Len(t, sink.pulses, 3, "revisits pulse again, jitter does not")
	require.Equal(t, []bool{true}, sink.results, "one commit result per interaction")
}

func TestDrag_JitterWithinCellFiresOnePulse(t *testing.T) {
	ctl, sink, _, _ := newTestController(t)

	p := center(grid.Cell{Row: 1, Col: 3})
	ctl.PointerDown(p)
	ctl.PointerMove(grid.Point{X: p.X + 1, Y: p.Y - 1})
	ctl.PointerMove(grid.Point{X: p.X - 2, Y: p.Y + 2})
	ctl.PointerUp()

	require.Len(t, sink.pulses, 1)
}

func TestDrag_CancelNeverCommits(t *testing.T) {
	ctl, sink, committer, _ := newTestController(t)

	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 4}))
	ctl.PointerMove(center(grid.Cell{Row: 1, Col: 4}))
	ctl.PointerCancel()

	require.Empty(t, committer.cells)
	require.Empty(t, sink.results, "cancel produces no commit result")
	require.False(t, ctl.Tracking())
}

func TestDrag_CancelNeverMutatesBuffer(t *testing.T) {
	// Wire the real dispatcher to verify the buffer stays untouched.
	buffer := textbuf.NewMemory()
	machine := modifier.NewMachine()
	ctl := NewController(layout.Letters(), &recordSink{}, nil, nil)
	ctl.SetCommitter(dispatch.NewDispatcher(ctl, machine, buffer))

	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	ctl.PointerMove(center(grid.Cell{Row: 1, Col: 1}))
	ctl.PointerCancel()
	require.Equal(t, 0, buffer.Len())

	// The same wiring does mutate on a completed interaction.
	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	ctl.PointerUp()
	require.Equal(t, "q", buffer.String())
}

func TestDrag_ReleaseOutsideGridCommitsNothing(t *testing.T) {
	ctl, sink, committer, _ := newTestController(t)

	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	ctl.PointerMove(grid.Point{X: -10, Y: -10}) // leaves the grid
	ctl.PointerUp()

	require.Empty(t, committer.cells, "no cell under the finger at release")
	require.Equal(t, []bool{false}, sink.results,
		"a completed off-grid release still reports one failed result")
	require.Len(t, sink.pulses, 1, "leaving the grid fires no pulse")
}

func TestDrag_DownOutsideGridThenMoveIn(t *testing.T) {
	ctl, sink, committer, _ := newTestController(t)

	ctl.PointerDown(grid.Point{X: 9999, Y: 0})
	require.True(t, ctl.Tracking())
	require.Empty(t, sink.pulses)

	ctl.PointerMove(center(grid.Cell{Row: 2, Col: 2}))
	require.Len(t, sink.pulses, 1)

	ctl.PointerUp()
	require.Equal(t, []grid.Cell{{Row: 2, Col: 2}}, committer.cells)
}

func TestDrag_PulseKindsFollowBaseGlyph(t *testing.T) {
	ctl, sink, _, _ := newTestController(t)

	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0})) // letter q
	ctl.PointerMove(center(grid.Cell{Row: 2, Col: 0})) // shift
	ctl.PointerMove(center(deleteCell))                // delete
	ctl.PointerCancel()

	require.Equal(t, feedback.KindLetter, sink.pulses[0].Kind)
	require.Equal(t, feedback.KindShift, sink.pulses[1].Kind)
	require.Equal(t, feedback.KindDelete, sink.pulses[2].Kind)
}

func TestLongPress_ArmsOnlyOverDeleteCell(t *testing.T) {
	ctl, _, _, _ := newTestController(t)

	_, armed := ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	require.False(t, armed)
	ctl.PointerUp()

	token, armed := ctl.PointerDown(center(deleteCell))
	require.True(t, armed)
	require.NotZero(t, token)
	ctl.PointerUp()
}

func TestLongPress_StartsRepeatWhenHeld(t *testing.T) {
	ctl, _, _, repeater := newTestController(t)

	token, armed := ctl.PointerDown(center(deleteCell))
	require.True(t, armed)

	ctl.LongPressFired(token)
	require.True(t, repeater.Active())

	ctl.PointerUp()
	require.False(t, repeater.Active(), "release stops the repeat session")
}

func TestLongPress_StaleTokenIgnoredAfterCellChange(t *testing.T) {
	ctl, _, _, repeater := newTestController(t)

	token, _ := ctl.PointerDown(center(deleteCell))
	ctl.PointerMove(center(grid.Cell{Row: 2, Col: 8})) // leave delete

	ctl.LongPressFired(token)
	require.False(t, repeater.Active(), "cell change invalidates the pending hold check")
	ctl.PointerUp()
}

func TestLongPress_ReenteringDeleteArmsFreshToken(t *testing.T) {
	ctl, _, _, repeater := newTestController(t)

	stale, _ := ctl.PointerDown(center(deleteCell))
	ctl.PointerMove(center(grid.Cell{Row: 2, Col: 8}))
	token, armed := ctl.PointerMove(center(deleteCell))
	require.True(t, armed)
	require.NotEqual(t, stale, token)

	ctl.LongPressFired(stale)
	require.False(t, repeater.Active())
	ctl.LongPressFired(token)
	require.True(t, repeater.Active())
	ctl.PointerCancel()
	require.False(t, repeater.Active())
}

func TestLongPress_FiredAfterReleaseIsIgnored(t *testing.T) {
	ctl, _, _, repeater := newTestController(t)

	token, _ := ctl.PointerDown(center(deleteCell))
	ctl.PointerUp()

	ctl.LongPressFired(token)
	require.False(t, repeater.Active())
}

func TestReset_ReturnsToIdle(t *testing.T) {
	ctl, _, committer, repeater := newTestController(t)

	token, _ := ctl.PointerDown(center(deleteCell))
	ctl.LongPressFired(token)
	require.True(t, repeater.Active())

	ctl.Reset() // mode toggle path
	require.False(t, ctl.Tracking())
	require.False(t, repeater.Active())

	ctl.PointerUp()
	require.Empty(t, committer.cells, "no commit after reset")
}

func TestSetLayout_SwapsSurfaceAndResets(t *testing.T) {
	ctl, _, _, _ := newTestController(t)

	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	ctl.SetLayout(layout.Symbols())

	require.False(t, ctl.Tracking())
	require.Equal(t, "symbols", ctl.Layout().Name())
}

func TestSecondPointerDownRestartsInteraction(t *testing.T) {
	ctl, sink, committer, _ := newTestController(t)

	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 0}))
	ctl.PointerDown(center(grid.Cell{Row: 0, Col: 1})) // down without an up
	ctl.PointerUp()

	require.Equal(t, []grid.Cell{{Row: 0, Col: 1}}, committer.cells,
		"only the second interaction commits")
	require.Len(t, sink.results, 1)
}

// Timing sanity: the hold threshold and repeat interval the UI schedules
// with stay at their documented defaults.
func TestTimingConstants(t *testing.T) {
	require.Equal(t, 300*time.Millisecond, repeat.DefaultHoldThreshold)
	require.Equal(t, 80*time.Millisecond, repeat.DefaultInterval)
}
