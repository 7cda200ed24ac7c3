package surface

import (
	"testing"
	"time"

	"tapboard/internal/dispatch"
	"tapboard/internal/feedback"
	"tapboard/internal/grid"
	"tapboard/internal/input"
	"tapboard/internal/layout"
	"tapboard/internal/modifier"
	"tapboard/internal/pubsub"
	"tapboard/internal/repeat"
	"tapboard/internal/textbuf"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	m.Run()
}

// newRig builds a surface over the letters layout with a fast repeater.
func newRig(t *testing.T) (Model, *modifier.Machine, *textbuf.Memory, *repeat.Controller) {
	t.Helper()

	machine := modifier.NewMachine()
	buffer := textbuf.NewMemory()
	repeater := repeat.NewController(repeat.WithInterval(5 * time.Millisecond))
	t.Cleanup(repeater.Close)
	sink := feedback.NewBrokerSink()
	t.Cleanup(sink.Close)

	ctrl := input.NewController(layout.Letters(), sink, nil, repeater)
	dispatcher := dispatch.NewDispatcher(ctrl, machine, buffer)

	m := New(t.Context(), Config{
		Controller:    ctrl,
		Machine:       machine,
		Committer:     dispatcher,
		Buffer:        buffer,
		Pulses:        sink,
		Repeater:      repeater,
		HoldThreshold: 10 * time.Millisecond,
		FlashDuration: 10 * time.Millisecond,
	})
	return m, machine, buffer, repeater
}

// cellCenter returns the surface-space point at the middle of a cell.
func cellCenter(geo grid.Geometry, cell grid.Cell) grid.Point {
	return grid.Point{
		X: (float64(cell.Col) + 0.5) * geo.CellWidth,
		Y: (float64(cell.Row) + 0.5) * geo.CellHeight,
	}
}

// findKey locates the first cell holding a key of the given kind.
func findKey(t *testing.T, l layout.Layout, kind layout.GlyphKind) grid.Cell {
	t.Helper()
	geo := l.Geometry()
	for row := range geo.Rows {
		for col := range geo.Cols {
			cell := grid.Cell{Row: row, Col: col}
			if def, ok := l.Key(cell); ok && def.Kind == kind {
				return cell
			}
		}
	}
	t.Fatalf("layout %s has no %s key", l.Name(), kind)
	return grid.Cell{}
}

func TestView_ShowsAllKeyGlyphs(t *testing.T) {
	m, _, _, _ := newRig(t)
	out := m.View()

	for _, want := range []string{"q", "p", "⇧", "⌫", "␣", "⏎"} {
		require.Contains(t, out, want)
	}
}

func TestView_UppercaseWhileShiftActive(t *testing.T) {
	m, machine, _, _ := newRig(t)
	machine.OnShiftCommitted()

	out := m.View()
	require.Contains(t, out, "Q")
	require.NotContains(t, out, "q")
}

func TestRelease_CommitsCellUnderPointer(t *testing.T) {
	m, _, buffer, _ := newRig(t)
	geo := m.Layout().Geometry()

	m.ctrl.PointerDown(cellCenter(geo, grid.Cell{Row: 0, Col: 0}))
	m.pressed = true

	m, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.Equal(t, "q", buffer.String())
	require.False(t, m.Tracking())
}

func TestLongPress_ValidTokenStartsRepeat(t *testing.T) {
	m, _, _, repeater := newRig(t)
	deleteCell := findKey(t, m.Layout(), layout.GlyphDelete)

	token, armed := m.ctrl.PointerDown(cellCenter(m.Layout().Geometry(), deleteCell))
	require.True(t, armed)
	m.pressed = true

	m, _ = m.Update(LongPressMsg{Token: token})
	require.True(t, repeater.Active())
}

func TestLongPress_StaleTokenIgnored(t *testing.T) {
	m, _, _, repeater := newRig(t)
	deleteCell := findKey(t, m.Layout(), layout.GlyphDelete)
	geo := m.Layout().Geometry()

	token, _ := m.ctrl.PointerDown(cellCenter(geo, deleteCell))
	m.pressed = true

	// Moving off the delete key invalidates the token.
	m.ctrl.PointerMove(cellCenter(geo, grid.Cell{Row: 0, Col: 0}))

	m, _ = m.Update(LongPressMsg{Token: token})
	require.False(t, repeater.Active())
}

func TestRepeatTick_DeletesWhileHoldingDelete(t *testing.T) {
	m, _, buffer, _ := newRig(t)
	buffer.Append("ab")
	deleteCell := findKey(t, m.Layout(), layout.GlyphDelete)

	m.ctrl.PointerDown(cellCenter(m.Layout().Geometry(), deleteCell))
	m.pressed = true

	m, cmd := m.Update(pubsub.Event[repeat.Tick]{Type: pubsub.CreatedEvent, Payload: repeat.Tick{Seq: 1}})
	require.NotNil(t, cmd, "tick handler re-listens")
	require.Equal(t, "a", buffer.String())
}

func TestRepeatTick_NoopWhenNotOverDelete(t *testing.T) {
	m, _, buffer, _ := newRig(t)
	buffer.Append("ab")

	m.ctrl.PointerDown(cellCenter(m.Layout().Geometry(), grid.Cell{Row: 0, Col: 0}))
	m.pressed = true

	m, _ = m.Update(pubsub.Event[repeat.Tick]{Type: pubsub.CreatedEvent, Payload: repeat.Tick{Seq: 1}})
	require.Equal(t, "ab", buffer.String())
}

func TestPulseEvent_FlashesThenClears(t *testing.T) {
	m, _, _, _ := newRig(t)

	m, cmd := m.Update(pubsub.Event[feedback.Pulse]{
		Type:    pubsub.CreatedEvent,
		Payload: feedback.Pulse{Cell: grid.Cell{Row: 1, Col: 2}, Kind: feedback.KindLetter},
	})
	require.True(t, m.flashing)
	require.Equal(t, grid.Cell{Row: 1, Col: 2}, m.flashCell)
	require.NotNil(t, cmd)

	// A stale clear (older generation) must not erase a newer flash.
	m, _ = m.Update(clearFlashMsg{gen: m.flashGen - 1})
	require.True(t, m.flashing)

	m, _ = m.Update(clearFlashMsg{gen: m.flashGen})
	require.False(t, m.flashing)
}

func TestSetLayout_ResetsInteraction(t *testing.T) {
	m, _, _, repeater := newRig(t)
	geo := m.Layout().Geometry()

	m.ctrl.PointerDown(cellCenter(geo, grid.Cell{Row: 0, Col: 0}))
	m.pressed = true

	m = m.SetLayout(layout.Symbols())
	require.Equal(t, "symbols", m.Layout().Name())
	require.False(t, m.Tracking())
	require.False(t, repeater.Active())
}

func TestCancelInteraction_NoCommit(t *testing.T) {
	m, _, buffer, _ := newRig(t)
	geo := m.Layout().Geometry()

	m.ctrl.PointerDown(cellCenter(geo, grid.Cell{Row: 0, Col: 0}))
	m.pressed = true

	m = m.CancelInteraction()
	require.False(t, m.Tracking())
	require.Empty(t, buffer.String())
}

func TestView_MarksZonePerKey(t *testing.T) {
	m, _, _, _ := newRig(t)
	out := zone.Scan(m.View())
	require.NotEmpty(t, out)
}
