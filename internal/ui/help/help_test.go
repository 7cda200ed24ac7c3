package help

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestView_ContainsSections(t *testing.T) {
	m := New().SetSize(120, 40)
	out := m.View()

	require.Contains(t, out, "Tapboard Help")
	require.Contains(t, out, "Gestures")
	require.Contains(t, out, "Actions")
	require.Contains(t, out, "General")
	require.Contains(t, out, "Press ? or Esc to close")
}

func TestView_ContainsGestureReference(t *testing.T) {
	out := New().SetSize(120, 40).View()

	for _, g := range Gestures() {
		require.Contains(t, out, g.Name)
	}
}

func TestView_ContainsKeybindings(t *testing.T) {
	out := New().SetSize(120, 40).View()

	require.Contains(t, out, "tab")
	require.Contains(t, out, "ctrl+s")
	require.Contains(t, out, "ctrl+u")
}

func TestOverlay_PlacesOverBackground(t *testing.T) {
	m := New().SetSize(80, 24)
	bg := ""
	for i := 0; i < 24; i++ {
		for j := 0; j < 80; j++ {
			bg += "x"
		}
		bg += "\n"
	}

	out := m.Overlay(bg)
	require.Contains(t, out, "Tapboard Help")
	require.Contains(t, out, "x", "background still visible around the box")
}
