package bufferview

import (
	"strings"
	"testing"

	"tapboard/internal/textbuf"

	"github.com/stretchr/testify/require"
)

func TestView_ShowsBufferText(t *testing.T) {
	buf := textbuf.NewMemory()
	buf.Append("hello world")

	out := New(buf).SetSize(40, 6).View()
	require.Contains(t, out, "hello world")
	require.Contains(t, out, cursorGlyph)
}

func TestView_EmptyBufferStillShowsCursor(t *testing.T) {
	buf := textbuf.NewMemory()

	out := New(buf).SetSize(40, 6).View()
	require.Contains(t, out, cursorGlyph)
}

func TestView_WrapsLongText(t *testing.T) {
	buf := textbuf.NewMemory()
	buf.Append(strings.Repeat("abc ", 20))

	out := New(buf).SetSize(20, 10).View()
	require.Greater(t, strings.Count(out, "\n"), 1)
}

func TestView_KeepsTailWhenOverflowing(t *testing.T) {
	buf := textbuf.NewMemory()
	for range 30 {
		buf.Append("line\n")
	}
	buf.Append("tail")

	out := New(buf).SetSize(40, 5).View()
	require.Contains(t, out, "tail")
	require.NotContains(t, out, "line\nline\nline\nline\nline")
}

func TestLen_ReflectsBuffer(t *testing.T) {
	buf := textbuf.NewMemory()
	buf.Append("abc")
	require.Equal(t, 3, New(buf).Len())
}
