package textbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_AppendAndString(t *testing.T) {
	b := NewMemory()
	b.Append("a")
	b.Append("b")
	b.Append(" ")
	b.Append("\n")
	require.Equal(t, "ab \n", b.String())
	require.Equal(t, 4, b.Len())
}

func TestMemory_RemoveLast(t *testing.T) {
	b := NewMemory()
	b.Append("hi")
	b.RemoveLast()
	require.Equal(t, "h", b.String())
	b.RemoveLast()
	require.Equal(t, "", b.String())
}

func TestMemory_RemoveLastOnEmptyIsNoOp(t *testing.T) {
	b := NewMemory()
	b.RemoveLast()
	require.Equal(t, "", b.String())
	require.Equal(t, 0, b.Len())
}

func TestMemory_RemoveLastKeepsGraphemesWhole(t *testing.T) {
	b := NewMemory()
	b.Append("e")
	b.Append("👍🏽") // multi-rune cluster
	require.Equal(t, 2, b.Len())

	b.RemoveLast()
	require.Equal(t, "e", b.String(), "a single RemoveLast drops the whole cluster")
}

func TestMemory_AppendEmptyString(t *testing.T) {
	b := NewMemory()
	b.Append("")
	require.Equal(t, 0, b.Len())
}

func TestMemory_Clear(t *testing.T) {
	b := NewMemory()
	b.Append("abc")
	b.Clear()
	require.Equal(t, 0, b.Len())
}
