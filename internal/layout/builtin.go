package layout

import "tapboard/internal/grid"

// DefaultGeometry is the grid used by the builtin layouts.
var DefaultGeometry = grid.Geometry{Rows: 4, Cols: 10, CellWidth: 32, CellHeight: 48}

// Letters returns the builtin alphabetic layout.
func Letters() Layout {
	keys := []KeyDef{
		Char("q"), Char("w"), Char("e"), Char("r"), Char("t"), Char("y"), Char("u"), Char("i"), Char("o"), Char("p"),
		Char("a"), Char("s"), Char("d"), Char("f"), Char("g"), Char("h"), Char("j"), Char("k"), Char("l"), Char("'"),
		Shift(), Char("z"), Char("x"), Char("c"), Char("v"), Char("b"), Char("n"), Char("m"), Char(","), Delete(),
		Char("!"), Char("?"), Char("."), Space(), Space(), Space(), Space(), Char("-"), Char("_"), Newline(),
	}
	l, err := New("letters", DefaultGeometry, keys)
	if err != nil {
		panic(err) // builtin layouts are fixed at compile time
	}
	return l
}

// Symbols returns the builtin digits-and-symbols layout, the alternate
// surface swapped in by the mode toggle.
func Symbols() Layout {
	keys := []KeyDef{
		Char("1"), Char("2"), Char("3"), Char("4"), Char("5"), Char("6"), Char("7"), Char("8"), Char("9"), Char("0"),
		Char("@"), Char("#"), Char("$"), Char("%"), Char("&"), Char("*"), Char("("), Char(")"), Char("\""), Char("'"),
		Shift(), Char("="), Char("+"), Char("/"), Char("\\"), Char(":"), Char(";"), Char("<"), Char(">"), Delete(),
		Char(","), Char("."), Char("?"), Space(), Space(), Space(), Space(), Char("-"), Char("_"), Newline(),
	}
	l, err := New("symbols", DefaultGeometry, keys)
	if err != nil {
		panic(err)
	}
	return l
}
