// Package grid maps pointer coordinates onto the key grid.
package grid

import (
	"fmt"
	"math"
)

// Point is a pointer coordinate in surface space.
type Point struct {
	X float64
	Y float64
}

// Cell identifies one key slot by row and column.
type Cell struct {
	Row int
	Col int
}

// Geometry describes the key grid dimensions. Immutable per layout.
type Geometry struct {
	Rows       int
	Cols       int
	CellWidth  float64
	CellHeight float64
}

// Validate checks that the geometry describes a usable grid.
func (g Geometry) Validate() error {
	if g.Rows <= 0 || g.Cols <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", g.Rows, g.Cols)
	}
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return fmt.Errorf("cell size must be positive, got %gx%g", g.CellWidth, g.CellHeight)
	}
	return nil
}

// Width returns the total surface width.
func (g Geometry) Width() float64 { return float64(g.Cols) * g.CellWidth }

// Height returns the total surface height.
func (g Geometry) Height() float64 { return float64(g.Rows) * g.CellHeight }

// Contains reports whether the cell is a valid slot in the geometry.
func (g Geometry) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Index returns the cell's position in a row-major key sequence.
func (g Geometry) Index(c Cell) int { return c.Row*g.Cols + c.Col }

// Locate resolves a pointer coordinate to the cell under it.
// Cells are half-open rectangles [col*w, (col+1)*w) x [row*h, (row+1)*h),
// so every in-bounds point maps to exactly one cell. Returns false when
// the point falls outside the grid.
func Locate(p Point, g Geometry) (Cell, bool) {
	if p.X < 0 || p.Y < 0 {
		return Cell{}, false
	}
	qx := math.Floor(p.X / g.CellWidth)
	qy := math.Floor(p.Y / g.CellHeight)
	// Bound the quotients before converting: float-to-int conversion of
	// a value beyond the int range is undefined, and NaN compares false,
	// so only points proven inside the grid reach the conversion.
	if !(qx < float64(g.Cols) && qy < float64(g.Rows)) {
		return Cell{}, false
	}
	return Cell{Row: int(qy), Col: int(qx)}, true
}
