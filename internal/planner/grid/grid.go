// Package grid stores the tile matrix. Each cell holds a palette index or None.
package grid

import (
	"fmt"

	"tile-planner/internal/planner/models"
	"tile-planner/internal/planner/palette"
)

const (
	DefaultWidth  = 40
	DefaultHeight = 40
)

// None marks an uncolored cell.
const None = palette.None

var _ palette.Observer = (*Grid)(nil)

type Grid struct {
	width  int
	height int
	cells  []int // row-major
}

// New returns a width x height grid with every cell uncolored.
func New(width, height int) *Grid {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	g := &Grid{width: width, height: height, cells: make([]int, width*height)}
	g.Clear()
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (row, col) addresses a cell.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

func (g *Grid) At(row, col int) (int, error) {
	if !g.InBounds(row, col) {
		return None, fmt.Errorf("cell (%d,%d) of %dx%d: %w", row, col, g.width, g.height, models.ErrOutOfRange)
	}
	return g.cells[row*g.width+col], nil
}

// Paint sets the palette reference of one cell. Validating index against the
// palette is the caller's job; the grid only rejects values below None.
func (g *Grid) Paint(row, col, index int) error {
	if !g.InBounds(row, col) {
		return fmt.Errorf("paint cell (%d,%d) of %dx%d: %w", row, col, g.width, g.height, models.ErrOutOfRange)
	}
	if index < None {
		return fmt.Errorf("paint palette index %d: %w", index, models.ErrOutOfRange)
	}
	g.cells[row*g.width+col] = index
	return nil
}

// Clear uncolors every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = None
	}
}

// PaletteIndexRemoved keeps every cell pointing at the same color after the
// palette dropped index removed.
func (g *Grid) PaletteIndexRemoved(removed int) {
	for i, v := range g.cells {
		if v != None {
			g.cells[i] = palette.Shift(v, removed)
		}
	}
}

func (g *Grid) PaletteCleared() {
	g.Clear()
}

// Cells returns a row-major copy of the cell references.
func (g *Grid) Cells() []int {
	out := make([]int, len(g.cells))
	copy(out, g.cells)
	return out
}

// Restore loads a row-major snapshot. limit is the palette length; references at
// or above it are dropped to None.
func (g *Grid) Restore(cells []int, limit int) error {
	if len(cells) != len(g.cells) {
		return fmt.Errorf("restore %d cells into %dx%d grid: %w", len(cells), g.width, g.height, models.ErrOutOfRange)
	}
	for i, v := range cells {
		if v < 0 || v >= limit {
			v = None
		}
		g.cells[i] = v
	}
	return nil
}

// Count returns how many cells reference index.
func (g *Grid) Count(index int) int {
	n := 0
	for _, v := range g.cells {
		if v == index {
			n++
		}
	}
	return n
}

// Each calls fn for every cell in row-major order.
func (g *Grid) Each(fn func(row, col, index int)) {
	for i, v := range g.cells {
		fn(i/g.width, i%g.width, v)
	}
}
