package imageutil

import "fmt"

// Grid is a dense row-major 2-D float64 matrix backed by a single flat
// buffer. It is used as scratch storage for per-call tables that would
// otherwise be built as slices of slices.
type Grid struct {
	data []float64
	rows int
	cols int
}

// NewGrid allocates a zeroed grid with the given shape.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("imageutil: invalid grid shape %dx%d", rows, cols))
	}
	return &Grid{
		data: make([]float64, rows*cols),
		rows: rows,
		cols: cols,
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	g.check(row, col)
	return g.data[row*g.cols+col]
}

// Row returns the backing slice for a row. Writes through the returned
// slice modify the grid.
func (g *Grid) Row(row int) []float64 {
	g.check(row, 0)
	off := row * g.cols
	return g.data[off : off+g.cols : off+g.cols]
}

// SumCol returns the sum of one column over all rows.
func (g *Grid) SumCol(col int) float64 {
	var sum float64
	for r := 0; r < g.rows; r++ {
		sum += g.At(r, col)
	}
	return sum
}

func (g *Grid) check(row, col int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("imageutil: grid index (%d,%d) out of range %dx%d",
			row, col, g.rows, g.cols))
	}
}
