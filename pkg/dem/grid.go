package dem

import (
	"math"

	"github.com/dgroleau/thalweg/pkg/errors"
)

// Grid is an in-memory regular elevation grid with square cells.
//
// Values are stored row-major with row 0 at the north (top) edge, the
// layout raster formats deliver. Lookups are nearest-cell: every point
// inside a cell reads that cell's value, with no interpolation, matching
// the cell-value semantics of the survey tooling this module replaces.
type Grid struct {
	cols, rows int
	xll, yll   float64 // coordinates of the lower-left grid corner
	cellSize   float64
	noData     float64
	vals       []float64 // row-major, north to south
}

// NewGrid builds a grid from raw values. vals must hold cols*rows entries
// ordered row-major from the north edge. Cells equal to noData (or NaN)
// read as NoData.
func NewGrid(cols, rows int, xll, yll, cellSize, noData float64, vals []float64) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid must have positive dimensions, got %dx%d", cols, rows)
	}
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "cell size must be positive, got %g", cellSize)
	}
	if len(vals) != cols*rows {
		return nil, errors.New(errors.ErrCodeInvalidGrid,
			"grid of %dx%d needs %d values, got %d", cols, rows, cols*rows, len(vals))
	}
	return &Grid{
		cols: cols, rows: rows,
		xll: xll, yll: yll,
		cellSize: cellSize,
		noData:   noData,
		vals:     vals,
	}, nil
}

// At implements [ElevationSource] with nearest-cell lookup.
func (g *Grid) At(x, y float64) (float64, bool) {
	col := int(math.Floor((x - g.xll) / g.cellSize))
	rowFromSouth := int(math.Floor((y - g.yll) / g.cellSize))
	if col < 0 || col >= g.cols || rowFromSouth < 0 || rowFromSouth >= g.rows {
		return 0, false
	}
	row := g.rows - 1 - rowFromSouth
	z := g.vals[row*g.cols+col]
	if math.IsNaN(z) || z == g.noData {
		return 0, false
	}
	return z, true
}

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the square cell edge length.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Bounds returns the outer extent of the grid (xmin, ymin, xmax, ymax).
func (g *Grid) Bounds() (xmin, ymin, xmax, ymax float64) {
	return g.xll, g.yll,
		g.xll + float64(g.cols)*g.cellSize,
		g.yll + float64(g.rows)*g.cellSize
}
