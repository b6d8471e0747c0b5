package render

import (
	"math"

	"github.com/bethropolis/easel/internal/types"
)

// Viewport maps canvas units to terminal cells. The canvas origin sits at
// cell (OriginX, OriginY), leaving room for the page border.
type Viewport struct {
	CellWidth  float64 // Canvas units per column
	CellHeight float64 // Canvas units per row
	OriginX    int
	OriginY    int
}

// NewViewport returns a viewport with the page border at row and column 0.
func NewViewport(cellWidth, cellHeight float64) Viewport {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return Viewport{CellWidth: cellWidth, CellHeight: cellHeight, OriginX: 1, OriginY: 1}
}

// ToCell returns the cell containing p.
func (v Viewport) ToCell(p types.Point) (int, int) {
	return v.OriginX + int(math.Floor(p.X/v.CellWidth)), v.OriginY + int(math.Floor(p.Y/v.CellHeight))
}

// ToCanvas returns the canvas point at the centre of cell (x, y).
func (v Viewport) ToCanvas(x, y int) types.Point {
	return types.Point{
		X: (float64(x-v.OriginX) + 0.5) * v.CellWidth,
		Y: (float64(y-v.OriginY) + 0.5) * v.CellHeight,
	}
}

// Delta converts a cell offset into canvas units.
func (v Viewport) Delta(dx, dy int) (float64, float64) {
	return float64(dx) * v.CellWidth, float64(dy) * v.CellHeight
}
