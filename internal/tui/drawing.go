// internal/tui/drawing.go
package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Clip bounds drawing to a screen region. Max values are exclusive.
type Clip struct {
	MinX, MinY, MaxX, MaxY int
}

// ScreenClip covers the whole screen minus bottom rows (e.g. the status bar).
func ScreenClip(s tcell.Screen, bottomRows int) Clip {
	w, h := s.Size()
	return Clip{MaxX: w, MaxY: h - bottomRows}
}

func (c Clip) contains(x, y int) bool {
	return x >= c.MinX && x < c.MaxX && y >= c.MinY && y < c.MaxY
}

// SetCell draws r at (x, y) if it lies inside clip.
func SetCell(s tcell.Screen, clip Clip, x, y int, r rune, style tcell.Style) {
	if clip.contains(x, y) {
		s.SetContent(x, y, r, nil, style)
	}
}

// FillRect fills the cells [x, x+w) x [y, y+h) with r.
func FillRect(s tcell.Screen, clip Clip, x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			SetCell(s, clip, col, row, r, style)
		}
	}
}

// DrawBox outlines the inclusive cell rectangle (x0, y0)-(x1, y1).
// Degenerate boxes collapse to a line or a single cell.
func DrawBox(s tcell.Screen, clip Clip, x0, y0, x1, y1 int, style tcell.Style) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	switch {
	case x0 == x1 && y0 == y1:
		SetCell(s, clip, x0, y0, tcell.RuneBlock, style)
		return
	case y0 == y1:
		DrawLine(s, clip, x0, y0, x1, y1, tcell.RuneHLine, style)
		return
	case x0 == x1:
		DrawLine(s, clip, x0, y0, x1, y1, tcell.RuneVLine, style)
		return
	}
	for x := x0 + 1; x < x1; x++ {
		SetCell(s, clip, x, y0, tcell.RuneHLine, style)
		SetCell(s, clip, x, y1, tcell.RuneHLine, style)
	}
	for y := y0 + 1; y < y1; y++ {
		SetCell(s, clip, x0, y, tcell.RuneVLine, style)
		SetCell(s, clip, x1, y, tcell.RuneVLine, style)
	}
	SetCell(s, clip, x0, y0, tcell.RuneULCorner, style)
	SetCell(s, clip, x1, y0, tcell.RuneURCorner, style)
	SetCell(s, clip, x0, y1, tcell.RuneLLCorner, style)
	SetCell(s, clip, x1, y1, tcell.RuneLRCorner, style)
}

// DrawLine plots a Bresenham line between two cells.
func DrawLine(s tcell.Screen, clip Clip, x0, y0, x1, y1 int, r rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		SetCell(s, clip, x0, y0, r, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawEllipse plots the outline of an axis-aligned ellipse in cell units.
func DrawEllipse(s tcell.Screen, clip Clip, cx, cy, rx, ry float64, r rune, style tcell.Style) {
	// Two samples per cell of circumference.
	steps := int(math.Ceil(2*math.Pi*math.Max(rx, ry))) * 2
	if steps < 8 {
		steps = 8
	}
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + rx*math.Cos(a)))
		y := int(math.Round(cy + ry*math.Sin(a)))
		SetCell(s, clip, x, y, r, style)
	}
}

// DrawText draws text starting at (x, y) using grapheme widths and returns the
// number of cells used. Drawing stops at clip.MaxX.
func DrawText(s tcell.Screen, clip Clip, x, y int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	currentX := x
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > clip.MaxX {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 && clip.contains(currentX, y) {
			s.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
	return currentX - x
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
