// Package render draws the canvas document onto the terminal.
package render

import (
	"math"
	"strings"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/bethropolis/easel/internal/tui"
	"github.com/bethropolis/easel/internal/types"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Scene is the read side of the document the renderer needs.
type Scene interface {
	Objects() []*canvas.Object
	Selection() []string
	Size() (float64, float64)
	Background() string
}

// Canvas draws the page border, every object in z-order, and the selection.
// Skew is not shown in the terminal preview.
func Canvas(s tcell.Screen, clip tui.Clip, scene Scene, vp Viewport, th *theme.Theme) {
	w, h := scene.Size()
	x0, y0 := vp.OriginX-1, vp.OriginY-1
	x1, y1 := vp.ToCell(types.Point{X: w, Y: h})

	pageStyle := th.GetStyle(theme.StyleCanvas)
	tui.FillRect(s, clip, x0, y0, x1-x0+1, y1-y0+1, ' ', pageStyle)
	tui.DrawBox(s, clip, x0, y0, x1, y1, th.GetStyle(theme.StyleCanvasBorder))

	bg, _, err := canvas.ParseColor(scene.Background())
	if err != nil {
		logger.DebugTagf("draw", "Render: bad background %q: %v", scene.Background(), err)
		bg = colorful.Color{R: 1, G: 1, B: 1}
	}

	selected := make(map[string]bool)
	for _, id := range scene.Selection() {
		selected[id] = true
	}

	inner := tui.Clip{MinX: x0 + 1, MinY: y0 + 1, MaxX: min(x1, clip.MaxX), MaxY: min(y1, clip.MaxY)}
	for _, o := range scene.Objects() {
		style := th.GetStyle(theme.StyleObject)
		if o.Kind == canvas.KindText {
			style = th.GetStyle(theme.StyleObjectText)
		}
		if selected[o.ID] {
			style = th.GetStyle(theme.StyleSelection)
		}
		drawObject(s, inner, vp, o, style, bg)
	}
}

func drawObject(s tcell.Screen, clip tui.Clip, vp Viewport, o *canvas.Object, style tcell.Style, bg colorful.Color) {
	switch o.Kind {
	case canvas.KindRect:
		drawRect(s, clip, vp, o, style, bg)
	case canvas.KindEllipse:
		drawEllipse(s, clip, vp, o, style, bg)
	case canvas.KindPath:
		drawPath(s, clip, vp, o, style)
	case canvas.KindText:
		drawText(s, clip, vp, o, style)
	}
}

// FillColor blends the object's fill over bg by its alpha and opacity.
// ok is false when nothing would show.
func FillColor(o *canvas.Object, bg colorful.Color) (tcell.Color, bool) {
	c, alpha, err := canvas.ParseColor(o.Fill)
	if err != nil || alpha*o.Opacity <= 0 {
		return tcell.ColorDefault, false
	}
	r, g, b := bg.BlendRgb(c, alpha*o.Opacity).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), true
}

// local maps a point in the object's own box (unscaled) to canvas space.
func local(o *canvas.Object, lx, ly float64) types.Point {
	x, y := lx*o.ScaleX, ly*o.ScaleY
	if o.Angle != 0 {
		rad := o.Angle * math.Pi / 180
		x, y = x*math.Cos(rad)-y*math.Sin(rad), x*math.Sin(rad)+y*math.Cos(rad)
	}
	return types.Point{X: o.Left + x, Y: o.Top + y}
}

func drawRect(s tcell.Screen, clip tui.Clip, vp Viewport, o *canvas.Object, style tcell.Style, bg colorful.Color) {
	if o.Angle == 0 {
		b := o.Bounds()
		x0, y0 := vp.ToCell(types.Point{X: b.X, Y: b.Y})
		x1, y1 := vp.ToCell(types.Point{X: b.X + b.Width, Y: b.Y + b.Height})
		if fill, ok := FillColor(o, bg); ok {
			tui.FillRect(s, clip, x0, y0, x1-x0+1, y1-y0+1, ' ', style.Background(fill))
		}
		tui.DrawBox(s, clip, x0, y0, x1, y1, style)
		return
	}
	corners := []types.Point{
		local(o, 0, 0),
		local(o, o.Width, 0),
		local(o, o.Width, o.Height),
		local(o, 0, o.Height),
	}
	polyline(s, clip, vp, corners, true, style)
}

func drawEllipse(s tcell.Screen, clip tui.Clip, vp Viewport, o *canvas.Object, style tcell.Style, bg colorful.Color) {
	c := local(o, o.Width/2, o.Height/2)
	rx := o.ScaledWidth() / 2 / vp.CellWidth
	ry := o.ScaledHeight() / 2 / vp.CellHeight
	cx := float64(vp.OriginX) + c.X/vp.CellWidth - 0.5
	cy := float64(vp.OriginY) + c.Y/vp.CellHeight - 0.5

	if fill, ok := FillColor(o, bg); ok && rx > 0 && ry > 0 {
		fillStyle := style.Background(fill)
		for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
			for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
				nx, ny := (float64(x)-cx)/rx, (float64(y)-cy)/ry
				if nx*nx+ny*ny <= 1 {
					tui.SetCell(s, clip, x, y, ' ', fillStyle)
				}
			}
		}
	}
	tui.DrawEllipse(s, clip, cx, cy, rx, ry, tcell.RuneBullet, style)
}

func drawPath(s tcell.Screen, clip tui.Clip, vp Viewport, o *canvas.Object, style tcell.Style) {
	var pts []types.Point
	closed := false
	for _, cmd := range o.Path {
		if strings.EqualFold(cmd.Op, "Z") {
			closed = true
			continue
		}
		cp := cmd.Points()
		if len(cp) == 0 {
			continue
		}
		// Curves are approximated by their end point.
		end := cp[len(cp)-1]
		pts = append(pts, local(o, end.X, end.Y))
	}
	polyline(s, clip, vp, pts, closed, style)
}

func polyline(s tcell.Screen, clip tui.Clip, vp Viewport, pts []types.Point, closed bool, style tcell.Style) {
	if len(pts) == 0 {
		return
	}
	if closed && len(pts) > 2 {
		pts = append(pts, pts[0])
	}
	if len(pts) == 1 {
		x, y := vp.ToCell(pts[0])
		tui.SetCell(s, clip, x, y, tcell.RuneBullet, style)
		return
	}
	for i := 1; i < len(pts); i++ {
		ax, ay := vp.ToCell(pts[i-1])
		bx, by := vp.ToCell(pts[i])
		tui.DrawLine(s, clip, ax, ay, bx, by, tcell.RuneBullet, style)
	}
}

func drawText(s tcell.Screen, clip tui.Clip, vp Viewport, o *canvas.Object, style tcell.Style) {
	x0, y0 := vp.ToCell(types.Point{X: o.Left, Y: o.Top})
	boxCells := int(math.Round(o.ScaledWidth() / vp.CellWidth))
	for i, line := range strings.Split(o.Text, "\n") {
		x := x0
		n := len([]rune(line))
		switch o.TextAlign {
		case canvas.AlignCenter:
			x += max(0, (boxCells-n)/2)
		case canvas.AlignRight:
			x += max(0, boxCells-n)
		}
		tui.DrawText(s, clip, x, y0+i, line, style)
	}
}
