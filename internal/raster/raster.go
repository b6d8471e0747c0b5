// Package raster renders canvas objects to PNG with gogpu/gg.
package raster

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

// Options controls an export.
type Options struct {
	Width      int
	Height     int
	Background string
	FontPath   string  // TrueType/OpenType font; text is skipped without one
	FontSize   float64 // Used when an object has no font size
}

// Export renders objs and writes a PNG to path.
func Export(objs []*canvas.Object, opts Options, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", path, err)
	}
	if err := Encode(objs, opts, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close '%s': %w", path, err)
	}
	logger.Infof("Raster: Exported %d object(s) to %s", len(objs), path)
	return nil
}

// Encode renders objs and writes a PNG to w.
func Encode(objs []*canvas.Object, opts Options, w io.Writer) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid export size %dx%d", opts.Width, opts.Height)
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	defer dc.Close()

	r := &renderer{dc: dc, fontSize: opts.FontSize}
	if opts.FontPath != "" {
		src, err := text.NewFontSourceFromFile(opts.FontPath)
		if err != nil {
			logger.Warnf("Raster: Font %s unavailable, text skipped: %v", opts.FontPath, err)
		} else {
			defer src.Close()
			r.font = src
		}
	}

	bg := opts.Background
	if bg == "" {
		bg = canvas.DefaultBackground
	}
	if c, a, err := canvas.ParseColor(bg); err == nil && a > 0 {
		dc.ClearWithColor(gg.RGBA{R: c.R, G: c.G, B: c.B, A: a})
	}

	var errs []error
	for _, o := range objs {
		if err := r.draw(o); err != nil {
			errs = append(errs, fmt.Errorf("object %s: %w", o.ID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

type renderer struct {
	dc       *gg.Context
	font     *text.FontSource
	fontSize float64
}

func (r *renderer) draw(o *canvas.Object) error {
	if o.Opacity <= 0 {
		return nil
	}
	if o.Shadow != nil {
		fill, stroke := o.Shadow.Color, ""
		if o.Fill == "" {
			// Outline-only shapes cast an outline shadow
			fill, stroke = "", o.Shadow.Color
		}
		if err := r.drawShape(o, o.Shadow.OffsetX, o.Shadow.OffsetY, fill, stroke); err != nil {
			return fmt.Errorf("shadow: %w", err)
		}
	}
	return r.drawShape(o, 0, 0, o.Fill, o.Stroke)
}

// drawShape fills and strokes o displaced by dx, dy.
func (r *renderer) drawShape(o *canvas.Object, dx, dy float64, fill, stroke string) error {
	dc := r.dc
	dc.Push()
	defer dc.Pop()

	dc.Translate(o.Left+dx, o.Top+dy)
	dc.Rotate(radians(o.Angle))
	dc.Shear(math.Tan(radians(o.SkewX)), math.Tan(radians(o.SkewY)))
	dc.Scale(o.ScaleX, o.ScaleY)

	if o.Kind == canvas.KindText {
		r.drawText(o, fill)
		return nil
	}

	dc.ClearPath()
	switch o.Kind {
	case canvas.KindRect:
		dc.DrawRectangle(0, 0, o.Width, o.Height)
	case canvas.KindEllipse:
		dc.DrawEllipse(o.Width/2, o.Height/2, o.Width/2, o.Height/2)
	case canvas.KindPath:
		if err := tracePath(dc, o.Path); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", canvas.ErrUnknownKind, o.Kind)
	}

	if setColor(dc, fill, o.Opacity) {
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if o.StrokeWidth > 0 && setColor(dc, stroke, o.Opacity) {
		dc.SetLineWidth(o.StrokeWidth)
		if err := dc.StrokePreserve(); err != nil {
			return err
		}
	}
	dc.ClearPath()
	return nil
}

func (r *renderer) drawText(o *canvas.Object, color string) {
	if r.font == nil || o.Text == "" {
		return
	}
	size := o.FontSize
	if size <= 0 {
		size = r.fontSize
	}
	if size <= 0 {
		size = 16
	}
	if !setColor(r.dc, color, o.Opacity) {
		return
	}
	r.dc.SetFont(r.font.Face(size))

	x, ax := 0.0, 0.0
	switch o.TextAlign {
	case canvas.AlignCenter:
		x, ax = o.Width/2, 0.5
	case canvas.AlignRight:
		x, ax = o.Width, 1
	}
	for i, line := range strings.Split(o.Text, "\n") {
		r.dc.DrawStringAnchored(line, x, float64(i)*size*1.16, ax, 1)
	}
}

// pathArgs is the argument count of each supported path command.
var pathArgs = map[string]int{"M": 2, "L": 2, "Q": 4, "C": 6, "Z": 0}

func tracePath(dc *gg.Context, cmds []canvas.PathCommand) error {
	for _, c := range cmds {
		a := c.Args
		n, ok := pathArgs[strings.ToUpper(c.Op)]
		if !ok {
			return fmt.Errorf("unsupported path command %q", c.Op)
		}
		if len(a) < n {
			return fmt.Errorf("path command %q needs %d arguments, got %d", c.Op, n, len(a))
		}
		switch strings.ToUpper(c.Op) {
		case "M":
			dc.MoveTo(a[0], a[1])
		case "L":
			dc.LineTo(a[0], a[1])
		case "Q":
			dc.QuadraticTo(a[0], a[1], a[2], a[3])
		case "C":
			dc.CubicTo(a[0], a[1], a[2], a[3], a[4], a[5])
		case "Z":
			dc.ClosePath()
		}
	}
	return nil
}

// setColor sets the brush from a CSS-like colour scaled by opacity.
// It returns false for empty or fully transparent colours.
func setColor(dc *gg.Context, color string, opacity float64) bool {
	c, a, err := canvas.ParseColor(color)
	if err != nil || a*opacity <= 0 {
		return false
	}
	dc.SetRGBA(c.R, c.G, c.B, a*opacity)
	return true
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
