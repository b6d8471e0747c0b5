package canvas

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/bethropolis/easel/internal/types"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Kind is the shape type of an Object.
type Kind string

const (
	KindRect    Kind = "rect"
	KindEllipse Kind = "ellipse"
	KindPath    Kind = "path"
	KindText    Kind = "text"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRect, KindEllipse, KindPath, KindText:
		return true
	}
	return false
}

// Text alignments.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Shadow is a drop shadow. Blur is stored but not rendered.
type Shadow struct {
	Color   string  `json:"color" yaml:"color"`
	OffsetX float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY float64 `json:"offsetY" yaml:"offsetY"`
	Blur    float64 `json:"blur" yaml:"blur"`
}

// DefaultShadow is applied by the shadow command without arguments.
func DefaultShadow() *Shadow {
	return &Shadow{Color: "#000000", OffsetX: 3, OffsetY: 3, Blur: 5}
}

// PathCommand is one segment: M/L take one point, Q two, C three, Z none.
// It serializes as ["M", x, y].
type PathCommand struct {
	Op   string
	Args []float64
}

func (pc PathCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(pc.values())
}

func (pc *PathCommand) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	if !res.IsArray() {
		return fmt.Errorf("%w: path command must be an array", ErrInvalidSnapshot)
	}
	items := res.Array()
	if len(items) == 0 || items[0].Type != gjson.String {
		return fmt.Errorf("%w: path command needs an op", ErrInvalidSnapshot)
	}
	pc.Op = items[0].String()
	pc.Args = make([]float64, 0, len(items)-1)
	for _, it := range items[1:] {
		if it.Type != gjson.Number {
			return fmt.Errorf("%w: path argument %q is not a number", ErrInvalidSnapshot, it.Raw)
		}
		pc.Args = append(pc.Args, it.Float())
	}
	return nil
}

func (pc PathCommand) MarshalYAML() (interface{}, error) {
	return pc.values(), nil
}

func (pc PathCommand) values() []interface{} {
	out := make([]interface{}, 0, len(pc.Args)+1)
	out = append(out, pc.Op)
	for _, a := range pc.Args {
		out = append(out, a)
	}
	return out
}

// Points returns the explicit points of the command, control points included.
func (pc PathCommand) Points() []types.Point {
	pts := make([]types.Point, 0, len(pc.Args)/2)
	for i := 0; i+1 < len(pc.Args); i += 2 {
		pts = append(pts, types.Point{X: pc.Args[i], Y: pc.Args[i+1]})
	}
	return pts
}

// Object is a single drawable on the canvas.
type Object struct {
	ID             string        `json:"id,omitempty" yaml:"id,omitempty"`
	Kind           Kind          `json:"type" yaml:"type"`
	Left           float64       `json:"left" yaml:"left"`
	Top            float64       `json:"top" yaml:"top"`
	Width          float64       `json:"width" yaml:"width"`
	Height         float64       `json:"height" yaml:"height"`
	ScaleX         float64       `json:"scaleX" yaml:"scaleX"`
	ScaleY         float64       `json:"scaleY" yaml:"scaleY"`
	Angle          float64       `json:"angle" yaml:"angle"`
	SkewX          float64       `json:"skewX" yaml:"skewX"`
	SkewY          float64       `json:"skewY" yaml:"skewY"`
	Fill           string        `json:"fill" yaml:"fill"`
	Stroke         string        `json:"stroke" yaml:"stroke"`
	StrokeWidth    float64       `json:"strokeWidth" yaml:"strokeWidth"`
	Opacity        float64       `json:"opacity" yaml:"opacity"`
	Selectable     bool          `json:"selectable" yaml:"selectable"`
	LockUniScaling bool          `json:"lockUniScaling,omitempty" yaml:"lockUniScaling,omitempty"`
	Path           []PathCommand `json:"path,omitempty" yaml:"path,omitempty"`
	Text           string        `json:"text,omitempty" yaml:"text,omitempty"`
	FontSize       float64       `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	TextAlign      string        `json:"textAlign,omitempty" yaml:"textAlign,omitempty"`
	Shadow         *Shadow       `json:"shadow,omitempty" yaml:"shadow,omitempty"`
}

// NewObject returns an object of kind k at the given box with default styling.
func NewObject(k Kind, left, top, width, height float64) *Object {
	o := &Object{
		ID:          uuid.NewString(),
		Kind:        k,
		Left:        left,
		Top:         top,
		Width:       width,
		Height:      height,
		ScaleX:      1,
		ScaleY:      1,
		Stroke:      "#000000",
		StrokeWidth: 1,
		Opacity:     1,
		Selectable:  true,
	}
	switch k {
	case KindRect, KindEllipse:
		o.Fill = "#cccccc"
	case KindText:
		o.Fill = "#000000"
		o.Stroke = ""
		o.FontSize = 20
		o.TextAlign = AlignLeft
	}
	return o
}

// NewText creates a text object. Its box is estimated from the font size.
func NewText(left, top float64, text string) *Object {
	o := NewObject(KindText, left, top, 0, 0)
	o.Text = text
	o.fitText()
	return o
}

// NewPath creates a path object from a command list; its box is the bounds of
// all points and the commands are stored relative to that box.
func NewPath(cmds []PathCommand) *Object {
	var pts []types.Point
	for _, c := range cmds {
		pts = append(pts, c.Points()...)
	}
	b := types.BoundsOf(pts)

	rel := make([]PathCommand, len(cmds))
	for i, c := range cmds {
		args := make([]float64, len(c.Args))
		for j, a := range c.Args {
			if j%2 == 0 {
				args[j] = a - b.X
			} else {
				args[j] = a - b.Y
			}
		}
		rel[i] = PathCommand{Op: c.Op, Args: args}
	}

	o := NewObject(KindPath, b.X, b.Y, b.Width, b.Height)
	o.Path = rel
	return o
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	c := *o
	if o.Path != nil {
		c.Path = make([]PathCommand, len(o.Path))
		for i, pc := range o.Path {
			c.Path[i] = PathCommand{Op: pc.Op, Args: append([]float64(nil), pc.Args...)}
		}
	}
	if o.Shadow != nil {
		s := *o.Shadow
		c.Shadow = &s
	}
	return &c
}

// ScaledWidth is the on-canvas width.
func (o *Object) ScaledWidth() float64 { return o.Width * o.ScaleX }

// ScaledHeight is the on-canvas height.
func (o *Object) ScaledHeight() float64 { return o.Height * o.ScaleY }

// Bounds is the unrotated box of the object in canvas units.
func (o *Object) Bounds() types.Rect {
	return types.Rect{X: o.Left, Y: o.Top, Width: o.ScaledWidth(), Height: o.ScaledHeight()}
}

// Contains hit-tests p against the object, taking its rotation into account.
func (o *Object) Contains(p types.Point) bool {
	if o.Angle != 0 {
		// Rotate p back around the object's origin
		rad := -o.Angle * math.Pi / 180
		dx, dy := p.X-o.Left, p.Y-o.Top
		p = types.Point{
			X: o.Left + dx*math.Cos(rad) - dy*math.Sin(rad),
			Y: o.Top + dx*math.Sin(rad) + dy*math.Cos(rad),
		}
	}
	return o.Bounds().Contains(p)
}

func (o *Object) fitText() {
	size := o.FontSize
	if size <= 0 {
		size = 20
	}
	longest, lines := 0, 1
	cur := 0
	for _, r := range o.Text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > longest {
			longest = cur
		}
	}
	o.Width = float64(longest) * size * 0.6
	o.Height = float64(lines) * size * 1.16
}

func (o *Object) validate() error {
	if !o.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, o.Kind)
	}
	if err := checkFinite(o.Left, o.Top, o.Width, o.Height, o.ScaleX, o.ScaleY,
		o.Angle, o.SkewX, o.SkewY, o.StrokeWidth, o.Opacity, o.FontSize); err != nil {
		return err
	}
	if o.ScaleX == 0 || o.ScaleY == 0 {
		return fmt.Errorf("%w: zero scale on %s %s", ErrNotFinite, o.Kind, o.ID)
	}
	if o.Shadow != nil {
		if err := checkFinite(o.Shadow.OffsetX, o.Shadow.OffsetY, o.Shadow.Blur); err != nil {
			return err
		}
	}
	for _, pc := range o.Path {
		if err := checkFinite(pc.Args...); err != nil {
			return err
		}
	}
	return nil
}

// checkFinite rejects NaN and infinite values; JSON cannot encode them.
func checkFinite(vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %g", ErrNotFinite, v)
		}
	}
	return nil
}
