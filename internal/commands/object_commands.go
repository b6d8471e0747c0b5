package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/plugin"
)

// registerObjectCommands adds :rect, :ellipse, :text and :path.
func registerObjectCommands(api plugin.EditorAPI, deps Deps) {
	doc := deps.Document

	shape := func(kind canvas.Kind) plugin.CommandFunc {
		return func(args []string) error {
			v, err := floats(args, 4, fmt.Sprintf("%s x y w h", kind))
			if err != nil {
				return err
			}
			o := canvas.NewObject(kind, v[0], v[1], v[2], v[3])
			if err := doc.Add(o); err != nil {
				return err
			}
			return selectNew(api, doc, o.ID, kind)
		}
	}
	register(api, "rect", shape(canvas.KindRect))
	register(api, "ellipse", shape(canvas.KindEllipse))

	register(api, "text", func(args []string) error {
		if len(args) < 3 {
			return fmt.Errorf("usage: text x y words...")
		}
		v, err := floats(args[:2], 2, "text x y words...")
		if err != nil {
			return err
		}
		o := canvas.NewText(v[0], v[1], strings.Join(args[2:], " "))
		if err := doc.Add(o); err != nil {
			return err
		}
		return selectNew(api, doc, o.ID, canvas.KindText)
	})

	register(api, "path", func(args []string) error {
		cmds, err := parsePath(args)
		if err != nil {
			return err
		}
		o, err := doc.AddPath(cmds)
		if err != nil {
			return err
		}
		return selectNew(api, doc, o.ID, canvas.KindPath)
	})
}

func selectNew(api plugin.EditorAPI, doc *canvas.Document, id string, kind canvas.Kind) error {
	if err := doc.Select(id); err != nil {
		return err
	}
	api.SetStatusMessage("Added %s", kind)
	return nil
}

const pathUsage = "path x1 y1 x2 y2 [...] [close]; curves: q cx cy x y, c c1x c1y c2x c2y x y"

// parsePath reads "x1 y1 x2 y2 ... [close]" into a move followed by lines.
// A "q" or "c" token starts a quadratic or cubic segment.
func parsePath(args []string) ([]canvas.PathCommand, error) {
	closed := false
	if n := len(args); n > 0 && strings.EqualFold(args[n-1], "close") {
		closed = true
		args = args[:n-1]
	}

	var cmds []canvas.PathCommand
	for i := 0; i < len(args); {
		op, n := "L", 2
		switch strings.ToLower(args[i]) {
		case "q":
			op, n = "Q", 4
			i++
		case "c":
			op, n = "C", 6
			i++
		}
		if len(cmds) == 0 {
			if op != "L" {
				return nil, fmt.Errorf("path must start with a point")
			}
			op = "M"
		}
		if i+n > len(args) {
			return nil, fmt.Errorf("usage: %s", pathUsage)
		}
		v, err := floats(args[i:i+n], n, pathUsage)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, canvas.PathCommand{Op: op, Args: v})
		i += n
	}
	if len(cmds) < 2 {
		return nil, fmt.Errorf("usage: %s", pathUsage)
	}
	if closed {
		cmds = append(cmds, canvas.PathCommand{Op: "Z"})
	}
	return cmds, nil
}

// registerStyleCommands adds the styling, transform and z-order commands.
// They all act on the current selection.
func registerStyleCommands(api plugin.EditorAPI, deps Deps) {
	doc := deps.Document

	register(api, "fill", func(args []string) error {
		if len(args) < 1 || len(args) > 2 {
			return fmt.Errorf("usage: fill color [opacity]")
		}
		opacity := 1.0
		if len(args) == 2 {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil || !(v >= 0 && v <= 1) {
				return fmt.Errorf("opacity must be between 0 and 1, got '%s'", args[1])
			}
			opacity = v
		}
		return doc.SetFill(args[0], opacity)
	})
	register(api, "nofill", func(args []string) error {
		return doc.SetFill("", 1)
	})
	register(api, "togglefill", func(args []string) error {
		return doc.ToggleFill()
	})
	register(api, "opacity", func(args []string) error {
		v, err := floats(args, 1, "opacity 0..1")
		if err != nil {
			return err
		}
		return doc.SetOpacity(v[0])
	})
	register(api, "stroke", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: stroke color")
		}
		return doc.SetStroke(args[0])
	})
	register(api, "strokewidth", func(args []string) error {
		v, err := floats(args, 1, "strokewidth n")
		if err != nil {
			return err
		}
		return doc.SetStrokeWidth(v[0])
	})
	register(api, "resize", func(args []string) error {
		v, err := floats(args, 2, "resize w h")
		if err != nil {
			return err
		}
		return doc.Resize(v[0], v[1])
	})
	register(api, "lock", func(args []string) error {
		on := true
		if len(args) == 1 {
			switch args[0] {
			case "on":
			case "off":
				on = false
			default:
				return fmt.Errorf("usage: lock [on|off]")
			}
		}
		if err := doc.SetLockUniScaling(on); err != nil {
			return err
		}
		if on {
			api.SetStatusMessage("Aspect ratio locked")
		} else {
			api.SetStatusMessage("Aspect ratio unlocked")
		}
		return nil
	})
	register(api, "align", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: align left|center|right")
		}
		return doc.SetTextAlign(args[0])
	})
	register(api, "shadow", func(args []string) error {
		switch {
		case len(args) == 0:
			return doc.SetShadow(canvas.DefaultShadow())
		case len(args) == 1 && args[0] == "off":
			return doc.SetShadow(nil)
		case len(args) == 4:
			if _, _, err := canvas.ParseColor(args[0]); err != nil {
				return err
			}
			v, err := floats(args[1:], 3, "shadow color offx offy blur")
			if err != nil {
				return err
			}
			return doc.SetShadow(&canvas.Shadow{Color: args[0], OffsetX: v[0], OffsetY: v[1], Blur: v[2]})
		}
		return fmt.Errorf("usage: shadow [color offx offy blur] | shadow off")
	})

	register(api, "rotate", func(args []string) error {
		v, err := floats(args, 1, "rotate deg")
		if err != nil {
			return err
		}
		return doc.SetAngle(v[0])
	})
	register(api, "front", func(args []string) error { return doc.BringToFront() })
	register(api, "back", func(args []string) error { return doc.SendToBack() })
	register(api, "forward", func(args []string) error { return doc.BringForward() })
	register(api, "backward", func(args []string) error { return doc.SendBackward() })
}

// registerEditCommands adds clipboard, delete and selection commands.
func registerEditCommands(api plugin.EditorAPI, deps Deps) {
	doc, clip := deps.Document, deps.Clipboard

	register(api, "delete", func(args []string) error {
		n, err := doc.RemoveSelected()
		if err != nil {
			return err
		}
		api.SetStatusMessage("Deleted %d object(s)", n)
		return nil
	})
	register(api, "copy", func(args []string) error {
		n, err := clip.Copy()
		if err != nil {
			return err
		}
		api.SetStatusMessage("Copied %d object(s)", n)
		return nil
	})
	register(api, "cut", func(args []string) error {
		n, err := clip.Cut()
		if err != nil {
			return err
		}
		api.SetStatusMessage("Cut %d object(s)", n)
		return nil
	})
	register(api, "paste", func(args []string) error {
		ids, err := clip.Paste()
		if err != nil {
			return err
		}
		api.SetStatusMessage("Pasted %d object(s)", len(ids))
		return nil
	})
	register(api, "select", func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("usage: select all|none|next|prev")
		}
		switch args[0] {
		case "all":
			api.SetStatusMessage("Selected %d object(s)", doc.SelectAll())
		case "none":
			doc.ClearSelection()
		case "next":
			doc.SelectNext()
		case "prev":
			doc.SelectPrev()
		default:
			return fmt.Errorf("usage: select all|none|next|prev")
		}
		return nil
	})
	register(api, "clear", func(args []string) error {
		api.SetStatusMessage("Removed %d object(s)", doc.Clear())
		return nil
	})
}
