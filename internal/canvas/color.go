package canvas

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor understands #rgb, #rrggbb, rgb(), rgba(), "none" and "transparent".
// Alpha is 0 for the transparent forms.
func ParseColor(s string) (colorful.Color, float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "transparent":
		return colorful.Color{}, 0, nil
	}

	if strings.HasPrefix(s, "#") {
		hex := s
		if len(hex) == 4 {
			hex = "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return c, 1, nil
	}

	if strings.HasPrefix(s, "rgb") {
		open := strings.IndexByte(s, '(')
		end := strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return colorful.Color{}, 0, fmt.Errorf("invalid color %q", s)
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return colorful.Color{}, 0, fmt.Errorf("invalid color %q: want 3 or 4 components", s)
		}
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return colorful.Color{}, 0, fmt.Errorf("invalid color %q: component %d", s, i)
			}
			rgb[i] = uint8(v)
		}
		alpha := 1.0
		if len(parts) == 4 {
			a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil {
				return colorful.Color{}, 0, fmt.Errorf("invalid color %q: alpha", s)
			}
			alpha = clamp01(a)
		}
		return colorful.Color{R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255}, alpha, nil
	}

	return colorful.Color{}, 0, fmt.Errorf("unsupported color %q", s)
}

// HexToRGBA converts #rrggbb plus an opacity into an rgba() string.
func HexToRGBA(hex string, opacity float64) (string, error) {
	c, _, err := ParseColor(hex)
	if err != nil {
		return "", err
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(clamp01(opacity), 'f', -1, 64)), nil
}

// SplitColor returns the hex form and alpha of any color ParseColor accepts.
func SplitColor(s string) (string, float64, error) {
	c, a, err := ParseColor(s)
	if err != nil {
		return "", 0, err
	}
	return c.Hex(), a, nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
