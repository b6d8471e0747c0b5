// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/easel/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme maps style names to terminal styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to its base name and then Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	// 1. Try exact name
	if style, ok := t.Styles[name]; ok {
		return style
	}

	// 2. Try base name (part before first dot)
	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.Debugf("Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	// 3. Return "Default" style
	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	// 4. Absolute fallback
	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// Style names used by the canvas view and status bar.
const (
	StyleDefault           = "Default"
	StyleCanvas            = "Canvas"       // Page area inside the border
	StyleCanvasBorder      = "CanvasBorder" // Page outline
	StyleObject            = "Object"       // Outline of an unfilled object
	StyleObjectText        = "Object.text"
	StyleSelection         = "Selection"
	StyleStatusBar         = "StatusBar"
	StyleStatusBarModified = "StatusBarModified"
	StyleStatusBarMessage  = "StatusBarMessage"
	StyleStatusBarCommand  = "StatusBarCommand"
	StyleHistoryOn         = "History.on"
	StyleHistoryOff        = "History.off"
)

var (
	// EaselDark is the default theme.
	EaselDark Theme
	// EaselLight suits light terminals.
	EaselLight Theme
)

func init() {
	bg := tcell.NewHexColor(0x2a2f38)
	fg := tcell.NewHexColor(0xc5cdd9)
	muted := tcell.NewHexColor(0x5c6370)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	blue := tcell.NewHexColor(0x61afef)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	bar := tcell.StyleDefault.Background(bg).Foreground(fg)

	EaselDark = Theme{
		Name:   "Easel Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:           base,
			StyleCanvas:            base,
			StyleCanvasBorder:      base.Foreground(muted),
			StyleObject:            base.Foreground(blue),
			StyleObjectText:        base.Foreground(fg).Bold(true),
			StyleSelection:         base.Foreground(yellow).Bold(true),
			StyleStatusBar:         bar,
			StyleStatusBarModified: bar.Foreground(yellow),
			StyleStatusBarMessage:  bar.Bold(true),
			StyleStatusBarCommand:  bar.Foreground(green).Bold(true),
			StyleHistoryOn:         bar.Foreground(green),
			StyleHistoryOff:        bar.Foreground(muted),
		},
	}

	lbg := tcell.NewHexColor(0xe8e8ec)
	lfg := tcell.NewHexColor(0x383a42)
	lmuted := tcell.NewHexColor(0xa0a1a7)
	lorange := tcell.NewHexColor(0xc18401)
	lgreen := tcell.NewHexColor(0x50a14f)
	lblue := tcell.NewHexColor(0x4078f2)

	lbase := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(lfg)
	lbar := tcell.StyleDefault.Background(lbg).Foreground(lfg)

	EaselLight = Theme{
		Name:   "Easel Light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			StyleDefault:           lbase,
			StyleCanvas:            lbase,
			StyleCanvasBorder:      lbase.Foreground(lmuted),
			StyleObject:            lbase.Foreground(lblue),
			StyleObjectText:        lbase.Foreground(lfg).Bold(true),
			StyleSelection:         lbase.Foreground(lorange).Bold(true),
			StyleStatusBar:         lbar,
			StyleStatusBarModified: lbar.Foreground(lorange),
			StyleStatusBarMessage:  lbar.Bold(true),
			StyleStatusBarCommand:  lbar.Foreground(lgreen).Bold(true),
			StyleHistoryOn:         lbar.Foreground(lgreen),
			StyleHistoryOff:        lbar.Foreground(lmuted),
		},
	}
}
