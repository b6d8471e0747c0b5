package commands

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/clipboard"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/plugin"
	"github.com/bethropolis/easel/internal/raster"
)

// Deps are the components the built-in commands operate on.
type Deps struct {
	Document  *canvas.Document
	History   *history.Engine
	Clipboard *clipboard.Manager
	Export    raster.Options         // Size is taken from the document at export time
	Quit      func(force bool) error // Ends the app; refuses unsaved changes unless forced
	Context   context.Context
}

// RegisterAppCommands registers built-in commands like :theme, :undo and :rect
func RegisterAppCommands(api plugin.EditorAPI, themeAPI ThemeAPI, deps Deps) {
	if deps.Context == nil {
		deps.Context = context.Background()
	}

	RegisterThemeCommands(api, themeAPI)
	registerHistoryCommands(api, deps)
	registerObjectCommands(api, deps)
	registerStyleCommands(api, deps)
	registerEditCommands(api, deps)
	registerFileCommands(api, deps)
}

// register adds one command, logging instead of failing on a name clash.
func register(api plugin.EditorAPI, name string, fn plugin.CommandFunc) {
	if err := api.RegisterCommand(name, fn); err != nil {
		logger.Warnf("Failed to register ':%s' command: %v", name, err)
	}
}

// floats parses exactly n numeric arguments.
func floats(args []string, n int, usage string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("'%s' is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}
