package commands

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/plugin"
	"github.com/bethropolis/easel/internal/raster"
)

// registerFileCommands adds :w, :e, :export, :q and :q!.
func registerFileCommands(api plugin.EditorAPI, deps Deps) {
	doc := deps.Document

	register(api, "w", func(args []string) error {
		path := strings.Join(args, " ")
		if err := doc.Save(path); err != nil {
			if errors.Is(err, canvas.ErrNoFilePath) {
				return fmt.Errorf("no file name, use :w <file>")
			}
			return err
		}
		api.SetStatusMessage("Saved to %s", doc.FilePath())
		return nil
	})

	register(api, "e", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: e <file>")
		}
		if doc.IsModified() {
			return fmt.Errorf("unsaved changes, save with :w first")
		}
		path := strings.Join(args, " ")
		if err := OpenDocument(deps, path); err != nil {
			return err
		}
		api.SetStatusMessage("Opened %s (%d objects)", path, doc.Len())
		return nil
	})

	register(api, "export", func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: export <file.png>")
		}
		path := strings.Join(args, " ")
		opts := deps.Export
		w, h := doc.Size()
		opts.Width, opts.Height = int(math.Ceil(w)), int(math.Ceil(h))
		if opts.Background == "" {
			opts.Background = doc.Background()
		}
		if err := raster.Export(doc.Objects(), opts, path); err != nil {
			return err
		}
		api.SetStatusMessage("Exported %s", path)
		return nil
	})

	register(api, "q", func(args []string) error { return deps.Quit(false) })
	register(api, "q!", func(args []string) error { return deps.Quit(true) })
}

// OpenDocument loads path and restarts history from the loaded state.
func OpenDocument(deps Deps, path string) error {
	if err := deps.Document.Load(path); err != nil {
		return err
	}
	deps.History.Clear()
	if _, err := deps.History.Record(); err != nil {
		logger.Warnf("Commands: Initial snapshot after loading %s failed: %v", path, err)
	}
	return nil
}
