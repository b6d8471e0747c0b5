package app

import (
	"github.com/bethropolis/easel/internal/commands"
	"github.com/bethropolis/easel/internal/raster"
)

// registerAppCommands registers built-in commands like :theme, :undo and :w
func registerAppCommands(app *App, api *appEditorAPI) {
	commands.RegisterAppCommands(api, api, commands.Deps{
		Document:  app.doc,
		History:   app.history,
		Clipboard: app.clipboard,
		Export: raster.Options{
			Background: app.cfg.Export.Background,
			FontPath:   app.cfg.Export.FontPath,
			FontSize:   app.cfg.Export.FontSize,
		},
		Quit:    app.modeHandler.Quit,
		Context: app.ctx,
	})
}
