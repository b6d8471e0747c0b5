// internal/app/editor_api.go
package app

import (
	"fmt"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/commands"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/plugin"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// Ensure appEditorAPI implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*appEditorAPI)(nil)

// Add verification for commands.ThemeAPI interface
var _ commands.ThemeAPI = (*appEditorAPI)(nil)

// appEditorAPI provides the concrete implementation of the EditorAPI interface.
type appEditorAPI struct {
	app *App // Reference back to the main application
}

// newEditorAPI creates a new API adapter instance.
func newEditorAPI(app *App) *appEditorAPI {
	return &appEditorAPI{app: app}
}

// --- Document Access ---

func (api *appEditorAPI) GetObjects() []*canvas.Object {
	return api.app.doc.Objects()
}

func (api *appEditorAPI) GetObjectCount() int {
	return api.app.doc.Len()
}

func (api *appEditorAPI) GetSelectionCount() int {
	return len(api.app.doc.Selection())
}

func (api *appEditorAPI) GetDocumentFilePath() string {
	return api.app.doc.FilePath()
}

func (api *appEditorAPI) IsDocumentModified() bool {
	return api.app.doc.IsModified()
}

// SaveDocument saves to the current file path.
func (api *appEditorAPI) SaveDocument() error {
	if err := api.app.doc.Save(""); err != nil {
		return err
	}
	api.app.requestRedraw()
	return nil
}

// --- History ---

func (api *appEditorAPI) GetHistoryState() history.State {
	return api.app.history.State()
}

// --- Event Bus Interaction ---

func (api *appEditorAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data) // Delegate to app's manager
}

func (api *appEditorAPI) SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return api.app.eventManager.Subscribe(eventType, handler)
}

// --- Command Registration ---

func (api *appEditorAPI) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if api.app == nil || api.app.GetModeHandler() == nil {
		// This would be a programming error during setup
		logger.Debugf("ERROR: appEditorAPI cannot register command '%s', app or modeHandler is nil", name)
		return fmt.Errorf("internal error: API cannot access command registration")
	}
	return api.app.GetModeHandler().RegisterCommand(name, cmdFunc)
}

// --- Status Bar ---

func (api *appEditorAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

// --- Theme Access ---

func (api *appEditorAPI) GetThemeStyle(styleName string) tcell.Style {
	return api.app.GetTheme().GetStyle(styleName)
}

// SetTheme sets the active theme by name
func (api *appEditorAPI) SetTheme(name string) error {
	if err := api.app.GetThemeManager().SetTheme(name); err != nil {
		return err
	}
	current := api.app.GetTheme()
	api.app.tuiManager.GetScreen().SetStyle(current.GetStyle(theme.StyleDefault))
	api.app.eventManager.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: current.Name})
	api.app.requestRedraw()

	logger.Debugf("Theme changed to '%s', redraw requested", name)
	return nil
}

// GetTheme returns the current active theme
func (api *appEditorAPI) GetTheme() *theme.Theme {
	return api.app.GetTheme()
}

// ListThemes returns a list of all available theme names
func (api *appEditorAPI) ListThemes() []string {
	return api.app.GetThemeManager().ListThemes()
}

// --- Configuration ---

func (api *appEditorAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}
