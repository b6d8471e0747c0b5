// internal/plugin/plugin.go
package plugin

import (
	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/gdamore/tcell/v2"
)

// CommandFunc defines the signature for commands registered by plugins.
// It takes arguments (e.g., from user input) and returns an error.
type CommandFunc func(args []string) error

// EditorAPI defines the methods plugins can use to interact with the editor core.
// This acts as a controlled interface, preventing plugins from accessing everything.
type EditorAPI interface {
	// --- Document Access (Read-Only) ---
	GetObjects() []*canvas.Object // Copies, in z-order
	GetObjectCount() int
	GetSelectionCount() int
	GetDocumentFilePath() string
	IsDocumentModified() bool

	// --- Document Persistence ---
	SaveDocument() error // Saves to the current path

	// --- History ---
	GetHistoryState() history.State

	// --- Event Bus Interaction ---
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID

	// --- Command Registration ---
	RegisterCommand(name string, cmdFunc CommandFunc) error

	// --- Status Bar ---
	SetStatusMessage(format string, args ...interface{})

	// --- Theme Access ---
	GetThemeStyle(styleName string) tcell.Style
	SetTheme(name string) error
	GetTheme() *theme.Theme
	ListThemes() []string

	// --- Configuration ---
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded.
	// Used for setup, subscribing to events, registering commands.
	Initialize(api EditorAPI) error

	// Shutdown is called once when the editor is closing.
	Shutdown() error
}
