// Package plugintest provides an in-memory EditorAPI for plugin tests.
package plugintest

import (
	"fmt"
	"sync"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/plugin"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/gdamore/tcell/v2"
)

var _ plugin.EditorAPI = (*API)(nil)

// API records what plugins do with it. Doc and Bus must be set.
type API struct {
	Doc     *canvas.Document
	Bus     *event.Manager
	History history.State
	Config  map[string]map[string]interface{}

	mu       sync.Mutex
	Commands map[string]plugin.CommandFunc
	Messages []string
	Saves    int
	SaveErr  error
}

// New returns an API over a fresh document and bus.
func New() *API {
	bus := event.NewManager()
	doc := canvas.New(canvas.DefaultWidth, canvas.DefaultHeight)
	doc.SetEventManager(bus)
	return &API{
		Doc:      doc,
		Bus:      bus,
		History:  history.State{Cursor: -1},
		Config:   make(map[string]map[string]interface{}),
		Commands: make(map[string]plugin.CommandFunc),
	}
}

func (a *API) GetObjects() []*canvas.Object { return a.Doc.Objects() }
func (a *API) GetObjectCount() int          { return a.Doc.Len() }
func (a *API) GetSelectionCount() int       { return len(a.Doc.Selection()) }
func (a *API) GetDocumentFilePath() string  { return a.Doc.FilePath() }
func (a *API) IsDocumentModified() bool     { return a.Doc.IsModified() }

func (a *API) SaveDocument() error {
	a.mu.Lock()
	a.Saves++
	err := a.SaveErr
	a.mu.Unlock()
	if err != nil {
		return err
	}
	return a.Doc.Save("")
}

// SaveCount returns how many times SaveDocument ran.
func (a *API) SaveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Saves
}

func (a *API) GetHistoryState() history.State { return a.History }

func (a *API) DispatchEvent(t event.Type, data interface{}) { a.Bus.Dispatch(t, data) }

func (a *API) SubscribeEvent(t event.Type, h event.Handler) event.SubscriptionID {
	return a.Bus.Subscribe(t, h)
}

func (a *API) RegisterCommand(name string, fn plugin.CommandFunc) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.Commands[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	a.Commands[name] = fn
	return nil
}

// Run executes a registered command.
func (a *API) Run(name string, args ...string) error {
	a.mu.Lock()
	fn, ok := a.Commands[name]
	a.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}
	return fn(args)
}

func (a *API) SetStatusMessage(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Messages = append(a.Messages, fmt.Sprintf(format, args...))
}

// LastMessage returns the most recent status message.
func (a *API) LastMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.Messages) == 0 {
		return ""
	}
	return a.Messages[len(a.Messages)-1]
}

func (a *API) GetThemeStyle(name string) tcell.Style { return theme.EaselDark.GetStyle(name) }
func (a *API) SetTheme(name string) error             { return fmt.Errorf("theme '%s' not found", name) }
func (a *API) GetTheme() *theme.Theme                 { return &theme.EaselDark }
func (a *API) ListThemes() []string                   { return []string{theme.EaselDark.Name} }

func (a *API) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	v, ok := a.Config[pluginName][key]
	return v, ok
}
