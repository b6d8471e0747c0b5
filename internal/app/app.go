// internal/app/app.go
package app

import (
	"context"
	"fmt"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/clipboard"
	"github.com/bethropolis/easel/internal/config"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/modehandler"
	"github.com/bethropolis/easel/internal/plugin"
	"github.com/bethropolis/easel/internal/render"
	"github.com/bethropolis/easel/internal/statusbar"
	"github.com/bethropolis/easel/internal/theme"
	"github.com/bethropolis/easel/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	doc           *canvas.Document
	history       *history.Engine
	clipboard     *clipboard.Manager
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	editorAPI     plugin.EditorAPI
	viewport      render.Viewport

	ctx    context.Context
	cancel context.CancelFunc

	// Channels managed by the App
	quit          chan struct{}
	redrawRequest chan struct{}
}

// NewApp creates and initializes a new application instance on the terminal.
func NewApp(cfg *config.Config, filePath string) (*App, error) {
	return newApp(cfg, filePath, nil, theme.DefaultDir(config.AppName, config.ThemesDirName))
}

// newApp wires every component. A nil screen opens the real terminal.
func newApp(cfg *config.Config, filePath string, screen tcell.Screen, themesDir string) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	// --- Create Core Components ---
	themeManager := theme.NewManager(themesDir)
	defStyle := themeManager.Current().GetStyle(theme.StyleDefault)

	var tuiManager *tui.TUI
	var err error
	if screen != nil {
		tuiManager, err = tui.NewWithScreen(screen, defStyle)
	} else {
		tuiManager, err = tui.New(defStyle)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	eventManager := event.NewManager()
	doc := canvas.New(cfg.Editor.CanvasWidth, cfg.Editor.CanvasHeight)
	doc.SetEventManager(eventManager)

	// Load before history attaches so the first snapshot is the file's content.
	if filePath != "" {
		if err := doc.Load(filePath); err != nil {
			tuiManager.Close()
			return nil, fmt.Errorf("failed to open '%s': %w", filePath, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		doc:           doc,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		viewport:      render.NewViewport(cfg.Editor.CellWidth, cfg.Editor.CellHeight),
		ctx:           ctx,
		cancel:        cancel,
		quit:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}

	a.history, err = history.New(
		newHistoryHost(doc, cfg.History.IncludeProps, a.requestRedraw),
		history.WithMaxSteps(cfg.History.MaxSteps),
		history.WithDebounce(cfg.History.DebounceDuration()),
		history.WithInitialSnapshot(cfg.History.InitialSnapshot),
	)
	if err != nil {
		cancel()
		tuiManager.Close()
		return nil, fmt.Errorf("history initialization failed: %w", err)
	}

	a.clipboard = clipboard.NewManager(doc,
		clipboard.WithSystemClipboard(cfg.Editor.SystemClipboard),
		clipboard.WithOffset(cfg.Editor.PasteOffset),
	)

	sbCfg := statusbar.DefaultConfig()
	sbCfg.MessageTimeout = config.MessageTimeout
	a.statusBar = statusbar.New(sbCfg)

	// --- Create Mode Handler ---
	a.modeHandler = modehandler.New(modehandler.Config{
		Document:       doc,
		History:        a.history,
		Clipboard:      a.clipboard,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      a.statusBar,
		Viewport:       a.viewport,
		NudgeStep:      cfg.Editor.NudgeStep,
		NudgeStepLarge: cfg.Editor.NudgeStepLarge,
		QuitSignal:     a.quit,
		RequestRedraw:  a.requestRedraw,
		Context:        ctx,
	})

	// --- Create Editor API adapter ---
	api := newEditorAPI(a)
	a.editorAPI = api

	registerAppCommands(a, api)

	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}

	// --- Subscribe Core Components (App level wiring) ---
	a.subscribeEvents()

	// Attach last: the initial snapshot's HistoryChanged reaches the status bar.
	a.history.Attach(eventManager)

	// --- Initialize Plugins (triggers RegisterCommand via API) ---
	a.pluginManager.InitializePlugins(api)

	return a, nil
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.pluginManager.ShutdownPlugins()

	go a.eventLoop() // Start event loop

	// Initial setup
	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("Easel - Ctrl+Z Undo | Ctrl+Y Redo | : Command | ESC Quit")
	a.requestRedraw()

	// --- Main Drawing Loop ---
	for {
		select {
		case <-a.quit: // Wait for quit signal from ModeHandler
			a.shutdown()
			return nil
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// shutdown stops in-flight history work and detaches the engine.
func (a *App) shutdown() {
	a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	a.cancel()
	a.modeHandler.WaitNavigation()
	if err := a.history.Close(); err != nil {
		logger.Warnf("App: Closing history: %v", err)
	}
	if a.doc.IsModified() {
		logger.Warnf("App: Exited with unsaved changes.")
	}
	logger.Infof("App: Exiting application.")
}

// eventLoop handles TUI events, delegating key and mouse events to ModeHandler.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		if a.handleEvent(ev) {
			a.requestRedraw()
		}
	}
}

// handleEvent processes one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch eventData := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		return true
	case *tcell.EventKey:
		// Delegate ALL key handling to ModeHandler
		return a.modeHandler.HandleKeyEvent(eventData)
	case *tcell.EventMouse:
		return a.modeHandler.HandleMouseEvent(eventData)
	}
	return false
}

// GetModeHandler allows the API adapter to access the mode handler for command registration.
func (a *App) GetModeHandler() *modehandler.ModeHandler {
	return a.modeHandler
}

// GetThemeManager returns the theme manager.
func (a *App) GetThemeManager() *theme.Manager {
	return a.themeManager
}

// GetTheme returns the app's active theme.
func (a *App) GetTheme() *theme.Theme {
	return a.themeManager.Current()
}
