// internal/modehandler/modehandler.go
package modehandler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/clipboard"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/plugin" // For CommandFunc type
	"github.com/bethropolis/easel/internal/render"
	"github.com/bethropolis/easel/internal/statusbar"
	"github.com/gdamore/tcell/v2"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal  InputMode = iota
	ModeCommand           // ':' command line
	ModeText              // Editing the text of a selected text object
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeCommand:
		return "COMMAND"
	case ModeText:
		return "TEXT"
	}
	return "UNKNOWN"
}

const (
	rotateStep = 15.0
	scaleStep  = 1.1
	skewStep   = 5.0
)

// ModeHandler manages input modes, command execution, and related state.
type ModeHandler struct {
	// Dependencies (references to components managed by App)
	doc            *canvas.Document
	history        *history.Engine
	clipboard      *clipboard.Manager
	inputProcessor *input.InputProcessor
	eventManager   *event.Manager
	statusBar      *statusbar.StatusBar
	viewport       render.Viewport
	nudgeStep      float64
	nudgeStepLarge float64
	requestRedraw  func()
	ctx            context.Context

	quitOnce   sync.Once
	quitSignal chan<- struct{}

	// Internal State
	mu               sync.Mutex // Guards currentMode and the input buffers
	currentMode      InputMode
	cmdBuffer        string
	textBuffer       []rune
	textTarget       string                        // Object id being edited in ModeText
	commands         map[string]plugin.CommandFunc // Command registry
	forceQuitPending bool

	// Mouse drag state
	dragging   bool
	dragMoved  bool
	lastX      int
	lastY      int
	navigation sync.WaitGroup // In-flight async undo/redo
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Document       *canvas.Document
	History        *history.Engine
	Clipboard      *clipboard.Manager
	InputProcessor *input.InputProcessor
	EventManager   *event.Manager
	StatusBar      *statusbar.StatusBar
	Viewport       render.Viewport
	NudgeStep      float64
	NudgeStepLarge float64
	QuitSignal     chan<- struct{} // Write-only channel to signal quit
	RequestRedraw  func()          // Called after async work changes the screen
	Context        context.Context // Cancels in-flight undo/redo; defaults to Background
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Document == nil || cfg.History == nil || cfg.Clipboard == nil || cfg.InputProcessor == nil ||
		cfg.EventManager == nil || cfg.StatusBar == nil || cfg.QuitSignal == nil {
		// Programming error during setup
		panic("modehandler.New: Missing required dependencies in Config")
	}
	if cfg.NudgeStep <= 0 {
		cfg.NudgeStep = 1
	}
	if cfg.NudgeStepLarge <= 0 {
		cfg.NudgeStepLarge = 10 * cfg.NudgeStep
	}
	if cfg.Viewport.CellWidth <= 0 || cfg.Viewport.CellHeight <= 0 {
		cfg.Viewport = render.NewViewport(1, 1)
	}
	if cfg.RequestRedraw == nil {
		cfg.RequestRedraw = func() {}
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	return &ModeHandler{
		doc:            cfg.Document,
		history:        cfg.History,
		clipboard:      cfg.Clipboard,
		inputProcessor: cfg.InputProcessor,
		eventManager:   cfg.EventManager,
		statusBar:      cfg.StatusBar,
		viewport:       cfg.Viewport,
		nudgeStep:      cfg.NudgeStep,
		nudgeStepLarge: cfg.NudgeStepLarge,
		requestRedraw:  cfg.RequestRedraw,
		ctx:            cfg.Context,
		quitSignal:     cfg.QuitSignal,
		currentMode:    ModeNormal,
		commands:       make(map[string]plugin.CommandFunc),
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the event resulted in an action requiring redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	mh.eventManager.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})

	mode := mh.GetCurrentMode()
	switch mode {
	case ModeNormal:
		return mh.handleActionNormal(mh.inputProcessor.ProcessEvent(ev))
	case ModeCommand:
		return mh.handleActionCommand(mh.inputProcessor.ProcessTextEvent(ev))
	case ModeText:
		return mh.handleActionText(mh.inputProcessor.ProcessTextEvent(ev))
	default:
		logger.Debugf("Warning: Unknown input mode: %v", mode)
		return false
	}
}

// HandleMouseEvent selects and drags objects in normal mode.
func (mh *ModeHandler) HandleMouseEvent(ev *tcell.EventMouse) bool {
	actionEvent := mh.inputProcessor.ProcessMouse(ev)
	if mh.GetCurrentMode() != ModeNormal {
		return false
	}
	return mh.handleMouse(actionEvent)
}

func (mh *ModeHandler) setMode(m InputMode) {
	mh.mu.Lock()
	changed := mh.currentMode != m
	mh.currentMode = m
	mh.mu.Unlock()
	if changed {
		logger.DebugTagf("input", "ModeHandler: Entering %s mode", m)
		mh.eventManager.Dispatch(event.TypeModeChanged, event.ModeChangedData{Mode: m.String()})
	}
}

func (mh *ModeHandler) quit() {
	mh.quitOnce.Do(func() { close(mh.quitSignal) })
}

// report shows err on the status bar. Selection-less actions get a short hint.
func (mh *ModeHandler) report(action string, err error) {
	switch {
	case errors.Is(err, canvas.ErrNoSelection):
		mh.statusBar.SetTemporaryMessage("Nothing selected")
	case errors.Is(err, clipboard.ErrEmpty):
		mh.statusBar.SetTemporaryMessage("Clipboard empty")
	default:
		mh.statusBar.SetTemporaryMessage("%s failed: %v", action, err)
		logger.Debugf("ModeHandler: %s error: %v", action, err)
	}
}

// Undo starts an asynchronous undo. Outcomes are reflected through the
// HistoryChanged event; failures are only logged.
func (mh *ModeHandler) Undo() {
	mh.navigate("Undo", mh.history.UndoAsync)
}

// Redo starts an asynchronous redo.
func (mh *ModeHandler) Redo() {
	mh.navigate("Redo", mh.history.RedoAsync)
}

func (mh *ModeHandler) navigate(name string, op func(context.Context) <-chan history.Result) {
	mh.navigation.Add(1) // Before op starts, so WaitNavigation cannot miss it
	done := op(mh.ctx)
	go func() {
		defer mh.navigation.Done()
		res := <-done
		switch res.Outcome {
		case history.Failed:
			logger.Warnf("ModeHandler: %s failed: %v", name, res.Err)
		case history.Busy:
			logger.DebugTagf("history", "ModeHandler: %s ignored, restore in progress", name)
		default:
			logger.DebugTagf("history", "ModeHandler: %s -> %v (%d/%d)", name, res.Outcome, res.State.Cursor+1, res.State.Length)
		}
		mh.requestRedraw()
	}()
}

// WaitNavigation blocks until in-flight undo/redo calls have finished.
func (mh *ModeHandler) WaitNavigation() {
	mh.navigation.Wait()
}

// RegisterCommand adds a command to the registry. Called via EditorAPI.
func (mh *ModeHandler) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	mh.mu.Lock()
	defer mh.mu.Unlock()
	if _, exists := mh.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	mh.commands[name] = cmdFunc
	logger.Debugf("ModeHandler: Registered command ':%s'", name)
	return nil
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	return mh.currentMode
}

// GetCurrentModeString returns the mode name for the status bar.
func (mh *ModeHandler) GetCurrentModeString() string {
	return mh.GetCurrentMode().String()
}

// GetCommandBuffer returns the current command buffer content (e.g., for display).
func (mh *ModeHandler) GetCommandBuffer() string {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	if mh.currentMode == ModeCommand {
		return mh.cmdBuffer
	}
	return ""
}

// GetTextBuffer returns the pending text in ModeText.
func (mh *ModeHandler) GetTextBuffer() string {
	mh.mu.Lock()
	defer mh.mu.Unlock()
	if mh.currentMode == ModeText {
		return string(mh.textBuffer)
	}
	return ""
}
