package app

import (
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/modehandler"
	"github.com/bethropolis/easel/internal/render"
	"github.com/bethropolis/easel/internal/statusbar"
	"github.com/bethropolis/easel/internal/tui"
)

// drawEditor clears screen and redraws all components.
func (a *App) drawEditor() {
	// Update status bar content (might involve modehandler state)
	a.updateStatusBarContent()

	currentTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	statusBarHeight := a.cfg.Editor.StatusBarHeight

	logger.DebugTagf("draw", "drawEditor: Screen Size (%d x %d), StatusBarHeight: %d", width, height, statusBarHeight)

	a.tuiManager.Clear()
	render.Canvas(screen, tui.ScreenClip(screen, statusBarHeight), a.doc, a.viewport, currentTheme)
	a.statusBar.Draw(screen, width, height, currentTheme)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar component.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.doc.FilePath(), a.doc.IsModified())
	a.statusBar.SetSelectionInfo(len(a.doc.Selection()))
	a.statusBar.SetEditorMode(a.modeHandler.GetCurrentModeString())

	st := a.history.State()
	a.statusBar.SetHistoryInfo(statusbar.HistoryInfo{
		CanUndo: st.CanUndo,
		CanRedo: st.CanRedo,
		Cursor:  st.Cursor,
		Length:  st.Length,
	})

	// If in command mode, ensure the command buffer is displayed via status bar's temp message
	switch a.modeHandler.GetCurrentMode() {
	case modehandler.ModeCommand:
		a.statusBar.SetTemporaryMessage(":%s", a.modeHandler.GetCommandBuffer())
	case modehandler.ModeText:
		a.statusBar.SetTemporaryMessage("TEXT: %s", a.modeHandler.GetTextBuffer())
	}
}

// SetStatusMessage shows a temporary message and redraws.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.requestRedraw()
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}
