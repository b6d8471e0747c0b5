package app

import (
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/statusbar"
)

// subscribeEvents keeps the status bar and screen in step with the document.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	a.eventManager.Subscribe(event.TypeSelectionCreated, a.handleSelectionChanged)
	a.eventManager.Subscribe(event.TypeSelectionCleared, a.handleSelectionChanged)
	a.eventManager.Subscribe(event.TypeModeChanged, a.handleModeChanged)
	a.eventManager.Subscribe(event.TypeDocumentLoaded, a.handleDocumentLoaded)
	a.eventManager.Subscribe(event.TypeDocumentSaved, a.handleDocumentSaved)

	for _, t := range []event.Type{
		event.TypeObjectAdded, event.TypeObjectRemoved, event.TypeObjectModified,
		event.TypeObjectMoving, event.TypeObjectScaling, event.TypeObjectRotating, event.TypeObjectSkewing,
	} {
		a.eventManager.Subscribe(t, a.handleDocumentChanged)
	}
}

// handleHistoryChanged refreshes the undo/redo indicator.
func (a *App) handleHistoryChanged(e event.Event) bool {
	data, ok := e.Data.(event.HistoryData)
	if !ok {
		logger.Warnf("App: Received HistoryChanged event with unexpected data type: %T", e.Data)
		return false
	}
	a.statusBar.SetHistoryInfo(statusbar.HistoryInfo{
		CanUndo: data.CanUndo,
		CanRedo: data.CanRedo,
		Cursor:  data.Cursor,
		Length:  data.Length,
	})
	a.requestRedraw()
	return false // Not consumed
}

func (a *App) handleSelectionChanged(e event.Event) bool {
	if data, ok := e.Data.(event.SelectionData); ok {
		a.statusBar.SetSelectionInfo(len(data.IDs))
	}
	a.requestRedraw()
	return false
}

func (a *App) handleModeChanged(e event.Event) bool {
	if data, ok := e.Data.(event.ModeChangedData); ok {
		a.statusBar.SetEditorMode(data.Mode)
	}
	return false
}

func (a *App) handleDocumentChanged(e event.Event) bool {
	a.statusBar.SetFileInfo(a.doc.FilePath(), a.doc.IsModified())
	a.requestRedraw()
	return false
}

func (a *App) handleDocumentLoaded(e event.Event) bool {
	a.updateStatusBarContent()
	a.requestRedraw()
	return false
}

func (a *App) handleDocumentSaved(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentData); ok {
		logger.Debugf("App: Saved %d object(s) to %s", data.ObjectCount, data.FilePath)
	}
	a.updateStatusBarContent()
	a.requestRedraw()
	return false
}
