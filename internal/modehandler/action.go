package modehandler

import (
	"errors"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
)

// handleActionNormal handles actions when in ModeNormal.
func (mh *ModeHandler) handleActionNormal(actionEvent input.ActionEvent) bool {
	actionProcessed := true

	switch actionEvent.Action {
	// --- Mode Switching ---
	case input.ActionEnterCommandMode:
		mh.mu.Lock()
		mh.cmdBuffer = ""
		mh.mu.Unlock()
		mh.setMode(ModeCommand)
		mh.statusBar.SetTemporaryMessage(":")

	case input.ActionEditText, input.ActionInsertNewLine:
		actionProcessed = mh.enterTextMode()

	// --- Quit/Save ---
	case input.ActionQuit:
		switch {
		case len(mh.doc.Selection()) > 0:
			mh.doc.ClearSelection()
		case mh.doc.IsModified() && !mh.forceQuitPending:
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
			mh.forceQuitPending = true
		default:
			mh.quit()
			actionProcessed = false
		}
	case input.ActionForceQuit:
		mh.quit()
		actionProcessed = false

	case input.ActionSave:
		if err := mh.doc.Save(""); err != nil {
			if errors.Is(err, canvas.ErrNoFilePath) {
				mh.statusBar.SetTemporaryMessage("No file name. Use :w <file>")
			} else {
				mh.statusBar.SetTemporaryMessage("Save FAILED: %v", err)
			}
		} else {
			mh.statusBar.SetTemporaryMessage("Saved to %s", mh.doc.FilePath())
		}

	// --- History ---
	case input.ActionUndo:
		mh.Undo()
	case input.ActionRedo:
		mh.Redo()

	// --- Clipboard ---
	case input.ActionCopy:
		if n, err := mh.clipboard.Copy(); err != nil {
			mh.report("Copy", err)
		} else {
			mh.statusBar.SetTemporaryMessage("Copied %d object(s)", n)
		}
	case input.ActionCut:
		if n, err := mh.clipboard.Cut(); err != nil {
			mh.report("Cut", err)
		} else {
			mh.statusBar.SetTemporaryMessage("Cut %d object(s)", n)
		}
	case input.ActionPaste:
		if ids, err := mh.clipboard.Paste(); err != nil {
			mh.report("Paste", err)
		} else {
			mh.statusBar.SetTemporaryMessage("Pasted %d object(s)", len(ids))
		}

	// --- Selection and Arrangement ---
	case input.ActionDelete, input.ActionDeleteCharBackward:
		if n, err := mh.doc.RemoveSelected(); err != nil {
			mh.report("Delete", err)
		} else {
			mh.statusBar.SetTemporaryMessage("Deleted %d object(s)", n)
		}
	case input.ActionNudge:
		step := mh.nudgeStep
		if actionEvent.Large {
			step = mh.nudgeStepLarge
		}
		mh.apply("Move", mh.doc.Nudge(float64(actionEvent.DX)*step, float64(actionEvent.DY)*step))
	case input.ActionSelectNext:
		_, actionProcessed = mh.doc.SelectNext()
	case input.ActionSelectPrev:
		_, actionProcessed = mh.doc.SelectPrev()
	case input.ActionBringForward:
		mh.apply("Bring forward", mh.doc.BringForward())
	case input.ActionSendBackward:
		mh.apply("Send backward", mh.doc.SendBackward())
	case input.ActionBringToFront:
		mh.apply("Bring to front", mh.doc.BringToFront())
	case input.ActionSendToBack:
		mh.apply("Send to back", mh.doc.SendToBack())

	// --- Transform gestures ---
	case input.ActionRotateCW:
		mh.apply("Rotate", mh.doc.RotateBy(rotateStep))
	case input.ActionRotateCCW:
		mh.apply("Rotate", mh.doc.RotateBy(-rotateStep))
	case input.ActionScaleUp:
		mh.apply("Scale", mh.doc.ScaleBy(scaleStep))
	case input.ActionScaleDown:
		mh.apply("Scale", mh.doc.ScaleBy(1/scaleStep))
	case input.ActionSkewRight:
		mh.apply("Skew", mh.doc.SkewBy(skewStep))
	case input.ActionSkewLeft:
		mh.apply("Skew", mh.doc.SkewBy(-skewStep))

	default:
		actionProcessed = false
	}

	// Reset force quit flag
	if actionEvent.Action != input.ActionQuit && actionEvent.Action != input.ActionUnknown && actionProcessed {
		mh.forceQuitPending = false
	}

	return actionProcessed
}

// apply reports a failed document operation on the status bar.
func (mh *ModeHandler) apply(action string, err error) {
	if err != nil {
		mh.report(action, err)
	}
}

// handleMouse turns press/drag/release into select, move and end-of-gesture.
func (mh *ModeHandler) handleMouse(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionMousePress:
		_, hit := mh.doc.SelectAt(mh.viewport.ToCanvas(actionEvent.X, actionEvent.Y))
		mh.dragging = hit
		mh.dragMoved = false
		mh.lastX, mh.lastY = actionEvent.X, actionEvent.Y
		return true

	case input.ActionMouseDrag:
		if !mh.dragging {
			return false
		}
		dx, dy := mh.viewport.Delta(actionEvent.X-mh.lastX, actionEvent.Y-mh.lastY)
		if dx == 0 && dy == 0 {
			return false
		}
		mh.lastX, mh.lastY = actionEvent.X, actionEvent.Y
		if err := mh.doc.Move(dx, dy); err != nil {
			logger.DebugTagf("input", "ModeHandler: drag move failed: %v", err)
			return false
		}
		mh.dragMoved = true
		return true

	case input.ActionMouseRelease:
		wasDragging, moved := mh.dragging, mh.dragMoved
		mh.dragging, mh.dragMoved = false, false
		if wasDragging && moved {
			if err := mh.doc.EndGesture(); err != nil {
				logger.DebugTagf("input", "ModeHandler: end gesture failed: %v", err)
			}
			return true
		}
	}
	return false
}
