package modehandler

import (
	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
)

// enterTextMode starts editing the selected text object.
func (mh *ModeHandler) enterTextMode() bool {
	sel := mh.doc.Selected()
	if len(sel) != 1 || sel[0].Kind != canvas.KindText {
		mh.statusBar.SetTemporaryMessage("Select a single text object to edit")
		return true
	}
	mh.mu.Lock()
	mh.textTarget = sel[0].ID
	mh.textBuffer = []rune(sel[0].Text)
	mh.mu.Unlock()
	mh.setMode(ModeText)
	mh.statusBar.SetTemporaryMessage("TEXT: %s", mh.GetTextBuffer())
	return true
}

// handleActionText edits a local copy of the text. The document is updated
// once, when Enter or Esc ends the edit, so typing records one history step.
func (mh *ModeHandler) handleActionText(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.mu.Lock()
		mh.textBuffer = append(mh.textBuffer, actionEvent.Rune)
		mh.mu.Unlock()

	case input.ActionDeleteCharBackward:
		mh.mu.Lock()
		if n := len(mh.textBuffer); n > 0 {
			mh.textBuffer = mh.textBuffer[:n-1]
		}
		mh.mu.Unlock()

	case input.ActionInsertNewLine, input.ActionQuit:
		mh.commitText()
		return true

	default:
		return false
	}
	mh.statusBar.SetTemporaryMessage("TEXT: %s", mh.GetTextBuffer())
	return true
}

func (mh *ModeHandler) commitText() {
	mh.mu.Lock()
	id, text := mh.textTarget, string(mh.textBuffer)
	mh.textTarget, mh.textBuffer = "", nil
	mh.mu.Unlock()

	mh.setMode(ModeNormal)
	mh.statusBar.ResetTemporaryMessage()
	if err := mh.doc.SetText(id, text); err != nil {
		logger.Warnf("ModeHandler: Text edit of %s not applied: %v", id, err)
		mh.report("Edit text", err)
	}
}
