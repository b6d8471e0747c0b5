package modehandler

import (
	"fmt"
	"strings"

	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/logger"
)

// handleActionCommand handles actions when in ModeCommand.
// Undo/redo keys are ignored while the command line has focus.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	actionProcessed := true
	needsUpdate := false // Track if status bar text needs update

	switch actionEvent.Action {
	case input.ActionInsertRune:
		mh.mu.Lock()
		mh.cmdBuffer += string(actionEvent.Rune)
		mh.mu.Unlock()
		needsUpdate = true

	case input.ActionDeleteCharBackward: // Backspace
		mh.mu.Lock()
		empty := mh.cmdBuffer == ""
		if !empty {
			r := []rune(mh.cmdBuffer)
			mh.cmdBuffer = string(r[:len(r)-1])
		}
		mh.mu.Unlock()
		if empty {
			mh.setMode(ModeNormal)
			mh.statusBar.ResetTemporaryMessage()
			logger.DebugTagf("input", "ModeHandler: Exiting Command Mode via Backspace")
		} else {
			needsUpdate = true
		}

	case input.ActionInsertNewLine: // Enter: Execute command
		mh.setMode(ModeNormal)
		mh.executeCommand()

	case input.ActionQuit: // Escape: Cancel command
		mh.mu.Lock()
		mh.cmdBuffer = ""
		mh.mu.Unlock()
		mh.setMode(ModeNormal)
		mh.statusBar.ResetTemporaryMessage()
		logger.DebugTagf("input", "ModeHandler: Canceled Command Mode via Escape")

	default:
		actionProcessed = false // Ignore other actions
	}

	if needsUpdate && mh.GetCurrentMode() == ModeCommand {
		mh.statusBar.SetTemporaryMessage(":%s", mh.GetCommandBuffer())
	}

	return actionProcessed
}

// executeCommand parses and runs the command in cmdBuffer.
func (mh *ModeHandler) executeCommand() {
	mh.mu.Lock()
	cmdStr := mh.cmdBuffer
	mh.cmdBuffer = ""
	mh.mu.Unlock()

	if err := mh.ExecuteCommand(cmdStr); err != nil {
		mh.statusBar.SetTemporaryMessage("%v", err)
	}
}

// ExecuteCommand runs a command line such as "rect 10 10 50 50".
// An empty line is a no-op.
func (mh *ModeHandler) ExecuteCommand(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		mh.statusBar.ResetTemporaryMessage()
		return nil
	}
	cmdName, args := parts[0], parts[1:]

	mh.mu.Lock()
	cmdFunc, exists := mh.commands[cmdName]
	mh.mu.Unlock()
	if !exists {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	logger.Debugf("ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		return fmt.Errorf("error executing command '%s': %w", cmdName, err)
	}
	return nil
}

// Quit ends the application. Without force it refuses while the document
// has unsaved changes.
func (mh *ModeHandler) Quit(force bool) error {
	if !force && mh.doc.IsModified() {
		return fmt.Errorf("unsaved changes (add ! to override)")
	}
	mh.quit()
	return nil
}
