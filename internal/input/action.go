// internal/input/action.go
package input

// Action represents a command or operation to be performed by the editor.
type Action int

// Define the set of possible editor actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionForceQuit // Quit without checking modified status
	ActionSave

	// --- History ---
	ActionUndo
	ActionRedo

	// --- Clipboard ---
	ActionCopy
	ActionCut
	ActionPaste

	// --- Selection and Arrangement ---
	ActionDelete
	ActionNudge // Uses DX/DY, Large when Shift is held
	ActionSelectNext
	ActionSelectPrev
	ActionBringForward
	ActionSendBackward
	ActionBringToFront
	ActionSendToBack

	// --- Transform gestures ---
	ActionRotateCW
	ActionRotateCCW
	ActionScaleUp
	ActionScaleDown
	ActionSkewRight
	ActionSkewLeft

	// --- Editor Mode ---
	ActionEnterCommandMode // Special action for ':'
	ActionEditText         // Enter on a selected text object

	// --- Text Input (command line and text editing) ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertNewLine      // Specific action for Enter
	ActionDeleteCharBackward // Backspace key

	// --- Mouse ---
	ActionMousePress   // Uses X/Y
	ActionMouseDrag    // Uses X/Y
	ActionMouseRelease // Uses X/Y
)

// ActionEvent represents a decoded input event resulting in an action.
// It might carry payload data needed for the action (like the rune to insert).
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
	DX, DY int  // Nudge direction
	Large  bool // Shift held during a nudge
	X, Y   int  // Screen cell of a mouse event
}
