// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to editor actions.
type Keymap map[tcell.Key]Action        // For special keys (Enter, Arrows, etc.)
type RuneKeymap map[rune]Action         // For single-character shortcuts in normal mode
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// nudges maps arrow keys to a unit direction.
var nudges = map[tcell.Key][2]int{
	tcell.KeyUp:    {0, -1},
	tcell.KeyDown:  {0, 1},
	tcell.KeyLeft:  {-1, 0},
	tcell.KeyRight: {1, 0},
}

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
	dragging   bool // Primary mouse button is down
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward // Often used for Backspace
	p.keymap[tcell.KeyDelete] = ActionDelete
	p.keymap[tcell.KeyTab] = ActionSelectNext
	p.keymap[tcell.KeyBacktab] = ActionSelectPrev
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyEscape] = ActionQuit // Primary quit action (checks modified)

	// Ctrl+letter arrives as its own key code
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlY] = ActionRedo
	p.keymap[tcell.KeyCtrlC] = ActionCopy
	p.keymap[tcell.KeyCtrlX] = ActionCut
	p.keymap[tcell.KeyCtrlV] = ActionPaste
	p.keymap[tcell.KeyCtrlS] = ActionSave
	p.keymap[tcell.KeyCtrlQ] = ActionForceQuit

	// --- Modifier Keys ---
	ctrlShift := make(Keymap)
	ctrlShift[tcell.KeyCtrlZ] = ActionRedo
	p.modKeymap[tcell.ModCtrl|tcell.ModShift] = ctrlShift

	// --- Rune Mappings ---
	p.runeKeymap[':'] = ActionEnterCommandMode
	p.runeKeymap[']'] = ActionBringForward
	p.runeKeymap['['] = ActionSendBackward
	p.runeKeymap['}'] = ActionBringToFront
	p.runeKeymap['{'] = ActionSendToBack
	p.runeKeymap['r'] = ActionRotateCW
	p.runeKeymap['R'] = ActionRotateCCW
	p.runeKeymap['+'] = ActionScaleUp
	p.runeKeymap['='] = ActionScaleUp
	p.runeKeymap['-'] = ActionScaleDown
	p.runeKeymap['>'] = ActionSkewRight
	p.runeKeymap['<'] = ActionSkewLeft
}

// ProcessEvent decodes a key in normal mode, where runes are shortcuts.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	return p.process(ev, false)
}

// ProcessTextEvent decodes a key while text input has focus: every printable
// rune is inserted instead of triggering a shortcut.
func (p *InputProcessor) ProcessTextEvent(ev *tcell.EventKey) ActionEvent {
	return p.process(ev, true)
}

func (p *InputProcessor) process(ev *tcell.EventKey, textInput bool) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Check Modifier + Key combinations
	if modKeyMap, modOk := p.modKeymap[mod]; modOk {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}
	// Clear modifier if it was part of a standard key name (like tcell.KeyCtrlS itself)
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	// 2. Arrows nudge the selection; Shift makes it a large step
	if dir, ok := nudges[key]; ok && !textInput {
		return ActionEvent{Action: ActionNudge, DX: dir[0], DY: dir[1], Large: mod&tcell.ModShift != 0}
	}

	// 3. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 4. Runes: shortcuts in normal mode, text otherwise
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if !textInput {
			if action, ok := p.runeKeymap[runeVal]; ok {
				return ActionEvent{Action: action, Rune: runeVal}
			}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}

	// 5. No mapping found
	return ActionEvent{Action: ActionUnknown}
}

// ProcessMouse turns primary-button activity into press, drag and release actions.
func (p *InputProcessor) ProcessMouse(ev *tcell.EventMouse) ActionEvent {
	x, y := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !p.dragging:
		p.dragging = true
		return ActionEvent{Action: ActionMousePress, X: x, Y: y}
	case down:
		return ActionEvent{Action: ActionMouseDrag, X: x, Y: y}
	case p.dragging:
		p.dragging = false
		return ActionEvent{Action: ActionMouseRelease, X: x, Y: y}
	}
	return ActionEvent{Action: ActionUnknown, X: x, Y: y}
}
