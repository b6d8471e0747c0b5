package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want ActionEvent
	}{
		{"ctrl+z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionEvent{Action: ActionUndo}},
		{"ctrl+y", tcell.NewEventKey(tcell.KeyCtrlY, 0, tcell.ModCtrl), ActionEvent{Action: ActionRedo}},
		{"ctrl+shift+z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl|tcell.ModShift), ActionEvent{Action: ActionRedo}},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionEvent{Action: ActionCopy}},
		{"ctrl+v", tcell.NewEventKey(tcell.KeyCtrlV, 0, tcell.ModCtrl), ActionEvent{Action: ActionPaste}},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), ActionEvent{Action: ActionDelete}},
		{"arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), ActionEvent{Action: ActionNudge, DX: -1}},
		{"shift arrow", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModShift), ActionEvent{Action: ActionNudge, DY: 1, Large: true}},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), ActionEvent{Action: ActionSelectNext}},
		{"colon", tcell.NewEventKey(tcell.KeyRune, ':', tcell.ModNone), ActionEvent{Action: ActionEnterCommandMode, Rune: ':'}},
		{"rotate back", tcell.NewEventKey(tcell.KeyRune, 'R', tcell.ModShift), ActionEvent{Action: ActionRotateCCW, Rune: 'R'}},
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionEvent{Action: ActionInsertRune, Rune: 'q'}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModAlt), ActionEvent{Action: ActionUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ProcessEvent(tt.ev))
		})
	}
}

func TestProcessTextEventInsertsShortcutRunes(t *testing.T) {
	p := NewInputProcessor()
	for _, r := range []rune{':', 'r', '[', '+'} {
		got := p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
		assert.Equal(t, ActionEvent{Action: ActionInsertRune, Rune: r}, got)
	}
	// Undo still decodes so the mode can decide to ignore it
	got := p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl))
	assert.Equal(t, ActionUndo, got.Action)
	got = p.ProcessTextEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	assert.Equal(t, ActionUnknown, got.Action)
}

func TestProcessMouse(t *testing.T) {
	p := NewInputProcessor()
	steps := []struct {
		x, y    int
		buttons tcell.ButtonMask
		want    Action
	}{
		{1, 1, tcell.ButtonNone, ActionUnknown},
		{2, 3, tcell.Button1, ActionMousePress},
		{4, 3, tcell.Button1, ActionMouseDrag},
		{5, 3, tcell.ButtonNone, ActionMouseRelease},
		{5, 3, tcell.ButtonNone, ActionUnknown},
	}
	for _, s := range steps {
		got := p.ProcessMouse(tcell.NewEventMouse(s.x, s.y, s.buttons, tcell.ModNone))
		assert.Equal(t, s.want, got.Action)
		assert.Equal(t, s.x, got.X)
	}
}
