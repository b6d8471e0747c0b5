package modehandler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/clipboard"
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/input"
	"github.com/bethropolis/easel/internal/render"
	"github.com/bethropolis/easel/internal/statusbar"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type docHost struct{ doc *canvas.Document }

func (h docHost) Serialize() (history.Snapshot, error) {
	b, err := h.doc.Serialize([]string{"id", "selectable"})
	return history.Snapshot(b), err
}

func (h docHost) Deserialize(ctx context.Context, s history.Snapshot) error {
	return h.doc.Deserialize(ctx, []byte(s))
}

func (h docHost) Render() {}

type fixture struct {
	mh   *ModeHandler
	doc  *canvas.Document
	eng  *history.Engine
	bus  *event.Manager
	sb   *statusbar.StatusBar
	quit chan struct{}
}

// gatedHost holds every restore until release is closed.
type gatedHost struct {
	docHost
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (h *gatedHost) Deserialize(ctx context.Context, s history.Snapshot) error {
	h.once.Do(func() { close(h.entered) })
	select {
	case <-h.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return h.docHost.Deserialize(ctx, s)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithHost(t, func(h docHost) history.Host { return h })
}

func newFixtureWithHost(t *testing.T, wrap func(docHost) history.Host) *fixture {
	t.Helper()
	bus := event.NewManager()
	doc := canvas.New(800, 600)
	doc.SetEventManager(bus)

	eng, err := history.New(wrap(docHost{doc}), history.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	eng.Attach(bus)
	t.Cleanup(func() { eng.Close() })

	sb := statusbar.New(statusbar.DefaultConfig())
	quit := make(chan struct{})
	mh := New(Config{
		Document:       doc,
		History:        eng,
		Clipboard:      clipboard.NewManager(doc),
		InputProcessor: input.NewInputProcessor(),
		EventManager:   bus,
		StatusBar:      sb,
		Viewport:       render.NewViewport(10, 20),
		NudgeStep:      1,
		NudgeStepLarge: 10,
		QuitSignal:     quit,
	})
	return &fixture{mh: mh, doc: doc, eng: eng, bus: bus, sb: sb, quit: quit}
}

func (f *fixture) key(k tcell.Key, mod tcell.ModMask) bool {
	return f.mh.HandleKeyEvent(tcell.NewEventKey(k, 0, mod))
}

func (f *fixture) runes(s string) {
	for _, r := range s {
		f.mh.HandleKeyEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func (f *fixture) addRect(t *testing.T, x, y float64) *canvas.Object {
	t.Helper()
	o := canvas.NewObject(canvas.KindRect, x, y, 40, 40)
	require.NoError(t, f.doc.Add(o))
	return o
}

func quitClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestNewPanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { New(Config{}) })
}

func TestUndoRedoKeys(t *testing.T) {
	f := newFixture(t)
	f.addRect(t, 10, 10)
	require.Equal(t, 2, f.eng.State().Length)

	assert.True(t, f.key(tcell.KeyCtrlZ, tcell.ModCtrl))
	f.mh.WaitNavigation()
	assert.Equal(t, 0, f.doc.Len())

	assert.True(t, f.key(tcell.KeyCtrlY, tcell.ModCtrl))
	f.mh.WaitNavigation()
	assert.Equal(t, 1, f.doc.Len())
	assert.False(t, f.eng.CanRedo())
}

func TestWaitNavigationCoversRestoreInFlight(t *testing.T) {
	gate := &gatedHost{entered: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWithHost(t, func(h docHost) history.Host {
		gate.docHost = h
		return gate
	})
	f.addRect(t, 10, 10)

	f.mh.Undo()
	waited := make(chan struct{})
	go func() {
		f.mh.WaitNavigation()
		close(waited)
	}()

	select {
	case <-gate.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("undo never reached the host")
	}
	select {
	case <-waited:
		t.Fatal("WaitNavigation returned while a restore was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate.release)
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitNavigation did not return after the restore finished")
	}
	assert.Zero(t, f.doc.Len())
}

func TestUndoIgnoredWhileTyping(t *testing.T) {
	f := newFixture(t)
	f.addRect(t, 10, 10)

	f.runes(":")
	require.Equal(t, ModeCommand, f.mh.GetCurrentMode())
	assert.False(t, f.key(tcell.KeyCtrlZ, tcell.ModCtrl))
	f.mh.WaitNavigation()
	assert.Equal(t, 1, f.doc.Len())
	assert.Equal(t, 1, f.eng.State().Cursor)

	f.key(tcell.KeyEscape, tcell.ModNone)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
}

func TestCommandLine(t *testing.T) {
	f := newFixture(t)
	var got []string
	require.NoError(t, f.mh.RegisterCommand("hello", func(args []string) error {
		got = args
		return nil
	}))
	assert.Error(t, f.mh.RegisterCommand("hello", func([]string) error { return nil }))
	assert.Error(t, f.mh.RegisterCommand("", func([]string) error { return nil }))

	var modes []string
	f.bus.Subscribe(event.TypeModeChanged, func(e event.Event) bool {
		modes = append(modes, e.Data.(event.ModeChangedData).Mode)
		return false
	})

	f.runes(":hello a bx")
	f.key(tcell.KeyBackspace2, tcell.ModNone)
	assert.Equal(t, "hello a b", f.mh.GetCommandBuffer())
	assert.Equal(t, ":hello a b", f.sb.TemporaryMessage())

	f.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.Equal(t, []string{"COMMAND", "NORMAL"}, modes)

	f.runes(":nope")
	f.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, "unknown command: nope", f.sb.TemporaryMessage())
}

func TestBackspaceOnEmptyCommandLeavesMode(t *testing.T) {
	f := newFixture(t)
	f.runes(":")
	f.key(tcell.KeyBackspace2, tcell.ModNone)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
}

func TestTextEditRecordsOnce(t *testing.T) {
	f := newFixture(t)
	txt := canvas.NewText(10, 10, "hi")
	require.NoError(t, f.doc.Add(txt))
	require.NoError(t, f.doc.Select(txt.ID))
	before := f.eng.State().Length

	f.key(tcell.KeyEnter, tcell.ModNone)
	require.Equal(t, ModeText, f.mh.GetCurrentMode())

	f.runes("!!x")
	f.key(tcell.KeyBackspace2, tcell.ModNone)
	assert.False(t, f.key(tcell.KeyCtrlZ, tcell.ModCtrl))
	assert.Equal(t, "hi!!", f.mh.GetTextBuffer())
	assert.Equal(t, before, f.eng.State().Length, "typing does not touch history")

	f.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	o, ok := f.doc.Get(txt.ID)
	require.True(t, ok)
	assert.Equal(t, "hi!!", o.Text)
	assert.Equal(t, before+1, f.eng.State().Length)
}

func TestEnterWithoutTextSelection(t *testing.T) {
	f := newFixture(t)
	f.addRect(t, 0, 0)
	f.key(tcell.KeyEnter, tcell.ModNone)
	assert.Equal(t, ModeNormal, f.mh.GetCurrentMode())
	assert.Equal(t, "Select a single text object to edit", f.sb.TemporaryMessage())
}

func TestNudgeIsDebounced(t *testing.T) {
	f := newFixture(t)
	o := f.addRect(t, 100, 100)
	require.NoError(t, f.doc.Select(o.ID))
	before := f.eng.State().Length

	f.key(tcell.KeyRight, tcell.ModNone)
	f.key(tcell.KeyRight, tcell.ModShift)
	f.key(tcell.KeyUp, tcell.ModNone)

	got, _ := f.doc.Get(o.ID)
	assert.Equal(t, 111.0, got.Left)
	assert.Equal(t, 99.0, got.Top)

	require.Eventually(t, func() bool { return f.eng.State().Length == before+1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, before+1, f.eng.State().Length)
}

func TestTransformKeys(t *testing.T) {
	f := newFixture(t)
	o := f.addRect(t, 100, 100)
	require.NoError(t, f.doc.Select(o.ID))

	f.runes("rr+>")
	got, _ := f.doc.Get(o.ID)
	assert.Equal(t, 30.0, got.Angle)
	assert.InDelta(t, 1.1, got.ScaleX, 1e-9)
	assert.Equal(t, 5.0, got.SkewX)

	f.runes("R")
	got, _ = f.doc.Get(o.ID)
	assert.Equal(t, 15.0, got.Angle)
}

func TestGestureWithoutSelectionShowsHint(t *testing.T) {
	f := newFixture(t)
	f.runes("r")
	assert.Equal(t, "Nothing selected", f.sb.TemporaryMessage())
}

func TestClipboardAndDeleteKeys(t *testing.T) {
	f := newFixture(t)
	o := f.addRect(t, 100, 100)
	require.NoError(t, f.doc.Select(o.ID))

	f.key(tcell.KeyCtrlC, tcell.ModCtrl)
	assert.Equal(t, "Copied 1 object(s)", f.sb.TemporaryMessage())
	f.key(tcell.KeyCtrlV, tcell.ModCtrl)
	assert.Equal(t, 2, f.doc.Len())

	f.key(tcell.KeyDelete, tcell.ModNone)
	assert.Equal(t, 1, f.doc.Len())
	assert.Equal(t, "Deleted 1 object(s)", f.sb.TemporaryMessage())
}

func TestEscapeClearsSelectionThenConfirmsQuit(t *testing.T) {
	f := newFixture(t)
	o := f.addRect(t, 100, 100)
	require.NoError(t, f.doc.Select(o.ID))

	f.key(tcell.KeyEscape, tcell.ModNone)
	assert.Empty(t, f.doc.Selection())
	assert.False(t, quitClosed(f.quit))

	f.key(tcell.KeyEscape, tcell.ModNone)
	assert.False(t, quitClosed(f.quit), "modified document asks first")

	f.key(tcell.KeyEscape, tcell.ModNone)
	assert.True(t, quitClosed(f.quit))

	// A second quit must not panic on the closed channel
	assert.NotPanics(t, func() { f.key(tcell.KeyCtrlQ, tcell.ModCtrl) })
}

func TestQuitCommandRespectsUnsavedChanges(t *testing.T) {
	f := newFixture(t)
	f.addRect(t, 0, 0)

	assert.Error(t, f.mh.Quit(false))
	assert.False(t, quitClosed(f.quit))
	require.NoError(t, f.mh.Quit(true))
	assert.True(t, quitClosed(f.quit))
}

func TestSaveWithoutPath(t *testing.T) {
	f := newFixture(t)
	f.key(tcell.KeyCtrlS, tcell.ModCtrl)
	assert.Equal(t, "No file name. Use :w <file>", f.sb.TemporaryMessage())
}

func TestMouseSelectAndDrag(t *testing.T) {
	f := newFixture(t)
	o := f.addRect(t, 0, 0)
	before := f.eng.State().Length

	// Cell (1,1) is canvas (5,10), inside the rect
	assert.True(t, f.mh.HandleMouseEvent(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone)))
	assert.Equal(t, []string{o.ID}, f.doc.Selection())

	assert.True(t, f.mh.HandleMouseEvent(tcell.NewEventMouse(3, 2, tcell.Button1, tcell.ModNone)))
	assert.True(t, f.mh.HandleMouseEvent(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone)))

	got, _ := f.doc.Get(o.ID)
	assert.Equal(t, 20.0, got.Left)
	assert.Equal(t, 20.0, got.Top)
	assert.Equal(t, before+1, f.eng.State().Length, "release records the drag")
}

func TestMousePressOnEmptyCanvasClearsSelection(t *testing.T) {
	f := newFixture(t)
	o := f.addRect(t, 0, 0)
	require.NoError(t, f.doc.Select(o.ID))

	f.mh.HandleMouseEvent(tcell.NewEventMouse(50, 20, tcell.Button1, tcell.ModNone))
	assert.Empty(t, f.doc.Selection())
	assert.False(t, f.mh.HandleMouseEvent(tcell.NewEventMouse(52, 20, tcell.Button1, tcell.ModNone)))
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "NORMAL", ModeNormal.String())
	assert.Equal(t, "COMMAND", ModeCommand.String())
	assert.Equal(t, "TEXT", ModeText.String())
	assert.Equal(t, input.ActionUnknown, input.ActionEvent{}.Action)
}
