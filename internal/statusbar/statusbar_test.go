package statusbar

import (
	"strings"
	"testing"
	"time"

	"github.com/bethropolis/easel/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineText(s tcell.SimulationScreen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func drawBar(t *testing.T, sb *StatusBar, th *theme.Theme) (tcell.SimulationScreen, string) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(80, 3)
	sb.Draw(s, 80, 3, th)
	return s, lineText(s, 2, 80)
}

func TestDefaultLine(t *testing.T) {
	sb := New(DefaultConfig())
	sb.SetFileInfo("/tmp/art/poster.json", true)
	sb.SetEditorMode("NORMAL")
	sb.SetSelectionInfo(2)
	sb.SetHistoryInfo(HistoryInfo{CanUndo: true, CanRedo: false, Cursor: 2, Length: 5})

	_, line := drawBar(t, sb, nil)
	assert.True(t, strings.HasPrefix(line, "poster.json [Modified] -- NORMAL -- 2 selected"), line)
	assert.True(t, strings.HasSuffix(line, "undo:on redo:off [3/5] "), line)
}

func TestEmptyHistory(t *testing.T) {
	sb := New(DefaultConfig())
	_, line := drawBar(t, sb, nil)
	assert.Contains(t, line, "[No Name]")
	assert.Contains(t, line, "undo:off redo:off [0/0]")
}

func TestHistoryStylesFollowTheme(t *testing.T) {
	th := &theme.EaselDark
	sb := New(DefaultConfig())
	sb.SetHistoryInfo(HistoryInfo{CanUndo: true, Cursor: 1, Length: 2})

	s, line := drawBar(t, sb, th)
	undo := strings.Index(line, "undo:on")
	redo := strings.Index(line, "redo:off")
	require.True(t, undo > 0 && redo > 0)

	_, _, style, _ := s.GetContent(undo, 2)
	assert.Equal(t, th.GetStyle(theme.StyleHistoryOn), style)
	_, _, style, _ = s.GetContent(redo, 2)
	assert.Equal(t, th.GetStyle(theme.StyleHistoryOff), style)
}

func TestTemporaryMessageExpires(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MessageTimeout = 20 * time.Millisecond
	sb := New(cfg)

	sb.SetTemporaryMessage("Saved %d objects", 3)
	_, line := drawBar(t, sb, nil)
	assert.True(t, strings.HasPrefix(line, "Saved 3 objects"))
	assert.Equal(t, "Saved 3 objects", sb.TemporaryMessage())

	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, sb.TemporaryMessage())
	_, line = drawBar(t, sb, nil)
	assert.True(t, strings.HasPrefix(line, "[No Name]"), line)
}

func TestCommandInputUsesCommandStyle(t *testing.T) {
	cfg := DefaultConfig()
	sb := New(cfg)
	sb.SetTemporaryMessage(":rect 1 2")

	s, _ := drawBar(t, sb, nil)
	_, _, style, _ := s.GetContent(0, 2)
	assert.Equal(t, cfg.StyleCommand, style)
}

func TestNarrowScreenKeepsLeftText(t *testing.T) {
	sb := New(DefaultConfig())
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	defer s.Fini()
	s.SetSize(10, 1)

	sb.Draw(s, 10, 1, nil)
	assert.Equal(t, "[No Name] ", lineText(s, 0, 10))
}
