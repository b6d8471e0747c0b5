package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func parse(t *testing.T, args ...string) (*Flags, []string) {
	t.Helper()
	f := NewFlags("easel", io.Discard)
	rest, err := f.Parse(args)
	require.NoError(t, err)
	return f, rest
}

func TestDefaults(t *testing.T) {
	f, _ := parse(t, "-config", filepath.Join(t.TempDir(), "missing.toml"))
	cfg, warnings, err := Load(f)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 30, cfg.History.MaxSteps)
	assert.Equal(t, 300*time.Millisecond, cfg.History.DebounceDuration())
	assert.True(t, cfg.History.InitialSnapshot)
	assert.Equal(t, []string{"id", "selectable"}, cfg.History.IncludeProps)
	assert.Equal(t, 10.0, cfg.Editor.PasteOffset)
	assert.Equal(t, 1.0, cfg.Editor.NudgeStep)
	assert.Equal(t, 10.0, cfg.Editor.NudgeStepLarge)
	assert.False(t, cfg.Editor.SystemClipboard)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "debug"

[editor]
system_clipboard = true
nudge_step_large = 25

[history]
max_steps = 5
debounce = "1s"
initial_snapshot = false
include_props = ["id", "selectable", "lockUniScaling"]

[export]
font_path = "/fonts/Go-Regular.ttf"

[plugins.autosave]
enabled = true
interval = "30s"

[mystery]
key = 1
`)
	f, _ := parse(t, "-config", path)
	cfg, warnings, err := Load(f)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.True(t, cfg.Editor.SystemClipboard)
	assert.Equal(t, 25.0, cfg.Editor.NudgeStepLarge)
	assert.Equal(t, 1.0, cfg.Editor.NudgeStep, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.History.MaxSteps)
	assert.Equal(t, time.Second, cfg.History.DebounceDuration())
	assert.False(t, cfg.History.InitialSnapshot)
	assert.Len(t, cfg.History.IncludeProps, 3)
	assert.Equal(t, "/fonts/Go-Regular.ttf", cfg.Export.FontPath)
	assert.Equal(t, 16.0, cfg.Export.FontSize)

	v, ok := cfg.PluginValue("autosave", "enabled")
	require.True(t, ok)
	assert.Equal(t, true, v)
	_, ok = cfg.PluginValue("stats", "enabled")
	assert.False(t, ok)

	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "mystery")
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "[history]\nmax_steps = 5\ndebounce = \"1s\"\n")
	f, rest := parse(t, "-config", path, "-max-steps", "12", "-debounce", "50ms", "-system-clipboard", "-log-tags", "history, canvas,", "drawing.json")
	cfg, _, err := Load(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"drawing.json"}, rest)
	assert.Equal(t, 12, cfg.History.MaxSteps)
	assert.Equal(t, 50*time.Millisecond, cfg.History.DebounceDuration())
	assert.True(t, cfg.Editor.SystemClipboard)
	assert.Equal(t, []string{"history", "canvas"}, cfg.Logger.EnabledTags)
}

func TestValidateResetsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[editor]
nudge_step = -1
canvas_width = 0

[history]
max_steps = 0
debounce = "soon"
include_props = ["id", "bogus"]

[export]
font_size = -3
`)
	f, _ := parse(t, "-config", path)
	cfg, warnings, err := Load(f)
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.Editor.NudgeStep)
	assert.Equal(t, 800.0, cfg.Editor.CanvasWidth)
	assert.Equal(t, 30, cfg.History.MaxSteps)
	assert.Equal(t, 300*time.Millisecond, cfg.History.DebounceDuration())
	assert.Equal(t, []string{"id"}, cfg.History.IncludeProps)
	assert.Equal(t, 16.0, cfg.Export.FontSize)
	assert.Len(t, warnings, 6)
}

func TestMalformedFileFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "[history\nmax_steps = ")
	f, _ := parse(t, "-config", path, "-max-steps", "7")
	cfg, _, err := Load(f)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 7, cfg.History.MaxSteps)
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitCommaList(tt.in), tt.in)
	}
}
