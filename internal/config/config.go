// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/easel/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                     `toml:"logger"`  // Embed logger config under [logger] table
	Editor  EditorConfig                      `toml:"editor"`  // Canvas editing settings
	History HistoryConfig                     `toml:"history"` // Undo/redo engine settings
	Export  ExportConfig                      `toml:"export"`  // PNG export settings
	Plugins map[string]map[string]interface{} `toml:"plugins"` // Free-form [plugins.<name>] tables
}

// EditorConfig holds editor-specific settings.
type EditorConfig struct {
	SystemClipboard bool    `toml:"system_clipboard"`
	StatusBarHeight int     `toml:"status_bar_height"`
	NudgeStep       float64 `toml:"nudge_step"`
	NudgeStepLarge  float64 `toml:"nudge_step_large"`
	PasteOffset     float64 `toml:"paste_offset"`
	CanvasWidth     float64 `toml:"canvas_width"`
	CanvasHeight    float64 `toml:"canvas_height"`
	CellWidth       float64 `toml:"cell_width"`
	CellHeight      float64 `toml:"cell_height"`
}

// HistoryConfig configures the snapshot history.
type HistoryConfig struct {
	MaxSteps        int      `toml:"max_steps"`
	Debounce        string   `toml:"debounce"` // Duration string, e.g. "300ms"
	InitialSnapshot bool     `toml:"initial_snapshot"`
	IncludeProps    []string `toml:"include_props"`

	debounce time.Duration
}

// DebounceDuration returns the parsed debounce window.
func (h HistoryConfig) DebounceDuration() time.Duration {
	if h.debounce == 0 {
		if d, err := time.ParseDuration(h.Debounce); err == nil {
			return d
		}
		d, _ := time.ParseDuration(DefaultDebounce)
		return d
	}
	return h.debounce
}

// ExportConfig configures PNG export.
type ExportConfig struct {
	FontPath   string  `toml:"font_path"`
	FontSize   float64 `toml:"font_size"`
	Background string  `toml:"background"`
}

// knownProps are the custom object properties include_props may name.
var knownProps = []string{"id", "selectable", "lockUniScaling"}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "", // Empty means default path logic in main applies
		},
		Editor: EditorConfig{
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
			NudgeStep:       DefaultNudgeStep,
			NudgeStepLarge:  DefaultNudgeStepLarge,
			PasteOffset:     DefaultPasteOffset,
			CanvasWidth:     DefaultCanvasWidth,
			CanvasHeight:    DefaultCanvasHeight,
			CellWidth:       DefaultCellWidth,
			CellHeight:      DefaultCellHeight,
		},
		History: HistoryConfig{
			MaxSteps:        DefaultMaxSteps,
			Debounce:        DefaultDebounce,
			InitialSnapshot: InitialSnapshot,
			IncludeProps:    []string{"id", "selectable"},
		},
		Export: ExportConfig{
			FontSize:   DefaultFontSize,
			Background: DefaultExportBackground,
		},
		Plugins: make(map[string]map[string]interface{}),
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
// Unrecognized keys are returned for the caller to report once logging is up.
func loadFromFile(filePath string, cfg *Config) ([]string, error) {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	var undecoded []string
	for _, key := range metadata.Undecoded() {
		// Plugin tables are free-form
		if len(key) > 0 && key[0] == "plugins" {
			continue
		}
		undecoded = append(undecoded, key.String())
	}
	return undecoded, nil
}

// validate checks config values and resets invalid ones to defaults.
// It returns a description of every reset.
func (c *Config) validate() []string {
	defaults := NewDefaultConfig()
	var fixes []string
	reset := func(name string, bad interface{}) {
		fixes = append(fixes, fmt.Sprintf("%s: invalid value %v, using default", name, bad))
	}

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}

	if c.Editor.StatusBarHeight <= 0 {
		reset("editor.status_bar_height", c.Editor.StatusBarHeight)
		c.Editor.StatusBarHeight = defaults.Editor.StatusBarHeight
	}
	if c.Editor.NudgeStep <= 0 {
		reset("editor.nudge_step", c.Editor.NudgeStep)
		c.Editor.NudgeStep = defaults.Editor.NudgeStep
	}
	if c.Editor.NudgeStepLarge <= 0 {
		reset("editor.nudge_step_large", c.Editor.NudgeStepLarge)
		c.Editor.NudgeStepLarge = defaults.Editor.NudgeStepLarge
	}
	if c.Editor.PasteOffset < 0 {
		reset("editor.paste_offset", c.Editor.PasteOffset)
		c.Editor.PasteOffset = defaults.Editor.PasteOffset
	}
	if c.Editor.CanvasWidth <= 0 || c.Editor.CanvasHeight <= 0 {
		reset("editor.canvas_width/canvas_height", fmt.Sprintf("%gx%g", c.Editor.CanvasWidth, c.Editor.CanvasHeight))
		c.Editor.CanvasWidth = defaults.Editor.CanvasWidth
		c.Editor.CanvasHeight = defaults.Editor.CanvasHeight
	}
	if c.Editor.CellWidth <= 0 || c.Editor.CellHeight <= 0 {
		reset("editor.cell_width/cell_height", fmt.Sprintf("%gx%g", c.Editor.CellWidth, c.Editor.CellHeight))
		c.Editor.CellWidth = defaults.Editor.CellWidth
		c.Editor.CellHeight = defaults.Editor.CellHeight
	}

	if c.History.MaxSteps <= 0 {
		reset("history.max_steps", c.History.MaxSteps)
		c.History.MaxSteps = defaults.History.MaxSteps
	}
	d, err := time.ParseDuration(c.History.Debounce)
	if err != nil || d <= 0 {
		reset("history.debounce", c.History.Debounce)
		c.History.Debounce = defaults.History.Debounce
		d, _ = time.ParseDuration(c.History.Debounce)
	}
	c.History.debounce = d
	var props []string
	for _, p := range c.History.IncludeProps {
		if !slices.Contains(knownProps, p) {
			reset("history.include_props", p)
			continue
		}
		props = append(props, p)
	}
	c.History.IncludeProps = props

	if c.Export.FontSize <= 0 {
		reset("export.font_size", c.Export.FontSize)
		c.Export.FontSize = defaults.Export.FontSize
	}
	if c.Export.Background == "" {
		c.Export.Background = defaults.Export.Background
	}
	if c.Plugins == nil {
		c.Plugins = make(map[string]map[string]interface{})
	}
	return fixes
}

// Load orchestrates loading defaults, file, applying flags, and validation.
// Logging is not initialized yet, so diagnostics come back as warnings.
func Load(flags *Flags) (*Config, []string, error) {
	cfg := NewDefaultConfig()
	var warnings []string

	path := ""
	if flags != nil {
		path = flags.ConfigPath()
	}
	if path == "" {
		path = DefaultPath()
	}

	var loadErr error
	if path != "" {
		undecoded, err := loadFromFile(path, cfg)
		if err != nil {
			loadErr = err
			cfg = NewDefaultConfig() // A half-decoded file is not trusted
		}
		for _, key := range undecoded {
			warnings = append(warnings, fmt.Sprintf("config file '%s': unrecognized key %s", path, key))
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	warnings = append(warnings, cfg.validate()...)
	return cfg, warnings, loadErr
}

// PluginValue returns a value from the [plugins.<plugin>] table.
func (c *Config) PluginValue(plugin, key string) (interface{}, bool) {
	table, ok := c.Plugins[plugin]
	if !ok {
		return nil, false
	}
	v, ok := table[key]
	return v, ok
}
