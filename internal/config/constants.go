package config

import "time"

// Base application details
const AppName = "easel"
const Version = "0.3.0"
const ThemesDirName = "themes"
const DefaultThemeFileName = "theme.toml"   // Active theme file
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "easel.log"

// UI Layout
const StatusBarHeight = 1
const DefaultCellWidth = 10  // Canvas units per terminal column
const DefaultCellHeight = 20 // Canvas units per terminal row

// Status Bar
const MessageTimeout = 4 * time.Second

// Editing
const DefaultNudgeStep = 1
const DefaultNudgeStepLarge = 10
const DefaultPasteOffset = 10
const DefaultCanvasWidth = 800
const DefaultCanvasHeight = 600
const SystemClipboard = false

// History
const DefaultMaxSteps = 30
const DefaultDebounce = "300ms"
const InitialSnapshot = true

// Export
const DefaultFontSize = 16
const DefaultExportBackground = "#ffffff"
