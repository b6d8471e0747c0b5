// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/easel/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// Config defines the appearance and behavior of the status bar.
// The styles are used when Draw is given no theme.
type Config struct {
	StyleDefault   tcell.Style // Default background/foreground
	StyleModified  tcell.Style // Style for the modified indicator
	StyleMessage   tcell.Style // Style for temporary messages
	StyleCommand   tcell.Style // Style for command mode input
	MessageTimeout time.Duration
}

// DefaultConfig provides sensible defaults.
func DefaultConfig() Config {
	return Config{
		StyleDefault:   tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorBlue),
		StyleModified:  tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlue).Bold(true),
		StyleMessage:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue).Bold(true),
		StyleCommand:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlue).Bold(true),
		MessageTimeout: 4 * time.Second,
	}
}

// HistoryInfo is the undo/redo affordance state.
type HistoryInfo struct {
	CanUndo bool
	CanRedo bool
	Cursor  int // -1 when the log is empty
	Length  int
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex // Protect access to text fields

	filePath   string
	isModified bool
	editorMode string
	selected   int
	history    HistoryInfo

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config:  config,
		history: HistoryInfo{Cursor: -1},
	}
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetSelectionInfo updates the number of selected objects.
func (sb *StatusBar) SetSelectionInfo(count int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.selected = count
}

// SetHistoryInfo updates the undo/redo indicator.
func (sb *StatusBar) SetHistoryInfo(info HistoryInfo) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.history = info
}

// History returns the last history state pushed to the bar.
func (sb *StatusBar) History() HistoryInfo {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.history
}

// SetEditorMode updates the displayed editor mode.
func (sb *StatusBar) SetEditorMode(mode string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.editorMode = mode
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// TemporaryMessage returns the active message, or "" once it has expired.
func (sb *StatusBar) TemporaryMessage() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if sb.tempMessageTime.IsZero() || time.Since(sb.tempMessageTime) > sb.config.MessageTimeout {
		return ""
	}
	return sb.tempMessage
}

// getDefaultDisplayText builds the left part of the status line.
// Caller holds the lock.
func (sb *StatusBar) getDefaultDisplayText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	} else {
		fPath = filepath.Base(fPath)
	}
	modifiedIndicator := ""
	if sb.isModified {
		modifiedIndicator = " [Modified]"
	}

	modeIndicator := ""
	if sb.editorMode != "" {
		modeIndicator = fmt.Sprintf(" -- %s", sb.editorMode)
	}

	return fmt.Sprintf("%s%s%s -- %d selected", fPath, modifiedIndicator, modeIndicator, sb.selected)
}

// segment is a run of text drawn in one style.
type segment struct {
	text  string
	style tcell.Style
}

// historySegments renders "undo:on redo:off [n/len]".
func (sb *StatusBar) historySegments(on, off, plain tcell.Style) []segment {
	flag := func(name string, enabled bool) segment {
		if enabled {
			return segment{name + ":on", on}
		}
		return segment{name + ":off", off}
	}
	return []segment{
		flag("undo", sb.history.CanUndo),
		{" ", plain},
		flag("redo", sb.history.CanRedo),
		{fmt.Sprintf(" [%d/%d] ", sb.history.Cursor+1, sb.history.Length), plain},
	}
}

// Draw renders the status bar onto the last screen line. A nil theme uses
// the styles from Config.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int, th *theme.Theme) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1

	base, modified, message, command := sb.config.StyleDefault, sb.config.StyleModified, sb.config.StyleMessage, sb.config.StyleCommand
	on, off := base, base.Dim(true)
	if th != nil {
		base = th.GetStyle(theme.StyleStatusBar)
		modified = th.GetStyle(theme.StyleStatusBarModified)
		message = th.GetStyle(theme.StyleStatusBarMessage)
		command = th.GetStyle(theme.StyleStatusBarCommand)
		on = th.GetStyle(theme.StyleHistoryOn)
		off = th.GetStyle(theme.StyleHistoryOff)
	}

	sb.mu.Lock()
	isTempMsgActive := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	var left segment
	switch {
	case isTempMsgActive && len(sb.tempMessage) > 0 && sb.tempMessage[0] == ':':
		left = segment{sb.tempMessage, command}
	case isTempMsgActive:
		left = segment{sb.tempMessage, message}
	case sb.isModified:
		left = segment{sb.getDefaultDisplayText(), modified}
	default:
		left = segment{sb.getDefaultDisplayText(), base}
	}
	right := sb.historySegments(on, off, base)
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, base)
	}

	rightWidth := 0
	for _, seg := range right {
		rightWidth += uniseg.StringWidth(seg.text)
	}
	leftLimit := width
	if rightWidth < width {
		leftLimit = width - rightWidth
		x := leftLimit
		for _, seg := range right {
			x += drawString(screen, x, y, width, seg.text, seg.style)
		}
	}
	drawString(screen, 0, y, leftLimit, left.text, left.style)
}

// drawString draws text from x, stopping before limit. It returns the cells used.
func drawString(screen tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	currentX := x
	for gr.Next() {
		clusterWidth := gr.Width()
		if currentX+clusterWidth > limit {
			break
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(currentX, y, runes[0], runes[1:], style)
		}
		currentX += clusterWidth
	}
	return currentX - x
}
