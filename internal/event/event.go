// internal/event/event.go
package event

import (
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Discrete document mutations
	TypeObjectAdded    // An object was added to the document
	TypeObjectRemoved  // An object was removed from the document
	TypeObjectModified // An object finished being modified (end of gesture, property change)
	TypePathCreated    // A freehand/vector path was finalized
	TypeSelectionCreated
	TypeSelectionCleared

	// Continuous gestures, fired repeatedly while the user drags
	TypeObjectMoving
	TypeObjectScaling
	TypeObjectRotating
	TypeObjectSkewing

	// Document lifecycle
	TypeDocumentLoaded // Fired after the document content was replaced (file open or snapshot restore)
	TypeDocumentSaved
	TypeHistoryChanged // Undo/redo availability may have changed

	// Input Events (potentially useful for plugins reacting to raw keys)
	TypeKeyPressed
	TypeModeChanged

	// Application Lifecycle Events
	TypeAppReady // Fired when the application is fully initialized
	TypeAppQuit  // Fired just before application termination begins

	TypeThemeChanged // Fired when the theme is changed
)

var typeNames = map[Type]string{
	TypeUnknown:          "unknown",
	TypeObjectAdded:      "object:added",
	TypeObjectRemoved:    "object:removed",
	TypeObjectModified:   "object:modified",
	TypePathCreated:      "path:created",
	TypeSelectionCreated: "selection:created",
	TypeSelectionCleared: "selection:cleared",
	TypeObjectMoving:     "object:moving",
	TypeObjectScaling:    "object:scaling",
	TypeObjectRotating:   "object:rotating",
	TypeObjectSkewing:    "object:skewing",
	TypeDocumentLoaded:   "document:loaded",
	TypeDocumentSaved:    "document:saved",
	TypeHistoryChanged:   "history:changed",
	TypeKeyPressed:       "key:pressed",
	TypeModeChanged:      "mode:changed",
	TypeAppReady:         "app:ready",
	TypeAppQuit:          "app:quit",
	TypeThemeChanged:     "theme:changed",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// --- Specific Event Data Structures ---

// ObjectData identifies the object an event refers to.
type ObjectData struct {
	ID   string
	Kind string
}

// SelectionData lists the ids in the new selection (empty when cleared).
type SelectionData struct {
	IDs []string
}

// GestureData describes one step of a continuous transform.
type GestureData struct {
	ID     string
	DX, DY float64 // Translation or scale/skew factors, depending on the event type
	Angle  float64 // Rotation delta in degrees
}

// DocumentData contains info about the loaded or saved document.
type DocumentData struct {
	FilePath    string
	ObjectCount int
}

// HistoryData mirrors the history engine's navigable state.
type HistoryData struct {
	Cursor  int
	Length  int
	CanUndo bool
	CanRedo bool
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// ModeChangedData carries the new mode name.
type ModeChangedData struct {
	Mode string
}

// ThemeChangedData carries the name of the newly active theme.
type ThemeChangedData struct {
	Name string
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
