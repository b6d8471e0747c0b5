// Package history provides snapshot-based undo/redo for the canvas document.
//
// The engine keeps a bounded, linear log of full-document snapshots and a
// cursor into it. Recording after an undo discards the redo branch.
package history

import "context"

// Snapshot is an opaque serialized document state. It is never mutated once recorded.
type Snapshot string

// Host is the document the engine snapshots and restores.
type Host interface {
	// Serialize captures the current document state.
	Serialize() (Snapshot, error)
	// Deserialize replaces the document with s. It must not return before the
	// document is fully restored.
	Deserialize(ctx context.Context, s Snapshot) error
	// Render repaints after a restore.
	Render()
}

// Outcome describes what a Record/Undo/Redo call did.
type Outcome int

const (
	Recorded      Outcome = iota // A new snapshot was appended
	Unchanged                    // Snapshot equal to the current one, log untouched
	Applied                      // Undo/redo restored a snapshot
	NothingToUndo                // Cursor already at the oldest snapshot
	NothingToRedo                // Cursor already at the newest snapshot
	Busy                         // Another undo/redo is still restoring
	Suspended                    // Record ignored because a restore is in progress
	Failed                       // Host serialize/deserialize failed; see the returned error
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case Unchanged:
		return "unchanged"
	case Applied:
		return "applied"
	case NothingToUndo:
		return "nothing to undo"
	case NothingToRedo:
		return "nothing to redo"
	case Busy:
		return "busy"
	case Suspended:
		return "suspended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a point-in-time view of the log, for UI affordances.
type State struct {
	Cursor    int
	Length    int
	MaxSteps  int
	CanUndo   bool
	CanRedo   bool
	Restoring bool
}

// Result is delivered once by UndoAsync/RedoAsync.
type Result struct {
	Outcome Outcome
	Err     error
	State   State
}
