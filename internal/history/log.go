package history

// Log is a bounded, linear snapshot log with a cursor.
// It is not safe for concurrent use; Engine guards it.
type Log struct {
	entries  []Snapshot
	cursor   int // -1 when empty
	maxSteps int
}

// NewLog creates an empty log holding at most maxSteps snapshots.
func NewLog(maxSteps int) *Log {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Log{
		entries:  make([]Snapshot, 0, maxSteps+1),
		cursor:   -1,
		maxSteps: maxSteps,
	}
}

// Push records s at the cursor. It returns false when s equals the current snapshot.
func (l *Log) Push(s Snapshot) bool {
	if l.cursor >= 0 && l.entries[l.cursor] == s {
		return false
	}

	// Drop the redo branch
	if l.cursor < len(l.entries)-1 {
		l.entries = l.entries[:l.cursor+1]
	}

	l.entries = append(l.entries, s)
	l.cursor = len(l.entries) - 1

	if len(l.entries) > l.maxSteps {
		// Evict the oldest, keeping the cursor on the same snapshot
		copy(l.entries, l.entries[1:])
		l.entries[len(l.entries)-1] = ""
		l.entries = l.entries[:len(l.entries)-1]
		l.cursor--
	}
	return true
}

// Cursor returns the index of the current snapshot, or -1 when empty.
func (l *Log) Cursor() int { return l.cursor }

// Len returns the number of snapshots.
func (l *Log) Len() int { return len(l.entries) }

// MaxSteps returns the bound.
func (l *Log) MaxSteps() int { return l.maxSteps }

// At returns the snapshot at index i.
func (l *Log) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(l.entries) {
		return "", false
	}
	return l.entries[i], true
}

// Current returns the snapshot under the cursor.
func (l *Log) Current() (Snapshot, bool) {
	return l.At(l.cursor)
}

// CanUndo reports whether an older snapshot exists.
func (l *Log) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether a newer snapshot exists.
func (l *Log) CanRedo() bool { return l.cursor < len(l.entries)-1 }

// Seek moves the cursor to i. Out-of-range indexes are rejected.
func (l *Log) Seek(i int) bool {
	if i < 0 || i >= len(l.entries) {
		return false
	}
	l.cursor = i
	return true
}

// Reset empties the log.
func (l *Log) Reset() {
	clear(l.entries)
	l.entries = l.entries[:0]
	l.cursor = -1
}

// Snapshots returns a copy of the log contents, oldest first.
func (l *Log) Snapshots() []Snapshot {
	out := make([]Snapshot, len(l.entries))
	copy(out, l.entries)
	return out
}
