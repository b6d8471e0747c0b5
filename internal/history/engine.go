package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/utils"
)

const (
	DefaultMaxSteps = 30
	DefaultDebounce = 300 * time.Millisecond
)

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps bounds the snapshot log. Non-positive values keep the default.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithDebounce sets the quiet period for gesture events.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithInitialSnapshot controls whether Attach records the document as it is
// when the log is still empty.
func WithInitialSnapshot(on bool) Option {
	return func(e *Engine) {
		e.initialSnapshot = on
	}
}

// Engine owns the snapshot log and drives undo/redo against a Host.
type Engine struct {
	host Host

	mu         sync.Mutex
	log        *Log
	restoring  bool
	generation uint64 // Bumped by Clear so an in-flight restore does not commit into a reset log
	closed     bool

	maxSteps        int
	debounce        time.Duration
	initialSnapshot bool
	debouncer       utils.Debouncer

	busMu         sync.Mutex
	bus           *event.Manager
	attached      bool
	subscriptions []event.SubscriptionID
}

// New creates an engine bound to a ready host.
func New(host Host, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, ErrNoHost
	}
	e := &Engine{
		host:            host,
		maxSteps:        DefaultMaxSteps,
		debounce:        DefaultDebounce,
		initialSnapshot: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = NewLog(e.maxSteps)
	return e, nil
}

// Record captures the host state and appends it to the log.
func (e *Engine) Record() (Outcome, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Failed, ErrClosed
	}
	if e.restoring {
		e.mu.Unlock()
		logger.DebugTagf("history", "History: Record suspended during restore")
		return Suspended, nil
	}

	snap, err := e.serialize()
	if err != nil {
		e.mu.Unlock()
		logger.WarnTagf("history", "History: Record aborted: %v", err)
		return Failed, err
	}

	if !e.log.Push(snap) {
		e.mu.Unlock()
		logger.DebugTagf("history", "History: Snapshot unchanged, not recorded")
		return Unchanged, nil
	}
	state := e.stateLocked()
	e.mu.Unlock()

	logger.DebugTagf("history", "History: Recorded snapshot. Cursor: %d, Count: %d", state.Cursor, state.Length)
	e.notify(state)
	return Recorded, nil
}

// Undo restores the previous snapshot.
func (e *Engine) Undo(ctx context.Context) (Outcome, error) {
	return e.navigate(ctx, -1)
}

// Redo restores the next snapshot.
func (e *Engine) Redo(ctx context.Context) (Outcome, error) {
	return e.navigate(ctx, 1)
}

// UndoAsync runs Undo on its own goroutine. The channel yields exactly one Result.
func (e *Engine) UndoAsync(ctx context.Context) <-chan Result {
	return e.async(ctx, e.Undo)
}

// RedoAsync runs Redo on its own goroutine. The channel yields exactly one Result.
func (e *Engine) RedoAsync(ctx context.Context) <-chan Result {
	return e.async(ctx, e.Redo)
}

func (e *Engine) async(ctx context.Context, op func(context.Context) (Outcome, error)) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		outcome, err := op(ctx)
		done <- Result{Outcome: outcome, Err: err, State: e.State()}
	}()
	return done
}

// navigate moves the cursor by dir (-1 undo, +1 redo) and restores that snapshot.
// The cursor only moves if the host restored successfully.
func (e *Engine) navigate(ctx context.Context, dir int) (Outcome, error) {
	// An unsettled gesture belongs in the log before we move away from it.
	e.debouncer.Flush()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Failed, ErrClosed
	}
	if e.restoring {
		e.mu.Unlock()
		logger.DebugTagf("history", "History: Navigation rejected, restore in progress")
		return Busy, nil
	}
	if dir < 0 && !e.log.CanUndo() {
		e.mu.Unlock()
		logger.DebugTagf("history", "History: Nothing to undo.")
		return NothingToUndo, nil
	}
	if dir > 0 && !e.log.CanRedo() {
		e.mu.Unlock()
		logger.DebugTagf("history", "History: Nothing to redo.")
		return NothingToRedo, nil
	}

	current, _ := e.log.Current()
	target := e.log.Cursor() + dir
	snap, _ := e.log.At(target)
	gen := e.generation
	e.restoring = true
	e.mu.Unlock()

	e.suspendListeners()

	err := e.deserialize(ctx, snap)
	if err != nil {
		logger.WarnTagf("history", "History: Restore of snapshot %d failed: %v", target, err)
		if ctx.Err() == nil {
			// The host may be half-loaded; put the current snapshot back once.
			if rbErr := e.deserialize(ctx, current); rbErr != nil {
				logger.Errorf("History: Rollback to snapshot %d failed: %v", target-dir, rbErr)
			}
		}
	}

	e.mu.Lock()
	if err == nil && gen == e.generation {
		e.log.Seek(target)
	}
	e.restoring = false
	state := e.stateLocked()
	e.mu.Unlock()

	e.resumeListeners()
	e.render()
	e.notify(state)

	if err != nil {
		return Failed, err
	}
	logger.DebugTagf("history", "History: Restored snapshot %d of %d", state.Cursor, state.Length)
	return Applied, nil
}

// CanUndo reports whether Undo would restore something.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.CanUndo()
}

// CanRedo reports whether Redo would restore something.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.CanRedo()
}

// State returns the current cursor/length view.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Snapshots returns a copy of the log, oldest first.
func (e *Engine) Snapshots() []Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Snapshots()
}

// Clear empties the log and drops any pending gesture snapshot.
func (e *Engine) Clear() {
	e.debouncer.Cancel()
	e.mu.Lock()
	e.log.Reset()
	e.generation++
	state := e.stateLocked()
	e.mu.Unlock()
	logger.DebugTagf("history", "History: Cleared.")
	e.notify(state)
}

// Close detaches from the bus and rejects further operations.
func (e *Engine) Close() error {
	e.Detach()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func (e *Engine) stateLocked() State {
	return State{
		Cursor:    e.log.Cursor(),
		Length:    e.log.Len(),
		MaxSteps:  e.log.MaxSteps(),
		CanUndo:   e.log.CanUndo(),
		CanRedo:   e.log.CanRedo(),
		Restoring: e.restoring,
	}
}

// serialize calls the host, converting panics and errors to ErrSerialize.
func (e *Engine) serialize() (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrSerialize, r)
		}
	}()
	snap, err = e.host.Serialize()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return snap, nil
}

// deserialize calls the host, converting panics and errors to ErrDeserialize.
func (e *Engine) deserialize(ctx context.Context, s Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrDeserialize, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	if err := e.host.Deserialize(ctx, s); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return nil
}

func (e *Engine) render() {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("History: Host render panicked: %v", r)
		}
	}()
	e.host.Render()
}

func (e *Engine) notify(state State) {
	e.busMu.Lock()
	bus := e.bus
	e.busMu.Unlock()
	if bus == nil {
		return
	}
	bus.Dispatch(event.TypeHistoryChanged, event.HistoryData{
		Cursor:  state.Cursor,
		Length:  state.Length,
		CanUndo: state.CanUndo,
		CanRedo: state.CanRedo,
	})
}

// IsFailure reports whether err came from the host rather than a usage error.
func IsFailure(err error) bool {
	return errors.Is(err, ErrSerialize) || errors.Is(err, ErrDeserialize)
}
