package history

import (
	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
)

// immediateEvents are discrete mutations; each records synchronously.
var immediateEvents = []event.Type{
	event.TypeObjectAdded,
	event.TypeObjectRemoved,
	event.TypeObjectModified,
	event.TypePathCreated,
	event.TypeSelectionCleared,
}

// gestureEvents fire continuously during a drag; they share one debounce timer.
var gestureEvents = []event.Type{
	event.TypeObjectMoving,
	event.TypeObjectScaling,
	event.TypeObjectRotating,
	event.TypeObjectSkewing,
}

// IsImmediate reports whether t records a snapshot right away.
func IsImmediate(t event.Type) bool {
	for _, it := range immediateEvents {
		if it == t {
			return true
		}
	}
	return false
}

// IsGesture reports whether t records after the debounce window.
func IsGesture(t event.Type) bool {
	for _, gt := range gestureEvents {
		if gt == t {
			return true
		}
	}
	return false
}

// Attach subscribes the engine to bus. Calling it again replaces the previous
// subscriptions, so listeners are never registered twice.
func (e *Engine) Attach(bus *event.Manager) {
	e.busMu.Lock()
	e.unsubscribeLocked()
	e.bus = bus
	e.attached = bus != nil
	if e.attached {
		e.subscribeLocked()
	}
	e.busMu.Unlock()

	if e.initialSnapshot && e.State().Length == 0 {
		if _, err := e.Record(); err != nil {
			logger.WarnTagf("history", "History: Initial snapshot failed: %v", err)
		}
	}
}

// Detach removes all listeners and drops a pending gesture snapshot.
func (e *Engine) Detach() {
	e.debouncer.Cancel()
	e.busMu.Lock()
	defer e.busMu.Unlock()
	e.unsubscribeLocked()
	e.attached = false
}

// suspendListeners unsubscribes without forgetting the bus, for the duration of a restore.
func (e *Engine) suspendListeners() {
	e.debouncer.Cancel()
	e.busMu.Lock()
	defer e.busMu.Unlock()
	e.unsubscribeLocked()
}

// resumeListeners resubscribes unless Detach ran meanwhile.
func (e *Engine) resumeListeners() {
	e.busMu.Lock()
	defer e.busMu.Unlock()
	if !e.attached || e.bus == nil || len(e.subscriptions) > 0 {
		return
	}
	e.subscribeLocked()
}

func (e *Engine) subscribeLocked() {
	for _, t := range immediateEvents {
		e.subscriptions = append(e.subscriptions, e.bus.Subscribe(t, e.onMutation))
	}
	for _, t := range gestureEvents {
		e.subscriptions = append(e.subscriptions, e.bus.Subscribe(t, e.onGesture))
	}
}

func (e *Engine) unsubscribeLocked() {
	if e.bus == nil {
		e.subscriptions = nil
		return
	}
	for _, id := range e.subscriptions {
		e.bus.Unsubscribe(id)
	}
	e.subscriptions = nil
}

func (e *Engine) onMutation(ev event.Event) bool {
	logger.DebugTagf("history", "History: %v triggers record", ev.Type)
	e.Record()
	return false
}

func (e *Engine) onGesture(ev event.Event) bool {
	e.debouncer.Debounce(e.debounce, func() {
		logger.DebugTagf("history", "History: Gesture settled, recording")
		e.Record()
	})
	return false
}
