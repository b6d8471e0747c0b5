// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/easel/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed (stops delivery to later handlers).
type Handler func(e Event) bool

// SubscriptionID identifies a subscription so it can be removed later.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   SubscriptionID
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Event Manager: Handler %d subscribed to %v", id, eventType)
	return id
}

// Unsubscribe removes a handler by id. Unknown ids are ignored.
func (m *Manager) Unsubscribe(id SubscriptionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for eventType, subs := range m.handlers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			// Build a new slice so in-flight dispatch copies stay untouched
			remaining := make([]subscription, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			remaining = append(remaining, subs[i+1:]...)
			if len(remaining) == 0 {
				delete(m.handlers, eventType)
			} else {
				m.handlers[eventType] = remaining
			}
			logger.DebugTagf("event", "Event Manager: Handler %d unsubscribed from %v", id, eventType)
			return true
		}
	}
	return false
}

// HandlerCount reports how many handlers are subscribed to eventType.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}

// Dispatch sends an event to all registered handlers for its type.
// Handlers run synchronously, outside the lock, so they may subscribe or unsubscribe.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	event := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	subs := m.handlers[eventType]
	handlersCopy := make([]Handler, len(subs))
	for i, sub := range subs {
		handlersCopy[i] = sub.handler
	}
	m.mu.RUnlock()

	if len(handlersCopy) == 0 {
		return
	}

	logger.DebugTagf("event", "Event Manager: Dispatching %v to %d handler(s)", eventType, len(handlersCopy))

	for _, handler := range handlersCopy {
		if handler(event) {
			break // Consumed
		}
	}
}
