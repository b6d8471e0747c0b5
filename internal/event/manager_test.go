package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchDeliversInOrder(t *testing.T) {
	m := NewManager()
	var got []string
	m.Subscribe(TypeObjectAdded, func(e Event) bool {
		got = append(got, "first:"+e.Data.(ObjectData).ID)
		return false
	})
	m.Subscribe(TypeObjectAdded, func(e Event) bool {
		got = append(got, "second:"+e.Data.(ObjectData).ID)
		return false
	})
	m.Subscribe(TypeObjectRemoved, func(e Event) bool {
		got = append(got, "removed")
		return false
	})

	m.Dispatch(TypeObjectAdded, ObjectData{ID: "a"})
	assert.Equal(t, []string{"first:a", "second:a"}, got)
}

func TestConsumedEventStopsDelivery(t *testing.T) {
	m := NewManager()
	calls := 0
	m.Subscribe(TypeKeyPressed, func(Event) bool { calls++; return true })
	m.Subscribe(TypeKeyPressed, func(Event) bool { calls++; return false })
	m.Dispatch(TypeKeyPressed, KeyPressedData{})
	assert.Equal(t, 1, calls)
}

func TestUnsubscribe(t *testing.T) {
	m := NewManager()
	calls := 0
	id := m.Subscribe(TypeObjectModified, func(Event) bool { calls++; return false })
	require.Equal(t, 1, m.HandlerCount(TypeObjectModified))

	assert.True(t, m.Unsubscribe(id))
	assert.False(t, m.Unsubscribe(id), "second unsubscribe is a no-op")
	assert.Equal(t, 0, m.HandlerCount(TypeObjectModified))

	m.Dispatch(TypeObjectModified, ObjectData{})
	assert.Zero(t, calls)
}

func TestHandlerMayUnsubscribeDuringDispatch(t *testing.T) {
	m := NewManager()
	var id SubscriptionID
	calls := 0
	id = m.Subscribe(TypeSelectionCleared, func(Event) bool {
		calls++
		m.Unsubscribe(id)
		return false
	})
	m.Dispatch(TypeSelectionCleared, SelectionData{})
	m.Dispatch(TypeSelectionCleared, SelectionData{})
	assert.Equal(t, 1, calls)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "object:moving", TypeObjectMoving.String())
	assert.Equal(t, "history:changed", TypeHistoryChanged.String())
	assert.Equal(t, "unknown", Type(999).String())
}
