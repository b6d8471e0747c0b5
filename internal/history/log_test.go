package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPushDedupesCurrent(t *testing.T) {
	l := NewLog(5)
	assert.True(t, l.Push("S0"))
	assert.False(t, l.Push("S0"))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Cursor())
}

func TestLogTruncatesRedoBranch(t *testing.T) {
	l := NewLog(5)
	for _, s := range []Snapshot{"S0", "S1", "S2"} {
		l.Push(s)
	}
	require.True(t, l.Seek(1))
	require.True(t, l.CanRedo())

	l.Push("S3")
	assert.Equal(t, []Snapshot{"S0", "S1", "S3"}, l.Snapshots())
	assert.Equal(t, 2, l.Cursor())
	assert.False(t, l.CanRedo())
}

func TestLogEvictionKeepsCursorTarget(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 4; i++ {
		l.Push(Snapshot(fmt.Sprintf("S%d", i)))
	}
	assert.Equal(t, []Snapshot{"S1", "S2", "S3"}, l.Snapshots())
	cur, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, Snapshot("S3"), cur)
}

func TestLogBoundsHoldForAnySequence(t *testing.T) {
	const limit = 4
	l := NewLog(limit)
	for i := 0; i < 50; i++ {
		l.Push(Snapshot(fmt.Sprintf("S%d", i)))
		if i%3 == 0 && l.CanUndo() {
			l.Seek(l.Cursor() - 1)
		}
		require.LessOrEqual(t, l.Len(), limit)
		require.GreaterOrEqual(t, l.Cursor(), 0)
		require.Less(t, l.Cursor(), l.Len())
	}
}

func TestLogEmptyAndReset(t *testing.T) {
	l := NewLog(0)
	assert.Equal(t, DefaultMaxSteps, l.MaxSteps())
	assert.Equal(t, -1, l.Cursor())
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
	_, ok := l.Current()
	assert.False(t, ok)

	l.Push("S0")
	l.Push("S1")
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, -1, l.Cursor())
	assert.False(t, l.Seek(0))
}
