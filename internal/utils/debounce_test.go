package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceCoalescesBurst(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 10; i++ {
		v := int32(i)
		d.Debounce(30*time.Millisecond, func() {
			calls.Add(1)
			last.Store(v)
		})
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "only the last call fires")
	assert.Equal(t, int32(10), last.Load())
	assert.False(t, d.Pending())
	assert.False(t, d.LastCalled().IsZero())
}

func TestDebounceFiresAfterQuietPeriod(t *testing.T) {
	var d Debouncer
	start := time.Now()
	fired := make(chan time.Time, 1)
	d.Debounce(40*time.Millisecond, func() { fired <- time.Now() })

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 40*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	d.Debounce(time.Hour, func() { calls.Add(1) })
	require.True(t, d.Pending())

	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Flush(), "nothing left to flush")
}

func TestCancelDropsPending(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	assert.True(t, d.Cancel())
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.False(t, d.Cancel())
}
