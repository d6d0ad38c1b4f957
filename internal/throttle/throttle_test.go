package throttle

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleLeadingEdge(t *testing.T) {
	var calls int32
	th := Throttle(func() { atomic.AddInt32(&calls, 1) }, 50*time.Millisecond)

	// First call executes, immediate followers are suppressed.
	require.True(t, th())
	assert.False(t, th())
	assert.False(t, th())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// After the interval the next call executes again.
	time.Sleep(60 * time.Millisecond)
	require.True(t, th())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDebounceCollapsesBursts(t *testing.T) {
	var calls int32
	db := Debounce(func() { atomic.AddInt32(&calls, 1) }, 40*time.Millisecond)

	for i := 0; i < 5; i++ {
		db()
		time.Sleep(10 * time.Millisecond)
	}
	// Calls kept arriving within the wait period, so nothing ran yet.
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
