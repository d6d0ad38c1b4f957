package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter() (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(NewMemoryStore())
	l.now = clock.Now
	return l, clock
}

func TestWindowCorrectness(t *testing.T) {
	l, clock := newTestLimiter()
	const max = 10
	window := time.Minute

	// Exactly max requests inside the window succeed.
	for i := 0; i < max; i++ {
		res := l.Check("review:1.2.3.4", max, window)
		require.True(t, res.Allowed, "request %d should be allowed", i+1)
	}

	// The (max+1)th is denied with a reset interval within the window.
	res := l.Check("review:1.2.3.4", max, window)
	require.False(t, res.Allowed)
	assert.Greater(t, res.ResetIn, time.Duration(0))
	assert.LessOrEqual(t, res.ResetIn, window)

	// After the window expires the counter starts over.
	clock.Advance(window)
	res = l.Check("review:1.2.3.4", max, window)
	require.True(t, res.Allowed)

	rec, ok := l.store.Get("review:1.2.3.4", clock.Now())
	require.True(t, ok)
	assert.Equal(t, 1, rec.Count)
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()

	for i := 0; i < 5; i++ {
		require.True(t, l.Check("login:10.0.0.1", 5, time.Minute).Allowed)
	}
	require.False(t, l.Check("login:10.0.0.1", 5, time.Minute).Allowed)

	// A different IP and a different scope on the same IP are unaffected.
	assert.True(t, l.Check("login:10.0.0.2", 5, time.Minute).Allowed)
	assert.True(t, l.Check("review:10.0.0.1", 5, time.Minute).Allowed)
}

func TestAllowBooleanForm(t *testing.T) {
	l, _ := newTestLimiter()
	p := Policy{Max: 2, Window: time.Minute}

	assert.True(t, l.Allow("k", p))
	assert.True(t, l.Allow("k", p))
	assert.False(t, l.Allow("k", p))
}

func TestSweepEvictsExpiredRecords(t *testing.T) {
	store := NewMemoryStore()
	l := NewLimiter(store)
	clock := &fakeClock{now: time.Now()}
	l.now = clock.Now

	for i := 0; i < 20; i++ {
		l.Check(fmt.Sprintf("review:ip-%d", i), 10, time.Minute)
	}
	require.Equal(t, 20, store.Len())

	clock.Advance(2 * time.Minute)
	removed := store.Sweep(clock.Now())
	assert.Equal(t, 20, removed)
	assert.Equal(t, 0, store.Len())
}

func TestConcurrentTakeNeverOverAdmits(t *testing.T) {
	store := NewMemoryStore()
	l := NewLimiter(store)

	const max = 50
	var wg sync.WaitGroup
	allowed := make(chan bool, 200)

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Check("burst", max, time.Minute).Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, max, count)
}
