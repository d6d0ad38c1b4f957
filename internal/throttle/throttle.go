// Package throttle provides call-frequency shaping combinators. These wrap
// arbitrary functions and bound how often they execute, independent of the
// server-side request limiter in internal/ratelimit.
package throttle

import (
	"sync"
	"time"
)

// Throttle returns a wrapper that executes fn immediately on the first
// call, then suppresses any call arriving less than interval after the
// last executed call. The timer resets on execution, not on suppressed
// attempts. The returned function reports whether fn ran.
func Throttle(fn func(), interval time.Duration) func() bool {
	var mu sync.Mutex
	var lastRun time.Time

	return func() bool {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if !lastRun.IsZero() && now.Sub(lastRun) < interval {
			return false
		}
		lastRun = now
		fn()
		return true
	}
}

// Debounce returns a wrapper that defers fn by wait. Each call cancels any
// pending execution and reschedules it, so fn runs once calls have stopped
// for a full wait period.
func Debounce(fn func(), wait time.Duration) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, fn)
	}
}
