// Package ratelimit implements fixed-window request limiting for the
// public write endpoints. Time is divided into non-overlapping windows per
// key; a counter tracks requests in the current window and resets when the
// window expires. State lives behind the Store interface so a single-node
// deployment can use the in-process MemoryStore while a horizontally
// scaled one can plug in a shared store.
package ratelimit

import (
	"log"
	"sync"
	"time"
)

// Record tracks one key's current window.
type Record struct {
	Count     int
	ResetTime time.Time
}

// Result is the outcome of a limit check. ResetIn is only meaningful when
// the request was denied.
type Result struct {
	Allowed bool
	ResetIn time.Duration
}

// Policy is a named limit: at most Max requests per Window.
type Policy struct {
	Max    int
	Window time.Duration
}

// Store is the backing state for the limiter. Take must be atomic per key:
// concurrent callers may never observe a partial check-and-increment.
type Store interface {
	// Take applies fixed-window accounting for key and reports whether
	// the request is allowed.
	Take(key string, max int, window time.Duration, now time.Time) Result
	// Get returns the current record for a key, if any. Expired records
	// relative to now are treated as absent.
	Get(key string, now time.Time) (Record, bool)
	// Sweep drops records whose window has expired and returns how many
	// were removed.
	Sweep(now time.Time) int
}

// MemoryStore is the in-process Store. A single mutex guards the map; the
// per-request critical section is a map lookup and an integer update, so
// contention is not a concern at menu-platform traffic.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Take implements Store. An absent or expired record starts a new window
// with count 1; a full window denies without incrementing.
func (s *MemoryStore) Take(key string, max int, window time.Duration, now time.Time) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || !now.Before(rec.ResetTime) {
		s.records[key] = &Record{Count: 1, ResetTime: now.Add(window)}
		return Result{Allowed: true}
	}
	if rec.Count >= max {
		return Result{Allowed: false, ResetIn: rec.ResetTime.Sub(now)}
	}
	rec.Count++
	return Result{Allowed: true}
}

// Get implements Store. Expired records are evicted lazily here so reads
// never resurrect a finished window.
func (s *MemoryStore) Get(key string, now time.Time) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return Record{}, false
	}
	if !now.Before(rec.ResetTime) {
		delete(s.records, key)
		return Record{}, false
	}
	return *rec, true
}

// Sweep implements Store.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, rec := range s.records {
		if !now.Before(rec.ResetTime) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of live records, for tests and the sweeper log.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Limiter checks requests against policies using an injected Store.
type Limiter struct {
	store Store
	now   func() time.Time
}

// NewLimiter returns a Limiter over the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// Check applies fixed-window accounting for key: at most max requests per
// window. The first request of a window (or of a key's lifetime) always
// passes and starts the window.
func (l *Limiter) Check(key string, max int, window time.Duration) Result {
	return l.store.Take(key, max, window, l.now())
}

// Allow is the boolean-only form for call sites that do not surface a
// retry interval.
func (l *Limiter) Allow(key string, p Policy) bool {
	return l.Check(key, p.Max, p.Window).Allowed
}

// StartSweeper runs a periodic eviction of expired records until stop is
// closed. Without it, one record per distinct key would accumulate for the
// process lifetime.
func (l *Limiter) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if removed := l.store.Sweep(now); removed > 0 {
				log.Printf("[RATELIMIT] Swept %d expired record(s)", removed)
			}
		case <-stop:
			return
		}
	}
}
