// Package monitor watches the primary auth store's reachability so the
// auth layer can degrade to its fallback provider instead of failing
// requests outright.
package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"
)

// Status of the monitored dependency.
type Status int

const (
	StatusAvailable Status = iota
	StatusDegraded
)

func (s Status) String() string {
	if s == StatusAvailable {
		return "AVAILABLE"
	}
	return "DEGRADED"
}

// AvailabilityMonitor periodically probes a capability URL with a bounded
// timeout and exposes the last observed status. With no probe URL
// configured the status is always available (the store is local).
type AvailabilityMonitor struct {
	probeURL   string
	interval   time.Duration
	timeout    time.Duration
	httpClient *http.Client

	mu     sync.Mutex
	status Status
}

// NewAvailabilityMonitor creates a monitor for the given probe URL.
func NewAvailabilityMonitor(probeURL string, interval, timeout time.Duration) *AvailabilityMonitor {
	return &AvailabilityMonitor{
		probeURL:   probeURL,
		interval:   interval,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		status:     StatusAvailable,
	}
}

// Start runs the probe loop until stop is closed. An immediate check runs
// before the first tick so startup does not report stale state.
func (m *AvailabilityMonitor) Start(stop <-chan struct{}) {
	if m.probeURL == "" {
		log.Println("[MONITOR] No probe URL configured, auth store treated as always available")
		return
	}
	log.Printf("[MONITOR] Probing %s every %v (timeout %v)", m.probeURL, m.interval, m.timeout)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check()
	for {
		select {
		case <-ticker.C:
			m.check()
		case <-stop:
			return
		}
	}
}

// Status returns the last observed status.
func (m *AvailabilityMonitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// check probes once and logs status transitions.
func (m *AvailabilityMonitor) check() {
	current := StatusDegraded
	if m.isReachable() {
		current = StatusAvailable
	}

	m.mu.Lock()
	previous := m.status
	m.status = current
	m.mu.Unlock()

	if current != previous {
		log.Printf("[MONITOR] Auth store changed from %s to %s", previous, current)
	}
}

// isReachable performs a HEAD request bounded by the configured timeout.
// Any 2xx/3xx response counts as reachable; timeouts and transport errors
// do not.
func (m *AvailabilityMonitor) isReachable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		log.Printf("[MONITOR] Error creating probe request: %v", err)
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[MONITOR] Probe failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
