package observability

import (
	"fmt"
	"sync"
	"time"
)

// Metrics keeps lightweight in-process counters for served requests and
// error responses, keyed by method, route and outcome. Counters reset
// on restart; they exist for log correlation, not export.
type Metrics struct {
	mu       sync.RWMutex
	requests map[string]int64
	errors   map[string]int64
}

// NewMetrics returns an empty counter set.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a completed request under its final status.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %d", method, path, status)
	m.mu.Lock()
	m.requests[key]++
	m.mu.Unlock()
}

// RecordError counts an error response under its error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %s", method, path, code)
	m.mu.Lock()
	m.errors[key]++
	m.mu.Unlock()
}

// RequestCount returns the counter for a method/path/status combination.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[fmt.Sprintf("%s %s %d", method, path, status)]
}

// ErrorCount returns the counter for a method/path/code combination.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.errors[fmt.Sprintf("%s %s %s", method, path, code)]
}
