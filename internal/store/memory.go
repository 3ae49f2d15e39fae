package store

import (
	"sort"
	"sync"
	"time"
)

// WaitResult is the terminal outcome of waiting on one target.
type WaitResult struct {
	// Name is the target's display name.
	Name string

	// OK reports whether the target became ready before its deadline.
	OK bool

	// Detail describes what was observed on success (e.g. "HTTP 200").
	Detail string

	// Elapsed is how long the wait took to settle.
	Elapsed time.Duration

	// Err is the terminal error for failed waits, nil otherwise.
	Err error
}

// Memory is a thread-safe in-memory collection of [WaitResult] values,
// keyed by target name. Subsequent updates with the same name replace
// the previous value.
type Memory struct {
	mu      sync.RWMutex
	results map[string]WaitResult
}

// NewMemory creates an empty result collection, immediately ready for use.
func NewMemory() *Memory {
	return &Memory{results: make(map[string]WaitResult)}
}

// Update stores a result, replacing any previous result for the same name.
func (m *Memory) Update(r WaitResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.Name] = r
}

// All returns a snapshot of all stored results, sorted by name for
// stable output. Modifying the returned slice does not affect the store.
func (m *Memory) All() []WaitResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]WaitResult, 0, len(m.results))
	for _, r := range m.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results
}

// FailedCount returns how many stored results did not become ready.
func (m *Memory) FailedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, r := range m.results {
		if !r.OK {
			n++
		}
	}
	return n
}
