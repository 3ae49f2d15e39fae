package store

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// TestMemory_UpdateAndAll verifies storage, name-keyed replacement and
// sorted snapshots.
func TestMemory_UpdateAndAll(t *testing.T) {
	m := NewMemory()

	m.Update(WaitResult{Name: "beta", OK: true, Detail: "HTTP 200"})
	m.Update(WaitResult{Name: "alpha", Err: errors.New("nope")})
	m.Update(WaitResult{Name: "beta", OK: true, Detail: "HTTP 204", Elapsed: time.Second})

	all := m.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 results, got %d", len(all))
	}
	if all[0].Name != "alpha" || all[1].Name != "beta" {
		t.Errorf("expected sorted order [alpha beta], got [%s %s]", all[0].Name, all[1].Name)
	}
	if all[1].Detail != "HTTP 204" {
		t.Errorf("expected the later update to replace, got %q", all[1].Detail)
	}
}

// TestMemory_FailedCount verifies failure tallying.
func TestMemory_FailedCount(t *testing.T) {
	m := NewMemory()
	if n := m.FailedCount(); n != 0 {
		t.Fatalf("expected 0 failed on empty store, got %d", n)
	}

	m.Update(WaitResult{Name: "a", OK: true})
	m.Update(WaitResult{Name: "b", Err: errors.New("x")})
	m.Update(WaitResult{Name: "c"})

	if n := m.FailedCount(); n != 2 {
		t.Errorf("expected 2 failed, got %d", n)
	}
}

// TestMemory_ConcurrentUpdates verifies the store is safe under the
// concurrent per-target writes the CLI performs.
func TestMemory_ConcurrentUpdates(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d"}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Update(WaitResult{Name: names[i%len(names)], OK: i%2 == 0})
		}(i)
	}
	wg.Wait()

	if got := len(m.All()); got != len(names) {
		t.Errorf("expected %d results, got %d", len(names), got)
	}
}
