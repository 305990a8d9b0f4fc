package memory

import (
	"sync"
	"testing"
)

func TestUsernameIndex(t *testing.T) {
	idx := NewUsernameIndex()

	if !idx.Reserve("alice", "1") {
		t.Fatal("first reservation should succeed")
	}
	if !idx.Reserve("alice", "1") {
		t.Error("re-reserving for the same ID should succeed")
	}
	if idx.Reserve("alice", "2") {
		t.Error("reserving a taken name should fail")
	}

	if id, ok := idx.Lookup("alice"); !ok || id != "1" {
		t.Errorf("Lookup() = %q, %v", id, ok)
	}
	if _, ok := idx.Lookup("Alice"); ok {
		t.Error("lookup should be case-sensitive")
	}

	idx.Release("alice", "2")
	if idx.Len() != 1 {
		t.Error("release by another ID must not free the name")
	}
	idx.Release("alice", "1")
	if idx.Len() != 0 {
		t.Errorf("Len() = %d after release", idx.Len())
	}
}

func TestUsernameIndex_ConcurrentReserve(t *testing.T) {
	idx := NewUsernameIndex()

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if idx.Reserve("shared", string(rune('a'+n))) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d goroutines won the reservation, want 1", wins)
	}
}
