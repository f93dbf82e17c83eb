package cmap

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	m := New[string, int]()
	if m == nil {
		t.Fatal("New() returned nil")
	}
	if len(m.shards) != DefaultShardCount {
		t.Errorf("shard count = %d, want %d", len(m.shards), DefaultShardCount)
	}
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},  // invalid → default
		{-1, DefaultShardCount}, // invalid → default
		{3, DefaultShardCount},  // not power of 2 → default
		{1, 1},
		{2, 2},
		{8, 8},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[string, int](tt.input)
			if len(m.shards) != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, len(m.shards), tt.expected)
			}
		})
	}
}

func TestSetAndGet(t *testing.T) {
	m := New[string, int]()

	m.SetIfAbsent("key1", 100)
	m.SetIfAbsent("key2", 200)

	val, ok := m.Get("key1")
	if !ok || val != 100 {
		t.Errorf("Get(key1) = (%d, %v), want (100, true)", val, ok)
	}

	val, ok = m.Get("key2")
	if !ok || val != 200 {
		t.Errorf("Get(key2) = (%d, %v), want (200, true)", val, ok)
	}

	val, ok = m.Get("nonexistent")
	if ok {
		t.Errorf("Get(nonexistent) = (%d, %v), want (0, false)", val, ok)
	}
}

func TestKeysAreCaseSensitive(t *testing.T) {
	m := New[string, int]()
	m.SetIfAbsent("Alice", 1)

	if m.Has("alice") {
		t.Error("Has(alice) should be false when only Alice was set")
	}
}

func TestCount(t *testing.T) {
	m := New[string, int]()
	for _, k := range []string{"key1", "key2", "key3"} {
		m.SetIfAbsent(k, 1)
	}
	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}

	m.DeleteIf("key2", func(int) bool { return true })
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	if m.Has("key2") {
		t.Error("key2 should not exist after deletion")
	}
}

func TestSetIfAbsent(t *testing.T) {
	m := New[string, int]()

	if !m.SetIfAbsent("key1", 100) {
		t.Error("SetIfAbsent() on new key should return true")
	}
	if m.SetIfAbsent("key1", 200) {
		t.Error("SetIfAbsent() on existing key should return false")
	}

	val, _ := m.Get("key1")
	if val != 100 {
		t.Errorf("Get(key1) = %d, want 100 (unchanged)", val)
	}
}

func TestDeleteIf(t *testing.T) {
	type item struct{ id int }

	m := New[string, *item]()
	first := &item{id: 1}
	second := &item{id: 2}
	m.SetIfAbsent("k", first)

	if m.DeleteIf("k", func(v *item) bool { return v == second }) {
		t.Error("DeleteIf() with false predicate should return false")
	}
	if !m.Has("k") {
		t.Fatal("key should survive a rejected DeleteIf")
	}

	if !m.DeleteIf("k", func(v *item) bool { return v == first }) {
		t.Error("DeleteIf() with true predicate should return true")
	}
	if m.Has("k") {
		t.Error("key should be gone after DeleteIf")
	}

	if m.DeleteIf("missing", func(*item) bool { return true }) {
		t.Error("DeleteIf() on missing key should return false")
	}
}

// ============================================================
// Concurrency
// ============================================================

func TestConcurrentSetIfAbsent_SingleWinner(t *testing.T) {
	m := New[string, int]()
	var wg sync.WaitGroup
	var wins atomic.Int32

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if m.SetIfAbsent("contended", id) {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Errorf("SetIfAbsent winners = %d, want 1", wins.Load())
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New[string, int]()
	var wg sync.WaitGroup
	numGoroutines := 50
	numOps := 200

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				key := fmt.Sprintf("%d-%d", base, j)
				m.SetIfAbsent(key, j)
				m.Get(key)
				m.Has(key)
			}
		}(i)
	}
	wg.Wait()

	if m.Count() != numGoroutines*numOps {
		t.Errorf("Count() = %d, want %d", m.Count(), numGoroutines*numOps)
	}
}

