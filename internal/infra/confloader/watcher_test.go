package confloader

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher(WithDebounce(0))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if w.debounce != 0 {
		t.Errorf("debounce = %v, want 0", w.debounce)
	}
	if w.logger == nil {
		t.Error("NewWatcher() logger is nil")
	}
}

func TestWatcher_Watch_NonexistentDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch("/nonexistent/path/clients.json"); err == nil {
		t.Error("Watch() expected error for nonexistent directory")
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.StartAsync()

	if err := w.Stop(); err != nil {
		t.Errorf("first Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestWatcher_DetectsWriteToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "clients.json")
	other := filepath.Join(dir, "other.json")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	w, err := NewWatcher(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	var (
		calls   atomic.Int32
		lastHit atomic.Value
	)
	changed := make(chan struct{}, 8)
	w.OnChange(func(path string) {
		calls.Add(1)
		lastHit.Store(path)
		changed <- struct{}{}
	})
	w.StartAsync()

	// Unwatched sibling must not fire.
	if err := os.WriteFile(other, []byte("[1]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(watched, []byte("[2]"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("OnChange callback not called within timeout")
	}

	// Let any trailing debounce settle.
	time.Sleep(200 * time.Millisecond)
	if n := calls.Load(); n < 1 || n > 2 {
		t.Errorf("callback calls = %d, want the burst collapsed", n)
	}
	if got := lastHit.Load().(string); got != watched {
		t.Errorf("callback path = %q, want %q", got, watched)
	}
}
