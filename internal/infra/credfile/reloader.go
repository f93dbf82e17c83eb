package credfile

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/yndnr/boopmesh/internal/infra/confloader"
)

// Reloader reloads the credential file whenever it changes on disk.
type Reloader struct {
	path    string
	store   Store
	watcher *confloader.Watcher
	logger  *slog.Logger

	// OnReload, when set, is called after every attempt with the record
	// count and the error, if any.
	OnReload func(n int, err error)

	lastLoad atomic.Int64
}

// NewReloader creates a Reloader for path. Call Start to begin watching.
func NewReloader(path string, store Store, logger *slog.Logger) (*Reloader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	r := &Reloader{
		path:    path,
		store:   store,
		watcher: w,
		logger:  logger,
	}
	w.OnChange(func(string) { r.Reload() })
	return r, nil
}

// Start begins watching in the background.
func (r *Reloader) Start() {
	r.watcher.StartAsync()
}

// Reload reads the file now and swaps the result into the store.
func (r *Reloader) Reload() error {
	n, err := LoadInto(r.path, r.store)
	if err != nil {
		r.logger.Error("credential reload failed, keeping previous set",
			"file", r.path,
			"error", err,
		)
	} else {
		r.lastLoad.Store(time.Now().UnixNano())
		r.logger.Info("credentials reloaded", "file", r.path, "count", n)
	}

	if r.OnReload != nil {
		r.OnReload(n, err)
	}
	return err
}

// LastReload returns the time of the last successful reload.
func (r *Reloader) LastReload() time.Time {
	ns := r.lastLoad.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Stop stops watching.
func (r *Reloader) Stop() error {
	return r.watcher.Stop()
}
