package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yndnr/boopmesh/internal/infra/confloader"
)

// Watcher holds the server key pair and reloads it when either file changes.
// A failed reload keeps serving the previous certificate.
type Watcher struct {
	certFile string
	keyFile  string
	logger   *slog.Logger

	mu   sync.RWMutex
	cert *tls.Certificate

	files *confloader.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher loads the key pair. Call Start to enable hot reload.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.Reload(); err != nil {
		return nil, fmt.Errorf("tlsroots: initial load: %w", err)
	}

	return w, nil
}

// Start watches the certificate and key files in the background.
func (w *Watcher) Start() error {
	fw, err := confloader.NewWatcher(confloader.WithWatcherLogger(w.logger))
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	for _, f := range []string{w.certFile, w.keyFile} {
		if err := fw.Watch(f); err != nil {
			_ = fw.Stop()
			return fmt.Errorf("tlsroots: watch %s: %w", f, err)
		}
	}

	fw.OnChange(func(path string) {
		if err := w.Reload(); err != nil {
			w.logger.Error("certificate reload failed, keeping previous certificate",
				"changed", path,
				"error", err,
			)
		}
	})
	fw.StartAsync()

	w.mu.Lock()
	w.files = fw
	w.mu.Unlock()

	w.logger.Info("certificate watcher started", "cert_file", w.certFile)
	return nil
}

// Stop stops watching. The loaded certificate stays usable.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	fw := w.files
	w.files = nil
	w.mu.Unlock()

	if fw == nil {
		return nil
	}
	return fw.Stop()
}

// GetCertificate returns the current certificate.
// This implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert, nil
}

// ServerConfig returns a TLS 1.2+ server config backed by the watcher.
func (w *Watcher) ServerConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: w.GetCertificate,
	}
}

// Reload reads the key pair from disk now.
func (w *Watcher) Reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()

	w.logger.Info("certificate loaded", "cert_file", w.certFile)
	return nil
}
