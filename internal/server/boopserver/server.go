package boopserver

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/boopmesh/internal/core/presence"
	"github.com/yndnr/boopmesh/internal/telemetry/metric"
	"github.com/yndnr/boopmesh/pkg/wire"
)

// Config holds the boop server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string
	// TLSConfig enables TLS. Nil serves plaintext TCP.
	TLSConfig *tls.Config
	// IdleTimeout closes a connection that sends no line for this long.
	IdleTimeout time.Duration
	// WriteTimeout bounds a single line write.
	WriteTimeout time.Duration
	// MaxLineBytes is the longest accepted line, delimiter excluded.
	MaxLineBytes int
	// OutboundQueue is the per-connection queue of lines awaiting write.
	OutboundQueue int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:          "0.0.0.0:5274",
		IdleTimeout:   30 * time.Second,
		WriteTimeout:  10 * time.Second,
		MaxLineBytes:  1024,
		OutboundQueue: 32,
	}
}

// Server accepts boop protocol connections.
type Server struct {
	cfg      *Config
	env      *sessionEnv
	registry *presence.Registry
	metrics  *metric.Metrics
	logger   *slog.Logger

	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup

	mu       sync.Mutex
	closing  bool
	sessions map[*Session]struct{}
}

// New creates a boop server. registry is shared with anything else that
// needs presence, such as the health endpoint.
func New(cfg *Config, auth Authenticator, registry *presence.Registry, m *metric.Metrics, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = presence.New()
	}
	if m == nil {
		m = metric.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	queue := cfg.OutboundQueue
	if queue <= 0 {
		queue = DefaultConfig().OutboundQueue
	}

	return &Server{
		cfg:      cfg,
		registry: registry,
		metrics:  m,
		logger:   logger,
		sessions: make(map[*Session]struct{}),
		env: &sessionEnv{
			auth:     auth,
			registry: registry,
			relay:    NewRelay(registry, m),
			metrics:  m,
			logger:   logger,
			queue:    queue,
		},
	}
}

// Registry returns the presence registry the server maintains.
func (s *Server) Registry() *presence.Registry {
	return s.registry
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	mode := "plain"
	if s.cfg.TLSConfig != nil {
		ln = tls.NewListener(ln, s.cfg.TLSConfig)
		mode = "tls"
	}

	return s.Serve(ctx, ln, mode)
}

// Serve serves connections from ln in the background.
func (s *Server) Serve(ctx context.Context, ln net.Listener, mode string) error {
	s.ln = ln
	s.running.Store(true)
	s.logger.Info("boop server listening", "address", ln.Addr().String(), "mode", mode)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("boop accept loop stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the listener address once the server is started.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	var backoff time.Duration
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
				s.logger.Warn("accept failed, retrying", "error", err, "backoff", backoff)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeTransport(ctx, NewNetTransport(c, s.cfg.MaxLineBytes, s.cfg.IdleTimeout, s.cfg.WriteTimeout))
		}()
	}
}

// ServeTransport runs one session over t until it closes.
func (s *Server) ServeTransport(ctx context.Context, t Transport) {
	sess := newSession(t, s.env)
	if !s.track(sess) {
		sess.Close("server shutting down")
		return
	}
	defer s.untrack(sess)

	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ConnectionsOpen.Inc()
	defer s.metrics.ConnectionsOpen.Dec()

	sess.run(ctx)
}

func (s *Server) track(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[sess] = struct{}{}
	return true
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
}

// SessionCount returns the number of open connections.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown stops accepting, tells every open session the server is going
// away with ERROR NOT_AVAILABLE and closes it. If ctx expires first the
// remaining transports are closed without flushing.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}

	s.mu.Lock()
	s.closing = true
	live := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.Unlock()

	s.logger.Info("boop server shutting down", "sessions", len(live))

	for _, sess := range live {
		sess.offer(wire.Error(wire.ErrNotAvailable))
		go sess.Close("server shutting down")
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		for _, sess := range live {
			sess.kill()
		}
		return ctx.Err()
	}

	return firstErr
}
