package boopserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/boopmesh/internal/core/presence"
	"github.com/yndnr/boopmesh/internal/telemetry/logger"
	"github.com/yndnr/boopmesh/internal/telemetry/metric"
	"github.com/yndnr/boopmesh/pkg/wire"
)

// State is the connection state of a Session.
type State uint8

const (
	StateAwaitingAuth State = iota
	StateAuthenticated
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAwaitingAuth:
		return "awaiting_auth"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Authenticator checks an identity key and password.
type Authenticator interface {
	Verify(key, password string) bool
}

// sessionEnv is what a Session needs from its server.
type sessionEnv struct {
	auth     Authenticator
	registry *presence.Registry
	relay    *Relay
	metrics  *metric.Metrics
	logger   *slog.Logger
	queue    int
}

// handler runs one command. It returns false when the session must end.
type handler func(ctx context.Context, s *Session, cmd wire.Command) bool

// transitions lists the commands legal in each state. A parsed command
// missing from its state's row is answered with PROTOCOL_MISMATCH.
var transitions = map[State]map[wire.CommandKind]handler{
	StateAwaitingAuth: {
		wire.CmdConnect: handleConnect,
		wire.CmdPing:    handlePing,
	},
	StateAuthenticated: {
		wire.CmdPing:       handlePing,
		wire.CmdDisconnect: handleDisconnect,
		wire.CmdBoop:       handleBoop,
		wire.CmdAyt:        handleAyt,
	},
}

// Session is one client connection.
type Session struct {
	id     string
	t      Transport
	env    *sessionEnv
	logger *slog.Logger

	mu    sync.Mutex
	state State
	key   string

	// accepting gates relayed lines until HEY has been queued, so a
	// client never sees a BOOP before its own HEY.
	accepting atomic.Bool

	out        chan wire.Reply
	done       chan struct{}
	writerDone chan struct{}

	closeOnce sync.Once
}

var _ presence.Peer = (*Session)(nil)

func newSession(t Transport, env *sessionEnv) *Session {
	id := ulid.Make().String()
	s := &Session{
		id:         id,
		t:          t,
		env:        env,
		logger:     env.logger.With("conn_id", id, "remote", t.RemoteAddr()),
		state:      StateAwaitingAuth,
		out:        make(chan wire.Reply, env.queue),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

// ID implements presence.Peer.
func (s *Session) ID() string { return s.id }

// Key returns the authenticated identity key, or "" before CONNECT.
func (s *Session) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// State returns the current connection state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Deliver implements presence.Peer. It queues a relayed line without
// blocking and reports false if the session is not ready, closing, or its
// queue is full.
func (s *Session) Deliver(r wire.Reply) bool {
	if !s.accepting.Load() {
		return false
	}
	return s.offer(r)
}

// offer queues r if there is room right now.
func (s *Session) offer(r wire.Reply) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.out <- r:
		return true
	default:
		return false
	}
}

// send queues a reply to the session's own command, waiting for room.
func (s *Session) send(r wire.Reply) bool {
	if r.Kind == wire.ReplyError {
		s.env.metrics.ProtocolErrorsTotal.WithLabelValues(r.Err.String()).Inc()
	}
	select {
	case s.out <- r:
		return true
	case <-s.done:
		return false
	case <-s.writerDone:
		return false
	}
}

// run serves the session until it closes. It must be called once.
func (s *Session) run(ctx context.Context) {
	ctx = logger.WithLogger(ctx, s.logger)

	reason := "client closed connection"
	defer func() { s.Close(reason) }()
	defer func() {
		if r := recover(); r != nil {
			reason = "panic"
			s.logger.Error("panic in session", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	s.logger.Debug("session opened")

	for {
		line, err := s.t.ReadLine()
		if err != nil {
			reason = s.readFailure(err)
			return
		}
		s.logger.Debug("line received", "line", logger.RedactLine(line))

		if !s.dispatch(ctx, line) {
			reason = "session ended"
			return
		}
	}
}

func (s *Session) readFailure(err error) string {
	switch {
	case errors.Is(err, ErrLineTooLong):
		s.send(wire.Error(wire.ErrMalformedCommand))
		return "line too long"
	case errors.Is(err, io.EOF):
		return "client closed connection"
	case isTimeout(err):
		return "idle timeout"
	case errors.Is(err, net.ErrClosed):
		return "connection closed"
	default:
		s.logger.Debug("read failed", "error", err)
		return "read error"
	}
}

// dispatch parses and runs one line. It returns false when the session
// must end.
func (s *Session) dispatch(ctx context.Context, line string) bool {
	cmd, err := wire.ParseCommand(line)
	if err != nil {
		return s.send(wire.ErrorFor(err))
	}
	s.env.metrics.CommandsTotal.WithLabelValues(cmd.Kind.String()).Inc()

	h, ok := transitions[s.State()][cmd.Kind]
	if !ok {
		return s.send(wire.Error(wire.ErrProtocolMismatch))
	}
	return h(ctx, s, cmd)
}

func handlePing(_ context.Context, s *Session, _ wire.Command) bool {
	return s.send(wire.Pong)
}

func handleConnect(_ context.Context, s *Session, cmd wire.Command) bool {
	if !s.env.auth.Verify(cmd.Key, cmd.Password) {
		s.env.metrics.AuthTotal.WithLabelValues(metric.AuthRejected).Inc()
		s.logger.Info("authentication failed", "key", cmd.Key)
		return s.send(wire.No)
	}

	s.mu.Lock()
	if s.state != StateAwaitingAuth {
		s.mu.Unlock()
		return false
	}
	if !s.env.registry.Register(cmd.Key, s) {
		s.mu.Unlock()
		s.env.metrics.AuthTotal.WithLabelValues(metric.AuthDuplicate).Inc()
		s.logger.Warn("authentication rejected, key already online", "key", cmd.Key)
		return s.send(wire.No)
	}
	s.key = cmd.Key
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.env.metrics.AuthTotal.WithLabelValues(metric.AuthAccepted).Inc()
	s.logger.Info("authenticated", "key", cmd.Key)

	if !s.send(wire.Hey) {
		return false
	}
	s.accepting.Store(true)
	return true
}

func handleDisconnect(_ context.Context, s *Session, _ wire.Command) bool {
	// Offline before BYE is visible to the client.
	s.env.registry.Unregister(s.Key(), s)
	s.send(wire.Bye)
	return false
}

func handleBoop(ctx context.Context, s *Session, cmd wire.Command) bool {
	s.env.relay.Boop(ctx, s.Key(), cmd.Key)
	return true
}

func handleAyt(_ context.Context, s *Session, cmd wire.Command) bool {
	peer, ok := s.env.registry.Lookup(cmd.Key)
	if ok && peer != presence.Peer(s) {
		return s.send(wire.Online(cmd.Key))
	}
	return s.send(wire.Afk(cmd.Key))
}

// writeLoop is the only goroutine writing to the transport. After done is
// closed it flushes what is already queued and exits.
func (s *Session) writeLoop() {
	defer close(s.writerDone)

	for {
		select {
		case r := <-s.out:
			if !s.write(r) {
				return
			}
		case <-s.done:
			for {
				select {
				case r := <-s.out:
					if !s.write(r) {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *Session) write(r wire.Reply) bool {
	if err := s.t.WriteLine(r.Bytes()); err != nil {
		s.logger.Debug("write failed", "error", err)
		// Unblocks the reader, which then tears the session down.
		_ = s.t.Close()
		return false
	}
	return true
}

// Close ends the session. Only the first call has an effect; later calls
// wait for it to finish.
func (s *Session) Close(reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		key := s.key
		s.state = StateClosed
		s.mu.Unlock()

		s.accepting.Store(false)
		if key != "" {
			s.env.registry.Unregister(key, s)
		}

		close(s.done)
		<-s.writerDone
		_ = s.t.Close()

		s.logger.Info("session closed", "key", key, "reason", reason)
	})
}

// kill closes the transport without waiting for queued lines.
func (s *Session) kill() {
	_ = s.t.Close()
}
