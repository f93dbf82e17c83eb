package client

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/yndnr/boopmesh/pkg/wire"
)

// Client errors.
var (
	ErrClosed       = errors.New("client: connection closed")
	ErrRejected     = errors.New("client: credentials rejected")
	ErrUnexpected   = errors.New("client: unexpected reply")
	ErrNotAvailable = errors.New("client: server not available")
)

// ServerError is an ERROR line received in response to a request.
type ServerError struct {
	Kind wire.ErrorKind
}

func (e *ServerError) Error() string {
	return "client: server error " + e.Kind.String()
}

// EventKind identifies an unsolicited server line.
type EventKind uint8

const (
	// EventBoop is a relayed boop; Event.From holds the sender's key.
	EventBoop EventKind = iota + 1
	// EventNotAvailable is sent by the server right before it shuts down.
	EventNotAvailable
)

// Event is an unsolicited server line.
type Event struct {
	Kind EventKind
	From string
	At   time.Time
}

// Options configures Dial.
type Options struct {
	Addr string

	// TLS enables TLS when non-nil.
	TLS *tls.Config

	// DialTimeout bounds connection setup. Zero means 10s.
	DialTimeout time.Duration

	// EventBuffer is the capacity of Events. Zero means 64.
	EventBuffer int

	Logger *slog.Logger
}

// Client is a connected protocol client.
type Client struct {
	conn   net.Conn
	logger *slog.Logger

	// reqMu serializes request/response pairs.
	reqMu   sync.Mutex
	writeMu sync.Mutex

	replies chan wire.Reply
	events  chan Event

	done      chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
}

// Dial connects to the server and starts the reader.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}

	d := &net.Dialer{Timeout: opts.DialTimeout}
	var (
		conn net.Conn
		err  error
	)
	if opts.TLS != nil {
		td := &tls.Dialer{NetDialer: d, Config: opts.TLS}
		conn, err = td.DialContext(ctx, "tcp", opts.Addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", opts.Addr)
	}
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", opts.Addr, err)
	}
	return New(conn, opts.EventBuffer, opts.Logger), nil
}

// New wraps an established connection.
func New(conn net.Conn, eventBuffer int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if eventBuffer <= 0 {
		eventBuffer = 64
	}
	c := &Client{
		conn:    conn,
		logger:  logger.With("server", conn.RemoteAddr().String()),
		replies: make(chan wire.Reply, 1),
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Events delivers relayed boops and shutdown notices. It is closed when the
// connection ends. Events that find the buffer full are dropped.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the reason the connection ended, if it has.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Connect authenticates the session.
func (c *Client) Connect(ctx context.Context, key, password string) error {
	r, err := c.request(ctx, wire.Command{Kind: wire.CmdConnect, Key: key, Password: password})
	if err != nil {
		return err
	}
	switch r.Kind {
	case wire.ReplyHey:
		return nil
	case wire.ReplyNo:
		return ErrRejected
	default:
		return unexpected(r)
	}
}

// Ping round-trips a PING and returns the elapsed time.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	r, err := c.request(ctx, wire.Command{Kind: wire.CmdPing})
	if err != nil {
		return 0, err
	}
	if r.Kind != wire.ReplyPong {
		return 0, unexpected(r)
	}
	return time.Since(start), nil
}

// Ayt reports whether key is online.
func (c *Client) Ayt(ctx context.Context, key string) (bool, error) {
	r, err := c.request(ctx, wire.Command{Kind: wire.CmdAyt, Key: key})
	if err != nil {
		return false, err
	}
	switch {
	case r.Kind == wire.ReplyOnline && r.Key == key:
		return true, nil
	case r.Kind == wire.ReplyAfk && r.Key == key:
		return false, nil
	default:
		return false, unexpected(r)
	}
}

// Boop sends a boop to key. The server sends no reply.
func (c *Client) Boop(key string) error {
	return c.write(wire.Command{Kind: wire.CmdBoop, Key: key})
}

// Disconnect ends the session gracefully and closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	r, err := c.request(ctx, wire.Command{Kind: wire.CmdDisconnect})
	closeErr := c.Close()
	if err != nil {
		return err
	}
	if r.Kind != wire.ReplyBye {
		return unexpected(r)
	}
	return closeErr
}

// Close closes the connection without a goodbye.
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (c *Client) request(ctx context.Context, cmd wire.Command) (wire.Reply, error) {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	if err := c.write(cmd); err != nil {
		return wire.Reply{}, err
	}

	select {
	case r, ok := <-c.replies:
		if !ok {
			return wire.Reply{}, c.closedErr()
		}
		if r.Kind == wire.ReplyError {
			return wire.Reply{}, &ServerError{Kind: r.Err}
		}
		return r, nil
	case <-c.done:
		return wire.Reply{}, c.closedErr()
	case <-ctx.Done():
		// The reply may still arrive; drop the connection rather than
		// let a later request read it.
		_ = c.conn.Close()
		return wire.Reply{}, ctx.Err()
	}
}

func (c *Client) write(cmd wire.Command) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.done:
		return c.closedErr()
	default:
	}
	if _, err := c.conn.Write(cmd.Bytes()); err != nil {
		return fmt.Errorf("client: write %s: %w", cmd.Kind, err)
	}
	return nil
}

func (c *Client) readLoop() {
	defer func() {
		close(c.events)
		close(c.done)
	}()

	sc := bufio.NewScanner(c.conn)
	for sc.Scan() {
		line := sc.Text()
		r, err := wire.ParseReply(line)
		if err != nil {
			c.logger.Debug("ignoring unparsable server line", "line", line, "error", err)
			continue
		}

		switch {
		case r.Kind == wire.ReplyBoop:
			c.emit(Event{Kind: EventBoop, From: r.Key, At: time.Now()})
		case r.Kind == wire.ReplyError && r.Err == wire.ErrNotAvailable:
			c.setErr(ErrNotAvailable)
			c.emit(Event{Kind: EventNotAvailable, At: time.Now()})
		default:
			select {
			case c.replies <- r:
			default:
				c.logger.Debug("dropping reply with no waiting request", "reply", r.String())
			}
		}
	}

	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.setErr(err)
	}
	c.setErr(ErrClosed)
}

func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Warn("event buffer full, dropping event", "from", ev.From)
	}
}

// setErr records the first terminal error.
func (c *Client) setErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

func (c *Client) closedErr() error {
	if err := c.Err(); err != nil && !errors.Is(err, ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return ErrClosed
}

func unexpected(r wire.Reply) error {
	return fmt.Errorf("%w: %s", ErrUnexpected, r.String())
}
