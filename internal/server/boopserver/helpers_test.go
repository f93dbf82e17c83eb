package boopserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/boopmesh/internal/telemetry/metric"
)

const readTimeout = 2 * time.Second

// staticAuth accepts key/password pairs from a map.
type staticAuth map[string]string

func (a staticAuth) Verify(key, password string) bool {
	want, ok := a[key]
	return ok && want == password
}

var testUsers = staticAuth{
	"alice":   "wonderland",
	"bob":     "builder",
	"iyoshok": "yoshi",
}

func newTestServer(t *testing.T, mutate func(*Config)) (*Server, *metric.Metrics) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	if mutate != nil {
		mutate(cfg)
	}
	m := metric.New(nil)
	return New(cfg, testUsers, nil, m, nil), m
}

// testClient is the client end of an in-memory connection.
type testClient struct {
	t    *testing.T
	conn net.Conn
	br   *bufio.Reader
}

// pipe connects a new in-memory client to srv.
func pipe(t *testing.T, srv *Server) *testClient {
	t.Helper()
	serverEnd, clientEnd := net.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.ServeTransport(context.Background(),
			NewNetTransport(serverEnd, srv.cfg.MaxLineBytes, srv.cfg.IdleTimeout, srv.cfg.WriteTimeout))
	}()
	t.Cleanup(func() {
		clientEnd.Close()
		<-done
	})

	return &testClient{t: t, conn: clientEnd, br: bufio.NewReader(clientEnd)}
}

// dial connects a TCP client to a started server.
func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, readTimeout)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, br: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(readTimeout))
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		c.t.Fatalf("write %q: %v", line, err)
	}
}

func (c *testClient) readLine() (string, error) {
	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	line, err := c.br.ReadString('\n')
	return strings.TrimSuffix(line, "\n"), err
}

func (c *testClient) expect(want string) {
	c.t.Helper()
	got, err := c.readLine()
	if err != nil {
		c.t.Fatalf("reading reply (want %q): %v", want, err)
	}
	if got != want {
		c.t.Fatalf("reply = %q, want %q", got, want)
	}
}

// roundTrip sends line and expects want as the very next reply.
func (c *testClient) roundTrip(line, want string) {
	c.t.Helper()
	c.send(line)
	c.expect(want)
}

func (c *testClient) expectClosed() {
	c.t.Helper()
	line, err := c.readLine()
	if err == nil {
		c.t.Fatalf("read %q, want connection closed", line)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		c.t.Fatal("connection still open, want closed")
	}
}

func (c *testClient) login(key string) {
	c.t.Helper()
	c.roundTrip("CONNECT "+key+" "+testUsers[key], "HEY")
}

// eventually polls cond until it holds or the timeout passes.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}
