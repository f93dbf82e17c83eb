package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/yndnr/boopmesh/internal/client"
	"github.com/yndnr/boopmesh/internal/core/presence"
	"github.com/yndnr/boopmesh/internal/server/boopserver"
	"github.com/yndnr/boopmesh/internal/telemetry/metric"
	"github.com/yndnr/boopmesh/pkg/wire"
)

// OnlineCounts defines registry sizes for benchmarking.
var OnlineCounts = []int{1000, 10000, 100000}

// peer is a registry entry that discards deliveries.
type peer struct{ id string }

func (p *peer) ID() string { return p.id }

func (p *peer) Deliver(wire.Reply) bool { return true }

// allowAll accepts any password, keeping argon2 out of relay benchmarks.
type allowAll struct{}

func (allowAll) Verify(string, string) bool { return true }

func keyOf(i int) string {
	return fmt.Sprintf("user-%d", i)
}

// newServer returns a server that is fed through net.Pipe.
func newServer(b *testing.B) *boopserver.Server {
	b.Helper()
	cfg := boopserver.DefaultConfig()
	cfg.IdleTimeout = 0
	cfg.OutboundQueue = 1024
	return boopserver.New(cfg, allowAll{}, presence.New(), metric.New(nil), discardLogger())
}

// connect attaches an authenticated client for key to srv.
func connect(b *testing.B, srv *boopserver.Server, key string) *client.Client {
	b.Helper()
	serverEnd, clientEnd := net.Pipe()
	cfg := boopserver.DefaultConfig()
	go srv.ServeTransport(context.Background(),
		boopserver.NewNetTransport(serverEnd, cfg.MaxLineBytes, 0, cfg.WriteTimeout))

	c := client.New(clientEnd, 4096, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Connect(ctx, key, "x"); err != nil {
		b.Fatalf("Connect(%s) error = %v", key, err)
	}
	b.Cleanup(func() { c.Close() })
	return c
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
