package benchmark

import (
	"context"
	"testing"
	"time"
)

// BenchmarkRelayBoop measures one BOOP from sender to target over the full
// session path: codec, dispatch, relay and the target's writer.
func BenchmarkRelayBoop(b *testing.B) {
	srv := newServer(b)
	alice := connect(b, srv, "alice")
	bob := connect(b, srv, "bob")

	events := bob.Events()
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := alice.Boop("bob"); err != nil {
			b.Fatalf("Boop failed: %v", err)
		}
		select {
		case <-events:
		case <-time.After(5 * time.Second):
			b.Fatal("boop not relayed")
		}
	}
}

// BenchmarkPingRoundTrip measures a PING/PONG exchange on one session.
func BenchmarkPingRoundTrip(b *testing.B) {
	srv := newServer(b)
	c := connect(b, srv, "alice")
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Ping(ctx); err != nil {
			b.Fatalf("Ping failed: %v", err)
		}
	}
}

// BenchmarkAyt measures presence queries against a busy registry.
func BenchmarkAyt(b *testing.B) {
	srv := newServer(b)
	for i := 0; i < 1000; i++ {
		srv.Registry().Register(keyOf(i), &peer{id: keyOf(i)})
	}
	c := connect(b, srv, "alice")
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Ayt(ctx, keyOf(i%2000)); err != nil {
			b.Fatalf("Ayt failed: %v", err)
		}
	}
}
