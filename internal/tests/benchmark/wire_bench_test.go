package benchmark

import (
	"testing"

	"github.com/yndnr/boopmesh/pkg/wire"
)

var commandLines = []string{
	"CONNECT alice wonderland",
	"PING",
	"BOOP bob",
	"AYT iyoshok",
	"DISCONNECT",
}

// BenchmarkParseCommand benchmarks decoding client lines.
func BenchmarkParseCommand(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := wire.ParseCommand(commandLines[i%len(commandLines)]); err != nil {
			b.Fatalf("ParseCommand failed: %v", err)
		}
	}
}

// BenchmarkReplyBytes benchmarks encoding the relayed BOOP line.
func BenchmarkReplyBytes(b *testing.B) {
	r := wire.Boop("alice")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = r.Bytes()
	}
}
