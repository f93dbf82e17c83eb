package benchmark

import (
	"fmt"
	"testing"

	"github.com/yndnr/boopmesh/internal/core/presence"
)

func prefillRegistry(count int) *presence.Registry {
	r := presence.New()
	for i := 0; i < count; i++ {
		r.Register(keyOf(i), &peer{id: keyOf(i)})
	}
	return r
}

// BenchmarkPresenceLookup benchmarks AYT-style lookups.
func BenchmarkPresenceLookup(b *testing.B) {
	for _, count := range OnlineCounts {
		b.Run(fmt.Sprintf("online_%d", count), func(b *testing.B) {
			r := prefillRegistry(count)
			b.ResetTimer()
			b.ReportAllocs()

			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					r.Online(keyOf(i % count))
					i++
				}
			})
		})
	}
}

// BenchmarkPresenceChurn benchmarks login and logout of sessions.
func BenchmarkPresenceChurn(b *testing.B) {
	r := prefillRegistry(10000)
	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		p := &peer{id: "churn"}
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("churn-%p-%d", p, i%64)
			if r.Register(key, p) {
				r.Unregister(key, p)
			}
			i++
		}
	})
}
