package boopserver

import (
	"context"

	"github.com/yndnr/boopmesh/internal/core/presence"
	"github.com/yndnr/boopmesh/internal/telemetry/logger"
	"github.com/yndnr/boopmesh/internal/telemetry/metric"
	"github.com/yndnr/boopmesh/pkg/wire"
)

// RelayResult is the outcome of a BOOP.
type RelayResult int

const (
	// Delivered means the line was queued on the target's writer.
	Delivered RelayResult = iota
	// Offline means no session is authenticated as the target.
	Offline
	// Dropped means the target is online but could not take the line.
	Dropped
)

// String returns the metric label of the result.
func (r RelayResult) String() string {
	switch r {
	case Delivered:
		return metric.BoopDelivered
	case Offline:
		return metric.BoopOffline
	default:
		return metric.BoopDropped
	}
}

// Relay delivers BOOPs to whichever session currently holds the target key.
type Relay struct {
	registry *presence.Registry
	metrics  *metric.Metrics
}

// NewRelay creates a Relay over registry.
func NewRelay(registry *presence.Registry, m *metric.Metrics) *Relay {
	if m == nil {
		m = metric.New(nil)
	}
	return &Relay{registry: registry, metrics: m}
}

// Boop queues "BOOP from" on the session authenticated as to.
// It never waits for the target.
func (r *Relay) Boop(ctx context.Context, from, to string) RelayResult {
	res := r.boop(from, to)
	r.metrics.BoopsTotal.WithLabelValues(res.String()).Inc()

	logger.FromContext(ctx).Debug("boop relayed",
		"from", from,
		"to", to,
		"result", res.String(),
	)
	return res
}

func (r *Relay) boop(from, to string) RelayResult {
	target, ok := r.registry.Lookup(to)
	if !ok {
		return Offline
	}
	if !target.Deliver(wire.Boop(from)) {
		return Dropped
	}
	return Delivered
}
