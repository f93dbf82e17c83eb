// Package metric defines the Prometheus metrics of the boop server.
//
//   - prometheus.go: counters and gauges updated by the server
//   - collector.go: a collector sampling live state at scrape time
//
// All series use the boopmesh namespace and are exposed at /metrics.
package metric
