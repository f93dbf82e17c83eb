// Package httpserver serves the operational HTTP endpoint.
//
// Routes:
//
//	GET /metrics  Prometheus exposition
//	GET /healthz  liveness with the number of online identity keys
//
// The endpoint carries no client traffic and binds to loopback by default.
package httpserver
