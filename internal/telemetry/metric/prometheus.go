package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "boopmesh"

// Results recorded against BoopsTotal.
const (
	BoopDelivered = "delivered"
	BoopOffline   = "offline"
	BoopDropped   = "dropped"
)

// Results recorded against AuthTotal.
const (
	AuthAccepted  = "accepted"
	AuthRejected  = "rejected"
	AuthDuplicate = "duplicate"
)

// Metrics holds the server's Prometheus instruments.
type Metrics struct {
	ConnectionsOpen  prometheus.Gauge
	ConnectionsTotal prometheus.Counter

	CommandsTotal       *prometheus.CounterVec
	ProtocolErrorsTotal *prometheus.CounterVec
	AuthTotal           *prometheus.CounterVec
	BoopsTotal          *prometheus.CounterVec

	CredentialReloadsTotal *prometheus.CounterVec
	CredentialsLoaded      prometheus.Gauge
}

// New creates the instruments and registers them with reg.
// A nil reg leaves them unregistered, which suits tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "boop",
			Name:      "connections_open",
			Help:      "Number of open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boop",
			Name:      "connections_total",
			Help:      "Total client connections accepted.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boop",
			Name:      "commands_total",
			Help:      "Commands received, by verb.",
		}, []string{"command"}),
		ProtocolErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boop",
			Name:      "protocol_errors_total",
			Help:      "ERROR replies sent, by kind.",
		}, []string{"kind"}),
		AuthTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boop",
			Name:      "auth_total",
			Help:      "CONNECT attempts, by result.",
		}, []string{"result"}),
		BoopsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boops_total",
			Help:      "BOOP requests, by relay result.",
		}, []string{"result"}),
		CredentialReloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credentials",
			Name:      "reloads_total",
			Help:      "Credential file reloads, by result.",
		}, []string{"result"}),
		CredentialsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "credentials",
			Name:      "loaded",
			Help:      "Number of credentials currently loaded.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ConnectionsOpen,
			m.ConnectionsTotal,
			m.CommandsTotal,
			m.ProtocolErrorsTotal,
			m.AuthTotal,
			m.BoopsTotal,
			m.CredentialReloadsTotal,
			m.CredentialsLoaded,
		)
	}
	return m
}

// ObserveReload records a credential reload attempt.
func (m *Metrics) ObserveReload(n int, err error) {
	if err != nil {
		m.CredentialReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.CredentialReloadsTotal.WithLabelValues("ok").Inc()
	m.CredentialsLoaded.Set(float64(n))
}
