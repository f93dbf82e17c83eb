package metric

import "github.com/prometheus/client_golang/prometheus"

// PresenceCollector reports the number of authenticated sessions by
// asking the registry at scrape time.
type PresenceCollector struct {
	count func() int
	desc  *prometheus.Desc
}

// NewPresenceCollector creates a collector backed by count.
func NewPresenceCollector(count func() int) *PresenceCollector {
	return &PresenceCollector{
		count: count,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "presence", "online"),
			"Number of identity keys currently online.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PresenceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *PresenceCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.count()))
}
