package metric

import "github.com/prometheus/client_golang/prometheus"

// StatsFunc reports the current number of string keys and hash keys.
type StatsFunc func() (stringKeys, hashKeys int)

// KeyspaceCollector reports keyspace size at scrape time.
type KeyspaceCollector struct {
	stats StatsFunc
	desc  *prometheus.Desc
}

// NewKeyspaceCollector creates a collector backed by stats.
func NewKeyspaceCollector(stats StatsFunc) *KeyspaceCollector {
	return &KeyspaceCollector{
		stats: stats,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Keys in the keyspace, by mapping.",
			[]string{"type"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeyspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *KeyspaceCollector) Collect(ch chan<- prometheus.Metric) {
	strings, hashes := c.stats()
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(strings), "string")
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(hashes), "hash")
}
