package metric

import "github.com/prometheus/client_golang/prometheus"

// KeyCounter reports the current size of the keyspace.
type KeyCounter interface {
	Len() int
}

// Collector samples keyspace statistics at scrape time.
type Collector struct {
	keys     KeyCounter
	keysDesc *prometheus.Desc
}

// NewCollector creates a collector reading from keys.
func NewCollector(keys KeyCounter) *Collector {
	return &Collector{
		keys: keys,
		keysDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Number of keys currently stored.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keysDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keysDesc, prometheus.GaugeValue, float64(c.keys.Len()))
}
