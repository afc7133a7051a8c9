// Package metric provides Prometheus metrics for miniredis.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry and HTTP handler
//   - collector.go: Keyspace collector sampled at scrape time
//   - recorder.go: Narrow interface used by the RESP server
//
// Metrics are exposed at /metrics in Prometheus format when the HTTP
// admin listener is enabled.
package metric
