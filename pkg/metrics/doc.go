// Package metrics exports gateway counters and latencies to Prometheus.
//
// *Metrics satisfies finder.Recorder and is served on /metrics.
package metrics
