// Package metrics exposes counters and histograms in the Prometheus text
// format (text/plain; version=0.0.4).
//
// A Registry owns the metrics and serves them through Handler. NewBridge
// registers the set the HTTP API records: requests by route and status,
// request latency, mapping outcomes, mapping diagnostics and dataset
// downloads.
//
//	reg := metrics.NewRegistry()
//	m := metrics.NewBridge(reg)
//	m.Requests.With("POST", "/api/map", "200").Inc()
//	mux.Handle("GET /metrics", reg.Handler())
package metrics
