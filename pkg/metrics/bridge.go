package metrics

// Bridge is the metric set recorded by the HTTP API.
type Bridge struct {
	// Requests counts responses. Labels: method, route, status.
	Requests *Counter

	// Duration observes handler latency in seconds. Labels: method, route.
	Duration *Histogram

	// Mappings counts XML mappings. Labels: outcome (ok, invalid_xml).
	Mappings *Counter

	// Diagnostics counts non-fatal mapping findings.
	Diagnostics *Counter

	// DatasetDownloads counts dataset reads. Labels: status (200, 304, 401).
	DatasetDownloads *Counter
}

// NewBridge registers the API metric set on r.
func NewBridge(r *Registry) *Bridge {
	return &Bridge{
		Requests: r.NewCounter("xmlbridge_http_requests_total",
			"HTTP requests served", "method", "route", "status"),
		Duration: r.NewHistogram("xmlbridge_http_request_duration_seconds",
			"HTTP request latency in seconds", DurationBuckets, "method", "route"),
		Mappings: r.NewCounter("xmlbridge_mappings_total",
			"XML to JSON mappings by outcome", "outcome"),
		Diagnostics: r.NewCounter("xmlbridge_mapping_diagnostics_total",
			"Non-fatal findings recorded while mapping"),
		DatasetDownloads: r.NewCounter("xmlbridge_dataset_downloads_total",
			"Dataset requests by response status", "status"),
	}
}
