// Package api serves the mapping engine and the request artifact builders
// over HTTP for browser front-ends.
//
// Routes:
//
//	GET  /health
//	GET  /metrics       Prometheus text format
//	POST /api/map       {spec, xml, schema | operation, prune, select}
//	POST /api/prune     {value}
//	POST /api/validate  {spec, xml}
//	POST /api/postman   {spec, groupByTag}
//	POST /api/curl      {spec, operation, xml, pruned, validate}
//	GET  /api/dataset
//
// Errors use the httputil.ErrorResponse envelope. XML that cannot be
// parsed is reported as 422 invalid_xml.
package api
