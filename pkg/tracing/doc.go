// Package tracing reads W3C Trace Context traceparent headers so that
// request logs can be correlated with the caller's trace.
//
// The format is {version}-{trace-id}-{parent-id}-{flags}, for example
// 00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01.
package tracing
