// Package request prepares a ready-to-send HTTP request for an OpenAPI
// operation from an XML log sample: path and query parameters are looked
// up in the XML, headers are merged from the operation, a default set and
// the log's own header block, and the JSON body is mapped from the XML
// payload.
package request
