// Package cli provides the command-line interface for xmlbridge.
//
// Mapping commands:
//   - map: Map an XML document (or a glob of them) onto an OpenAPI schema
//   - prune: Remove empty fields from a JSON document
//   - example: Print an example value generated from a schema
//
// Document commands:
//   - operations: List the operations of an OpenAPI document
//   - validate: Validate an OpenAPI document or an XML file
//   - fix-yaml: Repair common hand-editing mistakes in YAML
//
// Request artifacts:
//   - postman: Generate a Postman v2.1 collection
//   - curl: Build a cURL command from an XML log sample
//
// Other:
//   - serve: Serve the engine over HTTP (see package api)
//   - config: Show effective configuration and where each value came from
//   - init: Write a starter .xmlbridgerc.yaml
//   - topics: Background help on matching, headers and config
//   - version: Show version information
//
// Every command accepts --json for machine-readable output, --config,
// --log-level, --log-format and --log-file.
package cli
