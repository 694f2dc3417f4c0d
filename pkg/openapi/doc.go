// Package openapi loads OpenAPI 3.x documents and exposes the pieces the
// mapper and the request generators need: ordered schema properties, $ref
// resolution, operations and example payloads.
//
// Documents are kept as yaml.v3 node trees rather than decoded structs so
// that property and path order survive loading; output objects follow the
// order the author wrote. Semantic validation is delegated to kin-openapi.
package openapi
