// Package mapper converts XML documents into JSON-shaped values guided by
// an OpenAPI schema.
//
// There is no mapping table. For every schema property the mapper looks for
// the XML element or attribute that most plausibly carries it, using
// namespace-agnostic name matching (see package namematch) boosted by how
// well a candidate's structure fits the property's schema:
//
//   - objects always carry every declared property; properties with no
//     matching XML get an empty value of their type
//   - arrays are framed either by a wrapper element or by repeated siblings
//   - primitives are read from an attribute, a child element or the
//     element's own text, then converted to the schema type
//
// Schema shortfalls (broken $ref, missing items, enum violations) never
// abort a mapping; they are returned as Diagnostics. Only unparseable XML
// is an error.
package mapper
