// Package xmlnav provides namespace-agnostic navigation over parsed XML.
//
// Every lookup compares local names (the part after the last ':'), so
// <ns1:Customer> and <Customer> are the same element to this package. Child
// and attribute lookups fall back from exact to case-insensitive to fuzzy
// matching through the namematch package.
//
// Parsing goes through the Parser interface. SafeParser wraps a strict
// parser with the repairs needed for XML copied out of service logs:
// broken namespace declarations and several concatenated root elements.
package xmlnav
