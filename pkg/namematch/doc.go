// Package namematch scores how likely two field names denote the same thing.
//
// Names coming from XML payloads and OpenAPI schemas rarely agree on a
// convention: one side says targetService, the other TARGET_SERVICE, a third
// ns:TargetServices. Score compares two names across namespaces, camelCase,
// snake_case, kebab-case and simple plurals and returns a confidence between
// 0 and 100.
//
// # Tiers
//
// Score checks the tiers below in order and returns the first that applies:
//
//	100  exact string equality
//	 96  case-insensitive equality
//	 92  equal after normalization
//	 88  equal after singularization
//	 84  one name's variant set contains the other's normalized form
//	≤82  proportional token overlap, with a prefix bonus
//
// Callers decide what counts as a match by comparing the score against one
// of the threshold constants (MinChildScore, MinAttributeScore, ...).
package namematch
