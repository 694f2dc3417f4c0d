package namematch

// Tier scores returned by Score. Each tier strictly dominates the next.
const (
	// ScoreExact is returned when both names are byte-for-byte equal.
	ScoreExact = 100

	// ScoreCaseInsensitive is returned when the names differ only in case.
	ScoreCaseInsensitive = 96

	// ScoreNormalized is returned when the normalized forms are equal
	// (namespace stripped, camelCase split, punctuation collapsed).
	ScoreNormalized = 92

	// ScoreSingular is returned when the singularized normalized forms are equal.
	ScoreSingular = 88

	// ScoreVariant is returned when one name's variant set contains the
	// other's normalized form.
	ScoreVariant = 84

	// ScoreTokenMax caps the token-overlap tier.
	ScoreTokenMax = 82
)

// Token-overlap tier weights.
const (
	// TokenOverlapWeight scales the shared-token ratio.
	TokenOverlapWeight = 75

	// PrefixBoost is added when one normalized form is a prefix of the other.
	PrefixBoost = 8
)

// Acceptance thresholds used by callers.
const (
	// DefaultMinScore is the threshold used by Best when no other applies.
	DefaultMinScore = 60

	// MinChildScore is the threshold for fuzzy child-element lookup and for
	// accepting a scored candidate node.
	MinChildScore = 64

	// MinAttributeScore is the threshold for fuzzy attribute lookup.
	MinAttributeScore = 70

	// MinPairScore is the threshold for name/value pair alias fields.
	MinPairScore = 70

	// MinOwnNameScore is the threshold for an element's own name standing in
	// for a field when extracting a primitive.
	MinOwnNameScore = 88

	// MinSelfScore is the threshold for treating the context element itself
	// as the node for a property.
	MinSelfScore = 92
)
