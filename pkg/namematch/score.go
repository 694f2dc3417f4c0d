package namematch

import (
	"math"
	"strings"
)

// Score returns a confidence in [0,100] that candidate and target name the
// same field. Empty names never match.
func Score(candidate, target string) int {
	if candidate == "" || target == "" {
		return 0
	}
	if candidate == target {
		return ScoreExact
	}
	if strings.ToLower(candidate) == strings.ToLower(target) {
		return ScoreCaseInsensitive
	}

	candidateNorm := Normalize(candidate)
	targetNorm := Normalize(target)
	if candidateNorm == "" || targetNorm == "" {
		return 0
	}
	if candidateNorm == targetNorm {
		return ScoreNormalized
	}
	if Singularize(candidateNorm) == Singularize(targetNorm) {
		return ScoreSingular
	}

	if _, ok := Variants(candidate)[targetNorm]; ok {
		return ScoreVariant
	}
	if _, ok := Variants(target)[candidateNorm]; ok {
		return ScoreVariant
	}

	return tokenOverlap(candidate, target, candidateNorm, targetNorm)
}

func tokenOverlap(candidate, target, candidateNorm, targetNorm string) int {
	candidateTokens := Tokenize(candidate)
	targetTokens := Tokenize(target)
	if len(candidateTokens) == 0 || len(targetTokens) == 0 {
		return 0
	}

	targetSet := make(map[string]struct{}, len(targetTokens))
	for _, t := range targetTokens {
		targetSet[t] = struct{}{}
	}
	shared := 0
	for _, t := range candidateTokens {
		if _, ok := targetSet[t]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}

	ratio := float64(shared) / float64(max(len(candidateTokens), len(targetTokens)))
	score := int(math.Round(ratio * TokenOverlapWeight))
	if strings.HasPrefix(candidateNorm, targetNorm) || strings.HasPrefix(targetNorm, candidateNorm) {
		score += PrefixBoost
	}
	return min(ScoreTokenMax, score)
}

// Best scores every item's name against target and returns the highest
// scorer when its score reaches minScore. Ties keep the first item seen.
func Best[T any](items []T, nameOf func(T) string, target string, minScore int) (T, int, bool) {
	var best T
	bestScore := 0
	found := false
	if target == "" {
		return best, 0, false
	}
	for _, item := range items {
		if s := Score(nameOf(item), target); s > bestScore {
			best, bestScore, found = item, s, true
		}
	}
	if !found || bestScore < minScore {
		var zero T
		return zero, bestScore, false
	}
	return best, bestScore, true
}
