package taste

import (
	"math"
	"strings"

	"github.com/mbaxter/reeltaste/internal/types"
)

// Scoring weights and bounds. The overlap bonus is a deliberate additive
// bias with no cap; the mainstream penalty pushes the ranking away from
// high-exposure titles.
const (
	directorBonus  = 0.08
	castBonus      = 0.02
	voteCountScale = 50000
	voteCountWt    = 0.25
	popularityScale = 200
	popularityWt    = 0.1
	maxPenalty      = 0.25
)

// CosineSimilarity computes dot(a,b)/(|a|*|b|). When either norm is zero the
// denominator is floored at 1, so degenerate vectors score 0 instead of
// raising a division error.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	for i := n; i < len(a); i++ {
		normA += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		denom = 1
	}
	return dot / denom
}

// OverlapBonus rewards candidates sharing people with the seed set: +0.08 per
// director/writer whose name appears in the concatenated seed-fingerprint
// text, +0.02 per top-billed cast member. Matching is case-insensitive
// substring; accumulation is unbounded.
func OverlapBonus(md types.FilmMetadata, seedText string) float64 {
	if seedText == "" {
		return 0
	}
	seedText = strings.ToLower(seedText)

	bonus := 0.0
	for _, name := range md.Directors {
		if name != "" && strings.Contains(seedText, strings.ToLower(name)) {
			bonus += directorBonus
		}
	}
	for _, name := range md.Cast {
		if name != "" && strings.Contains(seedText, strings.ToLower(name)) {
			bonus += castBonus
		}
	}
	return bonus
}

// MainstreamPenalty grows with vote count and popularity and is clamped to
// [0, 0.25]; it biases the ranking toward less obvious picks.
func MainstreamPenalty(voteCount int, popularity float64) float64 {
	penalty := float64(voteCount)/voteCountScale*voteCountWt + popularity/popularityScale*popularityWt
	if penalty < 0 {
		return 0
	}
	if penalty > maxPenalty {
		return maxPenalty
	}
	return penalty
}
