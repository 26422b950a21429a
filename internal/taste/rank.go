package taste

import (
	"sort"

	"github.com/mbaxter/reeltaste/internal/types"
)

// Rank scores every candidate against the taste vector and returns them in
// descending score order. candidateVectors is parallel to candidates (one
// embedding per candidate fingerprint); a missing vector scores 0 similarity.
// Ties keep the original candidate order.
func Rank(candidates []types.Candidate, tasteVector []float32, candidateVectors [][]float32, seedText string) []types.Candidate {
	ranked := make([]types.Candidate, len(candidates))
	copy(ranked, candidates)

	for i := range ranked {
		similarity := 0.0
		if i < len(candidateVectors) && len(candidateVectors[i]) > 0 {
			similarity = CosineSimilarity(tasteVector, candidateVectors[i])
		}
		ranked[i].Score = similarity +
			OverlapBonus(ranked[i].Metadata, seedText) -
			MainstreamPenalty(ranked[i].Metadata.VoteCount, ranked[i].Metadata.Popularity)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
