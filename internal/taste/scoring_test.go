package taste

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbaxter/reeltaste/internal/types"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.3, -0.7, 0.2},
		{5, 5, 5, 5},
	}
	for _, v := range vectors {
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	// Floor-at-1 rule: no division error, similarity 0.
	assert.Zero(t, CosineSimilarity(zero, v))
	assert.Zero(t, CosineSimilarity(v, zero))
	assert.Zero(t, CosineSimilarity(zero, zero))
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-9)
}

func TestMainstreamPenalty_Monotonic(t *testing.T) {
	prev := -1.0
	for _, votes := range []int{0, 1000, 10000, 50000, 200000} {
		p := MainstreamPenalty(votes, 0)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}

	prev = -1.0
	for _, pop := range []float64{0, 10, 100, 500, 5000} {
		p := MainstreamPenalty(0, pop)
		assert.GreaterOrEqual(t, p, prev)
		prev = p
	}
}

func TestMainstreamPenalty_ClampedAtQuarter(t *testing.T) {
	assert.Equal(t, 0.25, MainstreamPenalty(10000000, 100000))
	assert.Equal(t, 0.25, MainstreamPenalty(50000000, 0))
	assert.LessOrEqual(t, MainstreamPenalty(50000, 200), 0.25)
}

func TestMainstreamPenalty_KnownValues(t *testing.T) {
	assert.Zero(t, MainstreamPenalty(0, 0))
	// 50000/50000*0.25 = 0.25 from votes alone hits the clamp.
	assert.Equal(t, 0.25, MainstreamPenalty(50000, 0))
	// 10000/50000*0.25 + 20/200*0.1 = 0.05 + 0.01
	assert.InDelta(t, 0.06, MainstreamPenalty(10000, 20), 1e-9)
}

func TestOverlapBonus(t *testing.T) {
	md := types.FilmMetadata{
		Directors: []string{"Andrei Tarkovsky", "Krzysztof Kieslowski"},
		Cast:      []string{"Anatoly Solonitsyn", "Unknown Actor"},
	}
	seedText := "stalker drama andrei tarkovsky anatoly solonitsyn zone"

	// One director (0.08) + one cast member (0.02).
	assert.InDelta(t, 0.10, OverlapBonus(md, seedText), 1e-9)
}

func TestOverlapBonus_CaseInsensitive(t *testing.T) {
	md := types.FilmMetadata{Directors: []string{"ANDREI TARKOVSKY"}}
	assert.InDelta(t, 0.08, OverlapBonus(md, "andrei tarkovsky"), 1e-9)
}

func TestOverlapBonus_Unbounded(t *testing.T) {
	// Accumulation has no cap.
	md := types.FilmMetadata{
		Directors: []string{"a b", "c d", "e f", "g h", "i j"},
	}
	seedText := "a b c d e f g h i j"
	assert.InDelta(t, 0.40, OverlapBonus(md, seedText), 1e-9)
}

func TestOverlapBonus_NoSeedText(t *testing.T) {
	md := types.FilmMetadata{Directors: []string{"Someone"}}
	assert.Zero(t, OverlapBonus(md, ""))
}
