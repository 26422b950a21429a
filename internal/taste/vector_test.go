package taste

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns deterministic vectors and records batch sizes.
type fakeEmbedder struct {
	batches [][]string
	fail    bool
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, fmt.Errorf("embedding service unavailable")
	}
	f.batches = append(f.batches, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i), float32(len(texts[i])), 1}
	}
	return vectors, nil
}

func TestMean(t *testing.T) {
	mean := Mean([][]float32{
		{1, 2, 3},
		{3, 4, 5},
	})
	assert.Equal(t, []float32{2, 3, 4}, mean)
}

func TestMean_SingleVector(t *testing.T) {
	assert.Equal(t, []float32{7, 8}, Mean([][]float32{{7, 8}}))
}

func TestMean_Empty(t *testing.T) {
	assert.Nil(t, Mean(nil))
}

func TestBuildVector_SingleBatch(t *testing.T) {
	embedder := &fakeEmbedder{}
	vector, err := BuildVector(context.Background(), embedder, []string{"fp one", "fp two", "fp three"})
	require.NoError(t, err)
	assert.Len(t, vector, 3)
	require.Len(t, embedder.batches, 1, "all fingerprints go out in one batched call")
	assert.Len(t, embedder.batches[0], 3)
}

func TestBuildVector_NoFingerprints(t *testing.T) {
	_, err := BuildVector(context.Background(), &fakeEmbedder{}, nil)
	require.Error(t, err)
}

func TestBuildVector_EmbedderFailure(t *testing.T) {
	_, err := BuildVector(context.Background(), &fakeEmbedder{fail: true}, []string{"fp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding seed fingerprints")
}
