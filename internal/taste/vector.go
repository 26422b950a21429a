package taste

import (
	"context"
	"fmt"
)

// Embedder turns texts into fixed-dimension vectors, one per input text,
// order-preserving, in a single batched call.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// BuildVector embeds the seed fingerprints in one batch and returns their
// element-wise mean, the taste vector for this request.
func BuildVector(ctx context.Context, embedder Embedder, fingerprints []string) ([]float32, error) {
	if len(fingerprints) == 0 {
		return nil, fmt.Errorf("no seed fingerprints to embed")
	}

	vectors, err := embedder.EmbedBatch(ctx, fingerprints)
	if err != nil {
		return nil, fmt.Errorf("embedding seed fingerprints: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding service returned no vectors")
	}

	return Mean(vectors), nil
}

// Mean computes the element-wise arithmetic mean of the vectors. Vectors
// shorter than the first are padded with zeros for the missing dimensions.
func Mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sum[i] += float64(v[i])
		}
	}

	mean := make([]float32, dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(len(vectors)))
	}
	return mean
}
