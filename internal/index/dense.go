package index

import (
	"context"
	"fmt"
	"sort"

	"ragassist/internal/domain"
)

// Hit is a matching passage position with its score. For dense hits
// Distance carries the raw squared-Euclidean distance the score was
// derived from; sparse hits leave it zero.
type Hit struct {
	Index    int
	Distance float64
	Score    float64
}

// DenseIndex is a flat, exhaustive-scan nearest-neighbor structure over
// embedding vectors, queried by squared-Euclidean distance. A changed
// corpus means a brand-new index; there is no incremental mutation.
type DenseIndex struct {
	embedder  domain.Embedder
	vectors   [][]float64
	dimension int
}

// BuildDenseIndex encodes all passage texts through the embedder and
// stores the resulting vectors. An empty passage set yields a valid
// empty index without calling the embedder.
func BuildDenseIndex(ctx context.Context, embedder domain.Embedder, texts []string) (*DenseIndex, error) {
	x := &DenseIndex{embedder: embedder}
	if len(texts) == 0 {
		return x, nil
	}
	vectors, err := embedder.Encode(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("encode passages: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d passages", len(vectors), len(texts))
	}
	x.dimension = len(vectors[0])
	for i, v := range vectors {
		if len(v) != x.dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), x.dimension)
		}
	}
	x.vectors = vectors
	return x, nil
}

// Len reports the number of indexed vectors.
func (x *DenseIndex) Len() int { return len(x.vectors) }

// Search encodes the query once and returns the k nearest passages by
// ascending distance. Scores map distance d to 1/(1+d), so they stay in
// (0, 1]. If k exceeds the corpus size, all passages are returned.
func (x *DenseIndex) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 || len(x.vectors) == 0 {
		return nil, nil
	}
	encoded, err := x.embedder.Encode(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if len(encoded) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(encoded))
	}
	qv := encoded[0]

	hits := make([]Hit, len(x.vectors))
	for i, v := range x.vectors {
		d := squaredDistance(v, qv)
		hits[i] = Hit{Index: i, Distance: d, Score: 1 / (1 + d)}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Index < hits[j].Index
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func squaredDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
