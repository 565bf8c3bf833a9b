package engine

import (
	"context"
	"sort"

	"ragassist/internal/domain"
	"ragassist/internal/index"
)

// Method selects how a query is matched against the corpus.
type Method string

const (
	MethodSemantic Method = "semantic"
	MethodKeyword  Method = "keyword"
	MethodHybrid   Method = "hybrid"
)

// ParseMethod maps a user-supplied method name to a Method, falling
// back to hybrid for anything unrecognized.
func ParseMethod(s string) Method {
	switch Method(s) {
	case MethodSemantic:
		return MethodSemantic
	case MethodKeyword:
		return MethodKeyword
	default:
		return MethodHybrid
	}
}

// Retrieve runs a search against the current index snapshot and returns
// up to k scored passages. An empty or uninitialized corpus yields an
// empty result, never an error. k <= 0 selects the configured default.
func (e *Engine) Retrieve(ctx context.Context, query string, method Method, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = e.opts.TopK
	}
	snap, chunks, _ := e.currentSnapshot()
	if snap == nil || len(chunks) == 0 {
		return nil, nil
	}

	switch method {
	case MethodSemantic:
		hits, err := snap.dense.Search(ctx, query, k)
		if err != nil {
			return nil, err
		}
		return toResults(hits, chunks), nil
	case MethodKeyword:
		return toResults(snap.sparse.Search(query, k), chunks), nil
	default:
		return e.hybridSearch(ctx, snap, chunks, query, k)
	}
}

// hybridSearch fuses the two result sets. Each passage is identified by
// its stable corpus index, semantic scores weigh 0.6 and keyword scores
// 0.4, and a passage present in both sets gets the sum of its weighted
// contributions.
func (e *Engine) hybridSearch(ctx context.Context, snap *snapshot, chunks []domain.Chunk, query string, k int) ([]domain.SearchResult, error) {
	semantic, err := snap.dense.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	keyword := snap.sparse.Search(query, k)

	combined := make(map[int]float64, len(semantic)+len(keyword))
	for _, h := range semantic {
		combined[h.Index] += h.Score * e.opts.SemanticWeight
	}
	for _, h := range keyword {
		combined[h.Index] += h.Score * e.opts.KeywordWeight
	}

	merged := make([]domain.SearchResult, 0, len(combined))
	for idx, score := range combined {
		merged = append(merged, domain.SearchResult{Index: idx, Chunk: chunks[idx], Score: score})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Index < merged[j].Index
	})
	if k < len(merged) {
		merged = merged[:k]
	}
	return merged, nil
}

func toResults(hits []index.Hit, chunks []domain.Chunk) []domain.SearchResult {
	if len(hits) == 0 {
		return nil
	}
	out := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		out[i] = domain.SearchResult{Index: h.Index, Chunk: chunks[h.Index], Score: h.Score}
	}
	return out
}
