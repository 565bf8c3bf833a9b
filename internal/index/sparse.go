package index

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const maxVocabulary = 1000

// SparseIndex is a TF-IDF matrix over a fixed passage set. The
// vocabulary is fitted once at build time and capped at 1000 terms;
// query terms outside the vocabulary are dropped, which can drive
// scores to zero.
type SparseIndex struct {
	vocabulary   map[string]int
	idf          []float64
	rows         [][]float64
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// BuildSparseIndex fits a TF-IDF vectorizer over the passage texts and
// produces one L2-normalized row per passage. An empty passage set
// yields a valid empty index.
func BuildSparseIndex(texts []string) *SparseIndex {
	x := &SparseIndex{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
	if len(texts) == 0 {
		return x
	}

	// Document frequencies over the corpus.
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]struct{})
		for _, tok := range x.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	// Cap the vocabulary: most frequent terms first, alphabetical on
	// ties, so the fitted vocabulary is stable across builds.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxVocabulary {
		terms = terms[:maxVocabulary]
	}
	sort.Strings(terms)

	x.vocabulary = make(map[string]int, len(terms))
	x.idf = make([]float64, len(terms))
	n := float64(len(texts))
	for i, term := range terms {
		x.vocabulary[term] = i
		// Smoothed IDF
		x.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	x.rows = make([][]float64, len(texts))
	for i, text := range texts {
		x.rows[i] = x.vectorize(text)
	}
	return x
}

// Len reports the number of passage rows.
func (x *SparseIndex) Len() int { return len(x.rows) }

// Search transforms the query through the fitted vocabulary and returns
// up to k passages by descending cosine similarity. Zero-similarity
// passages are excluded, so the result may be shorter than k or empty.
func (x *SparseIndex) Search(query string, k int) []Hit {
	if k <= 0 || len(x.rows) == 0 {
		return nil
	}
	qv := x.vectorize(query)
	hits := make([]Hit, 0, len(x.rows))
	for i, row := range x.rows {
		score := dot(row, qv)
		if score > 0 {
			hits = append(hits, Hit{Index: i, Score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Index < hits[j].Index
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// vectorize computes the L2-normalized TF-IDF vector of a text. Rows
// are unit length, so a dot product against them is cosine similarity.
func (x *SparseIndex) vectorize(text string) []float64 {
	vec := make([]float64, len(x.idf))
	tf := make(map[int]int)
	total := 0
	for _, tok := range x.tokenize(text) {
		if idx, ok := x.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * x.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

func (x *SparseIndex) tokenize(text string) []string {
	raw := x.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := x.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now", "you", "your", "we", "our", "they", "their", "he", "she", "his", "her", "its", "what", "which", "who", "whom", "how", "when", "where", "why", "all", "any", "both", "each", "few", "more", "most", "other", "some", "no", "nor", "not", "only", "do", "does", "did", "have", "has", "had", "i", "me", "my",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
