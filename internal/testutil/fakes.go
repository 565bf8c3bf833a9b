// Package testutil provides deterministic in-process fakes for the
// external collaborators, so retrieval and orchestration can be tested
// without a live model server.
package testutil

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"sync"
)

var wordPattern = regexp.MustCompile(`\p{L}+`)

// HashEmbedder is a deterministic bag-of-words embedder: every token is
// hashed into one of Dim buckets and the resulting count vector is
// L2-normalized. Texts sharing vocabulary land close together, which is
// enough to exercise nearest-neighbor behavior.
type HashEmbedder struct {
	Dim int

	mu    sync.Mutex
	Calls int
}

// NewHashEmbedder returns a 256-dimension hashing embedder.
func NewHashEmbedder() *HashEmbedder { return &HashEmbedder{Dim: 256} }

func (e *HashEmbedder) Encode(_ context.Context, texts []string) ([][]float64, error) {
	e.mu.Lock()
	e.Calls++
	e.mu.Unlock()

	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, e.Dim)
		for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
			h := fnv.New32a()
			h.Write([]byte(tok))
			vec[int(h.Sum32())%e.Dim]++
		}
		norm := 0.0
		for _, v := range vec {
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		out[i] = vec
	}
	return out, nil
}

// StubGenerator returns a fixed answer and records the prompts it saw.
type StubGenerator struct {
	Answer string
	Err    error

	mu      sync.Mutex
	Prompts []string
}

func (g *StubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.Prompts = append(g.Prompts, prompt)
	g.mu.Unlock()
	if g.Err != nil {
		return "", g.Err
	}
	return g.Answer, nil
}

// LastPrompt returns the most recent prompt, or "" if none were made.
func (g *StubGenerator) LastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.Prompts) == 0 {
		return ""
	}
	return g.Prompts[len(g.Prompts)-1]
}

// FailingEmbedder fails every call; used to prove code paths make no
// collaborator calls.
type FailingEmbedder struct{}

func (FailingEmbedder) Encode(context.Context, []string) ([][]float64, error) {
	return nil, errors.New("embedder must not be called")
}

// StaticExtractor returns a fixed text for any input.
type StaticExtractor struct {
	Text string
	Err  error
}

func (x StaticExtractor) Extract([]byte) (string, error) {
	if x.Err != nil {
		return "", x.Err
	}
	return x.Text, nil
}
