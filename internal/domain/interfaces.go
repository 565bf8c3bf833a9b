package domain

import "context"

// Embedder maps texts to fixed-dimension dense vectors, one vector per
// input, order-preserving. Deterministic for a fixed model.
type Embedder interface {
	Encode(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces text for a prompt via an external service. The
// call is single-turn and blocking; cancellation is the caller's job.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor converts an opaque binary document into best-effort plain
// text. Extraction may be lossy; an empty result means failure.
type Extractor interface {
	Extract(data []byte) (string, error)
}
