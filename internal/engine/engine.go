// Package engine owns the passage corpus and its two search indexes,
// and exposes retrieval, corpus mutation, and answer orchestration on
// top of them. Every mutation rebuilds both indexes from scratch over
// the whole corpus; this keeps the two index views trivially consistent
// at the cost of mutation latency growing with corpus size, an accepted
// ceiling for the corpus sizes this engine targets.
package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ragassist/internal/chunker"
	"ragassist/internal/domain"
	"ragassist/internal/index"
)

const (
	defaultSemanticWeight = 0.6
	defaultKeywordWeight  = 0.4
	defaultTopK           = 3
	defaultContextBudget  = 800
)

// Options tunes retrieval and context assembly. Zero values select the
// defaults.
type Options struct {
	SemanticWeight   float64
	KeywordWeight    float64
	TopK             int
	ContextBudget    int
	Seed             []SeedEntry
	BasicSplitter    *chunker.Splitter
	DocumentSplitter *chunker.Splitter
}

func (o *Options) applyDefaults() {
	if o.SemanticWeight == 0 {
		o.SemanticWeight = defaultSemanticWeight
	}
	if o.KeywordWeight == 0 {
		o.KeywordWeight = defaultKeywordWeight
	}
	if o.TopK <= 0 {
		o.TopK = defaultTopK
	}
	if o.ContextBudget <= 0 {
		o.ContextBudget = defaultContextBudget
	}
	if o.Seed == nil {
		o.Seed = DefaultSeed()
	}
	if o.BasicSplitter == nil {
		o.BasicSplitter = chunker.NewBasicSplitter()
	}
	if o.DocumentSplitter == nil {
		o.DocumentSplitter = chunker.NewDocumentSplitter()
	}
}

// snapshot is an immutable pairing of the two indexes built from one
// corpus version. Readers take the current snapshot and search it
// without holding the engine lock; mutations build a replacement and
// swap it in whole.
type snapshot struct {
	dense   *index.DenseIndex
	sparse  *index.SparseIndex
	version int
}

// Engine is the retrieval core: the authoritative ordered chunk corpus,
// its document records, and the index snapshot both searches run
// against.
type Engine struct {
	embedder  domain.Embedder
	generator domain.Generator
	extractor domain.Extractor
	basic     *chunker.Splitter
	document  *chunker.Splitter
	opts      Options
	logger    *zap.Logger

	mu          sync.RWMutex
	chunks      []domain.Chunk
	documents   []domain.Document
	snap        *snapshot
	version     int
	initialized bool
}

// New assembles an engine around its external collaborators. The
// corpus stays empty until Initialize.
func New(embedder domain.Embedder, generator domain.Generator, extractor domain.Extractor, logger *zap.Logger, opts Options) *Engine {
	opts.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		embedder:  embedder,
		generator: generator,
		extractor: extractor,
		basic:     opts.BasicSplitter,
		document:  opts.DocumentSplitter,
		opts:      opts,
		logger:    logger,
	}
}

// Initialize seeds the corpus from the built-in knowledge set and
// builds both indexes. Calling it again after success is a no-op.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if len(e.opts.Seed) == 0 {
		return ErrNoSeedData
	}

	var chunks []domain.Chunk
	for _, entry := range e.opts.Seed {
		for _, text := range e.basic.Split(entry.Context) {
			chunks = append(chunks, domain.Chunk{
				Text: text,
				Meta: domain.BasicMetadata(entry.Index, entry.UserMessage, entry.Response),
			})
		}
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: seed contexts produced no chunks", ErrNoSeedData)
	}

	e.chunks = chunks
	e.documents = nil
	if err := e.rebuildLocked(ctx); err != nil {
		e.chunks = nil
		return err
	}
	e.initialized = true
	e.logger.Info("engine initialized",
		zap.Int("seed_entries", len(e.opts.Seed)),
		zap.Int("chunks", len(chunks)))
	return nil
}

// rebuildLocked reconstructs both indexes over the full current chunk
// set and swaps the snapshot. Caller holds the write lock. The corpus
// slices must not be touched between a failed rebuild and rollback.
func (e *Engine) rebuildLocked(ctx context.Context) error {
	texts := make([]string, len(e.chunks))
	for i, c := range e.chunks {
		texts[i] = c.Text
	}

	var (
		dense  *index.DenseIndex
		sparse *index.SparseIndex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dense, err = index.BuildDenseIndex(gctx, e.embedder, texts)
		return err
	})
	g.Go(func() error {
		sparse = index.BuildSparseIndex(texts)
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("rebuild indexes: %w", err)
	}

	if dense.Len() != len(e.chunks) || sparse.Len() != len(e.chunks) {
		return fmt.Errorf("index row count mismatch: dense=%d sparse=%d chunks=%d",
			dense.Len(), sparse.Len(), len(e.chunks))
	}

	e.version++
	e.snap = &snapshot{dense: dense, sparse: sparse, version: e.version}
	e.logger.Debug("indexes rebuilt",
		zap.Int("version", e.version),
		zap.Int("rows", len(e.chunks)))
	return nil
}

// currentSnapshot returns the latest fully built snapshot together with
// the chunk slice it was built from. The chunk slice is append-only
// between snapshots, so indexing into it by snapshot row is safe.
func (e *Engine) currentSnapshot() (*snapshot, []domain.Chunk, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap, e.chunks, e.initialized
}

// Summary reports corpus counts for presentation layers.
func (e *Engine) Summary() domain.CorpusSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := domain.CorpusSummary{TotalDocuments: len(e.documents)}
	for _, d := range e.documents {
		s.TotalDocumentChunks += d.ChunkCount
	}
	return s
}

// Documents returns a copy of the current document records.
func (e *Engine) Documents() []domain.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]domain.Document, len(e.documents))
	copy(out, e.documents)
	return out
}
