package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragassist/internal/domain"
	"ragassist/internal/testutil"
)

func newTestEngine(t *testing.T, opts Options) (*Engine, *testutil.StubGenerator) {
	t.Helper()
	gen := &testutil.StubGenerator{Answer: "generated answer"}
	e := New(testutil.NewHashEmbedder(), gen, testutil.StaticExtractor{Text: defaultDocText()}, nil, opts)
	return e, gen
}

func defaultDocText() string {
	sentences := make([]string, 30)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("uploaded manual paragraph %02d covering zeppelin maintenance", i)
	}
	return strings.Join(sentences, ". ")
}

func requireInvariants(t *testing.T, e *Engine) {
	t.Helper()
	e.mu.RLock()
	defer e.mu.RUnlock()
	require.NotNil(t, e.snap)
	require.Equal(t, len(e.chunks), e.snap.dense.Len(), "dense rows must match corpus size")
	require.Equal(t, len(e.chunks), e.snap.sparse.Len(), "sparse rows must match corpus size")
	for _, d := range e.documents {
		tagged := 0
		for _, c := range e.chunks {
			if c.Meta.Kind == domain.MetadataDocument && c.Meta.Filename == d.Filename {
				tagged++
			}
		}
		require.Equal(t, d.ChunkCount, tagged, "chunk count for %s", d.Filename)
	}
}

func TestInitializeBuildsSeedCorpus(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})
	require.NoError(t, e.Initialize(ctx))
	requireInvariants(t, e)

	assert.Equal(t, domain.CorpusSummary{}, e.Summary())
	// Re-initializing is a no-op.
	version := e.version
	require.NoError(t, e.Initialize(ctx))
	assert.Equal(t, version, e.version)
}

func TestInitializeEmptySeedFails(t *testing.T) {
	e, _ := newTestEngine(t, Options{Seed: []SeedEntry{}})
	err := e.Initialize(context.Background())
	require.ErrorIs(t, err, ErrNoSeedData)
}

func TestAddAndRemoveDocumentRestoresCounts(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})
	require.NoError(t, e.Initialize(ctx))

	e.mu.RLock()
	baseChunks := len(e.chunks)
	baseDense := e.snap.dense.Len()
	baseSparse := e.snap.sparse.Len()
	e.mu.RUnlock()

	n, err := e.AddDocument(ctx, "manual.txt", []byte("payload"))
	require.NoError(t, err)
	require.Greater(t, n, 0)
	requireInvariants(t, e)

	sum := e.Summary()
	assert.Equal(t, 1, sum.TotalDocuments)
	assert.Equal(t, n, sum.TotalDocumentChunks)

	require.NoError(t, e.RemoveDocument(ctx, "manual.txt"))
	requireInvariants(t, e)

	e.mu.RLock()
	assert.Equal(t, baseChunks, len(e.chunks))
	assert.Equal(t, baseDense, e.snap.dense.Len())
	assert.Equal(t, baseSparse, e.snap.sparse.Len())
	e.mu.RUnlock()
	assert.Equal(t, domain.CorpusSummary{}, e.Summary())
}

type countingExtractor struct {
	calls *int
	text  string
}

func (x countingExtractor) Extract([]byte) (string, error) {
	*x.calls++
	return x.text, nil
}

func TestAddDocumentDuplicateRejectedBeforeExtraction(t *testing.T) {
	ctx := context.Background()
	calls := 0
	gen := &testutil.StubGenerator{Answer: "ok"}
	e := New(testutil.NewHashEmbedder(), gen, countingExtractor{calls: &calls, text: defaultDocText()}, nil, Options{})
	require.NoError(t, e.Initialize(ctx))

	_, err := e.AddDocument(ctx, "dup.txt", []byte("x"))
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	_, err = e.AddDocument(ctx, "dup.txt", []byte("x"))
	require.ErrorIs(t, err, ErrDuplicateDocument)
	assert.Equal(t, 1, calls, "duplicate check must run before extraction")
}

func TestAddDocumentEmptyExtraction(t *testing.T) {
	ctx := context.Background()
	e := New(testutil.NewHashEmbedder(), &testutil.StubGenerator{}, testutil.StaticExtractor{Text: "   \n\t"}, nil, Options{})
	require.NoError(t, e.Initialize(ctx))

	_, err := e.AddDocument(ctx, "blank.pdf", []byte("x"))
	require.ErrorIs(t, err, ErrEmptyExtraction)
	assert.Equal(t, 0, e.Summary().TotalDocuments)
	requireInvariants(t, e)
}

func TestAddDocumentExtractorError(t *testing.T) {
	ctx := context.Background()
	e := New(testutil.NewHashEmbedder(), &testutil.StubGenerator{}, testutil.StaticExtractor{Err: errors.New("corrupt file")}, nil, Options{})
	require.NoError(t, e.Initialize(ctx))

	_, err := e.AddDocument(ctx, "broken.pdf", []byte("x"))
	require.ErrorIs(t, err, ErrEmptyExtraction)
}

func TestRemoveUnknownDocument(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})
	require.NoError(t, e.Initialize(ctx))

	err := e.RemoveDocument(ctx, "nope.txt")
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestMutationsBeforeInitialize(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})

	_, err := e.AddDocument(ctx, "early.txt", []byte("x"))
	require.ErrorIs(t, err, ErrNotInitialized)
	require.ErrorIs(t, e.RemoveDocument(ctx, "early.txt"), ErrNotInitialized)
}

func TestKeywordEmptyForOutOfVocabularyQuery(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})
	require.NoError(t, e.Initialize(ctx))

	// None of these tokens appear in the seed corpus.
	query := "xylophone quasar bumblebee"

	kw, err := e.Retrieve(ctx, query, MethodKeyword, 3)
	require.NoError(t, err)
	assert.Empty(t, kw)

	sem, err := e.Retrieve(ctx, query, MethodSemantic, 3)
	require.NoError(t, err)
	assert.Len(t, sem, 3, "semantic search is distance-based and never empty on a non-empty corpus")
}

func TestRetrieveBeforeInitializeIsEmpty(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})
	for _, m := range []Method{MethodSemantic, MethodKeyword, MethodHybrid} {
		res, err := e.Retrieve(ctx, "anything", m, 3)
		require.NoError(t, err)
		assert.Empty(t, res)
	}
}

func TestHybridScoreLaw(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{})
	require.NoError(t, e.Initialize(ctx))

	const k = 4
	query := "argilla data labeling and curation"

	sem, err := e.Retrieve(ctx, query, MethodSemantic, k)
	require.NoError(t, err)
	kw, err := e.Retrieve(ctx, query, MethodKeyword, k)
	require.NoError(t, err)
	hybrid, err := e.Retrieve(ctx, query, MethodHybrid, k)
	require.NoError(t, err)
	require.NotEmpty(t, hybrid)

	semScores := map[int]float64{}
	for _, r := range sem {
		semScores[r.Index] = r.Score
	}
	kwScores := map[int]float64{}
	for _, r := range kw {
		kwScores[r.Index] = r.Score
	}

	for _, r := range hybrid {
		want := 0.6*semScores[r.Index] + 0.4*kwScores[r.Index]
		assert.InDelta(t, want, r.Score, 1e-12, "hybrid score for passage %d", r.Index)
	}
	for i := 1; i < len(hybrid); i++ {
		assert.GreaterOrEqual(t, hybrid[i-1].Score, hybrid[i].Score)
	}
	assert.LessOrEqual(t, len(hybrid), k)
}

func argillaSeed() []SeedEntry {
	return []SeedEntry{
		{
			Index:       0,
			UserMessage: "How do I pay invoices?",
			Context:     "Invoices arrive monthly through the billing portal and must be paid within thirty days.",
			Response:    "Pay through the billing portal within thirty days.",
		},
		{
			Index:       1,
			UserMessage: "What is Argilla and how does it work?",
			Context:     "Argilla is a platform for labeling and curating datasets, built for annotation teams.",
			Response:    "Argilla is a data labeling platform.",
		},
		{
			Index:       2,
			UserMessage: "What are the backup procedures?",
			Context:     "Nightly backups copy every record to offsite storage with a twenty four hour recovery objective.",
			Response:    "Backups run nightly with offsite copies.",
		},
	}
}

func TestSemanticScenarioArgilla(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t, Options{Seed: argillaSeed()})
	require.NoError(t, e.Initialize(ctx))

	res, err := e.Retrieve(ctx, "What is Argilla?", MethodSemantic, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.Equal(t, domain.MetadataBasic, res[0].Chunk.Meta.Kind)
	assert.Equal(t, "What is Argilla and how does it work?", res[0].Chunk.Meta.UserMessage)
	assert.Equal(t, 1, res[0].Chunk.Meta.SourceIndex)
}
