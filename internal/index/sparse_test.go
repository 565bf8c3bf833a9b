package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseSearchRanksByOverlap(t *testing.T) {
	x := BuildSparseIndex([]string{
		"password reset instructions via email",
		"argilla handles data labeling workflows",
		"customer support channels include phone",
	})
	require.Equal(t, 3, x.Len())

	hits := x.Search("argilla data labeling", 3)
	require.NotEmpty(t, hits)
	assert.Equal(t, 1, hits[0].Index)
}

func TestSparseSearchExcludesZeroScores(t *testing.T) {
	x := BuildSparseIndex([]string{
		"alpha bravo charlie",
		"delta echo foxtrot",
	})
	hits := x.Search("alpha", 5)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Index)
	assert.Greater(t, hits[0].Score, 0.0)
}

func TestSparseSearchOutOfVocabularyQuery(t *testing.T) {
	x := BuildSparseIndex([]string{
		"alpha bravo charlie",
		"delta echo foxtrot",
	})
	assert.Empty(t, x.Search("zulu yankee", 3))
}

func TestSparseEmptyCorpus(t *testing.T) {
	x := BuildSparseIndex(nil)
	assert.Equal(t, 0, x.Len())
	assert.Empty(t, x.Search("anything", 3))
}

func TestSparseScoresAreCosine(t *testing.T) {
	x := BuildSparseIndex([]string{
		"wombat wombat wombat",
		"wombat kangaroo emu",
	})
	hits := x.Search("wombat wombat wombat", 2)
	require.Len(t, hits, 2)
	// The identical text must score 1 within float tolerance.
	assert.Equal(t, 0, hits[0].Index)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Less(t, hits[1].Score, hits[0].Score)
}

func TestSparseVocabularyCap(t *testing.T) {
	texts := make([]string, 0, 1500)
	for i := 0; i < 1500; i++ {
		texts = append(texts, fmt.Sprintf("term%04d standalone", i))
	}
	x := BuildSparseIndex(texts)
	assert.LessOrEqual(t, len(x.vocabulary), maxVocabulary)
	// "standalone" appears in every passage, so the cap must keep it.
	_, ok := x.vocabulary["standalone"]
	assert.True(t, ok)
}

func TestSparseStopwordsDropped(t *testing.T) {
	x := BuildSparseIndex([]string{"the cat sat on the mat"})
	_, ok := x.vocabulary["the"]
	assert.False(t, ok)
	_, ok = x.vocabulary["cat"]
	assert.True(t, ok)
}
