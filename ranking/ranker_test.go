package ranking

import (
	"testing"

	"github.com/poiesic/vestige/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docs(bodies ...string) []*core.Document {
	out := make([]*core.Document, len(bodies))
	for i, b := range bodies {
		out[i] = &core.Document{Digest: core.DigestFromContent(b), Body: b, Version: 1}
	}
	return out
}

func newTestRanker(t *testing.T, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(opts...)
	require.NoError(t, err)
	return r
}

func TestRank_Monotonicity(t *testing.T) {
	r := newTestRanker(t)
	corpus := docs("the cat sat", "completely unrelated text")

	ranking := r.Rank("cat", corpus, 10)

	require.False(t, ranking.Degraded)
	require.Len(t, ranking.Documents, 1, "zero similarity documents are excluded")
	assert.Equal(t, "the cat sat", ranking.Documents[0].Document.Body)
	assert.Greater(t, ranking.Documents[0].Similarity, 0.0)
}

func TestRank_OrderAndTruncation(t *testing.T) {
	r := newTestRanker(t)
	corpus := docs(
		"harbor lights at night",
		"the morning gate opens",
		"morning gate morning gate",
		"a gate in the wall",
	)

	ranking := r.Rank("morning gate", corpus, 2)
	require.Len(t, ranking.Documents, 2)
	assert.GreaterOrEqual(t, ranking.Documents[0].Similarity, ranking.Documents[1].Similarity)
	for _, sd := range ranking.Documents {
		assert.Contains(t, sd.Document.Body, "morning")
	}
}

func TestRank_StableTies(t *testing.T) {
	r := newTestRanker(t)
	corpus := []*core.Document{
		{Digest: "a", Body: "cat"},
		{Digest: "b", Body: "cat"},
		{Digest: "c", Body: "dog"},
	}

	ranking := r.Rank("cat", corpus, 10)
	require.Len(t, ranking.Documents, 2)
	assert.Equal(t, core.Digest("a"), ranking.Documents[0].Document.Digest)
	assert.Equal(t, core.Digest("b"), ranking.Documents[1].Document.Digest)
}

func TestRank_EmptyCorpus(t *testing.T) {
	r := newTestRanker(t)

	ranking := r.Rank("anything", nil, 5)
	assert.Empty(t, ranking.Documents)
	assert.False(t, ranking.Degraded)
}

func TestRank_Degraded(t *testing.T) {
	r := newTestRanker(t)

	t.Run("single document", func(t *testing.T) {
		corpus := docs("lonely document")
		ranking := r.Rank("unrelated", corpus, 5)
		assert.True(t, ranking.Degraded)
		assert.ErrorIs(t, ranking.Reason, ErrCorpusTooSmall)
		require.Len(t, ranking.Documents, 1)
		assert.Zero(t, ranking.Documents[0].Similarity)
	})

	t.Run("only stop words", func(t *testing.T) {
		corpus := docs("the and", "of it", "to be or not")
		ranking := r.Rank("the", corpus, 2)
		assert.True(t, ranking.Degraded)
		assert.ErrorIs(t, ranking.Reason, ErrEmptyVocabulary)
		require.Len(t, ranking.Documents, 2)
		assert.Equal(t, "the and", ranking.Documents[0].Document.Body)
		assert.Equal(t, "of it", ranking.Documents[1].Document.Body)
	})
}

func TestRank_MinDocumentsOption(t *testing.T) {
	r := newTestRanker(t, WithMinDocuments(1))

	ranking := r.Rank("lonely", docs("lonely document"), 5)
	assert.False(t, ranking.Degraded)
	assert.Len(t, ranking.Documents, 1)
}

func TestNewRanker_InvalidOptions(t *testing.T) {
	_, err := NewRanker(WithMaxFeatures(0))
	assert.Error(t, err)
	_, err = NewRanker(WithMinDocuments(-1))
	assert.Error(t, err)
}
