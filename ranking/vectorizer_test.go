package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"punctuation and case", "Hello, World!", []string{"hello", "world"}},
		{"single characters dropped", "a b2 x_y 42 z", []string{"b2", "x_y", "42"}},
		{"unicode letters", "Café naïve", []string{"café", "naïve"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestTerms_StopWordsRemovedBeforeBigrams(t *testing.T) {
	got := terms("the quick brown fox")
	assert.Equal(t, []string{"quick", "brown", "fox", "quick brown", "brown fox"}, got)

	// "of the" sits between the two content words
	assert.Contains(t, terms("gate of the morning"), "gate morning")
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("yourselves"))
	assert.False(t, IsStopWord("gate"))
}

func TestVectorizer_FitErrors(t *testing.T) {
	v := NewVectorizer(0, 0)

	assert.ErrorIs(t, v.Fit(nil), ErrEmptyCorpus)
	assert.ErrorIs(t, v.Fit([]string{"only one"}), ErrCorpusTooSmall)
	assert.ErrorIs(t, v.Fit([]string{"the and", "of it"}), ErrEmptyVocabulary)

	_, err := v.Transform("anything")
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestVectorizer_MaxFeatures(t *testing.T) {
	v := NewVectorizer(2, 1)
	require.NoError(t, v.Fit([]string{"apple apple banana cherry"}))

	assert.Equal(t, []string{"apple", "apple apple"}, v.Vocabulary())
}

func TestVectorizer_SmoothedIDF(t *testing.T) {
	v := NewVectorizer(0, 0)
	require.NoError(t, v.Fit([]string{"gate", "harbor gate"}))

	assert.InDelta(t, 1.0, v.idf["gate"], 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0)+1, v.idf["harbor"], 1e-12)

	vec, err := v.Transform("harbor")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, vec["harbor"], 1e-12)
}

func TestVectorizer_TransformIsNormalized(t *testing.T) {
	v := NewVectorizer(0, 0)
	require.NoError(t, v.Fit([]string{"red fish blue fish", "one fish two fish"}))

	vec, err := v.Transform("red fish blue fish unknownword")
	require.NoError(t, err)

	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	assert.NotContains(t, vec, "unknownword")

	empty, err := v.Transform("zzz")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCosine(t *testing.T) {
	a := SparseVector{"x": 1}
	b := SparseVector{"x": 1, "y": 1}

	assert.InDelta(t, 1/math.Sqrt2, Cosine(a, b), 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, Cosine(b, a), 1e-12)
	assert.Zero(t, Cosine(a, SparseVector{"z": 1}))
	assert.Zero(t, Cosine(a, nil))
}
