package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "short content", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
		{name: "multibyte content", content: "naïve café ☕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d1 := DigestFromContent(tt.content)
			d2 := DigestFromContent(tt.content)

			assert.Equal(t, d1, d2)
			assert.Len(t, d1.String(), 64)
		})
	}
}

func TestDigestFromContent_Different(t *testing.T) {
	assert.NotEqual(t, DigestFromContent("content1"), DigestFromContent("content2"))
	// Trailing whitespace is part of the body.
	assert.NotEqual(t, DigestFromContent("content"), DigestFromContent("content "))
}

func TestDigest_Short(t *testing.T) {
	d := DigestFromContent("hello")
	assert.Len(t, d.Short(), 12)
	assert.Equal(t, d.String()[:12], d.Short())
	assert.Equal(t, "abc", Digest("abc").Short())
}

func TestDocument_Excerpt(t *testing.T) {
	doc := &Document{Body: "The quick brown fox"}

	assert.Equal(t, "The quick brown fox", doc.Excerpt(100))
	assert.Equal(t, "The quick...", doc.Excerpt(10))
}

func TestDocument_Clone(t *testing.T) {
	doc := &Document{
		Digest:   DigestFromContent("body"),
		Body:     "body",
		Metadata: map[string]string{"k": "v"},
		Version:  2,
	}

	c := doc.Clone()
	c.Metadata["k"] = "changed"

	assert.Equal(t, "v", doc.Metadata["k"])
	assert.Equal(t, doc.Digest, c.Digest)
	assert.Equal(t, 2, c.Version)
	assert.Nil(t, (*Document)(nil).Clone())
}

func TestResultRef_Score(t *testing.T) {
	score := 0.9
	assert.Equal(t, 0.5, ResultRef{ResultID: "a"}.Score(0.5))
	assert.Equal(t, 0.9, ResultRef{ResultID: "a", FeedbackScore: &score}.Score(0.5))
}

func TestSearchRecord_Clone(t *testing.T) {
	score := 0.3
	rec := SearchRecord{
		SearchID: "search_0_1",
		Query:    "q",
		Results:  []ResultRef{{ResultID: "a", FeedbackScore: &score}, {ResultID: "b"}},
	}

	c := rec.Clone()
	*c.Results[0].FeedbackScore = 1
	c.Results[1].ResultID = "z"

	assert.Equal(t, 0.3, *rec.Results[0].FeedbackScore)
	assert.Equal(t, Digest("b"), rec.Results[1].ResultID)
}

func TestScoredDocument_Score(t *testing.T) {
	sd := ScoredDocument{Similarity: 0.25, Auxiliary: 0.5}
	assert.InDelta(t, 0.75, sd.Score(), 1e-12)
}
