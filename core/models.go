package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Digest is the content address of a document body.
// It doubles as the external version identifier: an edited body produces a
// new, unrelated digest with no link back to the body it replaced.
type Digest string

// DigestFromContent computes the BLAKE2b-256 digest of the raw body bytes,
// hex encoded. Identical bodies always produce identical digests.
func DigestFromContent(body string) Digest {
	h, _ := blake2b.New(32, nil) // 32 bytes = 256 bits
	h.Write([]byte(body))
	return Digest(hex.EncodeToString(h.Sum(nil)))
}

// String returns the hex form of the digest.
func (d Digest) String() string {
	return string(d)
}

// Short returns the first 12 characters of the digest for display.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12])
}

// Document is a stored, versioned piece of text content.
// Body is immutable for a given Digest. Version counts how many times the
// byte-identical body has been stored, starting at 1.
type Document struct {
	Digest    Digest
	URL       string
	Title     string
	Body      string
	Metadata  map[string]string
	Timestamp time.Time // When this digest was last stored
	Version   int
}

// Excerpt returns at most n runes of the body, suffixed with "..." when cut.
func (d *Document) Excerpt(n int) string {
	runes := []rune(d.Body)
	if len(runes) <= n {
		return d.Body
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	if d.Metadata != nil {
		c.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// Output is an auxiliary artifact derived from a stored document, such as an
// agent rewrite or review. Outputs are keyed by the digest of their source.
type Output struct {
	ID        uint64
	Digest    Digest
	Type      string // Free-form tag, usually the producing agent's name
	Content   string
	Metadata  map[string]string
	Timestamp time.Time
}

// ResultRef points at a document returned by a search, with the most recent
// feedback score recorded for it. FeedbackScore is nil until feedback arrives.
type ResultRef struct {
	ResultID      Digest
	FeedbackScore *float64
}

// Score returns the recorded feedback score, or def when none was recorded.
func (r ResultRef) Score(def float64) float64 {
	if r.FeedbackScore == nil {
		return def
	}
	return *r.FeedbackScore
}

// SearchRecord is the durable record of one search invocation.
type SearchRecord struct {
	SearchID  string
	Query     string
	Timestamp time.Time
	Results   []ResultRef
}

// Clone returns a deep copy of the record.
func (s SearchRecord) Clone() SearchRecord {
	c := s
	if s.Results != nil {
		c.Results = make([]ResultRef, len(s.Results))
		for i, r := range s.Results {
			c.Results[i] = ResultRef{ResultID: r.ResultID}
			if r.FeedbackScore != nil {
				score := *r.FeedbackScore
				c.Results[i].FeedbackScore = &score
			}
		}
	}
	return c
}

// FeedbackEvent is one relevance judgement on a search result.
type FeedbackEvent struct {
	SearchID  string
	ResultID  Digest
	Score     float64
	Timestamp time.Time
}

// ScoredDocument is a ranked document with its similarity and feedback
// derived scores.
type ScoredDocument struct {
	Document   *Document
	Similarity float64
	Auxiliary  float64
}

// Score is the combined ranking score.
func (s ScoredDocument) Score() float64 {
	return s.Similarity + s.Auxiliary
}

// Statistics summarizes the feedback memory.
type Statistics struct {
	TotalSearches        int
	TotalFeedbackEvents  int
	AverageFeedbackScore float64
	LearningRate         float64 // Reserved, not used by scoring
	ExplorationRate      float64 // Reserved, not used by scoring
}
