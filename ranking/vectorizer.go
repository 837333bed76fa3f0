package ranking

import (
	"fmt"
	"math"
	"sort"
)

const (
	// DefaultMaxFeatures caps the vocabulary size.
	DefaultMaxFeatures = 1000

	// DefaultMinDocuments is the smallest corpus a vectorizer will fit.
	DefaultMinDocuments = 2
)

// SparseVector maps terms to weights. Absent terms weigh zero.
type SparseVector map[string]float64

// Vectorizer builds TF-IDF vectors over unigrams and bigrams.
// Weights are raw term counts scaled by the smoothed inverse document
// frequency ln((1+N)/(1+df))+1, and every vector is L2 normalized.
// A Vectorizer is not safe for concurrent Fit calls.
type Vectorizer struct {
	maxFeatures  int
	minDocuments int
	idf          map[string]float64
}

// NewVectorizer creates a vectorizer. Non-positive arguments select the defaults.
func NewVectorizer(maxFeatures, minDocuments int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	if minDocuments <= 0 {
		minDocuments = DefaultMinDocuments
	}
	return &Vectorizer{
		maxFeatures:  maxFeatures,
		minDocuments: minDocuments,
	}
}

// Fit learns the vocabulary and idf weights from docs, replacing any
// previous model.
func (v *Vectorizer) Fit(docs []string) error {
	v.idf = nil
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}
	if len(docs) < v.minDocuments {
		return fmt.Errorf("%w: %d documents, need %d", ErrCorpusTooSmall, len(docs), v.minDocuments)
	}

	totals := make(map[string]int)
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range terms(doc) {
			totals[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}
	if len(totals) == 0 {
		return ErrEmptyVocabulary
	}

	vocab := make([]string, 0, len(totals))
	for term := range totals {
		vocab = append(vocab, term)
	}
	// Most frequent first, ties broken lexically
	sort.Slice(vocab, func(i, j int) bool {
		if totals[vocab[i]] != totals[vocab[j]] {
			return totals[vocab[i]] > totals[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > v.maxFeatures {
		vocab = vocab[:v.maxFeatures]
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		idf[term] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	v.idf = idf
	return nil
}

// Transform projects text into the fitted term space.
// Terms outside the vocabulary are ignored; a text with no known terms
// yields an empty vector.
func (v *Vectorizer) Transform(text string) (SparseVector, error) {
	if v.idf == nil {
		return nil, ErrNotFitted
	}
	vec := make(SparseVector)
	for _, term := range terms(text) {
		if idf, ok := v.idf[term]; ok {
			vec[term] += idf
		}
	}
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for term := range vec {
		vec[term] /= norm
	}
	return vec, nil
}

// Vocabulary returns the fitted terms in lexical order.
func (v *Vectorizer) Vocabulary() []string {
	vocab := make([]string, 0, len(v.idf))
	for term := range v.idf {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	return vocab
}

// Cosine computes the cosine similarity of two sparse vectors.
func Cosine(a, b SparseVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for term, wa := range a {
		dot += wa * b[term]
		normA += wa * wa
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
