package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/vestige/core"
	"github.com/poiesic/vestige/feedback"
	"github.com/poiesic/vestige/ranking"
	"github.com/poiesic/vestige/storage"
)

const (
	historyWindow        = 10
	queryOverlapMin      = 0.5
	contentOverlapMin    = 0.7
	contentWordLimit     = 100
	defaultFeedbackScore = 0.5
	oversampleFactor     = 2
	minSearchesForRerank = 2
)

// Mode reports which path a search took.
type Mode string

const (
	// ModeDegraded means the ranker could not score the corpus and the
	// first documents of the corpus were returned unscored.
	ModeDegraded Mode = "degraded"

	// ModeSimilarity means results are ordered by similarity alone because
	// no earlier search exists.
	ModeSimilarity Mode = "similarity"

	// ModeReranked means feedback from similar earlier searches was applied.
	ModeReranked Mode = "reranked"
)

// Ranker orders a corpus by similarity to a query.
type Ranker interface {
	Rank(query string, corpus []*core.Document, topK int) ranking.Ranking
}

// Resolver looks up documents that earlier searches returned but that are
// missing from the current corpus.
type Resolver interface {
	GetDocument(ctx context.Context, digest core.Digest) (*core.Document, error)
}

// Result is the outcome of one search.
type Result struct {
	SearchID  string
	Mode      Mode
	Documents []core.ScoredDocument
}

// Digests returns the result document digests in rank order.
func (r *Result) Digests() []core.Digest {
	out := make([]core.Digest, len(r.Documents))
	for i, sd := range r.Documents {
		out[i] = sd.Document.Digest
	}
	return out
}

// Engine combines similarity ranking with feedback from earlier searches.
type Engine struct {
	memory   *feedback.Memory
	ranker   Ranker
	resolver Resolver
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithResolver sets where bodies of earlier results are looked up when they
// are not part of the corpus being searched.
func WithResolver(resolver Resolver) Option {
	return func(e *Engine) error {
		e.resolver = resolver
		return nil
	}
}

// NewEngine creates a new re-ranking engine.
func NewEngine(memory *feedback.Memory, ranker Ranker, opts ...Option) (*Engine, error) {
	if memory == nil {
		return nil, ErrFeedbackMemoryRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}

	e := &Engine{
		memory: memory,
		ranker: ranker,
		logger: slog.Default().With("component", "search"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search ranks corpus against query and returns at most n documents.
func (e *Engine) Search(ctx context.Context, query string, corpus []*core.Document, n int) (*Result, error) {
	return e.SearchWithMonitor(ctx, query, corpus, n, nil)
}

// SearchWithMonitor is Search with callbacks at each stage of the process.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, corpus []*core.Document, n int, monitor SearchMonitor) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResultCount, n)
	}
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	searchID := e.memory.RecordSearch(query)
	monitor.Start(searchID, query)

	ranked := e.ranker.Rank(query, corpus, oversampleFactor*n)
	monitor.AfterSimilarityRanking(ranked.Documents, ranked.Degraded)

	result := &Result{SearchID: searchID}
	switch {
	case ranked.Degraded:
		e.logger.Warn("similarity ranking degraded, using basic results", "search_id", searchID, "err", ranked.Reason)
		result.Mode = ModeDegraded
		result.Documents = truncate(ranked.Documents, n)
		monitor.SkippedReranking(result.Mode)
	case e.memory.Len() < minSearchesForRerank:
		result.Mode = ModeSimilarity
		result.Documents = truncate(ranked.Documents, n)
		monitor.SkippedReranking(result.Mode)
	default:
		result.Mode = ModeReranked
		result.Documents = truncate(e.rerank(ctx, query, corpus, ranked.Documents, monitor), n)
	}

	refs := make([]core.ResultRef, len(result.Documents))
	for i, sd := range result.Documents {
		refs[i] = core.ResultRef{ResultID: sd.Document.Digest}
	}
	e.memory.AttachResults(searchID, refs)

	e.logger.Debug("search complete", "search_id", searchID, "mode", result.Mode, "results", len(result.Documents))
	monitor.Finish(result.Mode, result.Documents)
	return result, nil
}

// rerank adds auxiliary scores to candidates and stably sorts them by
// combined score.
func (e *Engine) rerank(ctx context.Context, query string, corpus []*core.Document, candidates []core.ScoredDocument, monitor SearchMonitor) []core.ScoredDocument {
	queryWords := wordSet(query, 0)

	var similar []core.SearchRecord
	for _, rec := range e.memory.Recent(historyWindow) {
		if jaccard(queryWords, wordSet(rec.Query, 0)) > queryOverlapMin {
			similar = append(similar, rec)
		}
	}

	bodies := newBodyCache(ctx, corpus, e.resolver)
	out := make([]core.ScoredDocument, len(candidates))
	for i, cand := range candidates {
		aux, err := e.auxiliaryScore(cand.Document, similar, bodies)
		if err != nil {
			e.logger.Warn("auxiliary score failed", "digest", cand.Document.Digest.Short(), "err", err)
			aux = 0
		}
		monitor.AuxiliaryScore(cand.Document, aux, err)
		out[i] = core.ScoredDocument{
			Document:   cand.Document,
			Similarity: cand.Similarity,
			Auxiliary:  aux,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

// auxiliaryScore sums the feedback scores of earlier results whose content
// overlaps doc.
func (e *Engine) auxiliaryScore(doc *core.Document, similar []core.SearchRecord, bodies *bodyCache) (float64, error) {
	if len(similar) == 0 {
		return 0, nil
	}
	docWords := wordSet(doc.Body, contentWordLimit)

	var score float64
	for _, rec := range similar {
		for _, prior := range rec.Results {
			priorWords, ok, err := bodies.words(prior.ResultID)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}
			if jaccard(docWords, priorWords) > contentOverlapMin {
				score += prior.Score(defaultFeedbackScore)
			}
		}
	}
	return score, nil
}

// Feedback records a relevance score for a result of an earlier search.
// Feedback for unknown searches is accepted; known reports whether the
// search was found.
func (e *Engine) Feedback(searchID string, resultID core.Digest, score float64) (known bool, err error) {
	return e.memory.RecordFeedback(searchID, resultID, score)
}

// Statistics reports feedback memory statistics.
func (e *Engine) Statistics() core.Statistics {
	return e.memory.Statistics()
}

func truncate(docs []core.ScoredDocument, n int) []core.ScoredDocument {
	if len(docs) > n {
		return docs[:n]
	}
	return docs
}

// bodyCache resolves and memoizes the word sets of earlier results for the
// duration of one search.
type bodyCache struct {
	ctx      context.Context
	resolver Resolver
	corpus   map[core.Digest]*core.Document
	cache    map[core.Digest]cachedWords
}

type cachedWords struct {
	words map[string]struct{}
	ok    bool
	err   error
}

func newBodyCache(ctx context.Context, corpus []*core.Document, resolver Resolver) *bodyCache {
	byDigest := make(map[core.Digest]*core.Document, len(corpus))
	for _, doc := range corpus {
		byDigest[doc.Digest] = doc
	}
	return &bodyCache{
		ctx:      ctx,
		resolver: resolver,
		corpus:   byDigest,
		cache:    make(map[core.Digest]cachedWords),
	}
}

// words returns the word set of digest's body. ok is false when the body
// cannot be found anywhere.
func (c *bodyCache) words(digest core.Digest) (map[string]struct{}, bool, error) {
	if hit, seen := c.cache[digest]; seen {
		return hit.words, hit.ok, hit.err
	}

	var entry cachedWords
	if doc, ok := c.corpus[digest]; ok {
		entry = cachedWords{words: wordSet(doc.Body, contentWordLimit), ok: true}
	} else if c.resolver != nil {
		doc, err := c.resolver.GetDocument(c.ctx, digest)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			entry.err = fmt.Errorf("resolve %s: %w", digest.Short(), err)
		default:
			entry = cachedWords{words: wordSet(doc.Body, contentWordLimit), ok: true}
		}
	}
	c.cache[digest] = entry
	return entry.words, entry.ok, entry.err
}
