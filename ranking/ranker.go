package ranking

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/poiesic/vestige/core"
)

// Ranking is the outcome of one Rank call.
// When Degraded is set the model could not be built, Reason holds the cause
// and Documents carry no similarity scores.
type Ranking struct {
	Documents []core.ScoredDocument
	Degraded  bool
	Reason    error
}

// Ranker scores a corpus against a query with TF-IDF cosine similarity.
// The model is rebuilt on every call, so a Ranker holds no corpus state and
// is safe for concurrent use.
type Ranker struct {
	maxFeatures  int
	minDocuments int
	logger       *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithMaxFeatures sets the vocabulary cap.
func WithMaxFeatures(n int) Option {
	return func(r *Ranker) error {
		if n <= 0 {
			return errors.New("max features must be positive")
		}
		r.maxFeatures = n
		return nil
	}
}

// WithMinDocuments sets the smallest corpus that is scored rather than
// degraded.
func WithMinDocuments(n int) Option {
	return func(r *Ranker) error {
		if n <= 0 {
			return errors.New("min documents must be positive")
		}
		r.minDocuments = n
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		r.logger = logger
		return nil
	}
}

// NewRanker creates a ranker.
func NewRanker(opts ...Option) (*Ranker, error) {
	r := &Ranker{
		maxFeatures:  DefaultMaxFeatures,
		minDocuments: DefaultMinDocuments,
		logger:       slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Rank returns at most topK documents from corpus ordered by descending
// similarity to query. Documents with zero similarity are excluded and ties
// keep corpus order. Rank never fails: an unusable corpus yields a degraded
// Ranking holding up to topK documents in corpus order.
func (r *Ranker) Rank(query string, corpus []*core.Document, topK int) Ranking {
	if len(corpus) == 0 || topK <= 0 {
		return Ranking{}
	}

	bodies := make([]string, len(corpus))
	for i, doc := range corpus {
		bodies[i] = doc.Body
	}

	vec := NewVectorizer(r.maxFeatures, r.minDocuments)
	if err := vec.Fit(bodies); err != nil {
		r.logger.Debug("ranking degraded", "err", err, "corpus", len(corpus))
		return degraded(corpus, topK, err)
	}

	queryVec, err := vec.Transform(query)
	if err != nil {
		return degraded(corpus, topK, err)
	}

	scored := make([]core.ScoredDocument, 0, len(corpus))
	for i, doc := range corpus {
		docVec, err := vec.Transform(bodies[i])
		if err != nil {
			return degraded(corpus, topK, err)
		}
		if sim := Cosine(queryVec, docVec); sim > 0 {
			scored = append(scored, core.ScoredDocument{Document: doc, Similarity: sim})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return Ranking{Documents: scored}
}

func degraded(corpus []*core.Document, topK int, reason error) Ranking {
	n := min(topK, len(corpus))
	docs := make([]core.ScoredDocument, n)
	for i := 0; i < n; i++ {
		docs[i] = core.ScoredDocument{Document: corpus[i]}
	}
	return Ranking{Documents: docs, Degraded: true, Reason: reason}
}
