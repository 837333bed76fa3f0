package ranking

import "errors"

var (
	// ErrEmptyCorpus indicates there were no documents to fit.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrCorpusTooSmall indicates fewer documents than the vectorizer needs.
	ErrCorpusTooSmall = errors.New("corpus too small")

	// ErrEmptyVocabulary indicates the corpus held no usable terms, for
	// example only stop words.
	ErrEmptyVocabulary = errors.New("empty vocabulary")

	// ErrNotFitted indicates Transform was called before a successful Fit.
	ErrNotFitted = errors.New("vectorizer not fitted")
)
