// Package ranking scores documents against a free-text query.
//
// A Vectorizer builds TF-IDF vectors over unigrams and bigrams of the
// lowercased, stop word filtered token stream, keeping the most frequent
// terms up to a fixed cap. Ranker fits a fresh Vectorizer to the corpus on
// every call, projects the query into the same space and orders documents
// by cosine similarity.
//
// Ranking never returns an error. A corpus too small to fit, or one made
// entirely of stop words, produces a degraded Ranking of unscored documents
// in their original order.
package ranking
