package search

import "strings"

// punctuation trimmed from both ends of every word
const punctuation = ".,!?;:'\"-()[]{}`*_/\\<>“”‘’…"

// normalizeWord lowercases a word, trims surrounding punctuation and folds a
// trailing plural "s". Words ending in "ss" are left alone.
func normalizeWord(word string) string {
	w := strings.ToLower(strings.Trim(word, punctuation))
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		w = w[:len(w)-1]
	}
	return w
}

// wordSet returns the normalized words of the first limit whitespace
// separated fields of text. A non-positive limit keeps every field.
func wordSet(text string, limit int) map[string]struct{} {
	fields := strings.Fields(text)
	if limit > 0 && len(fields) > limit {
		fields = fields[:limit]
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if w := normalizeWord(f); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|. Either set being empty yields 0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
