package ranking

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into runs of two or more letters,
// digits or underscores. Shorter runs are dropped.
func Tokenize(text string) []string {
	var (
		tokens []string
		cur    strings.Builder
		runes  int
	)
	flush := func() {
		if runes >= 2 {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
		runes = 0
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			cur.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// terms returns the unigrams and bigrams of text after stop word removal.
// Bigrams are built over the filtered token stream, joined by a space.
func terms(text string) []string {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			kept = append(kept, tok)
		}
	}

	out := make([]string, 0, 2*len(kept))
	out = append(out, kept...)
	for i := 0; i+1 < len(kept); i++ {
		out = append(out, kept[i]+" "+kept[i+1])
	}
	return out
}
