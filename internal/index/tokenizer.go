package index

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// tokenizer lowercases text, extracts unicode-letter words, and drops stop
// words and single-letter tokens before n-gram expansion.
type tokenizer struct {
	stopwords map[string]struct{}
	ngramMin  int
	ngramMax  int
}

func newTokenizer(ngramMin, ngramMax int) *tokenizer {
	return &tokenizer{
		stopwords: defaultStopwords(),
		ngramMin:  ngramMin,
		ngramMax:  ngramMax,
	}
}

// terms returns every n-gram of the kept tokens, in document order.
// An n-gram is adjacent tokens joined by a single space.
func (t *tokenizer) terms(text string) []string {
	tokens := t.tokens(text)
	if len(tokens) == 0 {
		return nil
	}
	var out []string
	for n := t.ngramMin; n <= t.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func (t *tokenizer) tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, isStop := t.stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now", "what", "when", "where", "which", "who", "how", "do", "does", "did", "has", "have", "had", "not", "no", "you", "your", "we", "they", "he", "she", "its",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
