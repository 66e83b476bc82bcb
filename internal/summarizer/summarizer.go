package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"turbobot/internal/domain"
)

var (
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// Summarizer produces a short digest of the loaded manuals by ranking
// sentences on normalized word frequency. Used for the startup banner and
// the TUI header, never for retrieval.
type Summarizer struct {
	stopwords map[string]struct{}
}

func New() *Summarizer {
	return &Summarizer{stopwords: stopwords()}
}

// Digest returns up to maxSentences of the highest-signal sentences across
// all documents, preceded by the manual titles.
func (s *Summarizer) Digest(docs []domain.Document, maxSentences int) string {
	if len(docs) == 0 {
		return ""
	}
	titles := make([]string, 0, len(docs))
	var all strings.Builder
	for _, d := range docs {
		if d.Title != "" {
			titles = append(titles, d.Title)
		}
		all.WriteString(d.Text)
		all.WriteString("\n")
	}
	summary := s.rank(all.String(), maxSentences)
	header := "Manuals: " + strings.Join(titles, "; ")
	if summary == "" {
		return header
	}
	return header + "\n" + summary
}

func (s *Summarizer) rank(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.words(sent) {
			freq[tok]++
		}
	}
	peak := 0.0
	for _, v := range freq {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return ""
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.words(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok] / peak
		}
		if len(toks) > 0 {
			total /= math.Sqrt(float64(len(toks)))
		}
		ranked[i] = scored{i, total}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}

	// Present selected sentences in document order.
	pick := make([]int, maxSentences)
	for i := range pick {
		pick[i] = ranked[i].idx
	}
	sort.Ints(pick)
	parts := make([]string, 0, len(pick))
	for _, idx := range pick {
		parts = append(parts, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(parts, " ")
}

func (s *Summarizer) words(text string) []string {
	raw := wordRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, ok := s.stopwords[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "it", "this", "that", "these", "those", "from", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "can", "will", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
