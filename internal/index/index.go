package index

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"turbobot/internal/domain"
)

var (
	// ErrInvalidParams is returned for out-of-range build parameters,
	// rejected before any work starts.
	ErrInvalidParams = errors.New("invalid index params")
	// ErrEmptyCorpus is returned when Build is given no chunks.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrVocabularyExhausted is returned when the min/max document-frequency
	// constraints eliminate every candidate term.
	ErrVocabularyExhausted = errors.New("vocabulary exhausted by df constraints")
)

// Params control vocabulary selection and weighting.
type Params struct {
	MaxFeatures int
	NGramMin    int
	NGramMax    int
	MinDF       int     // minimum number of chunks a term must appear in
	MaxDF       float64 // maximum fraction of chunks a term may appear in
}

func (p Params) validate() error {
	if p.MaxFeatures <= 0 {
		return fmt.Errorf("%w: max features %d must be positive", ErrInvalidParams, p.MaxFeatures)
	}
	if p.NGramMin < 1 || p.NGramMax < p.NGramMin {
		return fmt.Errorf("%w: ngram range (%d,%d)", ErrInvalidParams, p.NGramMin, p.NGramMax)
	}
	if p.MinDF < 1 {
		return fmt.Errorf("%w: min_df %d must be at least 1", ErrInvalidParams, p.MinDF)
	}
	if p.MaxDF <= 0 || p.MaxDF > 1 {
		return fmt.Errorf("%w: max_df %v must be in (0,1]", ErrInvalidParams, p.MaxDF)
	}
	return nil
}

// Vector is a sparse weighted-term representation: vocabulary column index to
// weight. Terms absent from the map have implicit weight zero.
type Vector map[int]float64

// Index is the term-weight model over a chunk corpus. It is built once and
// read-only afterward, so concurrent queries need no locking.
type Index struct {
	params  Params
	tok     *tokenizer
	vocab   map[string]int
	idf     []float64
	chunks  []domain.Chunk
	vectors []Vector
}

// Build derives the vocabulary and per-chunk unit-length weight vectors from
// the full chunk set. Terms are ranked by corpus-wide frequency, ties broken
// by earliest first appearance, and the top MaxFeatures survive. Chunk order
// is preserved; building the same corpus twice yields an identical model.
func Build(chunks []domain.Chunk, params Params) (*Index, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyCorpus
	}

	tok := newTokenizer(params.NGramMin, params.NGramMax)
	chunkTerms := make([][]string, len(chunks))
	for i, ch := range chunks {
		chunkTerms[i] = tok.terms(ch.Text)
	}

	type candidate struct {
		term      string
		df        int
		total     int
		firstSeen int
	}
	byTerm := make(map[string]*candidate)
	order := 0
	for i := range chunkTerms {
		seen := make(map[string]struct{})
		for _, term := range chunkTerms[i] {
			c, ok := byTerm[term]
			if !ok {
				c = &candidate{term: term, firstSeen: order}
				byTerm[term] = c
				order++
			}
			c.total++
			if _, dup := seen[term]; !dup {
				seen[term] = struct{}{}
				c.df++
			}
		}
	}

	// Too-rare terms do not generalize, too-common terms do not discriminate.
	n := len(chunks)
	maxDF := int(params.MaxDF * float64(n))
	kept := make([]*candidate, 0, len(byTerm))
	for _, c := range byTerm {
		if c.df < params.MinDF || c.df > maxDF {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: min_df=%d max_df=%v over %d chunks", ErrVocabularyExhausted, params.MinDF, params.MaxDF, n)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].total != kept[j].total {
			return kept[i].total > kept[j].total
		}
		return kept[i].firstSeen < kept[j].firstSeen
	})
	if len(kept) > params.MaxFeatures {
		kept = kept[:params.MaxFeatures]
	}

	// Stable column ordering for the retained terms.
	terms := make([]string, len(kept))
	dfs := make(map[string]int, len(kept))
	for i, c := range kept {
		terms[i] = c.term
		dfs[c.term] = c.df
	}
	sort.Strings(terms)

	ix := &Index{
		params: params,
		tok:    tok,
		vocab:  make(map[string]int, len(terms)),
		idf:    make([]float64, len(terms)),
		chunks: chunks,
	}
	for i, term := range terms {
		ix.vocab[term] = i
		ix.idf[i] = math.Log(float64(n) / float64(dfs[term]))
	}

	ix.vectors = make([]Vector, len(chunks))
	for i := range chunks {
		ix.vectors[i] = ix.weigh(chunkTerms[i])
	}
	return ix, nil
}

// Vectorize maps query text onto the fixed vocabulary learned at build time.
// Terms outside the vocabulary contribute zero weight and never trigger a
// rebuild; a query with no known terms yields an empty vector.
func (ix *Index) Vectorize(query string) Vector {
	return ix.weigh(ix.tok.terms(query))
}

// weigh computes tf * log(N/df) per retained term, then normalizes to unit
// length so similarity reduces to a dot product.
func (ix *Index) weigh(terms []string) Vector {
	vec := make(Vector)
	for _, term := range terms {
		if col, ok := ix.vocab[term]; ok {
			vec[col]++
		}
	}
	norm := 0.0
	for col, tf := range vec {
		w := tf * ix.idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}

// Similarity is the cosine similarity between a vectorized query and the
// chunk at position i. Both sides are unit length, so this is a dot product
// and the result lies in [0, 1].
func (ix *Index) Similarity(query Vector, i int) float64 {
	chunk := ix.vectors[i]
	if len(query) > len(chunk) {
		query, chunk = chunk, query
	}
	sum := 0.0
	for col, w := range query {
		if cw, ok := chunk[col]; ok {
			sum += w * cw
		}
	}
	return sum
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// ChunkAt returns the indexed chunk at position i.
func (ix *Index) ChunkAt(i int) domain.Chunk { return ix.chunks[i] }

// VocabularySize returns the number of retained terms.
func (ix *Index) VocabularySize() int { return len(ix.vocab) }
