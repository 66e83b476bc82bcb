package retriever

import (
	"sort"

	"turbobot/internal/domain"
	"turbobot/internal/index"
)

// Retriever ranks indexed chunks against live queries. It holds the index by
// reference and keeps no state of its own, so concurrent calls are
// independent. The linear scan is well inside the interactive budget for
// corpora of a few hundred chunks; swapping it for an inverted-index lookup
// would not change the contract.
type Retriever struct {
	index *index.Index
}

// New creates a retriever over a built index handle.
func New(ix *index.Index) *Retriever {
	return &Retriever{index: ix}
}

// Retrieve scores every chunk against the query and returns at most topK
// results with score >= minScore, ordered by descending score with ties
// broken by ascending (document id, ordinal). An empty result list is a
// valid outcome meaning nothing in the corpus is relevant enough.
func (r *Retriever) Retrieve(query string, topK int, minScore float64) []domain.Result {
	if topK <= 0 {
		return nil
	}
	qvec := r.index.Vectorize(query)

	scored := make([]domain.Result, 0, r.index.Len())
	for i := 0; i < r.index.Len(); i++ {
		score := r.index.Similarity(qvec, i)
		if score < minScore {
			continue
		}
		ch := r.index.ChunkAt(i)
		scored = append(scored, domain.Result{
			ChunkID:    ch.ChunkID,
			DocumentID: ch.DocumentID,
			Ordinal:    ch.Ordinal,
			Score:      score,
			Text:       ch.Text,
			SourcePath: ch.SourcePath,
		})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].DocumentID != scored[j].DocumentID {
			return scored[i].DocumentID < scored[j].DocumentID
		}
		return scored[i].Ordinal < scored[j].Ordinal
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
