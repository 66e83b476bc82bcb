package retriever_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbobot/internal/domain"
	"turbobot/internal/index"
	"turbobot/internal/retriever"
)

func buildRetriever(t *testing.T, chunks []domain.Chunk) *retriever.Retriever {
	t.Helper()
	ix, err := index.Build(chunks, index.Params{
		MaxFeatures: 2000, NGramMin: 1, NGramMax: 2, MinDF: 1, MaxDF: 1.0,
	})
	require.NoError(t, err)
	return retriever.New(ix)
}

func chunk(docID string, ordinal int, text string) domain.Chunk {
	return domain.Chunk{
		ChunkID:    fmt.Sprintf("%s:%d", docID, ordinal),
		DocumentID: docID,
		SourcePath: docID + ".txt",
		Ordinal:    ordinal,
		Text:       text,
	}
}

func TestRetrieve_RanksLexicalMatchFirst(t *testing.T) {
	gearbox := strings.Repeat("bearing lubrication failure. ", 5) + "Inspect the gearbox housing."
	r := buildRetriever(t, []domain.Chunk{
		chunk("gearbox-manual", 0, gearbox),
		chunk("tower-manual", 0, "Tower bolt torque values and anchor inspection intervals."),
	})

	results := r.Retrieve("bearing failure causes", 2, 0.01)
	require.NotEmpty(t, results)
	assert.Equal(t, "gearbox-manual", results[0].DocumentID)
	if len(results) > 1 {
		assert.Greater(t, results[0].Score, results[1].Score)
	}
}

func TestRetrieve_HighFloorYieldsEmptyList(t *testing.T) {
	r := buildRetriever(t, []domain.Chunk{
		chunk("a", 0, "pitch system hydraulic pressure checks"),
		chunk("b", 0, "generator winding insulation resistance"),
	})

	results := r.Retrieve("completely unrelated cooking recipe", 5, 0.9)
	assert.Empty(t, results, "an empty result set is a valid outcome, not an error")
}

func TestRetrieve_TopKBoundsResults(t *testing.T) {
	var chunks []domain.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunk("m", i, fmt.Sprintf("bearing inspection step %d of the bearing plan", i)))
	}
	r := buildRetriever(t, chunks)

	results := r.Retrieve("bearing inspection", 3, 0)
	assert.LessOrEqual(t, len(results), 3)
}

func TestRetrieve_DescendingScoresWithDeterministicTies(t *testing.T) {
	// Identical texts produce identical scores; order must fall back to
	// ascending (document id, ordinal).
	r := buildRetriever(t, []domain.Chunk{
		chunk("beta", 1, "yaw brake pad wear limits"),
		chunk("alpha", 2, "yaw brake pad wear limits"),
		chunk("alpha", 0, "yaw brake pad wear limits"),
		chunk("alpha", 1, "unrelated anemometer calibration"),
	})

	results := r.Retrieve("yaw brake pad wear", 10, 0)
	require.GreaterOrEqual(t, len(results), 3)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "alpha:0", results[0].ChunkID)
	assert.Equal(t, "alpha:2", results[1].ChunkID)
	assert.Equal(t, "beta:1", results[2].ChunkID)
}

func TestRetrieve_FilteringIsMonotonic(t *testing.T) {
	var chunks []domain.Chunk
	texts := []string{
		"bearing lubrication failure analysis",
		"bearing temperature trends",
		"lubrication oil sampling",
		"unrelated tower lighting",
		"rotor blade bearing noise",
	}
	for i, text := range texts {
		chunks = append(chunks, chunk("m", i, text))
	}
	r := buildRetriever(t, chunks)

	unfiltered := r.Retrieve("bearing lubrication", 5, 0)
	baseline := map[string]struct{}{}
	for _, res := range unfiltered {
		baseline[res.ChunkID] = struct{}{}
	}

	prevCount := len(unfiltered)
	for _, floor := range []float64{0.05, 0.2, 0.5, 0.9} {
		filtered := r.Retrieve("bearing lubrication", 5, floor)
		assert.LessOrEqual(t, len(filtered), prevCount, "raising the floor must never add results")
		prevCount = len(filtered)
		for _, res := range filtered {
			_, ok := baseline[res.ChunkID]
			assert.True(t, ok, "filtered results must be a subset of the unfiltered top-k")
			assert.GreaterOrEqual(t, res.Score, floor)
		}
	}
}

func TestRetrieve_NonPositiveTopK(t *testing.T) {
	r := buildRetriever(t, []domain.Chunk{chunk("m", 0, "bearing wear")})
	assert.Empty(t, r.Retrieve("bearing", 0, 0))
}
