package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbobot/internal/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "data/knowledge_base", cfg.KnowledgeBase)
	assert.Equal(t, 2500, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 50, cfg.Retrieval.Overlap)
	assert.Equal(t, 2000, cfg.Retrieval.MaxFeatures)
	assert.Equal(t, 2, cfg.Retrieval.MinDF)
	assert.InDelta(t, 0.7, cfg.Retrieval.MaxDF, 1e-9)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "llama3.2:1b", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.LLM.RequestsPerMinute)
	assert.Equal(t, 10, cfg.Memory.MaxMessages)
	assert.Equal(t, 3, cfg.SummarySentences)
}

func TestLoad_PartialFileKeepsValuesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
knowledge_base: /srv/manuals
retrieval:
  chunk_size: 1000
  top_k: 5
llm:
  model: mistral:7b
`)
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/manuals", cfg.KnowledgeBase)
	assert.Equal(t, 1000, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.Equal(t, "mistral:7b", cfg.LLM.Model)
	// Unset fields still get defaults.
	assert.Equal(t, 50, cfg.Retrieval.Overlap)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retrieval: [not a map"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Retrieval.MinScore = 0.2
	cfg.Memory.DataDir = "elsewhere"

	require.NoError(t, config.Save(path, cfg))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got.Retrieval.MinScore, 1e-9)
	assert.Equal(t, "elsewhere", got.Memory.DataDir)
}

func TestPipelineOptionsMapping(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	opts := cfg.PipelineOptions()
	assert.Equal(t, cfg.Retrieval.ChunkSize, opts.ChunkSize)
	assert.Equal(t, cfg.Retrieval.Overlap, opts.Overlap)
	assert.Equal(t, cfg.Retrieval.MaxFeatures, opts.Index.MaxFeatures)
	assert.Equal(t, cfg.Retrieval.MinDF, opts.Index.MinDF)
	assert.InDelta(t, cfg.Retrieval.MaxDF, opts.Index.MaxDF, 1e-9)
	assert.Equal(t, cfg.Retrieval.TopK, opts.DefaultTopK)
	assert.InDelta(t, cfg.Retrieval.MinScore, opts.DefaultMinScore, 1e-9)
	assert.Equal(t, cfg.Retrieval.MaxContextChars, opts.MaxContextChars)
}
