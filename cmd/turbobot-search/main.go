package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"turbobot/internal/config"
	"turbobot/internal/loader"
	"turbobot/internal/pipeline"
)

// turbobot-search runs a direct retrieval query against the knowledge base,
// bypassing guardrails and generation. Meant for diagnosing what the index
// actually returns for a query.
func main() {
	_ = godotenv.Load()

	var cfgPath string
	var topK int
	var minScore float64
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.IntVar(&topK, "top-k", 0, "Maximum results (0 uses the configured default)")
	flag.Float64Var(&minScore, "min-score", -1, "Relevance floor (negative uses the configured default)")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Println("Usage: turbobot-search [--config=config.yaml] [--top-k=N] [--min-score=S] <query>")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	docs, err := loader.New(cfg.KnowledgeBase).LoadAll()
	if err != nil {
		log.Fatalf("failed to load knowledge base: %v", err)
	}

	pipe := pipeline.New(cfg.PipelineOptions())
	if err := pipe.Initialize(docs); err != nil {
		log.Fatalf("failed to build retrieval index: %v", err)
	}

	stats := pipe.Stats()
	color.Cyan("corpus: %d documents, %d chunks, %d terms", stats.DocumentCount, stats.ChunkCount, stats.VocabularySize)

	results, err := pipe.Search(query, topK, minScore)
	if err != nil {
		log.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		color.Yellow("no chunk cleared the relevance floor")
		return
	}
	for i, r := range results {
		color.Green("%d. %s  chunk=%s  score=%.3f", i+1, r.SourcePath, r.ChunkID, r.Score)
		fmt.Println(preview(r.Text, 240))
		fmt.Println()
	}
}

func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
