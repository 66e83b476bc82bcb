package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"turbobot/internal/chat"
	"turbobot/internal/config"
	"turbobot/internal/domain"
	"turbobot/internal/loader"
	"turbobot/internal/memory"
	"turbobot/internal/pipeline"
	"turbobot/internal/summarizer"
	"turbobot/internal/telemetry"
	"turbobot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, telemetryPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/turbobot/config.yaml if not provided)")
	flag.StringVar(&telemetryPath, "telemetry", "", "Path to a JSON file of turbine readings (optional)")
	flag.Parse()

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

	docs, err := loadManuals(cfg.KnowledgeBase)
	if err != nil {
		log.Fatalf("failed to load knowledge base: %v", err)
	}

	pipe := pipeline.New(cfg.PipelineOptions())
	if err := pipe.Initialize(docs); err != nil {
		log.Fatalf("failed to build retrieval index: %v", err)
	}
	stats := pipe.Stats()
	fmt.Printf("Indexed %d manuals: %d chunks, %d terms\n", stats.DocumentCount, stats.ChunkCount, stats.VocabularySize)

	readings, err := loadReadings(telemetryPath)
	if err != nil {
		log.Fatalf("failed to load telemetry: %v", err)
	}

	store, err := memory.NewStore(cfg.Memory.DataDir)
	if err != nil {
		log.Fatalf("failed to open conversation store: %v", err)
	}
	defer store.Close()

	engine, err := chat.New(chat.Config{
		Model:             cfg.LLM.Model,
		BaseURL:           cfg.LLM.BaseURL,
		Temperature:       cfg.LLM.Temperature,
		MaxTokens:         cfg.LLM.MaxTokens,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
	if err != nil {
		log.Fatalf("failed to initialize generation engine: %v", err)
	}

	assistant := chat.NewAssistant(pipe, engine, store, cfg.Retrieval.TopK, cfg.Retrieval.MinScore, cfg.Memory.MaxMessages)
	if err := assistant.StartSession(context.Background()); err != nil {
		log.Fatalf("failed to start session: %v", err)
	}

	digest := summarizer.New().Digest(docs, cfg.SummarySentences)
	m := tui.New(assistant, pipe, readings, digest)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func loadManuals(dir string) ([]domain.Document, error) {
	paths, err := loader.New(dir).List()
	if err != nil {
		return nil, err
	}
	bar := progressbar.Default(int64(len(paths)), "loading manuals")
	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := loader.Parse(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return docs, nil
}

func loadReadings(path string) ([]telemetry.Reading, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var readings []telemetry.Reading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return readings, nil
}
