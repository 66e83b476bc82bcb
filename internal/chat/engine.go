package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

// Generator is the opaque text-generation service: prompt in, completion
// out. Its failures are handled here by degrading to the fallback answer.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Config configures the generation engine.
type Config struct {
	Model             string
	BaseURL           string // Ollama server URL
	Temperature       float64
	MaxTokens         int
	RequestsPerMinute int
}

// Engine turns a validated question plus prompt input into an answer.
type Engine struct {
	config  Config
	llm     Generator
	limiter *rate.Limiter
}

// Answer is a generated (or fallback) response.
type Answer struct {
	Text          string
	KnowledgeUsed bool
	Fallback      bool
}

// New creates an engine backed by a local Ollama model.
func New(cfg Config) (*Engine, error) {
	if cfg.Model == "" {
		cfg.Model = "llama3.2:1b"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	llm, err := ollama.New(ollama.WithModel(cfg.Model), ollama.WithServerURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("initializing LLM: %w", err)
	}
	return NewWithGenerator(cfg, llm), nil
}

// NewWithGenerator creates an engine over an arbitrary generator.
func NewWithGenerator(cfg Config, gen Generator) *Engine {
	if cfg.Temperature <= 0 || cfg.Temperature > 1 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	limit := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	return &Engine{
		config:  cfg,
		llm:     gen,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Ask merges the prompt input with the operator's question and generates an
// answer. A generation failure or empty completion never propagates as an
// error; the deterministic fallback is returned instead.
func (e *Engine) Ask(ctx context.Context, question string, in PromptInput) (Answer, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return Answer{}, err
	}
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, BuildSystemPrompt(in)),
		llms.TextParts(schema.ChatMessageTypeHuman, question),
	}
	resp, err := e.llm.GenerateContent(ctx, content,
		llms.WithTemperature(e.config.Temperature),
		llms.WithMaxTokens(e.config.MaxTokens),
	)
	if err != nil || resp == nil || len(resp.Choices) == 0 {
		return Answer{Text: Fallback(in.Snapshot), Fallback: true}, nil
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return Answer{Text: Fallback(in.Snapshot), Fallback: true}, nil
	}
	return Answer{Text: text, KnowledgeUsed: in.KnowledgeUsed()}, nil
}
