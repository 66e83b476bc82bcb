package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"turbobot/internal/index"
	"turbobot/internal/pipeline"
)

// RetrievalConfig fixes the retrieval pipeline parameters at initialization.
// The defaults were tuned empirically against a corpus of a few hundred
// chunks; they are configuration, not contracts.
type RetrievalConfig struct {
	ChunkSize       int     `yaml:"chunk_size"`
	Overlap         int     `yaml:"overlap"`
	MaxFeatures     int     `yaml:"max_features"`
	NGramMin        int     `yaml:"ngram_min"`
	NGramMax        int     `yaml:"ngram_max"`
	MinDF           int     `yaml:"min_df"`
	MaxDF           float64 `yaml:"max_df"`
	TopK            int     `yaml:"top_k"`
	MinScore        float64 `yaml:"min_score"`
	MaxContextChars int     `yaml:"max_context_chars"`
}

// LLMConfig configures the text-generation collaborator.
type LLMConfig struct {
	Model             string  `yaml:"model"`
	BaseURL           string  `yaml:"base_url"`
	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

// MemoryConfig configures the conversation store.
type MemoryConfig struct {
	DataDir     string `yaml:"data_dir"`
	MaxMessages int    `yaml:"max_messages"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	KnowledgeBase    string          `yaml:"knowledge_base"`
	Retrieval        RetrievalConfig `yaml:"retrieval"`
	LLM              LLMConfig       `yaml:"llm"`
	Memory           MemoryConfig    `yaml:"memory"`
	SummarySentences int             `yaml:"summary_sentences"`
}

// PipelineOptions maps the retrieval section onto pipeline options.
func (c *AppConfig) PipelineOptions() pipeline.Options {
	r := c.Retrieval
	return pipeline.Options{
		ChunkSize: r.ChunkSize,
		Overlap:   r.Overlap,
		Index: index.Params{
			MaxFeatures: r.MaxFeatures,
			NGramMin:    r.NGramMin,
			NGramMax:    r.NGramMax,
			MinDF:       r.MinDF,
			MaxDF:       r.MaxDF,
		},
		DefaultTopK:     r.TopK,
		DefaultMinScore: r.MinScore,
		MaxContextChars: r.MaxContextChars,
	}
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/turbobot/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "turbobot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.KnowledgeBase == "" {
		cfg.KnowledgeBase = "data/knowledge_base"
	}
	r := &cfg.Retrieval
	if r.ChunkSize == 0 {
		r.ChunkSize = 2500
	}
	if r.Overlap == 0 {
		r.Overlap = 50
	}
	if r.MaxFeatures == 0 {
		r.MaxFeatures = 2000
	}
	if r.NGramMin == 0 {
		r.NGramMin = 1
	}
	if r.NGramMax == 0 {
		r.NGramMax = 2
	}
	if r.MinDF == 0 {
		r.MinDF = 2
	}
	if r.MaxDF == 0 {
		r.MaxDF = 0.7
	}
	if r.TopK == 0 {
		r.TopK = 3
	}
	if r.MinScore == 0 {
		r.MinScore = 0.05
	}
	if r.MaxContextChars == 0 {
		r.MaxContextChars = 6000
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama3.2:1b"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "http://localhost:11434"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 800
	}
	if cfg.LLM.RequestsPerMinute == 0 {
		cfg.LLM.RequestsPerMinute = 30
	}
	if cfg.Memory.DataDir == "" {
		cfg.Memory.DataDir = "data/conversations"
	}
	if cfg.Memory.MaxMessages == 0 {
		cfg.Memory.MaxMessages = 10
	}
	if cfg.SummarySentences == 0 {
		cfg.SummarySentences = 3
	}
}
