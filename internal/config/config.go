package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ModelConfig holds connection details for the OpenAI-compatible model
// server used for both chat completion and embeddings.
type ModelConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKeyEnv      string  `yaml:"api_key_env"`
	ChatModel      string  `yaml:"chat_model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	Temperature    float32 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
}

// RetrievalConfig tunes search and context assembly.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	ContextBudget  int     `yaml:"context_budget"`
	Method         string  `yaml:"method"`
}

// ChunkerConfig configures how texts are split into passages.
type ChunkerConfig struct {
	BasicTarget     int `yaml:"basic_target"`
	DocumentTarget  int `yaml:"document_target"`
	DocumentOverlap int `yaml:"document_overlap"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Model     ModelConfig     `yaml:"model"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
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

// LoadDefault tries ./config.yaml first, then ~/.config/ragassist/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragassist/config.yaml and returns them.
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
	return filepath.Join(home, ".config", "ragassist", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Model: ModelConfig{
			BaseURL:        "http://127.0.0.1:8000/v1",
			APIKeyEnv:      "RAGASSIST_API_KEY",
			ChatModel:      "tuned-model",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.7,
			MaxTokens:      256,
		},
		Retrieval: RetrievalConfig{
			TopK:           3,
			SemanticWeight: 0.6,
			KeywordWeight:  0.4,
			ContextBudget:  800,
			Method:         "hybrid",
		},
		Chunker: ChunkerConfig{
			BasicTarget:     300,
			DocumentTarget:  500,
			DocumentOverlap: 50,
		},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Model.BaseURL == "" {
		cfg.Model.BaseURL = def.Model.BaseURL
	}
	if cfg.Model.APIKeyEnv == "" {
		cfg.Model.APIKeyEnv = def.Model.APIKeyEnv
	}
	if cfg.Model.ChatModel == "" {
		cfg.Model.ChatModel = def.Model.ChatModel
	}
	if cfg.Model.EmbeddingModel == "" {
		cfg.Model.EmbeddingModel = def.Model.EmbeddingModel
	}
	if cfg.Model.Temperature == 0 {
		cfg.Model.Temperature = def.Model.Temperature
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = def.Model.MaxTokens
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.SemanticWeight == 0 {
		cfg.Retrieval.SemanticWeight = def.Retrieval.SemanticWeight
	}
	if cfg.Retrieval.KeywordWeight == 0 {
		cfg.Retrieval.KeywordWeight = def.Retrieval.KeywordWeight
	}
	if cfg.Retrieval.ContextBudget == 0 {
		cfg.Retrieval.ContextBudget = def.Retrieval.ContextBudget
	}
	if cfg.Retrieval.Method == "" {
		cfg.Retrieval.Method = def.Retrieval.Method
	}
	if cfg.Chunker.BasicTarget == 0 {
		cfg.Chunker.BasicTarget = def.Chunker.BasicTarget
	}
	if cfg.Chunker.DocumentTarget == 0 {
		cfg.Chunker.DocumentTarget = def.Chunker.DocumentTarget
	}
	if cfg.Chunker.DocumentOverlap == 0 {
		cfg.Chunker.DocumentOverlap = def.Chunker.DocumentOverlap
	}
}
