package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ragassist/internal/chunker"
	"ragassist/internal/config"
	"ragassist/internal/engine"
	"ragassist/internal/extract"
	"ragassist/internal/llm"
	"ragassist/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath string
		method  string
		logPath string
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragassist/config.yaml if not provided)")
	flag.StringVar(&method, "method", "", "Search method: semantic, keyword, or hybrid (overrides config)")
	flag.StringVar(&logPath, "log", "", "Write structured logs to this file (silent by default; the TUI owns the terminal)")
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
	if method == "" {
		method = cfg.Retrieval.Method
	}

	logger := zap.NewNop()
	if logPath != "" {
		zcfg := zap.NewProductionConfig()
		zcfg.OutputPaths = []string{logPath}
		logger, err = zcfg.Build()
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer logger.Sync()
	}

	client := llm.NewClient(llm.Config{
		BaseURL:        cfg.Model.BaseURL,
		APIKey:         os.Getenv(cfg.Model.APIKeyEnv),
		ChatModel:      cfg.Model.ChatModel,
		EmbeddingModel: cfg.Model.EmbeddingModel,
		Temperature:    cfg.Model.Temperature,
		MaxTokens:      cfg.Model.MaxTokens,
	}, logger)

	ctx := context.Background()
	if err := client.HealthCheck(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: model server not reachable at %s: %v\n", cfg.Model.BaseURL, err)
	}

	eng := engine.New(client, client, extract.Auto{}, logger, engine.Options{
		SemanticWeight:   cfg.Retrieval.SemanticWeight,
		KeywordWeight:    cfg.Retrieval.KeywordWeight,
		TopK:             cfg.Retrieval.TopK,
		ContextBudget:    cfg.Retrieval.ContextBudget,
		BasicSplitter:    chunker.NewSplitter(cfg.Chunker.BasicTarget, 0),
		DocumentSplitter: chunker.NewSplitter(cfg.Chunker.DocumentTarget, cfg.Chunker.DocumentOverlap),
	})
	if err := eng.Initialize(ctx); err != nil {
		log.Fatalf("failed to initialize knowledge base: %v", err)
	}

	m := tui.New(eng, engine.ParseMethod(method))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
