package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/config"
	"github.com/abhisek/quizwise/internal/llm"
	"github.com/abhisek/quizwise/internal/logger"
	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/store"
)

// env is what every command needs: configuration, a logger and the store.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
}

// envOptions tunes setup for a command.
type envOptions struct {
	// logToFile routes log output away from the terminal, for the TUI.
	logToFile bool
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (QUIZWISE_DB or the config file), then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

func setup(cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	logOpts := logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, File: cfg.Log.File}
	if opts.logToFile && logOpts.File == "" {
		logOpts.File = filepath.Join(filepath.Dir(dbPath), "quizwise.log")
	}
	log, err := logger.New(logOpts)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	return &env{cfg: cfg, log: log, store: st}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// provider builds the configured model provider with request logging
// into the store.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	if err := e.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w\n"+
			"Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY", err)
	}
	return llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.log)
}

// shell wires the quiz and chat flows over provider and the store.
func (e *env) shell(provider llm.Provider) *shell.Shell {
	gen := quizgen.New(provider, quizgen.DefaultConfig())
	return shell.New(shell.Deps{
		Generator: gen,
		Evaluator: gen,
		Responder: chat.NewAssistant(provider, e.log),
		Topics:    e.store.TopicRepo(),
		Results:   e.store.ResultRepo(),
		Log:       e.log,
	})
}
