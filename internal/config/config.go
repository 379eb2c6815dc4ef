// Package config loads the application configuration from defaults, an
// optional YAML file, a .env file and the environment.
package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizwise/internal/llm"
)

// Config is the root configuration.
type Config struct {
	LLM    llm.Config   `yaml:"llm"`
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`            // Default: ":8080"
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS origins. Empty allows none.

	// SessionSecret signs the browser session cookie. Falls back to the
	// JWT secret when empty.
	SessionSecret string `yaml:"session_secret"`
	CookieSecure  bool   `yaml:"cookie_secure"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // Default: 10s
}

// AuthConfig configures account tokens.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"` // Default: 7 days
}

// StoreConfig configures the database.
type StoreConfig struct {
	// Path is the SQLite file. Empty means the default data directory.
	Path string `yaml:"path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Mode  string `yaml:"mode"`  // "dev" or "prod". Default: "dev"
	Level string `yaml:"level"` // Default: "info"
	File  string `yaml:"file"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 7 * 24 * time.Hour,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
	}
}

// Load builds a Config. path names a YAML file; when empty QUIZWISE_CONFIG
// is consulted, and when that is empty too no file is read. A .env file in
// the working directory is loaded if present. Environment variables win
// over the file. When the selected provider has no key, the conventional
// provider key variables are probed.
func Load(path string) (Config, error) {
	cfg := Default()

	path = cmp.Or(path, os.Getenv("QUIZWISE_CONFIG"))
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if !cfg.LLM.HasKey() {
		llm.Discover(&cfg.LLM)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	llm.ApplyEnv(&cfg.LLM)

	setString(&cfg.Server.Addr, "QUIZWISE_ADDR")
	setString(&cfg.Server.SessionSecret, "QUIZWISE_SESSION_SECRET")
	if v := os.Getenv("QUIZWISE_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("QUIZWISE_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUIZWISE_COOKIE_SECURE: %w", err)
		}
		cfg.Server.CookieSecure = b
	}

	setString(&cfg.Auth.JWTSecret, "QUIZWISE_JWT_SECRET")
	if v := os.Getenv("QUIZWISE_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIZWISE_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}

	setString(&cfg.Store.Path, "QUIZWISE_DB")

	setString(&cfg.Log.Mode, "QUIZWISE_LOG_MODE")
	setString(&cfg.Log.Level, "QUIZWISE_LOG_LEVEL")
	setString(&cfg.Log.File, "QUIZWISE_LOG_FILE")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate checks the sections every command needs.
func (c Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// ValidateServe checks everything the HTTP server needs.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Validate checks the server section.
func (s ServerConfig) Validate() error {
	if s.Addr == "" {
		return errors.New("addr is required")
	}
	if s.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// CookieSecret returns the secret for the browser session cookie.
func (c Config) CookieSecret() string {
	return cmp.Or(c.Server.SessionSecret, c.Auth.JWTSecret)
}

// Validate checks the auth section.
func (a AuthConfig) Validate() error {
	if len(a.JWTSecret) < 16 {
		return errors.New("QUIZWISE_JWT_SECRET must be at least 16 characters")
	}
	if a.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	return nil
}

// Validate checks the log section.
func (l LogConfig) Validate() error {
	switch strings.ToLower(l.Mode) {
	case "dev", "prod", "production", "":
	default:
		return fmt.Errorf("unknown mode %q", l.Mode)
	}
	if _, err := zapcore.ParseLevel(cmp.Or(l.Level, "info")); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	return nil
}
