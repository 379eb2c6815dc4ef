package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no provider keys set,
// so neither a developer's .env nor their shell leak into it.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range []string{
		"QUIZWISE_CONFIG", "QUIZWISE_LLM_PROVIDER", "QUIZWISE_ADDR", "QUIZWISE_DB",
		"QUIZWISE_JWT_SECRET", "QUIZWISE_LOG_LEVEL", "QUIZWISE_ALLOWED_ORIGINS",
		"QUIZWISE_GEMINI_API_KEY", "QUIZWISE_OPENAI_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.False(t, cfg.LLM.HasKey())
	require.NoError(t, cfg.Validate())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "quizwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  openai:
    api_key: from-file
    voice: nova
  timeout: 30s
server:
  addr: ":9000"
  allowed_origins: ["http://localhost:5173"]
auth:
  jwt_secret: file-secret-0123456789
log:
  level: debug
`), 0o644))

	t.Setenv("QUIZWISE_ADDR", ":9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "nova", cfg.LLM.OpenAI.Voice)
	assert.Equal(t, "tts-1", cfg.LLM.OpenAI.SpeechModel, "defaults survive a partial file")
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.ValidateServe())
}

func TestLoadConfigFromEnvVar(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0o644))
	t.Setenv("QUIZWISE_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("QUIZWISE_ALLOWED_ORIGINS=http://a.test, http://b.test\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QUIZWISE_ALLOWED_ORIGINS") })
	os.Unsetenv("QUIZWISE_ALLOWED_ORIGINS")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoadDiscoversProviderKey(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("server: [unclosed"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)

	t.Setenv("QUIZWISE_COOKIE_SECURE", "maybe")
	_, err = Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		serve   bool
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, false, true},
		{"bad log mode", func(c *Config) { c.Log.Mode = "fancy" }, false, true},
		{"serve without key", func(c *Config) { c.Auth.JWTSecret = "0123456789abcdef" }, true, true},
		{"serve short secret", func(c *Config) { c.LLM.Provider = "mock"; c.Auth.JWTSecret = "short" }, true, true},
		{"serve empty addr", func(c *Config) {
			c.LLM.Provider = "mock"
			c.Auth.JWTSecret = "0123456789abcdef"
			c.Server.Addr = ""
		}, true, true},
		{"serve ok", func(c *Config) { c.LLM.Provider = "mock"; c.Auth.JWTSecret = "0123456789abcdef" }, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(&cfg)
			var err error
			if tt.serve {
				err = cfg.ValidateServe()
			} else {
				err = cfg.Validate()
			}
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCookieSecretFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "jwt"
	assert.Equal(t, "jwt", cfg.CookieSecret())
	cfg.Server.SessionSecret = "cookie"
	assert.Equal(t, "cookie", cfg.CookieSecret())
}
