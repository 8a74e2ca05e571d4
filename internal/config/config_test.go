package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultIsValid(t *testing.T) {
	cfg := NewDefault()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.True(t, cfg.AI.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.TUI.ShowCompleted)
	assert.Equal(t, 30*time.Second, cfg.AITimeout())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.Equal(t, "localhost:6379", cfg.CacheAddr())
}

func TestInitAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	_, err := Init(dir)
	require.NoError(t, err)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir())
	assert.Equal(t, filepath.Join(dir, DefaultDatabasePath), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(dir, DefaultLogFile), cfg.LogPath())
	assert.Equal(t, DefaultAIModel, cfg.AI.Model)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadKeepsDefaultsForMissingSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "version: 2\ndatabase:\n  path: /tmp/x.db\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DatabasePath())
	assert.Equal(t, DefaultAIEndpoint, cfg.AI.Endpoint)
	assert.Equal(t, DefaultSheetsName, cfg.Sheets.SheetName)
}

func TestLoadMigratesV1(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, `version: 1
database:
  path: tasks.db
ai:
  enabled: false
  max_tokens: 500
  temperature: 0.2
  timeout: ""
cache:
  enabled: true
  backend: ""
  host: cachehost
  port: 6380
google_sheets:
  sheet_name: Tasks
  timeout: ""
log:
  level: info
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, DefaultAITimeout, cfg.AI.Timeout)
	assert.Equal(t, DefaultSheetsTimeout, cfg.Sheets.Timeout)

	// The migrated file is persisted.
	again, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, again.Version)
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 2")
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ConfigFileName, "version: 99\n")
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadImportsLegacyJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LegacyFileName, `{
  "ai": {"enabled": true, "ollama_endpoint": "http://ai:11434", "model_name": "llama3", "max_tokens": 256, "temperature": 0.5},
  "prompts": {"task_suggestion": "Suggest.", "summary": "Summarize."},
  "database": {"path": "old.db"},
  "redis": {"enabled": true, "host": "redis", "port": 6390},
  "google_sheets": {"enabled": true, "api_key": "k", "endpoint": "http://sheets"}
}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://ai:11434", cfg.AI.Endpoint)
	assert.Equal(t, "llama3", cfg.AI.Model)
	assert.Equal(t, 256, cfg.AI.MaxTokens)
	assert.Equal(t, "Suggest.", cfg.AI.Prompts.TaskSuggestion)
	assert.Equal(t, filepath.Join(dir, "old.db"), cfg.DatabasePath())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6390", cfg.CacheAddr())
	assert.Equal(t, "k", cfg.Sheets.APIKey)
	assert.False(t, cfg.Sheets.Enabled, "no spreadsheet id in the old format")

	_, err = os.Stat(filepath.Join(dir, ConfigFileName))
	assert.NoError(t, err, "import writes config.yml")
	assert.True(t, Exists(dir))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"bad ai timeout", func(c *Config) { c.AI.Timeout = "soon" }},
		{"negative ai timeout", func(c *Config) { c.AI.Timeout = "-1s" }},
		{"zero max tokens", func(c *Config) { c.AI.MaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.AI.Temperature = 3 }},
		{"enabled ai without model", func(c *Config) { c.AI.Model = "" }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"port out of range", func(c *Config) { c.Cache.Port = 70000 }},
		{"negative db", func(c *Config) { c.Cache.DB = -1 }},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "5 minutes" }},
		{"enabled sheets without key", func(c *Config) { c.Sheets.Enabled = true }},
		{"empty sheet name", func(c *Config) { c.Sheets.SheetName = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestDisabledAIDoesNotNeedEndpoint(t *testing.T) {
	cfg := NewDefault()
	cfg.AI.Enabled = false
	cfg.AI.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDB:            "/data/t.db",
		EnvAIModel:       "mistral",
		EnvRedisAddr:     "10.0.0.5:6399",
		EnvSheetsAPIKey:  "key",
		EnvSheetsSheetID: "sheet",
		EnvLogLevel:      "debug",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := NewDefault()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "/data/t.db", cfg.DatabasePath())
	assert.Equal(t, "mistral", cfg.AI.Model)
	assert.Equal(t, DefaultAIEndpoint, cfg.AI.Endpoint)
	assert.Equal(t, "10.0.0.5:6399", cfg.CacheAddr())
	assert.Equal(t, "key", cfg.Sheets.APIKey)
	assert.Equal(t, "sheet", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestApplyEnvRejectsBadRedisAddr(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == EnvRedisAddr {
			return "no-port", true
		}
		return "", false
	}
	assert.ErrorIs(t, NewDefault().ApplyEnv(lookup), ErrInvalid)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, EnvFileName, "TEMINDER_TEST_FROM_FILE=hello\n")
	t.Setenv("TEMINDER_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("TEMINDER_TEST_FROM_FILE"))

	require.NoError(t, LoadEnvFiles(dir, t.TempDir()))
	assert.Equal(t, "hello", os.Getenv("TEMINDER_TEST_FROM_FILE"))
}

func TestResolveDir(t *testing.T) {
	flagDir := t.TempDir()
	got, err := ResolveDir(flagDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, got)

	home := t.TempDir()
	t.Setenv(EnvHome, home)
	got, err = ResolveDir("")
	require.NoError(t, err)
	assert.Equal(t, home, got)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
