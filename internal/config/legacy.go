package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// legacyConfig mirrors the config.json written by the first teminder
// release. Every field is optional; absent fields keep their defaults.
type legacyConfig struct {
	AI *struct {
		Enabled     *bool    `json:"enabled"`
		Endpoint    *string  `json:"ollama_endpoint"`
		Model       *string  `json:"model_name"`
		MaxTokens   *int     `json:"max_tokens"`
		Temperature *float64 `json:"temperature"`
	} `json:"ai"`
	Prompts *struct {
		TaskSuggestion *string `json:"task_suggestion"`
		Summary        *string `json:"summary"`
	} `json:"prompts"`
	Database *struct {
		Path *string `json:"path"`
	} `json:"database"`
	Redis *struct {
		Enabled *bool   `json:"enabled"`
		Host    *string `json:"host"`
		Port    *int    `json:"port"`
	} `json:"redis"`
	Sheets *struct {
		Enabled  *bool   `json:"enabled"`
		APIKey   *string `json:"api_key"`
		Endpoint *string `json:"endpoint"`
	} `json:"google_sheets"`
}

// importLegacy converts dir/config.json into a saved config.yml.
// Returns ErrNotFound when neither file exists.
func importLegacy(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, LegacyFileName)) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading legacy config: %w", err)
	}

	var legacy legacyConfig
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parsing legacy config: %w", err)
	}

	cfg := NewDefault()
	cfg.dir = dir
	legacy.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("saving imported config: %w", err)
	}
	return cfg, nil
}

func (l *legacyConfig) apply(cfg *Config) {
	if a := l.AI; a != nil {
		setIfPresent(&cfg.AI.Enabled, a.Enabled)
		setIfPresent(&cfg.AI.Endpoint, a.Endpoint)
		setIfPresent(&cfg.AI.Model, a.Model)
		setIfPresent(&cfg.AI.MaxTokens, a.MaxTokens)
		setIfPresent(&cfg.AI.Temperature, a.Temperature)
	}
	if p := l.Prompts; p != nil {
		setIfPresent(&cfg.AI.Prompts.TaskSuggestion, p.TaskSuggestion)
		setIfPresent(&cfg.AI.Prompts.Summary, p.Summary)
	}
	if d := l.Database; d != nil {
		setIfPresent(&cfg.Database.Path, d.Path)
	}
	if r := l.Redis; r != nil {
		setIfPresent(&cfg.Cache.Enabled, r.Enabled)
		setIfPresent(&cfg.Cache.Host, r.Host)
		setIfPresent(&cfg.Cache.Port, r.Port)
		cfg.Cache.Backend = BackendRedis
	}
	if s := l.Sheets; s != nil {
		setIfPresent(&cfg.Sheets.Enabled, s.Enabled)
		setIfPresent(&cfg.Sheets.APIKey, s.APIKey)
		setIfPresent(&cfg.Sheets.Endpoint, s.Endpoint)
		// The old format had no spreadsheet id, so an enabled export
		// cannot work until one is set.
		if cfg.Sheets.SpreadsheetID == "" {
			cfg.Sheets.Enabled = false
		}
	}
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
