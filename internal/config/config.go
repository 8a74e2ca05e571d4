package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/teminder/internal/ai"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no teminder config found (run 'teminder init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the teminder settings file.
type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	AI       AIConfig       `yaml:"ai"`
	Cache    CacheConfig    `yaml:"cache"`
	Sheets   SheetsConfig   `yaml:"google_sheets"`
	TUI      TUIConfig      `yaml:"tui"`
	Log      LogConfig      `yaml:"log"`

	// dir is the absolute path to the config directory (not serialized).
	dir string `yaml:"-"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AIConfig holds the Ollama connection and prompt preambles.
type AIConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     string        `yaml:"timeout"`
	Prompts     PromptsConfig `yaml:"prompts"`
}

// PromptsConfig holds the preambles sent ahead of task data.
type PromptsConfig struct {
	TaskSuggestion string `yaml:"task_suggestion"`
	Summary        string `yaml:"summary"`
}

// CacheConfig selects and configures the write-through cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Backend  string `yaml:"backend"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

// SheetsConfig holds the Google Sheets export target.
type SheetsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	APIKey        string `yaml:"api_key"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
	Timeout       string `yaml:"timeout"`
}

// TUIConfig holds interactive session settings.
type TUIConfig struct {
	ShowCompleted bool `yaml:"show_completed"`
}

// LogConfig holds the diagnostic log destination.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:  CurrentVersion,
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		AI: AIConfig{
			Enabled:     defaultAIEnabled,
			Endpoint:    DefaultAIEndpoint,
			Model:       DefaultAIModel,
			MaxTokens:   DefaultAIMaxTokens,
			Temperature: DefaultAITemperature,
			Timeout:     DefaultAITimeout,
			Prompts: PromptsConfig{
				TaskSuggestion: ai.DefaultSuggestionPrompt,
				Summary:        ai.DefaultSummaryPrompt,
			},
		},
		Cache: CacheConfig{
			Backend: DefaultCacheBackend,
			Host:    DefaultCacheHost,
			Port:    DefaultCachePort,
			TTL:     DefaultCacheTTL,
		},
		Sheets: SheetsConfig{
			Endpoint:  DefaultSheetsEndpoint,
			SheetName: DefaultSheetsName,
			Timeout:   DefaultSheetsTimeout,
		},
		TUI: TUIConfig{ShowCompleted: defaultShowCompleted},
		Log: LogConfig{File: DefaultLogFile, Level: DefaultLogLevel},
	}
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// DatabasePath returns the database file, resolved against the config dir.
func (c *Config) DatabasePath() string {
	return c.resolve(c.Database.Path)
}

// LogPath returns the diagnostic log file, resolved against the config dir.
func (c *Config) LogPath() string {
	return c.resolve(c.Log.File)
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// AITimeout returns ai.timeout as a duration, or the default when unset.
func (c *Config) AITimeout() time.Duration {
	return parseDurationOr(c.AI.Timeout, DefaultAITimeout)
}

// SheetsTimeout returns google_sheets.timeout as a duration.
func (c *Config) SheetsTimeout() time.Duration {
	return parseDurationOr(c.Sheets.Timeout, DefaultSheetsTimeout)
}

// CacheTTL returns cache.ttl as a duration.
func (c *Config) CacheTTL() time.Duration {
	return parseDurationOr(c.Cache.TTL, DefaultCacheTTL)
}

// CacheAddr returns host:port for the Redis backend.
func (c *Config) CacheAddr() string {
	return net.JoinHostPort(c.Cache.Host, strconv.Itoa(c.Cache.Port))
}

func parseDurationOr(s, fallback string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && s != "" {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalid)
	}
	if err := c.validateAI(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSheets(); err != nil {
		return err
	}
	if !contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q must be one of %v", ErrInvalid, c.Log.Level, LogLevels)
	}
	return nil
}

func (c *Config) validateAI() error {
	if err := validateDuration("ai.timeout", c.AI.Timeout); err != nil {
		return err
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("%w: ai.max_tokens must be >= 1", ErrInvalid)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > maxTemperature {
		return fmt.Errorf("%w: ai.temperature must be between 0 and %g", ErrInvalid, maxTemperature)
	}
	if !c.AI.Enabled {
		return nil
	}
	if c.AI.Endpoint == "" {
		return fmt.Errorf("%w: ai.endpoint is required when ai is enabled", ErrInvalid)
	}
	if c.AI.Model == "" {
		return fmt.Errorf("%w: ai.model is required when ai is enabled", ErrInvalid)
	}
	return nil
}

func (c *Config) validateCache() error {
	if !contains(CacheBackends, c.Cache.Backend) {
		return fmt.Errorf("%w: cache.backend %q must be one of %v", ErrInvalid, c.Cache.Backend, CacheBackends)
	}
	if c.Cache.Port < 1 || c.Cache.Port > maxPort {
		return fmt.Errorf("%w: cache.port must be between 1 and %d", ErrInvalid, maxPort)
	}
	if c.Cache.DB < 0 {
		return fmt.Errorf("%w: cache.db must be >= 0", ErrInvalid)
	}
	return validateDuration("cache.ttl", c.Cache.TTL)
}

func (c *Config) validateSheets() error {
	if err := validateDuration("google_sheets.timeout", c.Sheets.Timeout); err != nil {
		return err
	}
	if c.Sheets.SheetName == "" {
		return fmt.Errorf("%w: google_sheets.sheet_name is required", ErrInvalid)
	}
	if !c.Sheets.Enabled {
		return nil
	}
	if c.Sheets.APIKey == "" || c.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("%w: google_sheets.api_key and spreadsheet_id are required when enabled", ErrInvalid)
	}
	return nil
}

func validateDuration(key, s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: invalid %s %q: %w", ErrInvalid, key, s, err)
	}
	if d < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalid, key)
	}
	return nil
}

// Init writes a default config into dir, creating the directory.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Exists reports whether dir holds a config file of either format.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, LegacyFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// Load reads and validates the config from dir. A legacy config.json is
// imported and saved as config.yml when no YAML file exists yet.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		return importLegacy(absDir)
	}

	// Start from defaults so sections missing from the file keep sane values.
	cfg := NewDefault()
	cfg.Version = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
