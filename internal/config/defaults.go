// Package config handles teminder settings.
package config

const (
	// DefaultDirName is the directory under the user config dir.
	DefaultDirName = "teminder"
	// ConfigFileName is the name of the settings file within the config directory.
	ConfigFileName = "config.yml"
	// LegacyFileName is the JSON settings file written by earlier releases.
	LegacyFileName = "config.json"
	// EnvFileName is the optional dotenv file read from the config dir and the working dir.
	EnvFileName = ".env"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2

	// DefaultDatabasePath is resolved relative to the config directory.
	DefaultDatabasePath = "tasks.db"

	DefaultAIEndpoint    = "http://localhost:11434"
	DefaultAIModel       = "phi4:latest"
	DefaultAIMaxTokens   = 1000
	DefaultAITemperature = 0.7
	DefaultAITimeout     = "30s"

	// Cache backends.
	BackendRedis  = "redis"
	BackendMemory = "memory"

	DefaultCacheBackend = BackendRedis
	DefaultCacheHost    = "localhost"
	DefaultCachePort    = 6379
	DefaultCacheTTL     = "5m"

	DefaultSheetsEndpoint = "https://sheets.googleapis.com/v4/spreadsheets"
	DefaultSheetsName     = "Tasks"
	DefaultSheetsTimeout  = "30s"

	DefaultLogFile  = "teminder.log"
	DefaultLogLevel = "info"

	defaultShowCompleted = true
	defaultAIEnabled     = true
	maxPort              = 65535
	maxTemperature       = 2.0
)

// LogLevels lists accepted log.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// CacheBackends lists accepted cache.backend values.
var CacheBackends = []string{BackendRedis, BackendMemory}
