package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognised by teminder.
const (
	EnvHome          = "TEMINDER_HOME"
	EnvDB            = "TEMINDER_DB"
	EnvAIEndpoint    = "TEMINDER_AI_ENDPOINT"
	EnvAIModel       = "TEMINDER_AI_MODEL"
	EnvRedisAddr     = "TEMINDER_REDIS_ADDR"
	EnvSheetsAPIKey  = "TEMINDER_SHEETS_API_KEY"
	EnvSheetsSheetID = "TEMINDER_SHEETS_SPREADSHEET_ID"
	EnvLogLevel      = "TEMINDER_LOG_LEVEL"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ResolveDir picks the config directory: the explicit flag value, then
// $TEMINDER_HOME, then the user config dir.
func ResolveDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if home, ok := os.LookupEnv(EnvHome); ok && home != "" {
		return filepath.Abs(home)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, DefaultDirName), nil
}

// LoadEnvFiles loads .env from each directory that has one. Variables that
// are already set are never overwritten, so the real environment wins.
func LoadEnvFiles(dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, EnvFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides file values with TEMINDER_* variables. The result is
// for the running process only; Save still writes what the file held unless
// the caller saves after applying.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvDB, &c.Database.Path)
	str(EnvAIEndpoint, &c.AI.Endpoint)
	str(EnvAIModel, &c.AI.Model)
	str(EnvSheetsAPIKey, &c.Sheets.APIKey)
	str(EnvSheetsSheetID, &c.Sheets.SpreadsheetID)
	str(EnvLogLevel, &c.Log.Level)

	if addr, ok := lookup(EnvRedisAddr); ok && addr != "" {
		host, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("%w: %s %q: %w", ErrInvalid, EnvRedisAddr, addr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("%w: %s port %q is not a number", ErrInvalid, EnvRedisAddr, portStr)
		}
		c.Cache.Host, c.Cache.Port = host, port
	}
	return c.Validate()
}
