package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/config"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
)

const maskedSecret = "********"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long: `View the effective configuration, get a specific key, or set a writable value.
show and get include environment overrides; set edits only config.yml.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every configuration value",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
	secret   bool
}

func stringKey(field func(*config.Config) *string) configAccessor {
	return configAccessor{
		get:      func(c *config.Config) any { return *field(c) },
		set:      func(c *config.Config, v string) error { *field(c) = v; return nil },
		writable: true,
	}
}

func secretKey(field func(*config.Config) *string) configAccessor {
	acc := stringKey(field)
	acc.secret = true
	return acc
}

func boolKey(key string, field func(*config.Config) *bool) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be true or false", key, v)
			}
			*field(c) = b
			return nil
		},
		writable: true,
	}
}

func intKey(key string, field func(*config.Config) *int) configAccessor {
	return configAccessor{
		get: func(c *config.Config) any { return *field(c) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "invalid %s %q: must be an integer", key, v)
			}
			*field(c) = n
			return nil // validation handles range check
		},
		writable: true,
	}
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"dir": {
			get: func(c *config.Config) any { return c.Dir() },
		},
		"database.path":              stringKey(func(c *config.Config) *string { return &c.Database.Path }),
		"ai.enabled":                 boolKey("ai.enabled", func(c *config.Config) *bool { return &c.AI.Enabled }),
		"ai.endpoint":                stringKey(func(c *config.Config) *string { return &c.AI.Endpoint }),
		"ai.model":                   stringKey(func(c *config.Config) *string { return &c.AI.Model }),
		"ai.max_tokens":              intKey("ai.max_tokens", func(c *config.Config) *int { return &c.AI.MaxTokens }),
		"ai.timeout":                 stringKey(func(c *config.Config) *string { return &c.AI.Timeout }),
		"ai.prompts.task_suggestion": stringKey(func(c *config.Config) *string { return &c.AI.Prompts.TaskSuggestion }),
		"ai.prompts.summary":         stringKey(func(c *config.Config) *string { return &c.AI.Prompts.Summary }),
		"ai.temperature": {
			get: func(c *config.Config) any { return c.AI.Temperature },
			set: func(c *config.Config, v string) error {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "invalid ai.temperature %q: must be a number", v)
				}
				c.AI.Temperature = f
				return nil
			},
			writable: true,
		},
		"cache.enabled":                boolKey("cache.enabled", func(c *config.Config) *bool { return &c.Cache.Enabled }),
		"cache.backend":                stringKey(func(c *config.Config) *string { return &c.Cache.Backend }),
		"cache.host":                   stringKey(func(c *config.Config) *string { return &c.Cache.Host }),
		"cache.port":                   intKey("cache.port", func(c *config.Config) *int { return &c.Cache.Port }),
		"cache.password":               secretKey(func(c *config.Config) *string { return &c.Cache.Password }),
		"cache.db":                     intKey("cache.db", func(c *config.Config) *int { return &c.Cache.DB }),
		"cache.ttl":                    stringKey(func(c *config.Config) *string { return &c.Cache.TTL }),
		"google_sheets.enabled":        boolKey("google_sheets.enabled", func(c *config.Config) *bool { return &c.Sheets.Enabled }),
		"google_sheets.endpoint":       stringKey(func(c *config.Config) *string { return &c.Sheets.Endpoint }),
		"google_sheets.api_key":        secretKey(func(c *config.Config) *string { return &c.Sheets.APIKey }),
		"google_sheets.spreadsheet_id": stringKey(func(c *config.Config) *string { return &c.Sheets.SpreadsheetID }),
		"google_sheets.sheet_name":     stringKey(func(c *config.Config) *string { return &c.Sheets.SheetName }),
		"google_sheets.timeout":        stringKey(func(c *config.Config) *string { return &c.Sheets.Timeout }),
		"tui.show_completed":           boolKey("tui.show_completed", func(c *config.Config) *bool { return &c.TUI.ShowCompleted }),
		"log.file":                     stringKey(func(c *config.Config) *string { return &c.Log.File }),
		"log.level":                    stringKey(func(c *config.Config) *string { return &c.Log.Level }),
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"dir",
		"database.path",
		"ai.enabled",
		"ai.endpoint",
		"ai.model",
		"ai.max_tokens",
		"ai.temperature",
		"ai.timeout",
		"ai.prompts.task_suggestion",
		"ai.prompts.summary",
		"cache.enabled",
		"cache.backend",
		"cache.host",
		"cache.port",
		"cache.password",
		"cache.db",
		"cache.ttl",
		"google_sheets.enabled",
		"google_sheets.endpoint",
		"google_sheets.api_key",
		"google_sheets.spreadsheet_id",
		"google_sheets.sheet_name",
		"google_sheets.timeout",
		"tui.show_completed",
		"log.file",
		"log.level",
	}
}

// displayValue masks non-empty secrets.
func (a configAccessor) displayValue(c *config.Config) any {
	v := a.get(c)
	if s, ok := v.(string); ok && a.secret && s != "" {
		return maskedSecret
	}
	return v
}

func lookupAccessor(key string) (configAccessor, error) {
	acc, ok := configAccessors()[key]
	if !ok {
		return acc, clierr.Newf(clierr.InvalidConfigKey, "unknown config key %q", key).
			WithDetails(map[string]any{"key": key, "allowed": allConfigKeys()})
	}
	return acc, nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].displayValue(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range allConfigKeys() {
		val := accessors[key].displayValue(cfg)
		fmt.Fprintf(os.Stdout, "%-30s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	acc, err := lookupAccessor(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	val := acc.displayValue(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, err := lookupAccessor(key)
	if err != nil {
		return err
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidConfigKey, "config key %q is read-only", key)
	}

	// No env overrides: they must not end up in the file.
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error()).
			WithDetails(map[string]any{"key": key, "value": value})
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.displayValue(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.displayValue(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case string:
		if v == "" {
			return "--"
		}
		// Prompts are long; keep one line per key.
		return strings.ReplaceAll(v, "\n", " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
