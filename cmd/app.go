package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/ai"
	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/cache"
	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/config"
	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/sheets"
	"github.com/twiced-technology-gmbh/teminder/internal/store"
	"github.com/twiced-technology-gmbh/teminder/internal/tracker"
)

const cacheDialTimeout = 2 * time.Second

// app bundles the collaborators a command needs.
type app struct {
	cfg      *config.Config
	db       *store.DB
	cache    cache.Cache
	svc      *tracker.Service
	ai       ai.Assistant
	exporter sheets.Exporter
	logger   *slog.Logger
	closeLog func() error
}

// resolveDir loads .env from the working directory, then resolves the
// config directory from --config, $TEMINDER_HOME, or the user config dir.
func resolveDir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		if err := config.LoadEnvFiles(cwd); err != nil {
			return "", err
		}
	}
	return config.ResolveDir(flagConfig)
}

// loadConfig reads the settings file, creating it with defaults on first
// run. With withEnv, .env files and TEMINDER_* variables are applied on top;
// commands that save the file must pass false so overrides are not persisted.
func loadConfig(withEnv bool) (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		cfg, err = config.Init(dir)
	}
	if err != nil {
		return nil, err
	}

	if withEnv {
		if err := config.LoadEnvFiles(dir); err != nil {
			return nil, err
		}
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return nil, err
		}
		if flagDB != "" {
			cfg.Database.Path = flagDB
		}
	}
	return cfg, nil
}

// openApp loads the config and opens the store, cache, and log. The caller
// must Close it.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(true)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Open(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("opening database %s: %w", cfg.DatabasePath(), err)
	}

	c := openCache(ctx, cfg, logger)
	svc := tracker.New(db, tracker.Options{
		Cache:   c,
		TTL:     cfg.CacheTTL(),
		Logger:  logger,
		Journal: board.NewJournal(cfg.Dir()),
	})

	return &app{
		cfg:      cfg,
		db:       db,
		cache:    c,
		svc:      svc,
		ai:       newAssistant(cfg, logger),
		exporter: newExporter(cfg, logger),
		logger:   logger,
		closeLog: closeLog,
	}, nil
}

// Close releases the cache, the store, and the log file.
func (a *app) Close() error {
	return errors.Join(a.cache.Close(), a.db.Close(), a.closeLog())
}

// openCache returns the configured backend. An unreachable Redis server
// leaves the app running without a cache.
func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	if !cfg.Cache.Enabled {
		return cache.Nop{}
	}
	if cfg.Cache.Backend == config.BackendMemory {
		return cache.NewMemory()
	}

	dialCtx, cancel := context.WithTimeout(ctx, cacheDialTimeout)
	defer cancel()
	r, err := cache.DialRedis(dialCtx, cache.RedisOptions{
		Addr:     cfg.CacheAddr(),
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "addr", cfg.CacheAddr(), "error", err)
		return cache.Nop{}
	}
	logger.Debug("cache connected", "addr", cfg.CacheAddr())
	return r
}

func newAssistant(cfg *config.Config, logger *slog.Logger) ai.Assistant {
	if !cfg.AI.Enabled {
		return ai.Disabled{}
	}
	return ai.New(ai.Options{
		Endpoint:         cfg.AI.Endpoint,
		Model:            cfg.AI.Model,
		MaxTokens:        cfg.AI.MaxTokens,
		Temperature:      cfg.AI.Temperature,
		Timeout:          cfg.AITimeout(),
		SuggestionPrompt: cfg.AI.Prompts.TaskSuggestion,
		SummaryPrompt:    cfg.AI.Prompts.Summary,
	}, logger)
}

func newExporter(cfg *config.Config, logger *slog.Logger) sheets.Exporter {
	if !cfg.Sheets.Enabled {
		return sheets.Disabled{}
	}
	return sheets.New(sheets.Options{
		Endpoint:      cfg.Sheets.Endpoint,
		APIKey:        cfg.Sheets.APIKey,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		SheetName:     cfg.Sheets.SheetName,
		Timeout:       cfg.SheetsTimeout(),
	}, logger)
}

// requireAI fails with FEATURE_DISABLED when AI is turned off.
func (a *app) requireAI() error {
	if a.ai.Available() {
		return nil
	}
	return clierr.New(clierr.FeatureDisabled, ai.DisabledMessage).
		WithDetails(map[string]any{"setting": "ai.enabled"})
}
