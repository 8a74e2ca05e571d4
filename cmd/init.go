package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/config"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and task database",
	Long: `Writes a default config.yml into the config directory and creates the
SQLite database. Fails if a config already exists.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	if config.Exists(dir) {
		return clierr.Newf(clierr.ConfigExists, "teminder already initialized in %s", dir).
			WithDetails(map[string]any{"dir": dir})
	}

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	db, err := store.Open(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := db.Close(); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":   "initialized",
			"dir":      cfg.Dir(),
			"config":   cfg.ConfigPath(),
			"database": cfg.DatabasePath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized teminder in %s", cfg.Dir())
	output.Messagef(os.Stdout, "  Config:   %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Database: %s", cfg.DatabasePath())
	return nil
}
