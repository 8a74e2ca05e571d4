package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/config"
	"github.com/twiced-technology-gmbh/teminder/internal/filelock"
	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/session"
	"github.com/twiced-technology-gmbh/teminder/internal/tui"
	"github.com/twiced-technology-gmbh/teminder/internal/watcher"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	lock, err := filelock.TryLock(filelock.PathFor(a.cfg.DatabasePath()))
	if errors.Is(err, filelock.ErrLocked) {
		return clierr.Newf(clierr.SessionLocked, "another teminder session is using %s: %v", a.cfg.DatabasePath(), err).
			WithDetails(map[string]any{"database": a.cfg.DatabasePath()})
	}
	if err != nil {
		return err
	}
	defer lock.Release() //nolint:errcheck // best-effort on exit

	logger, sessionID := logging.WithSession(a.logger)
	logger.Info("session started", "database", a.cfg.DatabasePath(), "cache", a.cache.Stats().Backend)

	ctrl := session.New(a.svc, session.Options{
		AI:       a.ai,
		Exporter: a.exporter,
		Logger:   logger,
	})

	style := tui.DefaultMarkdownStyle
	if colorDisabled() {
		style = "notty"
	}
	model := tui.New(ctrl, ctrl.Init(ctx, a.cfg.TUI.ShowCompleted), tui.Options{
		Context:       ctx,
		Logger:        logger,
		MarkdownStyle: style,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go watchDatabase(ctx, a.cfg.DatabasePath(), p, logger)
	go watchConfig(ctx, a.cfg.Dir(), p, logger)

	_, err = p.Run()
	logger.Info("session ended", "session", sessionID, "error", err)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// watchDatabase reloads the list when another process writes the database.
func watchDatabase(ctx context.Context, dbPath string, p *tea.Program, logger *slog.Logger) {
	base := filepath.Base(dbPath)
	w, err := watcher.New(filepath.Dir(dbPath), []string{base, base + "-wal"}, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		logger.Warn("database watcher unavailable", "error", err)
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, func(err error) { logger.Debug("database watcher", "error", err) })
}

// watchConfig rebuilds the AI client and exporter when config.yml changes.
func watchConfig(ctx context.Context, dir string, p *tea.Program, logger *slog.Logger) {
	w, err := watcher.New(dir, []string{config.ConfigFileName}, func() {
		p.Send(reloadConfig(dir, logger))
	})
	if err != nil {
		logger.Warn("config watcher unavailable", "error", err)
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) { logger.Debug("config watcher", "error", err) })
}

func reloadConfig(dir string, logger *slog.Logger) tui.ConfigChangedMsg {
	cfg, err := config.Load(dir)
	if err == nil {
		err = cfg.ApplyEnv(os.LookupEnv)
	}
	if err != nil {
		return tui.ConfigChangedMsg{Err: err}
	}
	return tui.ConfigChangedMsg{
		AI:       newAssistant(cfg, logger),
		Exporter: newExporter(cfg, logger),
	}
}
