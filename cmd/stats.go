package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/watcher"
)

var flagWatch bool

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"summary"},
	Short:   "Show task counts",
	Long: `Displays task counts per status and priority, plus completed, overdue,
and subtask totals.

Use --watch to keep the display live-updating. The summary re-renders
whenever the database changes (e.g., from the TUI in another terminal).
Press Ctrl+C to stop.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update on database changes")
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	// Render once.
	if err := renderStats(ctx, a); err != nil {
		return err
	}

	if !flagWatch {
		return nil
	}

	return watchStats(ctx, a)
}

func renderStats(ctx context.Context, a *app) error {
	tasks, err := a.db.ListAll(ctx, true)
	if err != nil {
		return err
	}
	summary := board.Summary(tasks, time.Now())

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, summary)
	}
	if format == output.FormatCompact {
		output.OverviewCompact(os.Stdout, summary)
		return nil
	}

	output.OverviewTable(os.Stdout, summary)
	return nil
}

func watchStats(parent context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath := a.cfg.DatabasePath()
	base := filepath.Base(dbPath)
	w, err := watcher.New(filepath.Dir(dbPath), []string{base, base + "-wal"}, func() {
		clearScreen()
		if renderErr := renderStats(ctx, a); renderErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: rendering stats: %v\n", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	w.Run(ctx, func(watchErr error) {
		fmt.Fprintf(os.Stderr, "Warning: file watcher: %v\n", watchErr)
	})

	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen() {
	fmt.Fprint(os.Stdout, "\033[2J\033[H")
}
