package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/sheets"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export all tasks to Google Sheets",
	Long: `Replaces the configured sheet with every task, completed ones included.
Requires google_sheets.enabled, an API key, and a spreadsheet ID.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	if !a.exporter.Available() {
		return clierr.New(clierr.FeatureDisabled, sheets.ErrDisabled.Error()).
			WithDetails(map[string]any{"setting": "google_sheets.enabled"})
	}

	tasks, err := a.db.ListAll(ctx, true)
	if err != nil {
		return err
	}
	if err := a.exporter.Export(ctx, tasks); err != nil {
		a.logger.Warn("sheets export", "error", err)
		return clierr.Newf(clierr.ExportFailed, "export failed: %v", err)
	}
	a.svc.Journal().Record(board.ActionExport, 0, fmt.Sprintf("%d tasks", len(tasks)))
	a.logger.Info("sheets export", "tasks", len(tasks))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":         "exported",
			"tasks":          len(tasks),
			"spreadsheet_id": a.cfg.Sheets.SpreadsheetID,
			"sheet":          a.cfg.Sheets.SheetName,
		})
	}
	output.Messagef(os.Stdout, "Exported %d tasks to sheet %q", len(tasks), a.cfg.Sheets.SheetName)
	return nil
}
