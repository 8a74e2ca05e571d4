package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays a single task with its links and direct subtasks.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	t, err := a.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	children, err := a.svc.Children(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, output.TaskWithChildren{
			TaskView: output.View(t, now),
			Children: output.Views(children, now),
		})
	}
	if format == output.FormatCompact {
		output.TaskDetailCompact(os.Stdout, t, children, now)
		return nil
	}

	output.TaskDetail(os.Stdout, t, children, now)
	return nil
}
