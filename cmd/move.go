package cmd

import (
	"context"
	"errors"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
	"github.com/twiced-technology-gmbh/teminder/internal/tracker"
)

var moveCmd = &cobra.Command{
	Use:   "move ID[,ID,...] [STATUS]",
	Short: "Move a task to a different status",
	Long: `Changes the workflow status of a task. Provide the new status directly,
or use --next/--prev to step through: ` + statusOrder() + `.
The status is independent of the completion flag (see edit --done).
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to next status")
	moveCmd.Flags().Bool("prev", false, "move to previous status")
	rootCmd.AddCommand(moveCmd)
}

func statusOrder() string {
	slugs := make([]string, len(task.Statuses))
	for i, s := range task.Statuses {
		slugs[i] = s.Slug()
	}
	return strings.Join(slugs, ", ")
}

func runMove(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	if len(ids) == 1 {
		return moveSingleTask(ctx, a.svc, ids[0], cmd, args)
	}

	return runBatch(ids, func(id int) error {
		_, _, err := executeMove(ctx, a.svc, id, cmd, args)
		if clierr.CodeOf(err) == clierr.NoChanges {
			return nil
		}
		return err
	})
}

// moveResult wraps a task with a changed flag for JSON output.
type moveResult struct {
	*output.TaskView
	Changed bool `json:"changed"`
}

func moveSingleTask(ctx context.Context, svc *tracker.Service, id int, cmd *cobra.Command, args []string) error {
	t, from, err := executeMove(ctx, svc, id, cmd, args)
	changed := true
	if errors.Is(err, clierr.New(clierr.NoChanges, "")) {
		changed = false
	} else if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, moveResult{TaskView: output.View(t, time.Now()), Changed: changed})
	}
	if !changed {
		output.Messagef(os.Stdout, "Task #%d is already %s", id, t.Status.Slug())
		return nil
	}
	output.Messagef(os.Stdout, "Moved task #%d: %s -> %s", id, from.Slug(), t.Status.Slug())
	return nil
}

// executeMove returns the task after the move and its previous status.
func executeMove(ctx context.Context, svc *tracker.Service, id int, cmd *cobra.Command, args []string) (*task.Task, task.Status, error) {
	current, err := svc.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	target, err := resolveTargetStatus(cmd, args, current)
	if err != nil {
		return nil, 0, err
	}
	t, err := svc.SetStatus(ctx, id, target)
	if err != nil {
		return current, current.Status, err
	}
	return t, current.Status, nil
}

func resolveTargetStatus(cmd *cobra.Command, args []string, t *task.Task) (task.Status, error) {
	next, _ := cmd.Flags().GetBool("next")
	prev, _ := cmd.Flags().GetBool("prev")
	idx := slices.Index(task.Statuses, t.Status)

	switch {
	case len(args) == 2: //nolint:mnd // positional arg
		return task.ParseStatus(args[1])
	case next:
		if idx < 0 || idx >= len(task.Statuses)-1 {
			return 0, clierr.Newf(clierr.InvalidStatus, "task %d is already at the last status (%s)", t.ID, t.Status.Slug())
		}
		return task.Statuses[idx+1], nil
	case prev:
		if idx <= 0 {
			return 0, clierr.Newf(clierr.InvalidStatus, "task %d is already at the first status (%s)", t.ID, t.Status.Slug())
		}
		return task.Statuses[idx-1], nil
	default:
		return 0, clierr.New(clierr.InvalidInput, "provide a target status or use --next/--prev")
	}
}
