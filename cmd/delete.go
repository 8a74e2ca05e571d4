package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/tracker"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task and its subtasks",
	Long: `Permanently deletes a task together with all of its subtasks. Prompts for
confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	if len(ids) == 1 {
		return deleteSingleTask(ctx, a.svc, ids[0], yes)
	}

	return runBatch(ids, func(id int) error {
		_, err := a.svc.Delete(ctx, id)
		return err
	})
}

func deleteSingleTask(ctx context.Context, svc *tracker.Service, id int, yes bool) error {
	t, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return clierr.New(clierr.ConfirmationReq,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task #%d %q and its subtasks? [y/N] ", t.ID, t.Description)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	removed, err := svc.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed == nil {
		removed = []int{}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status":      "deleted",
			"id":          t.ID,
			"description": t.Description,
			"subtasks":    removed,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Description)
	if len(removed) > 0 {
		output.Messagef(os.Stdout, "  Also deleted %d subtasks", len(removed))
	}
	return nil
}
