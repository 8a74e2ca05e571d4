package cmd

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/date"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
	"github.com/twiced-technology-gmbh/teminder/internal/tracker"
)

var editCmd = &cobra.Command{
	Use:   "edit ID[,ID,...]",
	Short: "Edit a task",
	Long: `Modifies fields of an existing task. Only specified fields are changed.
--link adds a link; existing links are kept.
Multiple IDs can be provided as a comma-separated list.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	registerEditFlags(editCmd)
	rootCmd.AddCommand(editCmd)
}

func registerEditFlags(c *cobra.Command) {
	c.Flags().StringP("description", "d", "", "new description")
	c.Flags().StringP("priority", "p", "", "new priority (low, medium, high)")
	c.Flags().String("due", "", "new due date")
	c.Flags().Bool("clear-due", false, "remove the due date")
	c.Flags().String("link", "", "attach a link")
	c.Flags().Int("progress", 0, "new progress percentage (0-100)")
	c.Flags().Bool("done", false, "mark completed")
	c.Flags().Bool("undone", false, "mark not completed")
}

// editChanges is the parsed form of the edit flags.
type editChanges struct {
	description *string
	priority    *task.Priority
	due         *time.Time
	clearDue    bool
	link        string
	progress    *int
	completed   *bool
}

func (c editChanges) empty() bool {
	return c.description == nil && c.priority == nil && c.due == nil && !c.clearDue &&
		c.link == "" && c.progress == nil && c.completed == nil
}

// fields reports whether anything besides completion changes.
func (c editChanges) fields() bool {
	return c.description != nil || c.priority != nil || c.due != nil || c.clearDue ||
		c.link != "" || c.progress != nil
}

func parseEditFlags(cmd *cobra.Command) (editChanges, error) {
	var c editChanges
	flags := cmd.Flags()

	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		v = strings.TrimSpace(v)
		if err := task.ValidateDescription(v); err != nil {
			return c, err
		}
		c.description = &v
	}
	if v, _ := flags.GetString("priority"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			return c, err
		}
		c.priority = &p
	}

	c.clearDue, _ = flags.GetBool("clear-due")
	if v, _ := flags.GetString("due"); v != "" {
		if c.clearDue {
			return c, clierr.New(clierr.InvalidInput, "cannot use --due and --clear-due together")
		}
		d, err := date.Parse(v, time.Local)
		if err != nil {
			return c, task.ValidateDate(v, err)
		}
		c.due = &d
	}

	c.link, _ = flags.GetString("link")
	c.link = strings.TrimSpace(c.link)

	if flags.Changed("progress") {
		v, _ := flags.GetInt("progress")
		if err := task.ValidateProgress(v); err != nil {
			return c, err
		}
		c.progress = &v
	}

	done, _ := flags.GetBool("done")
	undone, _ := flags.GetBool("undone")
	switch {
	case done && undone:
		return c, clierr.New(clierr.InvalidInput, "cannot use --done and --undone together")
	case done, undone:
		c.completed = &done
	}

	if c.empty() {
		return c, clierr.New(clierr.NoChanges, "no changes specified")
	}
	return c, nil
}

// apply writes the field changes into t.
func (c editChanges) apply(t *task.Task) {
	if c.description != nil {
		t.Description = *c.description
	}
	if c.priority != nil {
		t.Priority = *c.priority
	}
	if c.clearDue {
		t.DueDate = nil
	}
	if c.due != nil {
		d := *c.due
		t.DueDate = &d
	}
	if c.progress != nil {
		t.Progress = *c.progress
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}
	changes, err := parseEditFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	// Single ID: full output.
	if len(ids) == 1 {
		t, err := executeEdit(ctx, a.svc, ids[0], changes)
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, output.View(t, time.Now()))
		}
		output.Messagef(os.Stdout, "Updated task #%d: %s", t.ID, t.Description)
		return nil
	}

	return runBatch(ids, func(id int) error {
		_, err := executeEdit(ctx, a.svc, id, changes)
		return err
	})
}

// executeEdit saves the field changes, then flips completion when asked.
func executeEdit(ctx context.Context, svc *tracker.Service, id int, c editChanges) (*task.Task, error) {
	current, err := svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t := current.Clone()

	if c.fields() {
		c.apply(t)
		if _, err := svc.Save(ctx, t, c.link, nil); err != nil {
			return nil, err
		}
	}

	if c.completed != nil && *c.completed != t.Completed {
		return svc.Toggle(ctx, t)
	}
	if !c.fields() {
		return t, clierr.Newf(clierr.NoChanges, "task %d is already %s", id, strings.ToLower(t.CompletionLabel())).
			WithDetails(map[string]any{"id": id})
	}
	return t, nil
}
