package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/teminder/internal/date"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create DESCRIPTION",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a task with the given description and optional fields.

A subtask (--parent) inherits its parent's priority unless --priority is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringP("priority", "p", "", "task priority (low, medium, high)")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD, YYYY-MM-DD HH:MM, or YYYY-MM-DDTHH:MM)")
	createCmd.Flags().String("link", "", "attach a link")
	createCmd.Flags().Int("progress", 0, "progress percentage (0-100)")
	createCmd.Flags().Int("parent", 0, "parent task ID")
	createCmd.Flags().String("status", "", "workflow status (default new)")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "url" {
			name = "link"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	t := &task.Task{Description: strings.TrimSpace(args[0]), Priority: task.Low, Status: task.New}
	if err := task.ValidateDescription(t.Description); err != nil {
		return err
	}
	if err := applyCreateFlags(cmd, t); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	if t.ParentID != nil {
		parent, err := a.svc.Get(ctx, *t.ParentID)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("priority") {
			t.Priority = parent.Priority
		}
	}

	link, _ := cmd.Flags().GetString("link")
	if _, err := a.svc.Save(ctx, t, strings.TrimSpace(link), nil); err != nil {
		return err
	}
	return outputCreateResult(t)
}

func outputCreateResult(t *task.Task) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, output.View(t, time.Now()))
	}

	output.Messagef(os.Stdout, "Created task #%d: %s", t.ID, t.Description)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", t.Status.Slug(), t.Priority)
	if t.DueDate != nil {
		output.Messagef(os.Stdout, "  Due: %s", t.DueString())
	}
	if t.ParentID != nil {
		output.Messagef(os.Stdout, "  Parent: #%d", *t.ParentID)
	}
	if len(t.Links) > 0 {
		output.Messagef(os.Stdout, "  Links: %s", strings.Join(t.Links, ", "))
	}
	return nil
}

func applyCreateFlags(cmd *cobra.Command, t *task.Task) error {
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		p, err := task.ParsePriority(v)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		s, err := task.ParseStatus(v)
		if err != nil {
			return err
		}
		t.Status = s
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		d, err := date.Parse(v, time.Local)
		if err != nil {
			return task.ValidateDate(v, err)
		}
		t.DueDate = &d
	}
	if cmd.Flags().Changed("progress") {
		v, _ := cmd.Flags().GetInt("progress")
		if err := task.ValidateProgress(v); err != nil {
			return err
		}
		t.Progress = v
	}
	if cmd.Flags().Changed("parent") {
		v, _ := cmd.Flags().GetInt("parent")
		if v < 1 {
			return task.ValidateTaskID(cmd.Flag("parent").Value.String())
		}
		t.ParentID = &v
	}
	return nil
}
