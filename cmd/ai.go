package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Ask the local Ollama model about tasks",
	Long:  `AI helpers backed by the Ollama server configured under ai.*.`,
}

var aiSuggestCmd = &cobra.Command{
	Use:   "suggest ID",
	Short: "Suggest next steps for a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAISuggest,
}

var aiSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the task list",
	Args:  cobra.NoArgs,
	RunE:  runAISummary,
}

var aiBreakdownCmd = &cobra.Command{
	Use:   "breakdown ID",
	Short: "Break a task into 3-5 steps",
	Long: `Asks the model to split a task into steps. With --create each step is
added as a subtask that inherits the task's priority.`,
	Args: cobra.ExactArgs(1),
	RunE: runAIBreakdown,
}

func init() {
	aiSummaryCmd.Flags().BoolP("all", "a", false, "include completed tasks")
	aiBreakdownCmd.Flags().Bool("create", false, "create the steps as subtasks")
	aiCmd.AddCommand(aiSuggestCmd, aiSummaryCmd, aiBreakdownCmd)
	rootCmd.AddCommand(aiCmd)
}

func runAISuggest(cmd *cobra.Command, args []string) error {
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

	if err := a.requireAI(); err != nil {
		return err
	}
	t, err := a.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return printAIText(a.ai.Suggest(ctx, t))
}

func runAISummary(cmd *cobra.Command, _ []string) error {
	all, _ := cmd.Flags().GetBool("all")

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	if err := a.requireAI(); err != nil {
		return err
	}
	tasks, err := a.db.ListAll(ctx, all)
	if err != nil {
		return err
	}
	return printAIText(a.ai.Summarize(ctx, tasks))
}

func runAIBreakdown(cmd *cobra.Command, args []string) error {
	id, err := task.ParseID(args[0])
	if err != nil {
		return err
	}
	create, _ := cmd.Flags().GetBool("create")

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	if err := a.requireAI(); err != nil {
		return err
	}
	parent, err := a.svc.Get(ctx, id)
	if err != nil {
		return err
	}

	steps := a.ai.BreakDown(ctx, parent)
	if len(steps) == 1 && strings.HasPrefix(steps[0], "Error: ") {
		return clierr.New(clierr.InternalError, steps[0])
	}

	var created []*task.Task
	if create {
		for _, step := range steps {
			pid := parent.ID
			sub := &task.Task{Description: step, Priority: parent.Priority, Status: task.New, ParentID: &pid}
			if _, err := a.svc.Save(ctx, sub, "", nil); err != nil {
				return fmt.Errorf("creating subtask %q: %w", step, err)
			}
			created = append(created, sub)
		}
	}

	if outputFormat() == output.FormatJSON {
		resp := map[string]any{"task_id": parent.ID, "steps": steps}
		if create {
			ids := make([]int, len(created))
			for i, c := range created {
				ids[i] = c.ID
			}
			resp["created"] = ids
		}
		return output.JSON(os.Stdout, resp)
	}

	for i, step := range steps {
		if create {
			fmt.Fprintf(os.Stdout, "%d. %s (#%d)\n", i+1, step, created[i].ID)
			continue
		}
		fmt.Fprintf(os.Stdout, "%d. %s\n", i+1, step)
	}
	return nil
}

// printAIText writes model output as JSON {text}, raw text in compact mode,
// or rendered markdown.
func printAIText(text string) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, map[string]string{"text": text})
	case output.FormatCompact:
		fmt.Fprintln(os.Stdout, text)
		return nil
	}

	style := "auto"
	if colorDisabled() {
		style = "notty"
	}
	output.Markdown(os.Stdout, text, style)
	return nil
}
