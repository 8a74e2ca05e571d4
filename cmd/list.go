package cmd

import (
	"context"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/output"
	"github.com/twiced-technology-gmbh/teminder/internal/store"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks in display order (priority, then due date, then ID) with
optional filtering, sorting, and output format control. Completed tasks are
hidden unless --all is given.`,
	RunE: runList,
}

func init() {
	registerListFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func registerListFlags(c *cobra.Command) {
	c.Flags().BoolP("all", "a", false, "include completed tasks")
	c.Flags().StringSlice("status", nil, "filter by status (comma-separated)")
	c.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	c.Flags().StringP("search", "s", "", "search descriptions and links (case-insensitive)")
	c.Flags().Bool("overdue", false, "show only overdue tasks")
	c.Flags().Int("parent", 0, "show only subtasks of this task ID")
	c.Flags().String("sort", "", "sort field (priority, due, created, progress, description, id)")
	c.Flags().BoolP("reverse", "r", false, "reverse sort order")
	c.Flags().IntP("limit", "n", 0, "limit number of results")
}

// listQuery is the parsed form of the list flags.
type listQuery struct {
	all        bool
	statuses   []task.Status
	priorities []task.Priority
	search     string
	overdue    bool
	parentID   *int
	sortBy     string
	reverse    bool
	limit      int
}

func parseListFlags(cmd *cobra.Command) (listQuery, error) {
	var q listQuery
	q.all, _ = cmd.Flags().GetBool("all")
	q.search, _ = cmd.Flags().GetString("search")
	q.overdue, _ = cmd.Flags().GetBool("overdue")
	q.sortBy, _ = cmd.Flags().GetString("sort")
	q.reverse, _ = cmd.Flags().GetBool("reverse")
	q.limit, _ = cmd.Flags().GetInt("limit")

	statuses, _ := cmd.Flags().GetStringSlice("status")
	for _, s := range statuses {
		st, err := task.ParseStatus(s)
		if err != nil {
			return q, err
		}
		q.statuses = append(q.statuses, st)
	}

	priorities, _ := cmd.Flags().GetStringSlice("priority")
	for _, s := range priorities {
		p, err := task.ParsePriority(s)
		if err != nil {
			return q, err
		}
		q.priorities = append(q.priorities, p)
	}

	if cmd.Flags().Changed("parent") {
		parentID, _ := cmd.Flags().GetInt("parent")
		q.parentID = &parentID
	}

	if q.sortBy != "" {
		if err := board.ValidateSortField(q.sortBy); err != nil {
			return q, err
		}
	}
	return q, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	q, err := parseListFlags(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	now := time.Now()
	tasks, err := queryTasks(ctx, a.db, q, now)
	if err != nil {
		return err
	}
	return outputTaskList(tasks, now)
}

// queryTasks narrows in SQL where a dedicated query exists and filters the
// rest in memory.
func queryTasks(ctx context.Context, db *store.DB, q listQuery, now time.Time) ([]*task.Task, error) {
	var (
		tasks []*task.Task
		err   error
	)
	switch {
	case q.overdue:
		tasks, err = db.ListOverdue(ctx, now)
	case len(q.priorities) == 1:
		tasks, err = db.ListByPriority(ctx, q.priorities[0], q.all)
	default:
		tasks, err = db.ListAll(ctx, q.all)
	}
	if err != nil {
		return nil, err
	}
	return applyListQuery(tasks, q, now), nil
}

func applyListQuery(tasks []*task.Task, q listQuery, now time.Time) []*task.Task {
	tasks = board.Filter(tasks, board.FilterOptions{
		Statuses:      q.statuses,
		Priorities:    q.priorities,
		Search:        q.search,
		Overdue:       q.overdue,
		ParentID:      q.parentID,
		HideCompleted: !q.all,
		Now:           now,
	})
	if q.sortBy != "" {
		board.Sort(tasks, q.sortBy, q.reverse)
	} else if q.reverse {
		slices.Reverse(tasks)
	}
	if q.limit > 0 && len(tasks) > q.limit {
		tasks = tasks[:q.limit]
	}
	return tasks
}

func outputTaskList(tasks []*task.Task, now time.Time) error {
	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, output.Views(tasks, now))
	}
	if format == output.FormatCompact {
		output.TaskCompact(os.Stdout, tasks, now)
		return nil
	}

	output.TaskTable(os.Stdout, tasks, now)
	return nil
}
