package board

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses      []task.Status
	Priorities    []task.Priority
	Search        string // case-insensitive substring match across description and links
	Overdue       bool   // only overdue tasks, as of Now
	ParentID      *int   // nil=no filter, non-nil=only direct children of this task
	HideCompleted bool
	Now           time.Time
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []*task.Task, opts FilterOptions) []*task.Task {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	var result []*task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t *task.Task, opts FilterOptions) bool {
	if opts.HideCompleted && t.Completed {
		return false
	}
	if len(opts.Statuses) > 0 && !contains(opts.Statuses, t.Status) {
		return false
	}
	if len(opts.Priorities) > 0 && !contains(opts.Priorities, t.Priority) {
		return false
	}
	if opts.Overdue && !t.IsOverdue(opts.Now) {
		return false
	}
	if opts.ParentID != nil && (t.ParentID == nil || *t.ParentID != *opts.ParentID) {
		return false
	}
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	return true
}

func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, l := range t.Links {
		if strings.Contains(strings.ToLower(l), q) {
			return true
		}
	}
	return false
}

func contains[T comparable](slice []T, item T) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
