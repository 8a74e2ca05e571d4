// Package task defines the task record and the facts derived from it.
package task

import (
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/date"
)

// Task is one unit of work, optionally nested under a parent task.
type Task struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    int        `json:"progress"`
	ParentID    *int       `json:"parent_id,omitempty"`
	Links       []string   `json:"links,omitempty"`
	Tags        []int      `json:"tags,omitempty"`
}

// MaxProgress is the upper bound for Progress.
const MaxProgress = 100

// IsOverdue reports whether the task has a due date before now and is not
// completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(now)
}

// IsSubtask reports whether the task has a parent.
func (t *Task) IsSubtask() bool {
	return t.ParentID != nil
}

// DueString returns the formatted due date, or "No due date".
func (t *Task) DueString() string {
	if t.DueDate == nil {
		return "No due date"
	}
	return date.Format(*t.DueDate)
}

// CompletionLabel returns "Completed" or "Pending".
func (t *Task) CompletionLabel() string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

// HasLink reports whether url is already attached to the task.
func (t *Task) HasLink(url string) bool {
	for _, l := range t.Links {
		if l == url {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of t.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	c.Links = append([]string(nil), t.Links...)
	c.Tags = append([]int(nil), t.Tags...)
	return &c
}

// ClampProgress limits n to [0, MaxProgress].
func ClampProgress(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxProgress:
		return MaxProgress
	default:
		return n
	}
}

// CountCompleted returns how many of tasks are completed.
func CountCompleted(tasks []*Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
