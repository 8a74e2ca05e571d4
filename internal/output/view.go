package output

import (
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// TaskView is the JSON shape of a task: enums as names, overdue precomputed.
type TaskView struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Overdue     bool       `json:"overdue"`
	Progress    int        `json:"progress"`
	ParentID    *int       `json:"parent_id,omitempty"`
	Links       []string   `json:"links"`
	Tags        []int      `json:"tags,omitempty"`
}

// View projects t for JSON output.
func View(t *task.Task, now time.Time) *TaskView {
	links := t.Links
	if links == nil {
		links = []string{}
	}
	return &TaskView{
		ID:          t.ID,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority.String(),
		Status:      t.Status.Slug(),
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		Overdue:     t.IsOverdue(now),
		Progress:    t.Progress,
		ParentID:    t.ParentID,
		Links:       links,
		Tags:        t.Tags,
	}
}

// Views projects a list.
func Views(tasks []*task.Task, now time.Time) []*TaskView {
	out := make([]*TaskView, len(tasks))
	for i, t := range tasks {
		out[i] = View(t, now)
	}
	return out
}
