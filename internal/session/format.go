package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// FormatTask renders the list line for t. children are t's direct subtasks;
// an empty slice omits the completion ratio. The result depends only on the
// arguments.
func FormatTask(t *task.Task, children []*task.Task, now time.Time) string {
	var b strings.Builder

	if t.Completed {
		b.WriteString("[✓] ")
	} else {
		b.WriteString("[ ] ")
	}
	b.WriteString(t.Priority.Marker())
	b.WriteString(t.Description)

	if t.DueDate != nil {
		b.WriteString(" (Due: ")
		b.WriteString(t.DueString())
		if t.IsOverdue(now) {
			b.WriteString(" - OVERDUE!")
		}
		b.WriteString(")")
	}
	if n := len(t.Links); n > 0 {
		b.WriteString(" 🔗")
		b.WriteString(strconv.Itoa(n))
	}
	if t.IsSubtask() {
		b.WriteString(" [subtask]")
	}
	if len(children) > 0 {
		b.WriteString(" [")
		b.WriteString(strconv.Itoa(task.CountCompleted(children)))
		b.WriteString("/")
		b.WriteString(strconv.Itoa(len(children)))
		b.WriteString(" subtasks]")
	}
	if t.Progress > 0 {
		b.WriteString(" [")
		b.WriteString(strconv.Itoa(t.Progress))
		b.WriteString("%]")
	}
	return b.String()
}
