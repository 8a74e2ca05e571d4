package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, now))
	}
}

// TaskDetailCompact renders a single task with links and children in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, children []*task.Task, now time.Time) {
	fmt.Fprintln(w, formatTaskLine(t, now))
	fmt.Fprintln(w, "  created:"+t.CreatedAt.Format("2006-01-02"))
	for _, l := range t.Links {
		fmt.Fprintln(w, "  link:"+l)
	}
	for _, c := range children {
		fmt.Fprintln(w, "  "+formatTaskLine(c, now))
	}
}

// OverviewCompact renders aggregate counts in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%d tasks (%d completed, %d overdue)\n", s.TotalTasks, s.Completed, s.Overdue)

	for _, ss := range s.Statuses {
		line := "  " + ss.Status + ": " + strconv.Itoa(ss.Count)
		if ss.Overdue > 0 {
			line += " (" + strconv.Itoa(ss.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, strings.ToLower(pc.Priority)+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, now time.Time) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := "#" + strconv.Itoa(t.ID) + " " + check + " [" + t.Status.Slug() + "/" +
		strings.ToLower(t.Priority.String()) + "] " + t.Description

	if t.ParentID != nil {
		line += " ^" + strconv.Itoa(*t.ParentID)
	}
	if t.DueDate != nil {
		line += " due:" + t.DueDate.Format("2006-01-02T15:04")
		if t.IsOverdue(now) {
			line += "!"
		}
	}
	if t.Progress > 0 {
		line += " " + strconv.Itoa(t.Progress) + "%"
	}
	if len(t.Links) > 0 {
		line += " links:" + strconv.Itoa(len(t.Links))
	}

	return line
}
