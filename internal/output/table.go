package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/cache"
	"github.com/twiced-technology-gmbh/teminder/internal/date"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	// Status colors aligned with the TUI palette.
	statusStyles = map[string]lipgloss.Style{
		task.New.Slug():        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.InProgress.Slug(): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.OnHold.Slug():     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.Canceled.Slug():   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		task.Done.Slug():       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[string]lipgloss.Style{
		task.High.String():   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.Medium.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.Low.String():    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	overdueStyle = lipgloss.NewStyle()
	linkStyle = lipgloss.NewStyle()
	doneStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	const maxDesc = 50
	idW, statusW, prioW, descW, dueW := 4, 8, 10, 13, 18
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		statusW = max(statusW, len(t.Status.Slug())+pad)
		descW = max(descW, min(lipgloss.Width(t.Description)+pad, maxDesc))
	}

	header := fmt.Sprintf("%-*s %-3s %-*s %-*s %-*s %-*s %s",
		idW, "ID", "", statusW, "STATUS", prioW, "PRIORITY",
		descW, "DESCRIPTION", dueW, "DUE", "PROGRESS")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = doneStyle.Render("[✓]")
		}
		desc := truncate(t.Description, maxDesc-pad)
		if t.IsSubtask() {
			desc = truncate("↳ "+t.Description, maxDesc-pad)
		}
		row := fmt.Sprintf("%-*d %s %s %s %s %s %s",
			idW, t.ID,
			check,
			padRight(styledValue(t.Status.Slug(), statusStyles), statusW),
			padRight(styledValue(t.Priority.String(), priorityStyles), prioW),
			padRight(desc, descW),
			padRight(dueDisplay(t, now), dueW),
			progressDisplay(t.Progress))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail and its direct children.
func TaskDetail(w io.Writer, t *task.Task, children []*task.Task, now time.Time) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Description)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Status", styledValue(t.Status.Slug(), statusStyles))
	printField(w, "Completed", t.CompletionLabel())
	printField(w, "Priority", styledValue(t.Priority.String(), priorityStyles))
	printField(w, "Due", dueDisplay(t, now))
	printField(w, "Progress", progressDisplay(t.Progress))
	printField(w, "Created", date.Format(t.CreatedAt))
	if t.ParentID != nil {
		printField(w, "Parent", "#"+strconv.Itoa(*t.ParentID))
	}

	if len(t.Links) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Links"))
		for _, l := range t.Links {
			fmt.Fprintln(w, "  "+linkStyle.Render(l))
		}
	}

	if len(children) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Subtasks [%d/%d]",
			task.CountCompleted(children), len(children))))
		for _, c := range children {
			fmt.Fprintln(w, "  "+formatTaskLine(c, now))
		}
	}
}

// OverviewTable renders aggregate counts as a small dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "Total: %d tasks (%d completed, %d overdue, %d subtasks)\n\n",
		s.TotalTasks, s.Completed, s.Overdue, s.Subtasks)

	const colW = 16
	header := fmt.Sprintf("%-*s %6s %8s", colW, "STATUS", "COUNT", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, ss := range s.Statuses {
		slug := strings.ReplaceAll(strings.ToLower(ss.Status), " ", "-")
		fmt.Fprintf(w, "%s %6d %8d\n",
			padRight(styledValue(slug, statusStyles), colW), ss.Count, ss.Overdue)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", colW, "PRIORITY", "COUNT")))
	for _, pc := range s.Priorities {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(pc.Priority, priorityStyles), colW), pc.Count)
	}
}

// LogTable renders activity log entries oldest first.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	for _, e := range entries {
		id := dimStyle.Render("--")
		if e.TaskID > 0 {
			id = "#" + strconv.Itoa(e.TaskID)
		}
		fmt.Fprintf(w, "%s  %-9s %-6s %s\n",
			dimStyle.Render(date.Format(e.Timestamp)), e.Action, id, e.Detail)
	}
}

// CacheStats renders cache backend counters.
func CacheStats(w io.Writer, s cache.Stats) {
	printField(w, "Backend", s.Backend)
	if s.Addr != "" {
		printField(w, "Address", s.Addr)
	}
	printField(w, "Hits", strconv.FormatInt(s.Hits, 10))
	printField(w, "Misses", strconv.FormatInt(s.Misses, 10))
	printField(w, "Errors", strconv.FormatInt(s.Errors, 10))
	printField(w, "Hit rate", fmt.Sprintf("%.0f%%", s.HitRate()*100)) //nolint:mnd // percent
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func dueDisplay(t *task.Task, now time.Time) string {
	if t.DueDate == nil {
		return dimStyle.Render("--")
	}
	if t.IsOverdue(now) {
		return overdueStyle.Render(t.DueString() + " !")
	}
	return t.DueString()
}

func progressDisplay(p int) string {
	if p == 0 {
		return dimStyle.Render("--")
	}
	return strconv.Itoa(p) + "%"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	const ellipsis = "..."
	if n <= len(ellipsis) {
		return string(r[:n])
	}
	return string(r[:n-len(ellipsis)]) + ellipsis
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
