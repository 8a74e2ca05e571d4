package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/teminder/internal/session"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	activeFieldStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("226")).
				Bold(true)

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

const (
	cursor      = "█"
	labelWidth  = 10
	dialogWidth = 64
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state.View {
	case session.ViewAddTask, session.ViewEditTask, session.ViewAddSubtask:
		return m.place(m.viewDialog())
	case session.ViewDeleteConfirm:
		return m.place(m.viewDeleteConfirm())
	case session.ViewHelp:
		return m.place(m.viewHelp())
	case session.ViewAISuggestions:
		return m.viewAIResult()
	case session.ViewSettings:
		return m.place(m.viewSettings())
	default:
		return m.viewList()
	}
}

func (m *Model) place(dialog string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *Model) viewList() string {
	filter := "all tasks"
	if !m.state.ShowCompleted {
		filter = "active tasks"
	}
	header := headerStyle.Render("Teminder") + dimStyle.Render(fmt.Sprintf("  %d %s", len(m.state.Tasks), filter))

	rows := m.renderRows()
	// Pad so the status area stays at the bottom.
	if pad := m.visibleRows() - len(rows); pad > 0 {
		rows = append(rows, make([]string, pad)...)
	}

	parts := []string{header, ""}
	parts = append(parts, rows...)
	parts = append(parts, m.renderStatus())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderRows() []string {
	if len(m.lines) == 0 {
		return []string{dimStyle.Render("  No tasks. Press 'a' to add one.")}
	}
	now := m.ctrl.Now()
	end := min(len(m.lines), m.offset+m.visibleRows())
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		line := truncate(m.lines[i], m.width-2) //nolint:mnd // selection prefix
		t := m.state.Tasks[i]
		switch {
		case i == m.state.Selected:
			rows = append(rows, selectedStyle.Render("> "+line))
		case t.IsOverdue(now):
			rows = append(rows, "  "+overdueStyle.Render(line))
		case t.Completed:
			rows = append(rows, "  "+dimStyle.Render(line))
		default:
			rows = append(rows, "  "+line)
		}
	}
	return rows
}

// renderStatus draws the message line, the completion gauge (or the last
// mutation step), and the key help.
func (m *Model) renderStatus() string {
	msg := messageStyle.Render(truncate(firstLine(m.state.Message), m.width))

	var gauge string
	if p := m.state.Progress; p != nil {
		gauge = m.gauge.ViewAs(float64(p.Percent)/100) + " " + dimStyle.Render(p.Label) //nolint:mnd // percent
	} else {
		done, total := m.state.Completed(), len(m.state.Tasks)
		ratio := 0.0
		if total > 0 {
			ratio = float64(done) / float64(total)
		}
		gauge = m.gauge.ViewAs(ratio) + " " + dimStyle.Render(fmt.Sprintf("%d/%d completed", done, total))
	}

	return lipgloss.JoinVertical(lipgloss.Left, msg, gauge, statusBarStyle.Render(m.help.View(m.keys)))
}

func (m *Model) viewDialog() string {
	f := m.state.Form
	if f == nil {
		return ""
	}

	title := "Add Task"
	switch m.state.View {
	case session.ViewEditTask:
		title = "Edit Task"
	case session.ViewAddSubtask:
		title = "Add Subtask"
	}

	lines := []string{headerStyle.Render(title), ""}
	for _, field := range session.Fields {
		label := padRight(field.Label()+":", labelWidth)
		value := f.Value(field)
		if field == f.Active {
			lines = append(lines, activeFieldStyle.Render(label+" "+value+cursor))
			continue
		}
		lines = append(lines, label+" "+value)
	}
	lines = append(lines,
		padRight("Priority:", labelWidth)+" "+f.Priority.Marker()+f.Priority.String(),
		"",
		dimStyle.Render("Due date: YYYY-MM-DD or YYYY-MM-DD HH:MM"),
	)
	if m.state.Message != "" {
		lines = append(lines, "", wrap(m.state.Message, dialogWidth))
	}
	lines = append(lines, "", statusBarStyle.Render(m.help.View(m.dialogKeys)))

	return dialogStyle.Width(dialogWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewDeleteConfirm() string {
	c := m.state.Confirm
	if c == nil {
		return ""
	}
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  #%d: %s", c.ID, c.Description) + "\n\n" +
		dimStyle.Render("Subtasks are deleted too.") + "\n" +
		dimStyle.Render("y:yes  any other key:cancel")

	return dialogStyle.Render(content)
}

func (m *Model) viewHelp() string {
	content := headerStyle.Render("Keys") + "\n\n" +
		m.help.FullHelpView(m.keys.FullHelp()) + "\n\n" +
		headerStyle.Render("In dialogs") + "\n\n" +
		m.help.FullHelpView(m.dialogKeys.FullHelp()) + "\n\n" +
		dimStyle.Render("Priority: "+priorityLegend()) + "\n\n" +
		dimStyle.Render("Press any key to return")

	return dialogStyle.Render(content)
}

func (m *Model) viewAIResult() string {
	r := m.state.Result
	if r == nil {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(truncate(r.Title, m.width-2)), //nolint:mnd // header padding
		"",
		m.rendered,
		"",
		dimStyle.Render("Press any key to return"),
	)
}

func (m *Model) viewSettings() string {
	check := "[ ]"
	if m.state.ShowCompleted {
		check = "[x]"
	}
	content := headerStyle.Render("Settings") + "\n\n" +
		"  " + check + " Show completed tasks\n\n"
	if m.state.Message != "" {
		content += messageStyle.Render(m.state.Message) + "\n\n"
	}
	content += dimStyle.Render("c:toggle  esc:close")

	return dialogStyle.Render(content)
}

// renderMarkdown renders AI output. Rendering failures fall back to the
// raw text.
func (m *Model) renderMarkdown(body string) string {
	width := m.width - 2*dialogPadX
	if width < 20 { //nolint:mnd // narrow terminals
		width = dialogWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Debug("markdown renderer", "error", err)
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		m.logger.Debug("markdown render", "error", err)
		return body
	}
	return strings.Trim(out, "\n")
}

func priorityLegend() string {
	parts := make([]string, 0, len(task.Priorities))
	for i := len(task.Priorities) - 1; i >= 0; i-- {
		p := task.Priorities[i]
		parts = append(parts, p.Marker()+p.String())
	}
	return strings.Join(parts, "  ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func wrap(s string, width int) string {
	return lipgloss.NewStyle().Width(width - 2*dialogPadX).Render(s)
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	// Slice by runes to avoid breaking multi-byte UTF-8 characters.
	runes := []rune(s)
	target := maxLen - 3 //nolint:mnd // room for "..."
	if target > len(runes) {
		target = len(runes)
	}
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
