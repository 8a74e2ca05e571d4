package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Default prompt preambles.
const (
	DefaultSuggestionPrompt = "You are a helpful task management assistant. " +
		"Analyze the following task and suggest the next actionable steps to complete it. " +
		"Be concise and practical."
	DefaultSummaryPrompt = "You are a helpful task management assistant. " +
		"Summarize the following tasks and provide a brief overview of what needs to be done. " +
		"Highlight any overdue or high-priority items."
)

const breakDownPreamble = "You are a task management assistant. Break down the following task into " +
	"3-5 smaller, actionable sub-tasks. Format your response as a numbered list.\n\n"

// SuggestionPrompt builds the prompt asking for next steps on t.
func SuggestionPrompt(preamble string, t *task.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Task: %s\n", t.Description)
	fmt.Fprintf(&b, "Priority: %s\n", t.Priority)
	if t.DueDate != nil {
		fmt.Fprintf(&b, "Due Date: %s\n", t.DueString())
	}
	if t.IsOverdue(now) {
		b.WriteString("Status: OVERDUE!\n")
	}
	b.WriteString("\nPlease suggest specific, actionable next steps:")
	return b.String()
}

// SummaryPrompt builds the prompt asking for an overview of tasks.
func SummaryPrompt(preamble string, tasks []*task.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\nHere are the tasks to summarize:\n\n")
	b.WriteString(FormatTasks(tasks, now))
	b.WriteString("\nPlease provide a concise summary and recommendations:")
	return b.String()
}

// BreakDownPrompt builds the prompt asking for sub-steps of t.
func BreakDownPrompt(t *task.Task) string {
	return breakDownPreamble +
		"Task: " + t.Description + "\n" +
		"Priority: " + t.Priority.String() + "\n\n" +
		"Sub-tasks:"
}

// FormatTasks renders tasks as a numbered list for a prompt.
func FormatTasks(tasks []*task.Task, now time.Time) string {
	var b strings.Builder
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d. %s [Priority: %s]", i+1, t.Description, t.Priority)
		if t.DueDate != nil {
			fmt.Fprintf(&b, " [Due: %s]", t.DueString())
		}
		switch {
		case t.Completed:
			b.WriteString(" [Status: Completed]")
		case t.IsOverdue(now):
			b.WriteString(" [Status: OVERDUE]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseSteps splits a numbered or bulleted list into its items.
func ParseSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 2 && (isDigit(line[0]) || line[0] == '-' || line[0] == '*') {
			line = strings.TrimLeft(line, "0123456789.-*) \t")
		}
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
