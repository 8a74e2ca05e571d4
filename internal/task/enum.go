package task

import (
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
)

// Priority orders tasks; higher values sort first.
type Priority int

// Priorities.
const (
	Low Priority = iota
	Medium
	High
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{Low, Medium, High}

func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}

// Clamp limits p to [Low, High].
func (p Priority) Clamp() Priority {
	if p < Low {
		return Low
	}
	if p > High {
		return High
	}
	return p
}

// Marker returns the colored dot shown in task lists.
func (p Priority) Marker() string {
	switch p {
	case High:
		return "🔴 "
	case Medium:
		return "🟡 "
	default:
		return "🟢 "
	}
}

// ParsePriority accepts a name (case-insensitive) or its numeric value.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, p.String()) || s == strconv.Itoa(int(p)) {
			return p, nil
		}
	}
	names := make([]string, len(Priorities))
	for i, p := range Priorities {
		names[i] = strings.ToLower(p.String())
	}
	return Low, clierr.Newf(clierr.InvalidPriority, "invalid priority %q", s).
		WithDetails(map[string]any{"priority": s, "allowed": names})
}

// Status is the workflow state of a task. It is tracked separately from
// Task.Completed.
type Status int

// Statuses.
const (
	New Status = iota
	InProgress
	OnHold
	Canceled
	Done
)

// Statuses lists every status in workflow order.
var Statuses = []Status{New, InProgress, OnHold, Canceled, Done}

func (s Status) String() string {
	switch s {
	case New:
		return "New"
	case InProgress:
		return "In Progress"
	case OnHold:
		return "On Hold"
	case Canceled:
		return "Canceled"
	case Done:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Slug returns the status name in its command-line form, e.g. "in-progress".
func (s Status) Slug() string {
	return strings.ReplaceAll(strings.ToLower(s.String()), " ", "-")
}

// ParseStatus accepts the display name, the slug, or the numeric value.
func ParseStatus(v string) (Status, error) {
	v = strings.TrimSpace(v)
	for _, s := range Statuses {
		if strings.EqualFold(v, s.String()) || strings.EqualFold(v, s.Slug()) || v == strconv.Itoa(int(s)) {
			return s, nil
		}
	}
	slugs := make([]string, len(Statuses))
	for i, s := range Statuses {
		slugs[i] = s.Slug()
	}
	return New, clierr.Newf(clierr.InvalidStatus, "invalid status %q", v).
		WithDetails(map[string]any{"status": v, "allowed": slugs})
}
