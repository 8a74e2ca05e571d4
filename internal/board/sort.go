package board

import (
	"sort"
	"strings"

	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Sort fields.
const (
	FieldID          = "id"
	FieldPriority    = "priority"
	FieldDue         = "due"
	FieldCreated     = "created"
	FieldProgress    = "progress"
	FieldDescription = "description"
)

// SortFields lists the accepted sort fields.
var SortFields = []string{FieldPriority, FieldDue, FieldCreated, FieldProgress, FieldDescription, FieldID}

// ValidateSortField rejects unknown sort fields.
func ValidateSortField(field string) error {
	if contains(SortFields, field) {
		return nil
	}
	return clierr.Newf(clierr.InvalidInput, "invalid sort field %q", field).
		WithDetails(map[string]any{"field": field, "allowed": SortFields})
}

// Sort orders tasks by field. The "priority" order matches the store:
// highest first, then earliest due date with undated tasks last.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return less(tasks[j], tasks[i], field)
		}
		return less(tasks[i], tasks[j], field)
	})
}

func less(a, b *task.Task, field string) bool {
	switch field {
	case FieldPriority:
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		fallthrough
	case FieldDue:
		if c := compareDue(a, b); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	case FieldCreated:
		return a.CreatedAt.Before(b.CreatedAt)
	case FieldProgress:
		return a.Progress < b.Progress
	case FieldDescription:
		return strings.ToLower(a.Description) < strings.ToLower(b.Description)
	default:
		return a.ID < b.ID
	}
}

// compareDue orders by due date with nil last.
func compareDue(a, b *task.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	case a.DueDate.Before(*b.DueDate):
		return -1
	case b.DueDate.Before(*a.DueDate):
		return 1
	default:
		return 0
	}
}
