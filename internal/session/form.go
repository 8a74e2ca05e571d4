package session

import (
	"strconv"
	"unicode/utf8"

	"github.com/twiced-technology-gmbh/teminder/internal/date"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Field is one editable input of a dialog, in tab order.
type Field int

// Fields.
const (
	FieldDescription Field = iota
	FieldDue
	FieldLink
	FieldProgress

	fieldCount = 4
)

// Fields lists every field in tab order.
var Fields = []Field{FieldDescription, FieldDue, FieldLink, FieldProgress}

// Label returns the field's display name.
func (f Field) Label() string {
	switch f {
	case FieldDescription:
		return "Description"
	case FieldDue:
		return "Due Date"
	case FieldLink:
		return "Link"
	case FieldProgress:
		return "Progress"
	default:
		return ""
	}
}

const progressStep = 5

// Form holds the input buffers of the add, edit, and subtask dialogs.
type Form struct {
	Description string
	Due         string
	Link        string
	Priority    task.Priority
	Progress    int
	Active      Field

	// target is a copy of the task being edited; nil when creating.
	target *task.Task
	// parent is the selection the subtask dialog was opened on.
	parent *task.Task
}

// newForm returns empty buffers with Medium priority.
func newForm() *Form {
	return &Form{Priority: task.Medium}
}

// editForm pre-fills buffers from t. The link buffer starts empty because a
// saved link is appended, never replaced.
func editForm(t *task.Task) *Form {
	f := &Form{
		Description: t.Description,
		Priority:    t.Priority,
		Progress:    t.Progress,
		target:      t.Clone(),
	}
	if t.DueDate != nil {
		f.Due = date.FormatInput(*t.DueDate)
	}
	return f
}

// subtaskForm returns empty buffers for a subtask of parent, inheriting its
// priority.
func subtaskForm(parent *task.Task) *Form {
	return &Form{Priority: parent.Priority, parent: parent.Clone()}
}

// Target returns the task being edited, or nil.
func (f *Form) Target() *task.Task { return f.target }

// Parent returns the parent of the subtask being created, or nil.
func (f *Form) Parent() *task.Task { return f.parent }

func (f *Form) clone() *Form {
	c := *f
	return &c
}

// Next moves the cursor to the following field, wrapping around.
func (f *Form) Next() {
	f.Active = (f.Active + 1) % fieldCount
}

// Type applies a printable character to the active field. '+' and '-'
// adjust priority on the description field and progress on the progress
// field; everywhere else they are literal.
func (f *Form) Type(r rune) {
	switch {
	case r == '+' && f.Active == FieldDescription:
		f.Priority = (f.Priority + 1).Clamp()
	case r == '-' && f.Active == FieldDescription:
		f.Priority = (f.Priority - 1).Clamp()
	case r == '+' && f.Active == FieldProgress:
		f.Progress = task.ClampProgress(f.Progress + progressStep)
	case r == '-' && f.Active == FieldProgress:
		f.Progress = task.ClampProgress(f.Progress - progressStep)
	case f.Active == FieldProgress:
		f.typeDigit(r)
	default:
		if p := f.buffer(); p != nil {
			*p += string(r)
		}
	}
}

// typeDigit appends a decimal digit to the progress value. A digit that
// would push the value past 100 is ignored.
func (f *Form) typeDigit(r rune) {
	if r < '0' || r > '9' {
		return
	}
	next := f.Progress*10 + int(r-'0') //nolint:mnd // base 10
	if next > task.MaxProgress {
		return
	}
	f.Progress = next
}

// Backspace removes the last character of the active text field.
func (f *Form) Backspace() {
	p := f.buffer()
	if p == nil || *p == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(*p)
	*p = (*p)[:len(*p)-size]
}

// Value returns the display text of a field.
func (f *Form) Value(field Field) string {
	switch field {
	case FieldDescription:
		return f.Description
	case FieldDue:
		return f.Due
	case FieldLink:
		return f.Link
	case FieldProgress:
		return strconv.Itoa(f.Progress) + "%"
	default:
		return ""
	}
}

func (f *Form) buffer() *string {
	switch f.Active {
	case FieldDescription:
		return &f.Description
	case FieldDue:
		return &f.Due
	case FieldLink:
		return &f.Link
	default:
		return nil
	}
}
