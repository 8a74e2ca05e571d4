// Package session is the interactive controller: it owns the UI state and
// turns input events into state transitions, driving the tracker for every
// mutation. It knows nothing about the terminal toolkit.
package session

import "github.com/twiced-technology-gmbh/teminder/internal/task"

// View is one mode of the session.
type View int

// Views. ViewList is the initial view.
const (
	ViewList View = iota
	ViewAddTask
	ViewEditTask
	ViewAddSubtask
	ViewDeleteConfirm
	ViewHelp
	ViewAISuggestions
	ViewSettings
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewAddTask:
		return "add"
	case ViewEditTask:
		return "edit"
	case ViewAddSubtask:
		return "add-subtask"
	case ViewDeleteConfirm:
		return "delete-confirm"
	case ViewHelp:
		return "help"
	case ViewAISuggestions:
		return "ai-suggestions"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// IsDialog reports whether v edits a Form.
func (v View) IsDialog() bool {
	return v == ViewAddTask || v == ViewEditTask || v == ViewAddSubtask
}

// DeleteTarget is the task awaiting delete confirmation.
type DeleteTarget struct {
	ID          int
	Description string
}

// AIResult is the text shown in ViewAISuggestions.
type AIResult struct {
	Title string
	Body  string
}

// Progress is the last step reported by a mutation.
type Progress struct {
	Label   string
	Percent int
}

// State is the whole session. Handle never mutates the State it is given.
type State struct {
	View          View
	Tasks         []*task.Task
	Selected      int
	ShowCompleted bool
	Message       string

	Form     *Form         // set in dialog views
	Confirm  *DeleteTarget // set in ViewDeleteConfirm
	Result   *AIResult     // set in ViewAISuggestions
	Progress *Progress     // last mutation's final step, cleared by the next event

	Quit bool
}

// Current returns the selected task, or nil when the list is empty.
func (s State) Current() *task.Task {
	if s.Selected < 0 || s.Selected >= len(s.Tasks) {
		return nil
	}
	return s.Tasks[s.Selected]
}

// Completed counts completed tasks in the visible list.
func (s State) Completed() int {
	return task.CountCompleted(s.Tasks)
}

// clampSelection keeps Selected within [0, max(0, len(Tasks)-1)].
func (s State) clampSelection() State {
	switch {
	case len(s.Tasks) == 0 || s.Selected < 0:
		s.Selected = 0
	case s.Selected >= len(s.Tasks):
		s.Selected = len(s.Tasks) - 1
	}
	return s
}

// toList leaves any sub-view and drops its payload.
func (s State) toList() State {
	s.View = ViewList
	s.Form = nil
	s.Confirm = nil
	s.Result = nil
	return s
}
