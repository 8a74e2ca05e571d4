package session

import (
	"context"
	"strings"

	"github.com/twiced-technology-gmbh/teminder/internal/date"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

func (c *Controller) handleDialog(ctx context.Context, s State, ev Event) State {
	if s.Form == nil {
		return s.toList()
	}
	// Copy so the caller's State keeps its buffers.
	s.Form = s.Form.clone()

	switch ev.Key {
	case KeyEscape:
		msg := dialogText(s.View, msgAddCancelled, msgEditCancelled, msgSubtaskCancel)
		s = s.toList()
		s.Message = msg
	case KeyEnter:
		return c.save(ctx, s)
	case KeyTab:
		s.Form.Next()
	case KeyBackspace:
		s.Form.Backspace()
	case KeyRune:
		s.Form.Type(ev.Rune)
	}
	return s
}

// save validates the form and runs it through the pipeline. Validation
// failures keep the dialog open with its buffers; a store failure returns
// to the list with a message.
func (c *Controller) save(ctx context.Context, s State) State {
	f := s.Form

	if strings.TrimSpace(f.Description) == "" {
		s.Message = pick(s.View == ViewAddSubtask, msgEmptySubtask, msgEmptyDescription)
		return s
	}

	var parent *task.Task
	if s.View == ViewAddSubtask {
		// The selection captured when the dialog opened; a reload while the
		// dialog is up may reorder the list.
		if parent = f.Parent(); parent == nil {
			s.Message = msgNoParent
			return s
		}
	}

	t := &task.Task{}
	if s.View == ViewEditTask && f.Target() != nil {
		t = f.Target().Clone()
	}
	t.Description = f.Description
	t.Priority = f.Priority
	t.Progress = f.Progress
	t.DueDate = nil
	if strings.TrimSpace(f.Due) != "" {
		d, err := date.Parse(f.Due, c.loc)
		if err != nil {
			s.Message = msgInvalidDate
			return s
		}
		t.DueDate = &d
	}
	if parent != nil {
		pid := parent.ID
		t.ParentID = &pid
	}

	label := dialogText(s.View, msgProgressCreate, msgProgressUpdate, msgProgressSubtask)
	view := s.View
	_, err := c.tasks.Save(ctx, t, strings.TrimSpace(f.Link), c.progress(&s, label))
	s = s.toList()
	if err != nil {
		c.logger.Warn("save failed", "view", view.String(), "error", err)
		// The store may hold a partial write; the list still follows it.
		s, _ = c.reload(ctx, s)
		s.Message = dialogText(view, msgAddFailed, msgUpdateFailed, msgSubtaskFailed)
		return s
	}

	s, ok := c.reload(ctx, s)
	if ok {
		s.Message = dialogText(view, msgAdded, msgUpdated, msgSubtaskAdded)
	}
	return s
}

func (c *Controller) handleDeleteConfirm(ctx context.Context, s State, ev Event) State {
	target := s.Confirm
	s = s.toList()
	if target == nil || !(ev.is('y') || ev.is('Y')) {
		s.Message = msgDeleteCanceled
		return s
	}

	report := c.progress(&s, msgProgressDelete)
	report(0, "deleting")
	if _, err := c.tasks.Delete(ctx, target.ID); err != nil {
		c.logger.Warn("delete failed", "id", target.ID, "error", err)
		s.Message = msgDeleteFailed
		return s
	}
	report(100, "done") //nolint:mnd // percent

	s, ok := c.reload(ctx, s)
	if ok {
		s.Message = msgDeleted
	}
	return s
}

func (c *Controller) handleSettings(ctx context.Context, s State, ev Event) State {
	switch {
	case ev.Key == KeyEscape:
		s = s.toList()
		s.Message = msgSettingsClosed
	case ev.is('c'):
		return c.flipFilter(ctx, s, msgSettingsAll, msgSettingsActive)
	}
	return s
}

// dialogText picks the add, edit, or subtask variant of a message.
func dialogText(v View, add, edit, subtask string) string {
	switch v {
	case ViewEditTask:
		return edit
	case ViewAddSubtask:
		return subtask
	default:
		return add
	}
}
