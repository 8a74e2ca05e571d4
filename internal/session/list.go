package session

import (
	"context"
	"fmt"
)

func (c *Controller) handleList(ctx context.Context, s State, ev Event) State {
	switch ev.Key {
	case KeyUp:
		if s.Selected > 0 {
			s.Selected--
		}
		return s
	case KeyDown:
		if s.Selected < len(s.Tasks)-1 {
			s.Selected++
		}
		return s
	case KeyEscape:
		s.Quit = true
		return s
	case KeyRune:
	default:
		return s
	}

	switch ev.Rune {
	case 'q':
		s.Quit = true
	case 'a':
		s.View = ViewAddTask
		s.Form = newForm()
		s.Message = msgAddPrompt
	case 'e':
		return c.openEdit(s)
	case 'd':
		return c.openDelete(s)
	case 't':
		return c.openSubtask(s)
	case ' ':
		return c.toggle(ctx, s)
	case 'c':
		return c.flipFilter(ctx, s, msgShowAll, msgShowActive)
	case 's':
		return c.suggest(ctx, s)
	case 'S':
		return c.summarize(ctx, s)
	case 'g':
		s.View = ViewSettings
		s.Message = msgSettings
	case 'G':
		return c.export(ctx, s)
	case 'h':
		s.View = ViewHelp
	}
	return s
}

func (c *Controller) openEdit(s State) State {
	t := s.Current()
	if t == nil {
		s.Message = msgNoSelection
		return s
	}
	s.View = ViewEditTask
	s.Form = editForm(t)
	s.Message = msgEditPrompt
	return s
}

func (c *Controller) openSubtask(s State) State {
	parent := s.Current()
	if parent == nil {
		s.Message = msgNoSelection
		return s
	}
	s.View = ViewAddSubtask
	s.Form = subtaskForm(parent)
	s.Message = fmt.Sprintf(msgSubtaskPrompt, parent.Description)
	return s
}

func (c *Controller) openDelete(s State) State {
	t := s.Current()
	if t == nil {
		s.Message = msgNoSelection
		return s
	}
	s.View = ViewDeleteConfirm
	s.Confirm = &DeleteTarget{ID: t.ID, Description: t.Description}
	s.Message = fmt.Sprintf(msgDeletePrompt, t.Description)
	return s
}

func (c *Controller) toggle(ctx context.Context, s State) State {
	t := s.Current()
	if t == nil {
		s.Message = msgNoSelection
		return s
	}
	next, err := c.tasks.Toggle(ctx, t)
	if err != nil {
		c.logger.Warn("toggle failed", "id", t.ID, "error", err)
		s.Message = msgUpdateFailed
		return s
	}
	s, ok := c.reload(ctx, s)
	if ok {
		s.Message = pick(next.Completed, msgCompleted, msgPending)
	}
	return s
}

// flipFilter toggles show/hide completed and reloads.
func (c *Controller) flipFilter(ctx context.Context, s State, all, active string) State {
	s.ShowCompleted = !s.ShowCompleted
	s, ok := c.reload(ctx, s)
	if ok {
		s.Message = pick(s.ShowCompleted, all, active)
	}
	return s
}

func (c *Controller) suggest(ctx context.Context, s State) State {
	t := s.Current()
	if t == nil {
		s.Message = msgNoSelection
		return s
	}
	if !c.ai.Available() {
		s.Message = msgAIUnavailable
		return s
	}
	return showResult(s, msgSuggestTitle+t.Description, c.ai.Suggest(ctx, t))
}

func (c *Controller) summarize(ctx context.Context, s State) State {
	if !c.ai.Available() {
		s.Message = msgAIUnavailable
		return s
	}
	return showResult(s, msgSummaryTitle, c.ai.Summarize(ctx, s.Tasks))
}

func showResult(s State, title, body string) State {
	s.View = ViewAISuggestions
	s.Result = &AIResult{Title: title, Body: body}
	s.Message = title + "\n\n" + body
	return s
}

// export sends every task, completed or not, to the spreadsheet.
func (c *Controller) export(ctx context.Context, s State) State {
	if !c.exporter.Available() {
		s.Message = msgSheetsDisabled
		return s
	}
	all, err := c.tasks.Reload(ctx, true)
	if err != nil {
		s.Message = fmt.Sprintf(msgSyncFailed, err)
		return s
	}
	if err := c.exporter.Export(ctx, all); err != nil {
		c.logger.Warn("sheets export", "error", err)
		s.Message = fmt.Sprintf(msgSyncFailed, err)
		return s
	}
	c.logger.Info("sheets export", "tasks", len(all))
	s.Message = fmt.Sprintf(msgSynced, len(all))
	return s
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
