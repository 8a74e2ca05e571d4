package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/ai"
	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/sheets"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
	"github.com/twiced-technology-gmbh/teminder/internal/tracker"
)

// Tasks is the persistence pipeline the controller drives.
// *tracker.Service satisfies it.
type Tasks interface {
	Reload(ctx context.Context, includeCompleted bool) ([]*task.Task, error)
	Save(ctx context.Context, t *task.Task, link string, progress tracker.ProgressFunc) (int, error)
	Toggle(ctx context.Context, t *task.Task) (*task.Task, error)
	Delete(ctx context.Context, id int) ([]int, error)
	Children(ctx context.Context, id int) ([]*task.Task, error)
}

var _ Tasks = (*tracker.Service)(nil)

// Options configures a Controller. Nil collaborators select the disabled
// implementations.
type Options struct {
	AI         ai.Assistant
	Exporter   sheets.Exporter
	Logger     *slog.Logger
	Now        func() time.Time
	Location   *time.Location
	OnProgress tracker.ProgressFunc
}

// Controller maps (State, Event) to the next State. Every call it makes is
// synchronous; it is meant to be driven from a single event loop.
type Controller struct {
	tasks      Tasks
	ai         ai.Assistant
	exporter   sheets.Exporter
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
	onProgress tracker.ProgressFunc
}

// New creates a Controller over tasks.
func New(tasks Tasks, opts Options) *Controller {
	c := &Controller{
		tasks:      tasks,
		ai:         opts.AI,
		exporter:   opts.Exporter,
		logger:     opts.Logger,
		now:        opts.Now,
		loc:        opts.Location,
		onProgress: opts.OnProgress,
	}
	if c.ai == nil {
		c.ai = ai.Disabled{}
	}
	if c.exporter == nil {
		c.exporter = sheets.Disabled{}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	return c
}

// SetAI swaps the assistant, e.g. after a config reload.
func (c *Controller) SetAI(a ai.Assistant) {
	if a == nil {
		a = ai.Disabled{}
	}
	c.ai = a
}

// SetExporter swaps the spreadsheet exporter.
func (c *Controller) SetExporter(e sheets.Exporter) {
	if e == nil {
		e = sheets.Disabled{}
	}
	c.exporter = e
}

// Now returns the controller clock.
func (c *Controller) Now() time.Time { return c.now() }

// Init returns the initial List state with the task list loaded.
func (c *Controller) Init(ctx context.Context, showCompleted bool) State {
	return c.Reload(ctx, State{View: ViewList, ShowCompleted: showCompleted})
}

// Reload replaces the task list with a fresh store query and re-clamps the
// selection. A failed query leaves an empty list and a message.
func (c *Controller) Reload(ctx context.Context, s State) State {
	s, _ = c.reload(ctx, s)
	return s
}

func (c *Controller) reload(ctx context.Context, s State) (State, bool) {
	tasks, err := c.tasks.Reload(ctx, s.ShowCompleted)
	if err != nil {
		c.logger.Warn("reload", "error", err)
		s.Tasks = nil
		s.Message = msgLoadFailed
		return s.clampSelection(), false
	}
	s.Tasks = tasks
	return s.clampSelection(), true
}

// Handle applies ev to s and returns the next state.
func (c *Controller) Handle(ctx context.Context, s State, ev Event) State {
	s.Progress = nil
	switch s.View {
	case ViewList:
		return c.handleList(ctx, s, ev)
	case ViewAddTask, ViewEditTask, ViewAddSubtask:
		return c.handleDialog(ctx, s, ev)
	case ViewDeleteConfirm:
		return c.handleDeleteConfirm(ctx, s, ev)
	case ViewSettings:
		return c.handleSettings(ctx, s, ev)
	case ViewAISuggestions:
		s = s.toList()
		s.Message = ""
		return s
	case ViewHelp:
		return s.toList()
	default:
		return s.toList()
	}
}

// Line renders the list line for t, looking up its children. A failed
// lookup drops the completion ratio.
func (c *Controller) Line(ctx context.Context, t *task.Task) string {
	children, err := c.tasks.Children(ctx, t.ID)
	if err != nil {
		c.logger.Debug("children lookup", "id", t.ID, "error", err)
		children = nil
	}
	return FormatTask(t, children, c.now())
}

// progress returns a ProgressFunc that records the last step into s and
// forwards every step to the OnProgress hook.
func (c *Controller) progress(s *State, label string) tracker.ProgressFunc {
	return func(pct int, step string) {
		s.Progress = &Progress{Label: label, Percent: pct}
		if c.onProgress != nil {
			c.onProgress(pct, step)
		}
	}
}
