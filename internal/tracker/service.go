// Package tracker runs the persistence pipeline shared by the interactive
// session and the CLI: validate, write to the store, refresh the cache,
// record the activity.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/cache"
	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/store"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Store is the persistence the pipeline needs. *store.DB satisfies it.
type Store interface {
	Insert(ctx context.Context, t *task.Task) (int, error)
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*task.Task, error)
	ListAll(ctx context.Context, includeCompleted bool) ([]*task.Task, error)
	ListChildren(ctx context.Context, parentID int) ([]*task.Task, error)
	AttachLink(ctx context.Context, id int, url string) error
	Descendants(ctx context.Context, id int) ([]int, error)
}

var _ Store = (*store.DB)(nil)

// Save pipeline steps, reported to a ProgressFunc in this order.
const (
	StepValidating = 0
	StepSaved      = 30
	StepCached     = 70
	StepDone       = 100
)

// ProgressFunc receives pipeline steps as a percentage and a label.
type ProgressFunc func(percent int, step string)

// Options configures a Service. Zero values select a no-op cache, the
// default TTL, a discarding logger, and no activity log.
type Options struct {
	Cache   cache.Cache
	TTL     time.Duration
	Logger  *slog.Logger
	Journal board.Journal
	Now     func() time.Time
}

// Service applies task mutations to the store and keeps the cache in step.
// Cache failures are logged and never returned.
type Service struct {
	store   Store
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
	journal board.Journal
	now     func() time.Time
}

// New creates a Service over s.
func New(s Store, opts Options) *Service {
	svc := &Service{
		store:   s,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		logger:  opts.Logger,
		journal: opts.Journal,
		now:     opts.Now,
	}
	if svc.cache == nil {
		svc.cache = cache.Nop{}
	}
	if svc.ttl <= 0 {
		svc.ttl = cache.DefaultTTL
	}
	if svc.logger == nil {
		svc.logger = logging.Discard()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Now returns the service clock.
func (s *Service) Now() time.Time { return s.now() }

// Cache returns the cache backend.
func (s *Service) Cache() cache.Cache { return s.cache }

// Reload returns the full list, optionally without completed tasks.
func (s *Service) Reload(ctx context.Context, includeCompleted bool) ([]*task.Task, error) {
	tasks, err := s.store.ListAll(ctx, includeCompleted)
	if err != nil {
		s.logger.Warn("list tasks", "error", err)
		return nil, err
	}
	return tasks, nil
}

// Get returns a task, served from the cache when possible. A miss reads the
// store and repopulates the cache.
func (s *Service) Get(ctx context.Context, id int) (*task.Task, error) {
	if t, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Debug("cache get", "id", id, "error", err)
	} else if ok {
		return t, nil
	}

	t, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, clierr.Newf(clierr.TaskNotFound, "task %d not found", id).
			WithDetails(map[string]any{"id": id})
	}
	if err != nil {
		return nil, err
	}
	s.put(ctx, t)
	return t, nil
}

// Children returns the direct subtasks of id.
func (s *Service) Children(ctx context.Context, id int) ([]*task.Task, error) {
	return s.store.ListChildren(ctx, id)
}

// Save inserts t when its ID is 0 and updates it otherwise, then attaches
// link when it is non-empty and not already on the task. A failed link
// attach is logged and does not fail the save. On insert the new
// ID and creation time are written back into t. progress may be nil.
func (s *Service) Save(ctx context.Context, t *task.Task, link string, progress ProgressFunc) (int, error) {
	report := func(pct int, step string) {
		if progress != nil {
			progress(pct, step)
		}
	}

	report(StepValidating, "validating")
	if err := task.ValidateDescription(t.Description); err != nil {
		return 0, err
	}
	t.Progress = task.ClampProgress(t.Progress)
	t.Priority = t.Priority.Clamp()

	action := board.ActionUpdate
	if t.ID == 0 {
		action = board.ActionCreate
		if t.CreatedAt.IsZero() {
			t.CreatedAt = s.now().Truncate(time.Second)
		}
		id, err := s.store.Insert(ctx, t)
		if err != nil {
			s.logger.Warn("insert task", "error", err)
			return 0, err
		}
		t.ID = id
	} else if err := s.store.Update(ctx, t); err != nil {
		s.logger.Warn("update task", "id", t.ID, "error", err)
		return 0, s.notFound(t.ID, err)
	}

	// The task row is committed at this point; a failed link must not
	// report the save as failed.
	linked := false
	if link != "" && !t.HasLink(link) {
		if err := s.store.AttachLink(ctx, t.ID, link); err != nil {
			s.logger.Warn("attach link", "id", t.ID, "error", err)
		} else {
			t.Links = append(t.Links, link)
			linked = true
		}
	}
	report(StepSaved, "saved")

	s.put(ctx, t)
	report(StepCached, "cached")

	s.journal.Record(action, t.ID, t.Description)
	if linked {
		s.journal.Record(board.ActionLink, t.ID, link)
	}
	s.logger.Info("task saved", "action", action, "id", t.ID, "parent", parentAttr(t))
	report(StepDone, "done")
	return t.ID, nil
}

// Toggle flips the completion flag of a copy of t and persists it.
// t itself is left untouched so a failed write changes nothing.
func (s *Service) Toggle(ctx context.Context, t *task.Task) (*task.Task, error) {
	next := t.Clone()
	next.Completed = !next.Completed
	if err := s.store.Update(ctx, next); err != nil {
		s.logger.Warn("toggle task", "id", t.ID, "error", err)
		return nil, s.notFound(t.ID, err)
	}
	s.put(ctx, next)

	action := board.ActionReopen
	if next.Completed {
		action = board.ActionComplete
	}
	s.journal.Record(action, next.ID, next.Description)
	s.logger.Info("task toggled", "id", next.ID, "completed", next.Completed)
	return next, nil
}

// SetStatus changes the workflow status of id.
func (s *Service) SetStatus(ctx context.Context, id int, status task.Status) (*task.Task, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == status {
		return t, clierr.Newf(clierr.NoChanges, "task %d is already %s", id, status.Slug())
	}
	from := t.Status
	t.Status = status
	if err := s.store.Update(ctx, t); err != nil {
		return nil, s.notFound(id, err)
	}
	s.put(ctx, t)
	s.journal.Record(board.ActionStatus, id, from.Slug()+" -> "+status.Slug())
	s.logger.Info("task status", "id", id, "from", from.Slug(), "to", status.Slug())
	return t, nil
}

// Delete removes id and all of its subtasks, returning the IDs removed
// below it. Every removed ID is evicted from the cache.
func (s *Service) Delete(ctx context.Context, id int) ([]int, error) {
	// Collected before the delete: the cascade leaves nothing to query.
	descendants, err := s.store.Descendants(ctx, id)
	if err != nil {
		s.logger.Debug("collect descendants", "id", id, "error", err)
		descendants = nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("delete task", "id", id, "error", err)
		return nil, s.notFound(id, err)
	}

	for _, victim := range append([]int{id}, descendants...) {
		if err := s.cache.Invalidate(ctx, victim); err != nil {
			s.logger.Debug("cache invalidate", "id", victim, "error", err)
		}
	}

	s.journal.Record(board.ActionDelete, id, fmt.Sprintf("%d subtasks", len(descendants)))
	s.logger.Info("task deleted", "id", id, "subtasks", len(descendants))
	return descendants, nil
}

// Journal returns the activity log.
func (s *Service) Journal() board.Journal { return s.journal }

func (s *Service) put(ctx context.Context, t *task.Task) {
	if err := s.cache.Put(ctx, t, s.ttl); err != nil {
		s.logger.Debug("cache put", "id", t.ID, "error", err)
	}
}

func (s *Service) notFound(id int, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return clierr.Newf(clierr.TaskNotFound, "task %d not found", id).
			WithDetails(map[string]any{"id": id})
	}
	return err
}

func parentAttr(t *task.Task) any {
	if t.ParentID == nil {
		return nil
	}
	return *t.ParentID
}
