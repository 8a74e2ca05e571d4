package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/teminder/internal/board"
	"github.com/twiced-technology-gmbh/teminder/internal/cache"
	"github.com/twiced-technology-gmbh/teminder/internal/clierr"
	"github.com/twiced-technology-gmbh/teminder/internal/store"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

func newService(t *testing.T) (*Service, *store.DB, *cache.Memory, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mem := cache.NewMemory()
	svc := New(db, Options{Cache: mem, Journal: board.NewJournal(dir)})
	return svc, db, mem, dir
}

func TestSaveInsertReportsStepsAndCaches(t *testing.T) {
	svc, db, mem, dir := newService(t)
	ctx := context.Background()

	var steps []int
	tk := &task.Task{Description: "Write report", Priority: task.High}
	id, err := svc.Save(ctx, tk, "https://example.com", func(p int, _ string) { steps = append(steps, p) })
	require.NoError(t, err)

	assert.Equal(t, []int{StepValidating, StepSaved, StepCached, StepDone}, steps)
	assert.Equal(t, id, tk.ID)
	assert.False(t, tk.CreatedAt.IsZero())

	stored, err := db.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com"}, stored.Links)

	cached, ok, err := mem.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Write report", cached.Description)
	assert.Equal(t, []string{"https://example.com"}, cached.Links)

	entries, err := board.ReadLog(dir, 0)
	require.NoError(t, err)
	actions := make([]string, len(entries))
	for i, e := range entries {
		actions[i] = e.Action
	}
	assert.Equal(t, []string{board.ActionCreate, board.ActionLink}, actions)
}

func TestSaveRejectsEmptyDescription(t *testing.T) {
	svc, db, _, _ := newService(t)
	ctx := context.Background()

	var steps []int
	_, err := svc.Save(ctx, &task.Task{Description: "  "}, "", func(p int, _ string) { steps = append(steps, p) })
	assert.Equal(t, clierr.InvalidInput, clierr.CodeOf(err))
	assert.Equal(t, []int{StepValidating}, steps)

	all, err := db.ListAll(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveUpdateAppendsLinksAndSkipsDuplicates(t *testing.T) {
	svc, db, _, _ := newService(t)
	ctx := context.Background()

	tk := &task.Task{Description: "a"}
	id, err := svc.Save(ctx, tk, "https://one", nil)
	require.NoError(t, err)

	tk.Description = "b"
	_, err = svc.Save(ctx, tk, "https://one", nil)
	require.NoError(t, err)
	_, err = svc.Save(ctx, tk, "https://two", nil)
	require.NoError(t, err)

	stored, err := db.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b", stored.Description)
	assert.Equal(t, []string{"https://one", "https://two"}, stored.Links)
}

func TestSaveUpdateMissingTask(t *testing.T) {
	svc, _, _, _ := newService(t)
	_, err := svc.Save(context.Background(), &task.Task{ID: 42, Description: "ghost"}, "", nil)
	assert.Equal(t, clierr.TaskNotFound, clierr.CodeOf(err))
}

func TestSaveClampsProgressAndPriority(t *testing.T) {
	svc, db, _, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Save(ctx, &task.Task{Description: "x", Progress: 250, Priority: task.Priority(9)}, "", nil)
	require.NoError(t, err)
	stored, err := db.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, task.High, stored.Priority)
}

func TestGetServesFromCacheThenStore(t *testing.T) {
	svc, db, mem, _ := newService(t)
	ctx := context.Background()

	id, err := db.Insert(ctx, &task.Task{Description: "direct"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "direct", got.Description)
	assert.Equal(t, int64(1), mem.Stats().Misses)

	_, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mem.Stats().Hits)

	_, err = svc.Get(ctx, 999)
	assert.Equal(t, clierr.TaskNotFound, clierr.CodeOf(err))
}

func TestToggleLeavesOriginalUntouched(t *testing.T) {
	svc, db, mem, _ := newService(t)
	ctx := context.Background()

	tk := &task.Task{Description: "flip", Status: task.InProgress}
	id, err := svc.Save(ctx, tk, "", nil)
	require.NoError(t, err)

	next, err := svc.Toggle(ctx, tk)
	require.NoError(t, err)
	assert.True(t, next.Completed)
	assert.False(t, tk.Completed)
	assert.Equal(t, task.InProgress, next.Status, "completion does not change status")

	stored, err := db.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.Completed)

	cached, ok, err := mem.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cached.Completed)

	back, err := svc.Toggle(ctx, next)
	require.NoError(t, err)
	assert.False(t, back.Completed)
}

func TestDeleteRemovesSubtreeAndEvicts(t *testing.T) {
	svc, db, mem, _ := newService(t)
	ctx := context.Background()

	root := &task.Task{Description: "root"}
	_, err := svc.Save(ctx, root, "", nil)
	require.NoError(t, err)
	child := &task.Task{Description: "child", ParentID: &root.ID}
	_, err = svc.Save(ctx, child, "", nil)
	require.NoError(t, err)
	grandchild := &task.Task{Description: "grandchild", ParentID: &child.ID}
	_, err = svc.Save(ctx, grandchild, "", nil)
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{child.ID, grandchild.ID}, removed)

	all, err := db.ListAll(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, id := range []int{root.ID, child.ID, grandchild.ID} {
		_, ok, err := mem.Get(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok, "task %d still cached", id)
	}

	_, err = svc.Delete(ctx, root.ID)
	assert.Equal(t, clierr.TaskNotFound, clierr.CodeOf(err))
}

func TestSetStatus(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	tk := &task.Task{Description: "s"}
	id, err := svc.Save(ctx, tk, "", nil)
	require.NoError(t, err)

	got, err := svc.SetStatus(ctx, id, task.OnHold)
	require.NoError(t, err)
	assert.Equal(t, task.OnHold, got.Status)
	assert.False(t, got.Completed)

	_, err = svc.SetStatus(ctx, id, task.OnHold)
	assert.Equal(t, clierr.NoChanges, clierr.CodeOf(err))
}

func TestReloadFiltersCompleted(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, &task.Task{Description: "open"}, "", nil)
	require.NoError(t, err)
	_, err = svc.Save(ctx, &task.Task{Description: "done", Completed: true}, "", nil)
	require.NoError(t, err)

	all, err := svc.Reload(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := svc.Reload(ctx, false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "open", open[0].Description)
}

// brokenCache fails every call.
type brokenCache struct{ cache.Nop }

var errCacheDown = errors.New("cache down")

func (brokenCache) Put(context.Context, *task.Task, time.Duration) error { return errCacheDown }
func (brokenCache) Get(context.Context, int) (*task.Task, bool, error) {
	return nil, false, errCacheDown
}
func (brokenCache) Invalidate(context.Context, int) error { return errCacheDown }

func TestCacheFailuresAreNotFatal(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := New(db, Options{Cache: brokenCache{}})
	ctx := context.Background()

	tk := &task.Task{Description: "still works"}
	id, err := svc.Save(ctx, tk, "", nil)
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "still works", got.Description)

	_, err = svc.Toggle(ctx, got)
	require.NoError(t, err)

	_, err = svc.Delete(ctx, id)
	require.NoError(t, err)
}

// failingStore rejects writes.
type failingStore struct {
	Store
	inserts int
}

var errDisk = errors.New("disk full")

func (f *failingStore) Insert(context.Context, *task.Task) (int, error) {
	f.inserts++
	return 0, errDisk
}

func TestSaveStoreFailureSkipsCache(t *testing.T) {
	mem := cache.NewMemory()
	fs := &failingStore{}
	svc := New(fs, Options{Cache: mem})

	var steps []int
	_, err := svc.Save(context.Background(), &task.Task{Description: "x"}, "https://l",
		func(p int, _ string) { steps = append(steps, p) })
	require.ErrorIs(t, err, errDisk)
	assert.Equal(t, 1, fs.inserts)
	assert.Equal(t, []int{StepValidating}, steps)
	assert.Zero(t, mem.Stats().Hits+mem.Stats().Misses)
}

// linkFailStore rejects every link attach.
type linkFailStore struct{ Store }

func (linkFailStore) AttachLink(context.Context, int, string) error { return errors.New("links down") }

func TestSaveLinkFailureIsNotFatal(t *testing.T) {
	_, db, mem, _ := newService(t)
	svc := New(linkFailStore{Store: db}, Options{Cache: mem})
	ctx := context.Background()

	var steps []int
	tk := &task.Task{Description: "Buy milk"}
	id, err := svc.Save(ctx, tk, "http://x", func(p int, _ string) { steps = append(steps, p) })
	require.NoError(t, err)
	require.NotZero(t, id)
	assert.Empty(t, tk.Links)
	assert.Equal(t, []int{StepValidating, StepSaved, StepCached, StepDone}, steps)

	_, ok, err := mem.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}
