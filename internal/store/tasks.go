package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/date"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

const taskColumns = `id, description, is_completed, priority, created_at, due_date, parent_id, progress, status`

// listOrder sorts by priority, then due date with undated tasks last.
const listOrder = ` ORDER BY priority DESC, due_date IS NULL, due_date ASC, id ASC`

// Insert stores a new task and returns its ID. CreatedAt defaults to now
// when unset. Links and tags are attached separately.
func (db *DB) Insert(ctx context.Context, t *task.Task) (int, error) {
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO tasks (description, is_completed, priority, created_at, due_date, parent_id, progress, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Description, t.Completed, int(t.Priority), created.Unix(),
		nullTime(t.DueDate), nullInt(t.ParentID), task.ClampProgress(t.Progress), int(t.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return int(id), nil
}

// Update writes every mutable field of t. CreatedAt is never rewritten.
func (db *DB) Update(ctx context.Context, t *task.Task) error {
	res, err := db.ExecContext(ctx,
		`UPDATE tasks SET description = ?, is_completed = ?, priority = ?, due_date = ?,
		 parent_id = ?, progress = ?, status = ? WHERE id = ?`,
		t.Description, t.Completed, int(t.Priority), nullTime(t.DueDate),
		nullInt(t.ParentID), task.ClampProgress(t.Progress), int(t.Status), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return expectOne(res, t.ID)
}

// Delete removes a task. Its links, tags, and subtasks go with it.
func (db *DB) Delete(ctx context.Context, id int) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return expectOne(res, id)
}

// Get returns the task with the given ID or ErrNotFound.
func (db *DB) Get(ctx context.Context, id int) (*task.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	if err := db.loadRelations(ctx, []*task.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// ListAll returns tasks ordered by priority descending, then due date
// ascending with undated tasks last.
func (db *DB) ListAll(ctx context.Context, includeCompleted bool) ([]*task.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	if !includeCompleted {
		q += ` WHERE is_completed = 0`
	}
	return db.list(ctx, q+listOrder)
}

// ListChildren returns the direct subtasks of parentID.
func (db *DB) ListChildren(ctx context.Context, parentID int) ([]*task.Task, error) {
	return db.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE parent_id = ?`+listOrder, parentID)
}

// ListOverdue returns open tasks due before now, earliest first.
func (db *DB) ListOverdue(ctx context.Context, now time.Time) ([]*task.Task, error) {
	return db.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE due_date IS NOT NULL AND due_date < ? AND is_completed = 0
		 ORDER BY due_date ASC, id ASC`, now.Unix())
}

// ListByPriority returns tasks with the given priority.
func (db *DB) ListByPriority(ctx context.Context, p task.Priority, includeCompleted bool) ([]*task.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE priority = ?`
	if !includeCompleted {
		q += ` AND is_completed = 0`
	}
	return db.list(ctx, q+listOrder, int(p))
}

// Descendants returns the IDs of every task below id, at any depth.
func (db *DB) Descendants(ctx context.Context, id int) ([]int, error) {
	rows, err := db.QueryContext(ctx,
		`WITH RECURSIVE sub(id) AS (
			SELECT id FROM tasks WHERE parent_id = ?
			UNION
			SELECT t.id FROM tasks t JOIN sub ON t.parent_id = sub.id
		) SELECT id FROM sub ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("descendants of %d: %w", id, err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var child int
		if err := rows.Scan(&child); err != nil {
			return nil, fmt.Errorf("descendants of %d: %w", id, err)
		}
		ids = append(ids, child)
	}
	return ids, rows.Err()
}

func (db *DB) list(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var tasks []*task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if err := db.loadRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*task.Task, error) {
	var (
		t         task.Task
		priority  int
		status    int
		createdAt int64
		due       sql.NullInt64
		parent    sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.Description, &t.Completed, &priority, &createdAt,
		&due, &parent, &t.Progress, &status); err != nil {
		return nil, err
	}
	t.Priority = task.Priority(priority)
	t.Status = task.Status(status)
	t.CreatedAt = date.FromUnix(createdAt)
	if due.Valid {
		d := date.FromUnix(due.Int64)
		t.DueDate = &d
	}
	if parent.Valid {
		p := int(parent.Int64)
		t.ParentID = &p
	}
	return &t, nil
}

func expectOne(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
