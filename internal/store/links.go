package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// AttachLink appends a link to a task.
func (db *DB) AttachLink(ctx context.Context, id int, url string) error {
	if _, err := db.ExecContext(ctx, `INSERT INTO task_links (task_id, url) VALUES (?, ?)`, id, url); err != nil {
		return fmt.Errorf("attach link to task %d: %w", id, err)
	}
	return nil
}

// Links returns the links of a task in insertion order.
func (db *DB) Links(ctx context.Context, id int) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT url FROM task_links WHERE task_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("links of task %d: %w", id, err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		links = append(links, url)
	}
	return links, rows.Err()
}

// AddTag attaches the named tag to a task, creating the tag if needed, and
// returns the tag ID.
func (db *DB) AddTag(ctx context.Context, id int, name string) (int, error) {
	if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("create tag %q: %w", name, err)
	}
	var tagID int
	if err := db.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
		return 0, fmt.Errorf("lookup tag %q: %w", name, err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)`, id, tagID); err != nil {
		return 0, fmt.Errorf("tag task %d: %w", id, err)
	}
	return tagID, nil
}

// TagNames maps tag IDs to names.
func (db *DB) TagNames(ctx context.Context) (map[int]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM tags`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var (
			id   int
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// loadRelations fills Links and Tags for tasks with one query each.
func (db *DB) loadRelations(ctx context.Context, tasks []*task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	byID := make(map[int]*task.Task, len(tasks))
	args := make([]any, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = t
		args[i] = t.ID
	}
	in := strings.TrimSuffix(strings.Repeat("?,", len(tasks)), ",")

	if err := db.eachPair(ctx,
		`SELECT task_id, url FROM task_links WHERE task_id IN (`+in+`) ORDER BY id`, args,
		func(id int, v string) { byID[id].Links = append(byID[id].Links, v) },
	); err != nil {
		return fmt.Errorf("load links: %w", err)
	}

	if err := db.eachPair(ctx,
		`SELECT task_id, tag_id FROM task_tags WHERE task_id IN (`+in+`) ORDER BY tag_id`, args,
		func(id int, v string) {
			var tag int
			if _, err := fmt.Sscan(v, &tag); err == nil {
				byID[id].Tags = append(byID[id].Tags, tag)
			}
		},
	); err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	return nil
}

func (db *DB) eachPair(ctx context.Context, query string, args []any, fn func(int, string)) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id int
			v  string
		)
		if err := rows.Scan(&id, &v); err != nil {
			return err
		}
		fn(id, v)
	}
	return rows.Err()
}
