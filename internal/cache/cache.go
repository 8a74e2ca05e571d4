// Package cache provides optional, best-effort task caching.
//
// Every implementation satisfies Cache; callers treat errors as a reason to
// skip the cache, never to fail the operation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// DefaultTTL is how long a cached task lives when no TTL is configured.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "task:"

// Cache is a key/value accelerator for task lookups.
type Cache interface {
	Put(ctx context.Context, t *task.Task, ttl time.Duration) error
	// Get returns the cached task and true on a hit.
	Get(ctx context.Context, id int) (*task.Task, bool, error)
	Invalidate(ctx context.Context, id int) error
	// Clear drops every cached task and returns how many were removed.
	Clear(ctx context.Context) (int, error)
	Stats() Stats
	Close() error
}

var (
	_ Cache = Nop{}
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)

// Stats describes a cache backend and its hit rate since startup.
type Stats struct {
	Backend string `json:"backend"`
	Addr    string `json:"addr,omitempty"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Errors  int64  `json:"errors"`
}

// HitRate returns hits as a fraction of lookups, or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Key returns the cache key for a task ID.
func Key(id int) string {
	return keyPrefix + strconv.Itoa(id)
}

func encode(t *task.Task) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode task %d: %w", t.ID, err)
	}
	return data, nil
}

func decode(data []byte) (*task.Task, error) {
	var t task.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode cached task: %w", err)
	}
	return &t, nil
}

// counters tracks lookups for Stats.
type counters struct {
	hits, misses, errors atomic.Int64
}

func (c *counters) record(hit bool, err error) {
	switch {
	case err != nil:
		c.errors.Add(1)
	case hit:
		c.hits.Add(1)
	default:
		c.misses.Add(1)
	}
}

func (c *counters) stats(backend, addr string) Stats {
	return Stats{
		Backend: backend,
		Addr:    addr,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Errors:  c.errors.Load(),
	}
}
