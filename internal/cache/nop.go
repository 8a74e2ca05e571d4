package cache

import (
	"context"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Nop is the cache used when caching is disabled. Every lookup misses.
type Nop struct{}

func (Nop) Put(context.Context, *task.Task, time.Duration) error { return nil }

func (Nop) Get(context.Context, int) (*task.Task, bool, error) { return nil, false, nil }

func (Nop) Invalidate(context.Context, int) error { return nil }

func (Nop) Clear(context.Context) (int, error) { return 0, nil }

func (Nop) Stats() Stats { return Stats{Backend: "disabled"} }

func (Nop) Close() error { return nil }
