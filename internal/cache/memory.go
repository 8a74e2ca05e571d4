package cache

import (
	"context"
	"sync"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process cache. Entries are stored encoded so callers
// never share a *task.Task with the cache.
type Memory struct {
	mu      sync.Mutex
	entries map[int]memEntry
	now     func() time.Time
	counters
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[int]memEntry), now: time.Now}
}

func (m *Memory) Put(_ context.Context, t *task.Task, ttl time.Duration) error {
	data, err := encode(t)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[t.ID] = memEntry{data: data, expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, id int) (*task.Task, bool, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && !m.now().Before(e.expires) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		m.record(false, nil)
		return nil, false, nil
	}
	t, err := decode(e.data)
	m.record(err == nil, err)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (m *Memory) Invalidate(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *Memory) Clear(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[int]memEntry)
	return n, nil
}

func (m *Memory) Stats() Stats { return m.stats("memory", "") }

func (m *Memory) Close() error { return nil }
