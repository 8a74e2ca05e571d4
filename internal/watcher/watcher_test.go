package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, names ...string) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	w, err := New(dir, names, func() { calls.Add(1) })
	require.NoError(t, err)
	w.SetDelay(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, nil)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return &calls
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, dir, "config.yml")

	path := filepath.Join(dir, "config.yml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("version: 2\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Less(t, calls.Load(), int32(5), "writes are coalesced")
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	calls := startWatcher(t, dir, "config.yml")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.db"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestNewFailsForMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, func() {})
	assert.Error(t, err)
}
