package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestOpenWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "teminder.log")
	logger, closeFn, err := Open(path, "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("task created", "id", 7)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "task created")
	assert.Contains(t, string(data), "id=7")
	assert.NotContains(t, string(data), "hidden")
}

func TestOpenEmptyPathDiscards(t *testing.T) {
	logger, closeFn, err := Open("", "debug")
	require.NoError(t, err)
	logger.Error("nowhere")
	assert.NoError(t, closeFn())
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	logger, id := WithSession(New(&buf, slog.LevelInfo))
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "session="+id)
}
