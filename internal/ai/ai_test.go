package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

func ollamaStub(t *testing.T, reply string, got *generateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": reply, "done": true})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateSendsOptions(t *testing.T) {
	var req generateRequest
	srv := ollamaStub(t, "  do the thing \n", &req)

	c := New(Options{Endpoint: srv.URL + "/", Model: "phi4:latest", MaxTokens: 1000, Temperature: 0.7}, nil)
	out := c.Generate(context.Background(), "hello")

	assert.Equal(t, "do the thing", out)
	assert.Equal(t, "phi4:latest", req.Model)
	assert.Equal(t, "hello", req.Prompt)
	assert.False(t, req.Stream)
	assert.Equal(t, 1000, req.Options.NumPredict)
	assert.InDelta(t, 0.7, req.Options.Temperature, 0.0001)
}

func TestGenerateErrorsBecomeText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out := New(Options{Endpoint: srv.URL}, nil).Generate(context.Background(), "x")
	assert.True(t, strings.HasPrefix(out, "Error: unable to reach Ollama API (status 500)"), out)

	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"done":true}`))
	}))
	defer missing.Close()
	out = New(Options{Endpoint: missing.URL}, nil).Generate(context.Background(), "x")
	assert.Equal(t, "Error: unexpected response format from Ollama API", out)

	out = New(Options{Endpoint: "http://127.0.0.1:1"}, nil).Generate(context.Background(), "x")
	assert.True(t, strings.HasPrefix(out, "Error: querying Ollama"), out)
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	out := New(Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil).Generate(context.Background(), "x")
	assert.True(t, strings.HasPrefix(out, "Error: "), out)
}

func TestSuggestPrompt(t *testing.T) {
	var req generateRequest
	srv := ollamaStub(t, "ok", &req)
	c := New(Options{Endpoint: srv.URL}, nil)
	c.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local) }

	due := time.Date(2025, 5, 1, 9, 30, 0, 0, time.Local)
	c.Suggest(context.Background(), &task.Task{Description: "File taxes", Priority: task.High, DueDate: &due})

	assert.True(t, strings.HasPrefix(req.Prompt, DefaultSuggestionPrompt))
	assert.Contains(t, req.Prompt, "Task: File taxes\n")
	assert.Contains(t, req.Prompt, "Priority: High\n")
	assert.Contains(t, req.Prompt, "Due Date: 2025-05-01 09:30\n")
	assert.Contains(t, req.Prompt, "Status: OVERDUE!")
}

func TestSummarize(t *testing.T) {
	var req generateRequest
	srv := ollamaStub(t, "summary", &req)
	c := New(Options{Endpoint: srv.URL, SummaryPrompt: "Summarize."}, nil)

	assert.Equal(t, "No tasks to summarize.", c.Summarize(context.Background(), nil))

	out := c.Summarize(context.Background(), []*task.Task{
		{Description: "a", Priority: task.Low},
		{Description: "b", Priority: task.Medium, Completed: true},
	})
	assert.Equal(t, "summary", out)
	assert.Contains(t, req.Prompt, "1. a [Priority: Low]\n")
	assert.Contains(t, req.Prompt, "2. b [Priority: Medium] [Status: Completed]\n")
}

func TestBreakDown(t *testing.T) {
	srv := ollamaStub(t, "1. Gather receipts\n2) Fill form\n\n- Submit\n* Celebrate", nil)
	steps := New(Options{Endpoint: srv.URL}, nil).BreakDown(context.Background(), &task.Task{Description: "Taxes"})
	assert.Equal(t, []string{"Gather receipts", "Fill form", "Submit", "Celebrate"}, steps)
}

func TestParseStepsKeepsShortLines(t *testing.T) {
	assert.Equal(t, []string{"ok", "Step"}, ParseSteps("ok\n  \n3. Step"))
}

func TestDisabled(t *testing.T) {
	var a Assistant = Disabled{}
	assert.False(t, a.Available())
	assert.Equal(t, DisabledMessage, a.Suggest(context.Background(), &task.Task{}))
	assert.Equal(t, []string{DisabledBreakDownMessage}, a.BreakDown(context.Background(), &task.Task{}))
}

func TestNewDefaults(t *testing.T) {
	c := New(Options{}, nil)
	assert.NotNil(t, c.logger)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
	assert.Equal(t, DefaultSuggestionPrompt, c.opts.SuggestionPrompt)
}
