package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	Endpoint         string
	Model            string
	MaxTokens        int
	Temperature      float64
	Timeout          time.Duration
	SuggestionPrompt string
	SummaryPrompt    string
}

// Client talks to Ollama's /api/generate endpoint.
type Client struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Client. Empty prompts fall back to the defaults.
func New(opts Options, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.SuggestionPrompt == "" {
		opts.SuggestionPrompt = DefaultSuggestionPrompt
	}
	if opts.SummaryPrompt == "" {
		opts.SummaryPrompt = DefaultSummaryPrompt
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

// generateRequest is the request body for Ollama /api/generate.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// generateResponse is the response body from Ollama /api/generate.
type generateResponse struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

var errUnexpectedFormat = errors.New("unexpected response format from Ollama API")

func (c *Client) Available() bool { return true }

// Generate sends prompt to the model and returns its reply. Any failure is
// returned as an "Error: ..." string.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("ai generate failed", "endpoint", c.opts.Endpoint, "model", c.opts.Model, "err", err)
		return "Error: " + err.Error()
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.opts.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: c.opts.Temperature,
			NumPredict:  c.opts.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.opts.Endpoint, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unable to reach Ollama API (status %d). Make sure Ollama is running on %s",
			resp.StatusCode, c.opts.Endpoint)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode Ollama response: %w", err)
	}
	if out.Response == nil {
		return "", errUnexpectedFormat
	}
	c.logger.Debug("ai generate", "model", c.opts.Model, "elapsed", time.Since(start))
	return strings.TrimSpace(*out.Response), nil
}

// Suggest asks for next steps on t.
func (c *Client) Suggest(ctx context.Context, t *task.Task) string {
	return c.Generate(ctx, SuggestionPrompt(c.opts.SuggestionPrompt, t, c.now()))
}

// Summarize asks for an overview of tasks.
func (c *Client) Summarize(ctx context.Context, tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks to summarize."
	}
	return c.Generate(ctx, SummaryPrompt(c.opts.SummaryPrompt, tasks, c.now()))
}

// BreakDown asks for 3-5 sub-steps of t. On failure the single element is
// the error text.
func (c *Client) BreakDown(ctx context.Context, t *task.Task) []string {
	text, err := c.generate(ctx, BreakDownPrompt(t))
	if err != nil {
		c.logger.Warn("ai breakdown failed", "task", t.ID, "err", err)
		return []string{"Error: " + err.Error()}
	}
	return ParseSteps(text)
}
