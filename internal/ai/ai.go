// Package ai produces task suggestions and summaries through a local Ollama
// server. Failures come back as readable text, never as errors, so callers
// always have something to show.
package ai

import (
	"context"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Assistant generates text about tasks.
type Assistant interface {
	Available() bool
	Generate(ctx context.Context, prompt string) string
	Suggest(ctx context.Context, t *task.Task) string
	Summarize(ctx context.Context, tasks []*task.Task) string
	BreakDown(ctx context.Context, t *task.Task) []string
}

// Messages returned when AI is turned off.
const (
	DisabledMessage          = "AI features are disabled in configuration."
	DisabledBreakDownMessage = "AI task breakdown is disabled. Enable AI in config.yml to use this feature."
)

// Disabled is the Assistant used when AI is turned off.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Generate(context.Context, string) string { return DisabledMessage }

func (Disabled) Suggest(context.Context, *task.Task) string { return DisabledMessage }

func (Disabled) Summarize(context.Context, []*task.Task) string { return DisabledMessage }

func (Disabled) BreakDown(context.Context, *task.Task) []string {
	return []string{DisabledBreakDownMessage}
}

var (
	_ Assistant = Disabled{}
	_ Assistant = (*Client)(nil)
)
