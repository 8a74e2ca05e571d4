// Package tui renders a task session in the terminal. Input is translated
// into session events; all behavior lives in the session controller.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/teminder/internal/ai"
	"github.com/twiced-technology-gmbh/teminder/internal/logging"
	"github.com/twiced-technology-gmbh/teminder/internal/session"
	"github.com/twiced-technology-gmbh/teminder/internal/sheets"
)

// Layout constants.
const (
	listChrome   = 5 // header, blank line, message, gauge, help
	gaugeWidth   = 30
	tickInterval = 30 * time.Second // overdue markers refresh
)

// DefaultMarkdownStyle is the glamour style used for AI results.
const DefaultMarkdownStyle = "dark"

// Options configures a Model.
type Options struct {
	Context       context.Context
	Logger        *slog.Logger
	MarkdownStyle string // glamour standard style name
}

// Model is the top-level bubbletea model.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	state  session.State
	logger *slog.Logger

	lines  []string // rendered list lines, refreshed after every transition
	offset int      // first visible row

	keys       listKeys
	dialogKeys dialogKeys
	help       help.Model
	gauge      progress.Model

	markdownStyle string
	rendered      string // markdown rendering of state.Result
	renderedFor   *session.AIResult

	width  int
	height int
}

// New creates a Model showing initial.
func New(ctrl *session.Controller, initial session.State, opts Options) *Model {
	m := &Model{
		ctx:           opts.Context,
		ctrl:          ctrl,
		logger:        opts.Logger,
		keys:          newListKeys(),
		dialogKeys:    newDialogKeys(),
		help:          help.New(),
		gauge:         progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(gaugeWidth)),
		markdownStyle: opts.MarkdownStyle,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.markdownStyle == "" {
		m.markdownStyle = DefaultMarkdownStyle
	}
	m.apply(initial)
	return m
}

// State returns the current session state.
func (m *Model) State() session.State { return m.state }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.renderedFor = nil
		m.apply(m.state)
	case ReloadMsg:
		m.apply(m.ctrl.Reload(m.ctx, m.state))
	case ConfigChangedMsg:
		m.handleConfig(msg)
	case TickMsg:
		m.refreshLines()
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, forceQuit) {
		return m, tea.Quit
	}
	events := toEvents(msg)
	// Pasted text only makes sense inside a dialog.
	if len(events) > 1 && !m.state.View.IsDialog() {
		return m, nil
	}
	for _, ev := range events {
		m.apply(m.ctrl.Handle(m.ctx, m.state, ev))
		if m.state.Quit {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleConfig(msg ConfigChangedMsg) {
	if msg.Err != nil {
		m.logger.Warn("config reload rejected", "error", msg.Err)
		m.state.Message = "Config reload failed: " + msg.Err.Error()
		return
	}
	m.ctrl.SetAI(msg.AI)
	m.ctrl.SetExporter(msg.Exporter)
	m.logger.Info("config reloaded")
	m.state.Message = "Configuration reloaded."
}

// apply installs s and recomputes everything derived from it.
func (m *Model) apply(s session.State) {
	m.state = s
	m.refreshLines()
	m.ensureVisible()
	if s.Result != nil && s.Result != m.renderedFor {
		m.rendered = m.renderMarkdown(s.Result.Body)
		m.renderedFor = s.Result
	}
}

func (m *Model) refreshLines() {
	m.lines = m.lines[:0]
	for _, t := range m.state.Tasks {
		m.lines = append(m.lines, m.ctrl.Line(m.ctx, t))
	}
}

func (m *Model) visibleRows() int {
	n := m.height - listChrome
	if n < 1 {
		return 1
	}
	return n
}

// ensureVisible scrolls so the selected row is on screen.
func (m *Model) ensureVisible() {
	rows := m.visibleRows()
	sel := m.state.Selected
	switch {
	case sel < m.offset:
		m.offset = sel
	case sel >= m.offset+rows:
		m.offset = sel - rows + 1
	}
	if maxOff := len(m.lines) - rows; m.offset > maxOff {
		m.offset = max(0, maxOff)
	}
}

// --- Messages ---

// ReloadMsg asks the model to re-query the store, e.g. after another
// process changed the database.
type ReloadMsg struct{}

// ConfigChangedMsg carries collaborators rebuilt from a changed config
// file. Err is set when the new file was rejected.
type ConfigChangedMsg struct {
	AI       ai.Assistant
	Exporter sheets.Exporter
	Err      error
}

// TickMsg refreshes time-dependent markers.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}
