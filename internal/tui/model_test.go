package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/teminder/internal/cache"
	"github.com/twiced-technology-gmbh/teminder/internal/session"
	"github.com/twiced-technology-gmbh/teminder/internal/store"
	"github.com/twiced-technology-gmbh/teminder/internal/task"
	"github.com/twiced-technology-gmbh/teminder/internal/tracker"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func newModel(t *testing.T, seed ...*task.Task) (*Model, *tracker.Service) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := func() time.Time { return fixedNow }
	svc := tracker.New(db, tracker.Options{Cache: cache.NewMemory(), Now: clock})
	for _, tk := range seed {
		_, err := svc.Save(context.Background(), tk, "", nil)
		require.NoError(t, err)
	}

	ctrl := session.New(svc, session.Options{Now: clock})
	m := New(ctrl, ctrl.Init(context.Background(), true), Options{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, svc
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestToEvents(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []session.Event
	}{
		{"up", press(tea.KeyUp), []session.Event{session.Press(session.KeyUp)}},
		{"down", press(tea.KeyDown), []session.Event{session.Press(session.KeyDown)}},
		{"tab", press(tea.KeyTab), []session.Event{session.Press(session.KeyTab)}},
		{"backspace", press(tea.KeyBackspace), []session.Event{session.Press(session.KeyBackspace)}},
		{"enter", press(tea.KeyEnter), []session.Event{session.Press(session.KeyEnter)}},
		{"esc", press(tea.KeyEsc), []session.Event{session.Press(session.KeyEscape)}},
		{"space", press(tea.KeySpace), []session.Event{session.Char(' ')}},
		{"rune", runes("a"), []session.Event{session.Char('a')}},
		{"paste", runes("ab"), []session.Event{session.Char('a'), session.Char('b')}},
		{"unknown", press(tea.KeyF1), []session.Event{session.Press(session.KeyOther)}},
		{"left", press(tea.KeyLeft), []session.Event{session.Press(session.KeyOther)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toEvents(tt.msg))
		})
	}
}

func TestAddTaskThroughKeys(t *testing.T) {
	m, svc := newModel(t)

	send(m, runes("a"), runes("Buy milk"), press(tea.KeyTab), runes("2025-11-20 14:30"))
	assert.Equal(t, session.ViewAddTask, m.State().View)
	assert.Contains(t, m.View(), "Buy milk")

	send(m, press(tea.KeyEnter))
	require.Equal(t, session.ViewList, m.State().View)
	require.Len(t, m.State().Tasks, 1)
	assert.Contains(t, m.View(), "Buy milk (Due: 2025-11-20 14:30)")
	assert.Contains(t, m.View(), "Task added successfully!")

	all, err := svc.Reload(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPasteIgnoredInList(t *testing.T) {
	m, _ := newModel(t)
	cmd := send(m, runes("qa"))
	assert.Nil(t, cmd)
	assert.Equal(t, session.ViewList, m.State().View)
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), press(tea.KeyEsc), press(tea.KeyCtrlC)} {
		m, _ := newModel(t)
		cmd := send(m, msg)
		require.NotNil(t, cmd, msg.String())
		assert.IsType(t, tea.QuitMsg{}, cmd(), msg.String())
	}
}

func TestEscInDialogDoesNotQuit(t *testing.T) {
	m, _ := newModel(t)
	cmd := send(m, runes("a"), press(tea.KeyEsc))
	assert.Nil(t, cmd)
	assert.Equal(t, session.ViewList, m.State().View)
}

func TestListMarksSelectionAndGauge(t *testing.T) {
	m, _ := newModel(t,
		&task.Task{Description: "first", Priority: task.High},
		&task.Task{Description: "second", Completed: true},
	)
	view := m.View()
	assert.Contains(t, view, "> [ ] 🔴 first")
	assert.Contains(t, view, "1/2 completed")

	send(m, press(tea.KeyDown))
	assert.Contains(t, m.View(), "> [✓] 🟢 second")
}

func TestDeleteDialog(t *testing.T) {
	m, _ := newModel(t, &task.Task{Description: "doomed"})
	send(m, runes("d"))
	assert.Contains(t, m.View(), "doomed")
	assert.Contains(t, m.View(), "Delete task?")

	send(m, runes("y"))
	assert.Empty(t, m.State().Tasks)
	assert.Contains(t, m.View(), "Task deleted successfully!")
}

func TestUnboundKeysDismissOverlays(t *testing.T) {
	m, _ := newModel(t, &task.Task{Description: "kept"})

	send(m, runes("h"))
	require.Equal(t, session.ViewHelp, m.State().View)
	send(m, press(tea.KeyF1))
	assert.Equal(t, session.ViewList, m.State().View)

	send(m, runes("d"))
	require.Equal(t, session.ViewDeleteConfirm, m.State().View)
	send(m, press(tea.KeyLeft))
	assert.Equal(t, session.ViewList, m.State().View)
	assert.Len(t, m.State().Tasks, 1)
	assert.Contains(t, m.View(), "Delete cancelled.")

	send(m, runes("a"), runes("x"), press(tea.KeyPgDown))
	assert.Equal(t, session.ViewAddTask, m.State().View)
	assert.Equal(t, "x", m.State().Form.Description)
}

func TestReloadMsgPicksUpExternalChanges(t *testing.T) {
	m, svc := newModel(t)
	_, err := svc.Save(context.Background(), &task.Task{Description: "from cli"}, "", nil)
	require.NoError(t, err)

	send(m, ReloadMsg{})
	require.Len(t, m.State().Tasks, 1)
	assert.Contains(t, m.View(), "from cli")
}

type stubAI struct{}

func (stubAI) Available() bool                               { return true }
func (stubAI) Generate(context.Context, string) string        { return "" }
func (stubAI) Suggest(context.Context, *task.Task) string     { return "1. **Start** now" }
func (stubAI) Summarize(context.Context, []*task.Task) string { return "all good" }
func (stubAI) BreakDown(context.Context, *task.Task) []string { return nil }

func TestConfigChangedSwapsAssistant(t *testing.T) {
	m, _ := newModel(t, &task.Task{Description: "plan"})

	send(m, runes("s"))
	assert.Equal(t, session.ViewList, m.State().View, "AI disabled at start")

	send(m, ConfigChangedMsg{AI: stubAI{}})
	assert.Equal(t, "Configuration reloaded.", m.State().Message)

	send(m, runes("s"))
	require.Equal(t, session.ViewAISuggestions, m.State().View)
	view := m.View()
	assert.Contains(t, view, "AI Suggestions for: plan")
	assert.Contains(t, view, "Start")
	assert.NotContains(t, view, "**Start**", "markdown is rendered")

	send(m, runes("x"))
	assert.Equal(t, session.ViewList, m.State().View)
}

func TestConfigChangedError(t *testing.T) {
	m, _ := newModel(t)
	send(m, ConfigChangedMsg{Err: errors.New("bad yaml")})
	assert.Equal(t, "Config reload failed: bad yaml", m.State().Message)
}

func TestScrollKeepsSelectionVisible(t *testing.T) {
	seed := make([]*task.Task, 40)
	for i := range seed {
		seed[i] = &task.Task{Description: "task"}
	}
	m, _ := newModel(t, seed...)
	for i := 0; i < 39; i++ {
		send(m, press(tea.KeyDown))
	}
	assert.Equal(t, 39, m.State().Selected)
	assert.Equal(t, 39-m.visibleRows()+1, m.offset)
	assert.Contains(t, m.View(), "> [ ]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "a...", truncate("abcdefgh", 2))
}

func TestViewBeforeSize(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctrl := session.New(tracker.New(db, tracker.Options{}), session.Options{})
	m := New(ctrl, ctrl.Init(context.Background(), true), Options{})
	assert.Equal(t, "Loading...", m.View())
}
