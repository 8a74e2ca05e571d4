package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/teminder/internal/session"
)

// listKeys are the list view bindings. They only drive the help display;
// dispatch goes through the session controller.
type listKeys struct {
	Up       key.Binding
	Down     key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Subtask  key.Binding
	Toggle   key.Binding
	Filter   key.Binding
	Suggest  key.Binding
	Summary  key.Binding
	Settings key.Binding
	Sync     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newListKeys() listKeys {
	return listKeys{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Subtask:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "subtask")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Filter:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show/hide completed")),
		Suggest:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "AI suggest")),
		Summary:  key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "AI summary")),
		Settings: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "settings")),
		Sync:     key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "sync sheets")),
		Help:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Toggle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Filter},
		{k.Add, k.Edit, k.Subtask, k.Delete},
		{k.Suggest, k.Summary, k.Sync},
		{k.Settings, k.Help, k.Quit},
	}
}

// dialogKeys are shown under the add, edit, and subtask dialogs.
type dialogKeys struct {
	Next     key.Binding
	Priority key.Binding
	Save     key.Binding
	Cancel   key.Binding
}

func newDialogKeys() dialogKeys {
	return dialogKeys{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Priority: key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "priority or progress")),
		Save:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Priority, k.Save, k.Cancel}
}

func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))

// toEvents translates a key press into session events. Pasted text yields
// one event per rune. Keys the session does not know become KeyOther, which
// still dismisses help, AI results, and the delete confirmation.
func toEvents(msg tea.KeyMsg) []session.Event {
	switch msg.Type {
	case tea.KeyUp:
		return []session.Event{session.Press(session.KeyUp)}
	case tea.KeyDown:
		return []session.Event{session.Press(session.KeyDown)}
	case tea.KeyTab:
		return []session.Event{session.Press(session.KeyTab)}
	case tea.KeyBackspace:
		return []session.Event{session.Press(session.KeyBackspace)}
	case tea.KeyEnter:
		return []session.Event{session.Press(session.KeyEnter)}
	case tea.KeyEsc:
		return []session.Event{session.Press(session.KeyEscape)}
	case tea.KeySpace:
		return []session.Event{session.Char(' ')}
	case tea.KeyRunes:
		events := make([]session.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, session.Char(r))
		}
		return events
	default:
		return []session.Event{session.Press(session.KeyOther)}
	}
}
