package session

// Key identifies a non-printable key, or KeyRune for a character.
type Key int

// Keys.
const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyTab
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyOther // any key without a binding of its own
)

// Event is one input event.
type Event struct {
	Key  Key
	Rune rune
}

// Char returns the event for typing r.
func Char(r rune) Event { return Event{Key: KeyRune, Rune: r} }

// Press returns the event for a non-printable key.
func Press(k Key) Event { return Event{Key: k} }

func (e Event) is(r rune) bool { return e.Key == KeyRune && e.Rune == r }
