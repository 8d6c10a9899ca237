package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds a key to every button intent. Letter keys only apply while
// no text field has focus.
type keyMap struct {
	Story       key.Binding
	SaveTheDate key.Binding
	RSVP        key.Binding
	EditRSVP    key.Binding
	Back        key.Binding
	Language    key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Compose     key.Binding
	Export      key.Binding
	Refresh     key.Binding
	Focus       key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	Submit      key.Binding
	AddGuest    key.Binding
	RemoveGuest key.Binding
	ToggleEvent key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Story:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "our story")),
		SaveTheDate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "save the date")),
		RSVP:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rsvp")),
		EditRSVP:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit rsvp")),
		Back:        key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Language:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "español/english")),
		PrevPage:    key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←", "previous")),
		NextPage:    key.NewBinding(key.WithKeys("right", "]"), key.WithHelp("→", "next")),
		Compose:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write a note")),
		Export:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export pdf")),
		Refresh:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Focus:       key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "fill in")),
		NextField:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		Submit:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		AddGuest:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add guest")),
		RemoveGuest: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove guest")),
		ToggleEvent: key.NewBinding(key.WithKeys("f1", "f2", "f3", "f4"), key.WithHelp("f1-f4", "attending")),
		ScrollUp:    key.NewBinding(key.WithKeys("up", "k", "pgup"), key.WithHelp("↑", "scroll")),
		ScrollDown:  key.NewBinding(key.WithKeys("down", "j", "pgdown"), key.WithHelp("↓", "scroll")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// contextKeys is the help shown for the active page.
type contextKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (c contextKeys) ShortHelp() []key.Binding  { return c.short }
func (c contextKeys) FullHelp() [][]key.Binding { return c.full }
