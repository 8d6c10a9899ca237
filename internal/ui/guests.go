package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/rsvp"
	"github.com/yildizm/wedsite/internal/wedding"
)

// guestEditor edits a household's guests: one name field and one
// attending toggle per sub-event each.
type guestEditor struct {
	guests []rsvp.Guest
	names  []*field
	events []wedding.EventKey
}

func newGuestEditor(guests []rsvp.Guest, events []wedding.EventKey) *guestEditor {
	e := &guestEditor{events: events}
	for _, g := range guests {
		e.append(g)
	}
	return e
}

func (e *guestEditor) append(g rsvp.Guest) {
	f := newField("fullName", 100)
	f.set(g.Name)
	e.guests = append(e.guests, g)
	e.names = append(e.names, f)
}

// add appends a new guest with default answers. It reports false at the
// household limit.
func (e *guestEditor) add() bool {
	if len(e.guests) >= rsvp.MaxGuests {
		return false
	}
	e.append(rsvp.NewGuest())
	return true
}

// remove drops guest i; the last guest stays.
func (e *guestEditor) remove(i int) bool {
	if len(e.guests) <= 1 || i < 0 || i >= len(e.guests) {
		return false
	}
	e.guests = append(e.guests[:i], e.guests[i+1:]...)
	e.names = append(e.names[:i], e.names[i+1:]...)
	return true
}

func (e *guestEditor) toggle(i int, key wedding.EventKey) {
	if i < 0 || i >= len(e.guests) {
		return
	}
	e.guests[i].Set(key, !e.guests[i].Attending[key])
}

// result copies the name fields into the guests.
func (e *guestEditor) result() []rsvp.Guest {
	out := make([]rsvp.Guest, len(e.guests))
	for i, g := range e.guests {
		attending := make(map[wedding.EventKey]bool, len(g.Attending))
		for k, v := range g.Attending {
			attending[k] = v
		}
		out[i] = rsvp.Guest{ID: g.ID, Name: e.names[i].value(), Attending: attending}
	}
	return out
}

// render draws every guest. fields is the page's whole focus list; the
// guest names start at offset.
func (e *guestEditor) render(a *App, s *screen, fields []*field, ring *focusRing, offset, width int) {
	st := a.styles
	for i, g := range e.guests {
		title := fmt.Sprintf("%s %d", a.tr.T("guest"), i+1)
		if g.ID == "" && len(e.guests) > 1 {
			title = a.tr.T("newGuest")
		}
		header := []item{plain(st.Subheader.Render(title))}
		if len(e.guests) > 1 {
			i := i
			header = append(header, link(a.tr.T("remove"), func() tea.Cmd {
				if e.remove(i) {
					ring.blur(fields)
				}
				return nil
			}))
		}
		s.row(header...)
		renderField(a, s, fields, ring, offset+i, width)

		toggles := make([]item, 0, len(e.events))
		for _, key := range e.events {
			i, key := i, key
			label := a.tr.T(string(key))
			style := st.Toggle
			mark := "○ "
			if g.Attending[key] {
				style = st.ToggleOn
				mark = "● "
			}
			toggles = append(toggles, item{
				text:   style.Render(mark + label),
				target: gesture.TargetInput,
				action: func() tea.Cmd { e.toggle(i, key); return nil },
			})
		}
		s.row(toggles...)
		s.blank()
	}
}
