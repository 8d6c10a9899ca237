package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/rsvp"
	"github.com/yildizm/wedsite/internal/wedding"
)

type rsvpCreatedMsg struct {
	err error
}

// rsvpPage is the new household form.
type rsvpPage struct {
	app *App

	line1, line2, city, state, postal *field
	phone, email, password, confirm   *field
	guests                            *guestEditor
	ring                              focusRing

	submitting bool
	submitted  bool
	duplicate  bool
	err        error
	spinner    spinner.Model
}

func newRSVPPage(a *App) *rsvpPage {
	p := &rsvpPage{app: a, spinner: spinner.New()}
	p.reset()
	return p
}

func (p *rsvpPage) reset() {
	p.line1 = newField("addressLine1", 100)
	p.line2 = newField("addressLine2", 100)
	p.city = newField("city", 60)
	p.state = newField("state", 40)
	p.postal = newField("postalCode", 10)
	p.phone = newField("phone", 14)
	p.phone.format = rsvp.FormatPhone
	p.email = newField("email", 254)
	p.password = newSecretField("password")
	p.confirm = newSecretField("confirmPassword")
	p.guests = newGuestEditor([]rsvp.Guest{rsvp.NewGuest()}, wedding.EventKeys())
	p.ring = newFocusRing()
	p.duplicate = false
	p.err = nil
}

func (p *rsvpPage) fixed() []*field {
	return []*field{p.line1, p.line2, p.city, p.state, p.postal, p.phone, p.email, p.password, p.confirm}
}

// fields is the focus order: the household fields, then one name per guest.
func (p *rsvpPage) fields() []*field {
	return append(p.fixed(), p.guests.names...)
}

func (p *rsvpPage) form() *rsvp.Form {
	return &rsvp.Form{
		Address: rsvp.Address{
			Line1:      p.line1.value(),
			Line2:      p.line2.value(),
			City:       p.city.value(),
			State:      p.state.value(),
			PostalCode: p.postal.value(),
		},
		Phone:           p.phone.value(),
		Email:           p.email.value(),
		Password:        p.password.value(),
		ConfirmPassword: p.confirm.value(),
		Guests:          p.guests.result(),
	}
}

func (p *rsvpPage) enter() tea.Cmd {
	p.submitted = false
	return nil
}

func (p *rsvpPage) capturing() bool {
	return p.ring.active()
}

func (p *rsvpPage) help() []key.Binding {
	k := p.app.keys
	if p.ring.active() {
		return []key.Binding{k.NextField, k.Submit, k.AddGuest, k.RemoveGuest, k.ToggleEvent}
	}
	return []key.Binding{k.Focus, k.Submit, k.EditRSVP}
}

// focusedGuest is the index of the guest whose name has focus, or -1.
func (p *rsvpPage) focusedGuest() int {
	i := p.ring.index - len(p.fixed())
	if i < 0 || i >= len(p.guests.guests) {
		return -1
	}
	return i
}

func (p *rsvpPage) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := p.app.keys
	switch {
	case key.Matches(msg, k.Submit):
		return true, p.submit()
	case key.Matches(msg, k.AddGuest):
		return true, p.addGuest()
	}

	if !p.ring.active() {
		switch {
		case key.Matches(msg, k.Focus):
			return true, p.ring.focus(p.fields(), 0)
		case key.Matches(msg, k.EditRSVP):
			return true, p.editRSVP()
		}
		return false, nil
	}

	switch {
	case msg.Type == tea.KeyEsc:
		p.ring.blur(p.fields())
	case key.Matches(msg, k.NextField), msg.Type == tea.KeyEnter:
		return true, p.ring.move(p.fields(), 1)
	case key.Matches(msg, k.PrevField):
		return true, p.ring.move(p.fields(), -1)
	case key.Matches(msg, k.RemoveGuest):
		if i := p.focusedGuest(); i >= 0 && p.guests.remove(i) {
			return true, p.ring.focus(p.fields(), len(p.fixed())+max(i-1, 0))
		}
	case key.Matches(msg, k.ToggleEvent):
		if i := p.focusedGuest(); i >= 0 {
			p.guests.toggle(i, eventForKey(msg))
		}
	default:
		return true, p.ring.forward(p.fields(), msg)
	}
	return true, nil
}

// eventForKey maps f1..f4 to the sub-events in schedule order.
func eventForKey(msg tea.KeyMsg) wedding.EventKey {
	keys := wedding.EventKeys()
	switch msg.Type {
	case tea.KeyF1:
		return keys[0]
	case tea.KeyF2:
		return keys[1]
	case tea.KeyF3:
		return keys[2]
	default:
		return keys[3]
	}
}

func (p *rsvpPage) addGuest() tea.Cmd {
	if !p.guests.add() {
		return nil
	}
	fields := p.fields()
	return p.ring.focus(fields, len(fields)-1)
}

func (p *rsvpPage) editRSVP() tea.Cmd {
	if cb := p.app.nav.Callbacks(); cb.OnEditRSVP != nil {
		p.ring.blur(p.fields())
		cb.OnEditRSVP()
	}
	return nil
}

func (p *rsvpPage) submit() tea.Cmd {
	if p.submitting {
		return nil
	}
	form := p.form()
	if err := form.Validate(); err != nil {
		p.err = err
		return nil
	}
	svc := p.app.service
	if svc == nil {
		p.err = errNoBackend
		return nil
	}

	p.err = nil
	p.duplicate = false
	p.submitting = true
	p.ring.blur(p.fields())
	ctx := p.app.ctx
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		return rsvpCreatedMsg{err: svc.Create(ctx, form)}
	})
}

func (p *rsvpPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case rsvpCreatedMsg:
		p.submitting = false
		switch {
		case msg.err == nil:
			p.app.log.Info("rsvp submitted")
			p.reset()
			p.submitted = true
		case api.IsConflict(msg.err):
			p.duplicate = true
		default:
			p.app.log.Error("rsvp submission failed: %v", msg.err)
			p.err = msg.err
		}
	case spinner.TickMsg:
		if p.submitting {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}
	}
	return nil
}

func (p *rsvpPage) render(s *screen) {
	a := p.app
	st := a.styles
	fields := p.fields()
	width := min(s.width, 64)

	s.row(
		plain(st.Title.Render(emoji.GetEmoji("mail")+" "+a.tr.T("rsvp"))),
		button(st.Button.Render(a.tr.T("editRSVP")), p.editRSVP),
	)
	s.blank()

	if p.submitted {
		s.add(st.Success.Render(emoji.GetEmoji("success") + " " + a.tr.T("rsvpSubmitted")))
		s.blank()
	}

	s.add(st.Header.Render(a.tr.T("address")))
	for i := 0; i < 5; i++ {
		renderField(a, s, fields, &p.ring, i, width)
	}
	s.blank()
	for i := 5; i < len(p.fixed()); i++ {
		renderField(a, s, fields, &p.ring, i, width)
	}
	s.add(st.Muted.Width(width).Render(a.tr.T("passwordTooltip")))
	s.blank()

	p.guests.render(a, s, fields, &p.ring, len(p.fixed()), width)
	if len(p.guests.guests) < rsvp.MaxGuests {
		s.row(link(st.Link.Render(a.tr.T("addGuest")), p.addGuest))
		s.blank()
	}

	if p.duplicate {
		s.add(st.Warning.Width(width).Render(a.tr.T("duplicateEmail")))
		s.row(button(st.Button.Render(a.tr.T("editRSVP")), p.editRSVP))
		s.blank()
	}
	if p.err != nil {
		s.add(errorLine(a, p.err))
		s.blank()
	}

	label := a.tr.T("submitRSVP")
	if p.submitting {
		label = p.spinner.View() + " " + a.tr.T("submitting")
	}
	s.row(
		button(st.ButtonPrimary.Render(label), p.submit),
		link(st.Link.Render(a.tr.T("back")), a.back),
	)
}
