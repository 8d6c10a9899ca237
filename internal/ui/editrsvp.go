package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/navigation"
	"github.com/yildizm/wedsite/internal/rsvp"
	"github.com/yildizm/wedsite/internal/schedule"
)

type editStage int

const (
	stageCredentials editStage = iota
	stageLoading
	stageEditing
	stageUpdating
	stageDone
)

type householdMsg struct {
	household *rsvp.Household
	err       error
}

type rsvpUpdatedMsg struct {
	err error
}

// editPage looks a household up by its credentials and edits its answers.
type editPage struct {
	app   *App
	stage editStage

	email, phone, password *field
	ring                   focusRing

	household *rsvp.Household
	guests    *guestEditor
	err       error
	spinner   spinner.Model
	leave     schedule.Task
}

func newEditPage(a *App) *editPage {
	p := &editPage{app: a, spinner: spinner.New()}
	p.reset()
	return p
}

func (p *editPage) reset() {
	if p.leave != nil {
		p.leave.Stop()
		p.leave = nil
	}
	p.stage = stageCredentials
	p.email = newField("email", 254)
	p.phone = newField("phone", 14)
	p.phone.format = rsvp.FormatPhone
	p.password = newSecretField("password")
	p.ring = newFocusRing()
	p.household = nil
	p.guests = nil
	p.err = nil
}

func (p *editPage) enter() tea.Cmd {
	p.reset()
	return p.ring.focus(p.fields(), 0)
}

func (p *editPage) fields() []*field {
	switch p.stage {
	case stageCredentials:
		return []*field{p.email, p.phone, p.password}
	case stageEditing:
		return p.guests.names
	default:
		return nil
	}
}

func (p *editPage) capturing() bool {
	return p.ring.active()
}

func (p *editPage) help() []key.Binding {
	k := p.app.keys
	switch p.stage {
	case stageCredentials:
		return []key.Binding{k.NextField, k.Submit}
	case stageEditing:
		return []key.Binding{k.NextField, k.Submit, k.AddGuest, k.RemoveGuest, k.ToggleEvent}
	default:
		return nil
	}
}

func (p *editPage) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := p.app.keys
	switch {
	case key.Matches(msg, k.Submit):
		return true, p.submit()
	case p.stage == stageEditing && key.Matches(msg, k.AddGuest):
		return true, p.addGuest()
	}

	if !p.ring.active() {
		if key.Matches(msg, k.Focus) {
			return true, p.ring.focus(p.fields(), 0)
		}
		return false, nil
	}

	switch {
	case msg.Type == tea.KeyEsc:
		p.ring.blur(p.fields())
	case msg.Type == tea.KeyEnter && p.stage == stageCredentials && p.ring.index == len(p.fields())-1:
		return true, p.submit()
	case key.Matches(msg, k.NextField), msg.Type == tea.KeyEnter:
		return true, p.ring.move(p.fields(), 1)
	case key.Matches(msg, k.PrevField):
		return true, p.ring.move(p.fields(), -1)
	case p.stage == stageEditing && key.Matches(msg, k.RemoveGuest):
		if i := p.ring.index; p.guests.remove(i) {
			return true, p.ring.focus(p.fields(), max(i-1, 0))
		}
	case p.stage == stageEditing && key.Matches(msg, k.ToggleEvent):
		p.guests.toggle(p.ring.index, eventForKey(msg))
	default:
		return true, p.ring.forward(p.fields(), msg)
	}
	return true, nil
}

func (p *editPage) addGuest() tea.Cmd {
	if p.guests == nil || !p.guests.add() {
		return nil
	}
	fields := p.fields()
	return p.ring.focus(fields, len(fields)-1)
}

func (p *editPage) submit() tea.Cmd {
	switch p.stage {
	case stageCredentials:
		return p.authenticate()
	case stageEditing:
		return p.save()
	default:
		return nil
	}
}

func (p *editPage) authenticate() tea.Cmd {
	creds := rsvp.Credentials{Email: p.email.value(), Phone: p.phone.value(), Password: p.password.value()}
	if err := creds.Validate(); err != nil {
		p.err = err
		return nil
	}
	svc := p.app.service
	if svc == nil {
		p.err = errNoBackend
		return nil
	}
	p.ring.blur(p.fields())
	p.err = nil
	p.stage = stageLoading
	ctx := p.app.ctx
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		h, err := svc.Authenticate(ctx, creds)
		return householdMsg{household: h, err: err}
	})
}

func (p *editPage) save() tea.Cmd {
	svc := p.app.service
	if svc == nil {
		p.err = errNoBackend
		return nil
	}
	h := p.household
	guests := p.guests.result()
	p.ring.blur(p.fields())
	p.err = nil
	p.stage = stageUpdating
	ctx := p.app.ctx
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		return rsvpUpdatedMsg{err: svc.Update(ctx, h, guests)}
	})
}

// cancel drops the edit and goes back to the RSVP page.
func (p *editPage) cancel() tea.Cmd {
	p.reset()
	return p.app.back()
}

func (p *editPage) receiveHousehold(msg householdMsg) tea.Cmd {
	if p.stage != stageLoading {
		return nil
	}
	if msg.err != nil {
		p.app.log.Warn("rsvp lookup failed: %v", msg.err)
		p.err = msg.err
		p.stage = stageCredentials
		return nil
	}
	p.household = msg.household
	p.guests = newGuestEditor(msg.household.Guests, msg.household.Events)
	p.stage = stageEditing
	return nil
}

func (p *editPage) receiveUpdate(msg rsvpUpdatedMsg) tea.Cmd {
	if p.stage != stageUpdating {
		return nil
	}
	if msg.err != nil {
		p.app.log.Error("rsvp update failed: %v", msg.err)
		p.err = msg.err
		p.stage = stageEditing
		return nil
	}
	p.app.log.Info("rsvp updated")
	p.stage = stageDone
	p.leave = p.app.sched.AfterFunc(rsvp.ReturnDelay, func() {
		p.leave = nil
		if p.stage == stageDone && p.app.nav.State().Idle() && p.app.nav.Active() == navigation.ViewEditRSVP {
			p.app.back()
		}
	})
	return nil
}

func (p *editPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case householdMsg:
		return p.receiveHousehold(msg)
	case rsvpUpdatedMsg:
		return p.receiveUpdate(msg)
	case spinner.TickMsg:
		if p.stage == stageLoading || p.stage == stageUpdating {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}
	}
	return nil
}

func (p *editPage) render(s *screen) {
	a := p.app
	st := a.styles
	width := min(s.width, 64)

	s.add(st.Title.Render(emoji.GetEmoji("mail") + " " + a.tr.T("editRSVP")))
	s.blank()

	switch p.stage {
	case stageCredentials:
		fields := p.fields()
		s.add(st.Header.Render(a.tr.T("enterYourInfo")))
		for i := range fields {
			renderField(a, s, fields, &p.ring, i, width)
		}
		if p.err != nil {
			s.add(errorLine(a, p.err))
		}
		s.blank()
		s.row(
			button(st.ButtonPrimary.Render(a.tr.T("continue")), p.authenticate),
			link(st.Link.Render(a.tr.T("cancel")), p.cancel),
		)

	case stageLoading:
		s.add(p.spinner.View() + " " + st.Muted.Render(a.tr.T("loading")))

	case stageEditing, stageUpdating:
		ma := p.household.Address
		addr := rsvp.FormatAddress(rsvp.Address{Line1: ma.AddressLine1, Line2: ma.AddressLine2, City: ma.City, State: ma.State, PostalCode: ma.PostalCode})
		if addr != "" {
			s.add(labelled(a, "address", addr))
			s.blank()
		}
		p.guests.render(a, s, p.guests.names, &p.ring, 0, width)
		if len(p.guests.guests) < rsvp.MaxGuests {
			s.row(link(st.Link.Render(a.tr.T("addGuest")), p.addGuest))
			s.blank()
		}
		if p.err != nil {
			s.add(errorLine(a, p.err))
			s.blank()
		}
		label := a.tr.T("updateRSVP")
		if p.stage == stageUpdating {
			label = p.spinner.View() + " " + a.tr.T("updating")
		}
		s.row(
			button(st.ButtonPrimary.Render(label), p.save),
			link(st.Link.Render(a.tr.T("cancel")), p.cancel),
		)

	case stageDone:
		s.add(st.Success.Render(emoji.GetEmoji("success") + " " + a.tr.T("rsvpUpdated")))
		s.blank()
		s.row(link(st.Link.Render(a.tr.T("returnToWebsite")), p.cancel))
	}
}
