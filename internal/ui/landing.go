package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/navigation"
	"github.com/yildizm/wedsite/internal/wedding"
)

// landingPage is the home page: the schedule and the ways into the rest of
// the site.
type landingPage struct {
	app *App
}

func newLandingPage(a *App) *landingPage {
	return &landingPage{app: a}
}

func (p *landingPage) enter() tea.Cmd { return nil }
func (p *landingPage) capturing() bool { return false }
func (p *landingPage) update(tea.Msg) tea.Cmd { return nil }

func (p *landingPage) help() []key.Binding {
	k := p.app.keys
	return []key.Binding{k.Story, k.SaveTheDate, k.RSVP}
}

func (p *landingPage) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := p.app.keys
	switch {
	case key.Matches(msg, k.Story):
		return true, p.app.navigate(navigation.ViewStory)()
	case key.Matches(msg, k.SaveTheDate):
		return true, p.app.navigate(navigation.ViewSaveTheDate)()
	case key.Matches(msg, k.RSVP):
		return true, p.app.navigate(navigation.ViewRSVP)()
	}
	return false, nil
}

func (p *landingPage) render(s *screen) {
	a := p.app
	st := a.styles
	lang := a.tr.Language()

	s.add(lipgloss.PlaceHorizontal(s.width, lipgloss.Center, st.Title.Render(wedding.Couple)))
	s.add(lipgloss.PlaceHorizontal(s.width, lipgloss.Center, st.Subheader.Render(wedding.FormatDate(lang, wedding.Date()))))
	s.blank()
	s.row(
		button(st.ButtonPrimary.Render(a.tr.T("rsvp")), a.navigate(navigation.ViewRSVP)),
		button(st.Button.Render(a.tr.T("saveTheDate")), a.navigate(navigation.ViewSaveTheDate)),
		button(st.Button.Render(a.tr.T("ourStory")), a.navigate(navigation.ViewStory)),
	)
	s.blank()

	s.add(st.Header.Render(emoji.GetEmoji("calendar") + " " + a.tr.T("weddingDetails")))
	s.blank()
	for _, e := range wedding.Schedule() {
		p.renderEvent(s, e)
	}

	s.add(st.Header.Render(a.tr.T("cocktailAttire")))
	s.add(st.Body.Width(s.width).Render(a.tr.T("cocktailAttireNote")))
	s.blank()

	s.add(st.Header.Render(emoji.GetEmoji("household") + " " + a.tr.T("guestAccommodations")))
	s.add(st.Body.Width(s.width).Render(a.tr.T("accommodationsNote")))
	s.add(st.Muted.Render("• " + a.tr.T("bookRoom")))
	s.add(st.Muted.Render("• " + a.tr.T("bookHouse")))
	s.blank()

	s.add(st.Body.Render(a.tr.T("closing")))
	s.add(st.Muted.Render(a.tr.T("withLove")))
	s.add(st.Subheader.Render(wedding.Couple))
}

func (p *landingPage) renderEvent(s *screen, e wedding.Event) {
	a := p.app
	st := a.styles
	lang := a.tr.Language()

	title := a.tr.T(string(e.Key))
	when := wedding.FormatDate(lang, e.Start)
	if e.TimeKnown {
		when += " · " + wedding.FormatTime(e.Start)
	} else {
		when += " · " + a.tr.T("timeTBD")
	}
	where := a.tr.T("locationTBD")
	if e.Venue.Known() {
		where = e.Venue.Name + ", " + e.Venue.Address()
	}

	s.add(st.Subheader.Render(title))
	s.add(st.Body.Render(emoji.GetEmoji("clock") + " " + when))
	s.add(st.Body.Render(emoji.GetEmoji("pin") + " " + where))
	if e.Key == wedding.Ceremony {
		s.add(st.Muted.Render(a.tr.T("receptionToFollow")))
	}

	links := []item{link(st.Link.Render(a.tr.T("addToCalendar")), func() tea.Cmd {
		a.flash(wedding.CalendarURL(e))
		return nil
	})}
	if u := wedding.MapsURL(e); u != "" {
		links = append(links, link(st.Link.Render(a.tr.T("navigate")), func() tea.Cmd {
			a.flash(u)
			return nil
		}))
	}
	s.row(links...)
	s.blank()
}
