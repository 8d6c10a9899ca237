package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/formatter"
	"github.com/yildizm/wedsite/internal/guestlist"
)

type guestsMsg struct {
	guests []api.Guest
	err    error
}

// guestListPage is the hosts' dashboard.
type guestListPage struct {
	app       *App
	loading   bool
	started   bool
	dashboard *guestlist.Dashboard
	rendered  string
	err       error
	spinner   spinner.Model
}

func newGuestListPage(a *App) *guestListPage {
	return &guestListPage{app: a, spinner: spinner.New()}
}

func (p *guestListPage) capturing() bool { return false }

func (p *guestListPage) help() []key.Binding {
	return []key.Binding{p.app.keys.Refresh}
}

func (p *guestListPage) enter() tea.Cmd {
	if p.started {
		return nil
	}
	p.started = true
	return p.load()
}

func (p *guestListPage) load() tea.Cmd {
	if p.loading {
		return nil
	}
	src := p.app.backend
	if src == nil {
		p.err = errNoBackend
		return nil
	}
	p.loading = true
	p.err = nil

	ctx := p.app.ctx
	mainID := p.app.cfg.EventIDs().Main
	workers := p.app.cfg.API.Concurrency
	log := p.app.log
	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		guests, err := guestlist.Fetch(ctx, src, mainID, workers, log)
		return guestsMsg{guests: guests, err: err}
	})
}

func (p *guestListPage) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, p.app.keys.Refresh) {
		return true, p.load()
	}
	return false, nil
}

func (p *guestListPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case guestsMsg:
		p.loading = false
		if msg.err != nil {
			p.app.log.Error("guest list: %v", msg.err)
			p.err = msg.err
			return nil
		}
		p.dashboard = guestlist.Build(msg.guests, p.app.cfg.EventIDs().Main, p.app.now())
		p.formatDashboard()
	case spinner.TickMsg:
		if p.loading {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}
	}
	return nil
}

// formatDashboard formats the dashboard once per load.
func (p *guestListPage) formatDashboard() {
	f, err := formatter.New("text", !IsColorDisabled())
	if err != nil {
		p.err = err
		return
	}
	out, err := f.Format(p.dashboard)
	if err != nil {
		p.err = err
		return
	}
	p.rendered = strings.TrimRight(string(out), "\n")
}

func (p *guestListPage) render(s *screen) {
	a := p.app
	st := a.styles

	s.add(st.Title.Render(emoji.GetEmoji("guests") + " " + a.tr.T("guestListDashboard")))
	s.blank()

	switch {
	case p.loading:
		s.add(p.spinner.View() + " " + st.Muted.Render(a.tr.T("loadingGuests")))
	case p.err != nil:
		s.add(errorLine(a, p.err))
	case p.rendered != "":
		s.add(p.rendered)
	}
}
