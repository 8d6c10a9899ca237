package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/yildizm/wedsite/internal/locale"
)

type storyKey struct {
	lang  locale.Language
	width int
}

// storyPage renders "How We Met" as markdown.
type storyPage struct {
	app   *App
	cache map[storyKey]string
}

func newStoryPage(a *App) *storyPage {
	return &storyPage{app: a, cache: make(map[storyKey]string)}
}

func (p *storyPage) enter() tea.Cmd { return nil }
func (p *storyPage) capturing() bool { return false }

func (p *storyPage) update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(translationsReloadedMsg); ok {
		p.cache = make(map[storyKey]string)
	}
	return nil
}

func (p *storyPage) help() []key.Binding { return nil }

func (p *storyPage) handleKey(tea.KeyMsg) (bool, tea.Cmd) { return false, nil }

func (p *storyPage) markdown() string {
	t := p.app.tr
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.T("howWeMet"))
	fmt.Fprintf(&b, "**%s** %s\n\n", t.T("storyP0"), t.T("storyP1"))
	fmt.Fprintf(&b, "%s\n\n", t.T("storyP2"))
	fmt.Fprintf(&b, "%s\n", t.T("storyP3"))
	return b.String()
}

func (p *storyPage) rendered(width int) string {
	k := storyKey{lang: p.app.tr.Language(), width: width}
	if out, ok := p.cache[k]; ok {
		return out
	}

	style := "dark"
	if IsColorDisabled() {
		style = "notty"
	}
	md := p.markdown()
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width))
	if err != nil {
		p.app.log.Warn("story renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		p.app.log.Warn("story render: %v", err)
		return md
	}
	out = strings.Trim(out, "\n")
	p.cache[k] = out
	return out
}

func (p *storyPage) render(s *screen) {
	a := p.app
	s.add(p.rendered(s.width))
	s.blank()
	s.row(link(a.styles.Link.Render(a.tr.T("returnToWebsiteStory")), func() tea.Cmd {
		return a.back()
	}))
}
