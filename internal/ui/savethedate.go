package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/wedsite/internal/config"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/logger"
	"github.com/yildizm/wedsite/internal/savethedate"
)

type pdfMsg struct {
	path string
	err  error
}

// saveTheDatePage previews the card and prints it to PDF.
type saveTheDatePage struct {
	app       *App
	exporting bool
	spinner   spinner.Model
}

func newSaveTheDatePage(a *App) *saveTheDatePage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &saveTheDatePage{app: a, spinner: sp}
}

func (p *saveTheDatePage) enter() tea.Cmd { return nil }
func (p *saveTheDatePage) capturing() bool { return false }

func (p *saveTheDatePage) help() []key.Binding {
	return []key.Binding{p.app.keys.Export}
}

func (p *saveTheDatePage) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, p.app.keys.Export) {
		return true, p.export()
	}
	return false, nil
}

func (p *saveTheDatePage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pdfMsg:
		p.exporting = false
		if msg.err != nil {
			p.app.log.Error("save the date export failed: %v", msg.err)
			p.app.flash(emoji.GetEmoji("error") + " " + msg.err.Error())
			return nil
		}
		p.app.flash(emoji.GetEmoji("success") + " " + p.app.tr.Tf("pdfSaved", map[string]interface{}{"Path": msg.path}))
	case spinner.TickMsg:
		if p.exporting {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}
	}
	return nil
}

// export prints the card in the current language to the configured file.
func (p *saveTheDatePage) export() tea.Cmd {
	if p.exporting {
		return nil
	}
	p.exporting = true
	p.app.flash(p.app.tr.T("exporting"))

	ctx := p.app.ctx
	cfg := p.app.cfg.PDF
	card := savethedate.NewCard(p.app.catalog, p.app.tr.Language())
	log := p.app.log

	return tea.Batch(p.spinner.Tick, func() tea.Msg {
		path, err := ExportCard(ctx, card, cfg, log)
		return pdfMsg{path: path, err: err}
	})
}

// ExportCard loads the photos, prints card and writes the PDF. It returns
// the path written.
func ExportCard(ctx context.Context, card savethedate.Card, cfg config.PDFConfig, log *logger.Logger) (string, error) {
	if cfg.WidthPx > 0 && cfg.HeightPx > 0 {
		card.WidthPx, card.HeightPx = cfg.WidthPx, cfg.HeightPx
	}
	if err := card.LoadImages(config.ExpandPath(cfg.FrontImage), config.ExpandPath(cfg.BackImage)); err != nil {
		return "", err
	}
	data, err := savethedate.PDF(ctx, card, savethedate.PDFOptions{ChromeBin: cfg.ChromeBin, Timeout: cfg.Timeout}, log)
	if err != nil {
		return "", err
	}
	path := config.ExpandPath(cfg.Output)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("save the date written to %s (%d bytes)", path, len(data))
	return path, nil
}

func (p *saveTheDatePage) render(s *screen) {
	a := p.app
	st := a.styles
	card := savethedate.NewCard(a.catalog, a.tr.Language())

	width := min(s.width, 60)
	center := func(text string) string {
		return lipgloss.PlaceHorizontal(width-4, lipgloss.Center, text)
	}

	lines := []string{
		center(st.Title.Render(card.Title)),
		"",
		center(st.Subheader.Render(card.Couple)),
		"",
	}
	for _, e := range card.Events {
		lines = append(lines, center(st.Header.Render(e.Heading)))
		if e.Address != "" {
			lines = append(lines, center(st.Body.Render(e.Address)))
		}
		lines = append(lines, center(st.Body.Render(e.Date+" · "+e.Time)), "")
	}
	lines = append(lines,
		center(st.Body.Render(card.Closing)),
		center(st.Muted.Render(card.Salutation+" "+card.Couple)),
		"",
		center(st.Link.Render(card.Website)),
	)

	s.add(st.Header.Render(a.tr.T("saveTheDateCard")))
	s.blank()
	s.add(st.Note.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	s.blank()

	label := a.tr.T("exportPDF")
	if p.exporting {
		label = p.spinner.View() + " " + a.tr.T("exporting")
	}
	s.row(
		button(st.ButtonPrimary.Render(label), p.export),
		link(st.Link.Render(a.tr.T("back")), a.back),
	)
}
