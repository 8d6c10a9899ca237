package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/guestbook"
)

type commentsMsg struct {
	page   int
	result *api.CommentPage
	err    error
}

type commentersMsg struct {
	draft *guestbook.Draft
	err   error
}

type signedMsg struct {
	comment api.Comment
	err     error
}

type composeStage int

const (
	composeClosed composeStage = iota
	composeAuth
	composeAuthenticating
	composeWriting
	composeSending
)

// guestBookPage shows the notes a page at a time and lets a household sign.
type guestBookPage struct {
	app     *App
	pager   *guestbook.Pager
	started bool
	dots    paginator.Model
	spinner spinner.Model

	stage           composeStage
	email, password *field
	ring            focusRing
	draft           *guestbook.Draft
	text            textarea.Model
	err             error
}

func newGuestBookPage(a *App) *guestBookPage {
	p := &guestBookPage{app: a, spinner: spinner.New()}
	p.spinner.Spinner = spinner.MiniDot
	p.dots = paginator.New()
	p.dots.Type = paginator.Dots
	p.dots.ActiveDot = a.styles.Header.Render("•")
	p.dots.InactiveDot = a.styles.Muted.Render("•")
	p.pager = guestbook.NewPager(a.sched, p.request)
	p.pager.SetFade(a.cfg.UI.PageFade)
	p.closeCompose()
	return p
}

// request is the pager's fetch hook.
func (p *guestBookPage) request(page int) {
	ctx := p.app.ctx
	src := p.app.backend
	p.app.enqueue(func() tea.Msg {
		if src == nil {
			return commentsMsg{page: page, err: errNoBackend}
		}
		result, err := guestbook.List(ctx, src, page)
		return commentsMsg{page: page, result: result, err: err}
	})
	p.app.enqueue(p.spinner.Tick)
}

func (p *guestBookPage) enter() tea.Cmd {
	if !p.started {
		p.started = true
		p.pager.Start()
	}
	return nil
}

func (p *guestBookPage) capturing() bool {
	return p.stage != composeClosed
}

func (p *guestBookPage) help() []key.Binding {
	k := p.app.keys
	if p.stage != composeClosed {
		return []key.Binding{k.NextField, k.Submit}
	}
	return []key.Binding{k.PrevPage, k.NextPage, k.Compose, k.Refresh}
}

func (p *guestBookPage) openCompose() tea.Cmd {
	p.stage = composeAuth
	p.err = nil
	return p.ring.focus(p.authFields(), 0)
}

func (p *guestBookPage) closeCompose() {
	p.stage = composeClosed
	p.email = newField("email", 254)
	p.password = newSecretField("password")
	p.ring = newFocusRing()
	p.draft = nil
	p.err = nil
	p.text = textarea.New()
	p.text.Placeholder = p.app.tr.T("writeYourMessagePlaceholder")
	p.text.CharLimit = guestbook.MaxMessageLength
	p.text.ShowLineNumbers = false
	p.text.SetHeight(6)
}

func (p *guestBookPage) authFields() []*field {
	return []*field{p.email, p.password}
}

func (p *guestBookPage) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := p.app.keys
	if p.stage == composeClosed {
		switch {
		case key.Matches(msg, k.PrevPage):
			p.pager.Prev()
			return true, nil
		case key.Matches(msg, k.NextPage):
			p.pager.Next()
			return true, nil
		case key.Matches(msg, k.Compose):
			return true, p.openCompose()
		case key.Matches(msg, k.Refresh):
			p.pager.Start()
			return true, nil
		}
		return false, nil
	}

	if msg.Type == tea.KeyEsc {
		p.closeCompose()
		return true, nil
	}
	if key.Matches(msg, k.Submit) {
		return true, p.submit()
	}

	switch p.stage {
	case composeAuth:
		switch {
		case msg.Type == tea.KeyEnter && p.ring.index == len(p.authFields())-1:
			return true, p.submit()
		case key.Matches(msg, k.NextField), msg.Type == tea.KeyEnter:
			return true, p.ring.move(p.authFields(), 1)
		case key.Matches(msg, k.PrevField):
			return true, p.ring.move(p.authFields(), -1)
		}
		return true, p.ring.forward(p.authFields(), msg)
	case composeWriting:
		if msg.Type == tea.KeyTab {
			p.cycleInvitee()
			return true, nil
		}
		var cmd tea.Cmd
		p.text, cmd = p.text.Update(msg)
		return true, cmd
	}
	return true, nil
}

// cycleInvitee selects the next name of the household.
func (p *guestBookPage) cycleInvitee() {
	inv := p.draft.Invitees
	if len(inv) == 0 {
		return
	}
	next := 0
	for i, c := range inv {
		if c.ID == p.draft.InviteeID {
			next = (i + 1) % len(inv)
		}
	}
	p.draft.InviteeID = inv[next].ID
}

func (p *guestBookPage) submit() tea.Cmd {
	src := p.app.backend
	ctx := p.app.ctx
	switch p.stage {
	case composeAuth:
		if src == nil {
			p.err = errNoBackend
			return nil
		}
		email, password := p.email.value(), p.password.value()
		p.ring.blur(p.authFields())
		p.stage = composeAuthenticating
		p.err = nil
		return tea.Batch(p.spinner.Tick, func() tea.Msg {
			d, err := guestbook.Authenticate(ctx, src, email, password)
			return commentersMsg{draft: d, err: err}
		})

	case composeWriting:
		d := *p.draft
		d.Message = p.text.Value()
		if err := d.Validate(); err != nil {
			p.err = err
			return nil
		}
		p.stage = composeSending
		p.err = nil
		now := p.app.now
		return tea.Batch(p.spinner.Tick, func() tea.Msg {
			c, err := guestbook.Sign(ctx, src, d, now)
			return signedMsg{comment: c, err: err}
		})
	}
	return nil
}

func (p *guestBookPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case commentsMsg:
		if msg.err != nil {
			p.app.log.Warn("guest book page %d: %v", msg.page+1, msg.err)
		}
		p.pager.Receive(msg.page, msg.result, msg.err)

	case commentersMsg:
		if p.stage != composeAuthenticating {
			return nil
		}
		if msg.err != nil {
			p.err = msg.err
			p.stage = composeAuth
			return p.ring.focus(p.authFields(), 0)
		}
		p.draft = msg.draft
		if len(p.draft.Invitees) == 1 {
			p.draft.InviteeID = p.draft.Invitees[0].ID
		}
		p.stage = composeWriting
		return p.text.Focus()

	case signedMsg:
		if p.stage != composeSending {
			return nil
		}
		if msg.err != nil {
			p.app.log.Error("guest book post failed: %v", msg.err)
			p.err = msg.err
			p.stage = composeWriting
			return nil
		}
		p.app.log.Info("guest book note posted by %s", guestbook.DisplayName(msg.comment))
		p.closeCompose()
		p.pager.Add(msg.comment)

	case spinner.TickMsg:
		if p.pager.Loading() || p.stage == composeAuthenticating || p.stage == composeSending {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return cmd
		}

	case translationsReloadedMsg:
		p.text.Placeholder = p.app.tr.T("writeYourMessagePlaceholder")
	}
	return nil
}

func (p *guestBookPage) render(s *screen) {
	a := p.app
	st := a.styles

	s.row(
		plain(st.Title.Render(emoji.GetEmoji("note")+" "+a.tr.T("guestBook"))),
		button(st.ButtonPrimary.Render(a.tr.T("writeUsANote")), p.openCompose),
	)
	s.blank()

	if p.stage != composeClosed {
		p.renderCompose(s)
		s.blank()
	}

	switch {
	case p.pager.Loading() && len(p.pager.Comments()) == 0:
		s.add(p.spinner.View() + " " + st.Muted.Render(a.tr.T("loadingMessages")))
	case p.pager.Err() != nil:
		s.add(errorLine(a, p.pager.Err()))
	case len(p.pager.Comments()) == 0:
		s.add(st.Muted.Render(a.tr.T("noMessagesYet")))
	default:
		p.renderNotes(s)
	}
	s.blank()
	p.renderPagination(s)
}

// renderNotes flows the notes left to right, wrapping like text.
func (p *guestBookPage) renderNotes(s *screen) {
	a := p.app
	st := a.styles
	lang := a.tr.Language()
	faded := p.pager.Phase() != guestbook.Idle

	var row []string
	used := 0
	flush := func() {
		if len(row) > 0 {
			s.add(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			used = 0
		}
	}

	for _, c := range p.pager.Comments() {
		author := guestbook.DisplayName(c)
		if author == "Anonymous" {
			author = a.tr.T("anonymous")
		}
		date := guestbook.FormatDate(lang, c, nil)
		px := guestbook.NoteWidth(c.MessageText, author, date)
		w := min(int(px)/a.cfg.UI.CellWidth, s.width)

		body := st.Body
		if faded {
			body = st.Muted
		}
		inner := max(w-4, 1)
		note := st.Note.Width(w - 2).Render(lipgloss.JoinVertical(lipgloss.Left,
			body.Width(inner).Render(c.MessageText),
			"",
			st.Subheader.Render("— "+author),
			st.Muted.Render(date),
		))

		nw := lipgloss.Width(note)
		if used > 0 && used+1+nw > s.width {
			flush()
		}
		if used > 0 {
			row = append(row, " ")
			used++
		}
		row = append(row, note)
		used += nw
	}
	flush()
}

func (p *guestBookPage) renderPagination(s *screen) {
	a := p.app
	st := a.styles
	total := p.pager.Total()
	if total <= 1 {
		return
	}
	p.dots.SetTotalPages(total)
	p.dots.Page = p.pager.Current()

	var items []item
	if p.pager.HasPrev() {
		items = append(items, link(st.Link.Render(a.tr.T("previous")), func() tea.Cmd { p.pager.Prev(); return nil }))
	}
	items = append(items, plain(st.Muted.Render(a.tr.Tf("pageOf", map[string]interface{}{"Page": p.pager.Current() + 1, "Total": total}))))
	if p.pager.HasNext() {
		items = append(items, link(st.Link.Render(a.tr.T("next")), func() tea.Cmd { p.pager.Next(); return nil }))
	}
	s.row(items...)
	s.add(p.dots.View())
}

func (p *guestBookPage) renderCompose(s *screen) {
	a := p.app
	st := a.styles
	width := min(s.width-6, 64)
	sub := newScreen(width)

	sub.add(st.Header.Render(a.tr.T("writeYourMessage")))
	sub.blank()

	switch p.stage {
	case composeAuth, composeAuthenticating:
		sub.add(st.Muted.Width(width).Render(a.tr.T("authFormMessage")))
		fields := p.authFields()
		for i := range fields {
			renderField(a, sub, fields, &p.ring, i, width)
		}
		if p.err != nil {
			sub.add(errorLine(a, p.err))
		}
		sub.blank()
		label := a.tr.T("continue")
		if p.stage == composeAuthenticating {
			label = p.spinner.View() + " " + a.tr.T("loading")
		}
		sub.row(
			button(st.ButtonPrimary.Render(label), p.submit),
			link(st.Link.Render(a.tr.T("cancel")), func() tea.Cmd { p.closeCompose(); return nil }),
		)

	case composeWriting, composeSending:
		sub.add(st.Label.Render(a.tr.T("yourName")))
		if p.draft.InviteeID == "" {
			sub.add(st.Muted.Render(a.tr.T("selectYourName")))
		}
		names := make([]item, 0, len(p.draft.Invitees))
		for _, inv := range p.draft.Invitees {
			id := inv.ID
			style, mark := st.Toggle, "○ "
			if id == p.draft.InviteeID {
				style, mark = st.ToggleOn, "● "
			}
			names = append(names, item{
				text:   style.Render(mark + inv.Name),
				target: gesture.TargetSelect,
				action: func() tea.Cmd { p.draft.InviteeID = id; return nil },
			})
		}
		sub.row(names...)
		sub.blank()

		count := len([]rune(p.text.Value()))
		sub.add(st.Label.Render(a.tr.Tf("messageCount", map[string]interface{}{"Count": count})))
		p.text.SetWidth(width - 2)
		sub.area(st.InputFocused.Render(p.text.View()), gesture.TargetTextArea, func() tea.Cmd {
			return p.text.Focus()
		})
		if p.err != nil {
			sub.add(errorLine(a, p.err))
		}
		sub.blank()
		label := a.tr.T("submit")
		if p.stage == composeSending {
			label = p.spinner.View() + " " + a.tr.T("submitting")
		}
		sub.row(
			button(st.ButtonPrimary.Render(label), p.submit),
			link(st.Link.Render(a.tr.T("cancel")), func() tea.Cmd { p.closeCompose(); return nil }),
		)
	}

	s.boxed(sub, st.Modal.Width(width+6), gesture.TargetModal)
}
