package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/config"
	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/navigation"
	"github.com/yildizm/wedsite/internal/schedule"
	"github.com/yildizm/wedsite/internal/touch"
)

var epoch = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	mu        sync.Mutex
	pages     map[int]*api.CommentPage
	listCalls []int
	submitErr error
	submitted []api.RSVPSubmission
	posted    []string
}

func (f *fakeBackend) LookupRSVP(ctx context.Context, req api.RSVPLookupRequest) (*api.RSVPInfo, error) {
	return nil, &api.APIError{Type: api.ErrTypeNotFound, Message: "not found"}
}

func (f *fakeBackend) SubmitRSVP(ctx context.Context, sub *api.RSVPSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, *sub)
	return nil
}

func (f *fakeBackend) ListComments(ctx context.Context, page, pageSize int) (*api.CommentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, page)
	if p, ok := f.pages[page]; ok {
		return p, nil
	}
	return &api.CommentPage{TotalPages: len(f.pages)}, nil
}

func (f *fakeBackend) AuthenticateCommenter(ctx context.Context, email, password string) ([]api.Commenter, error) {
	return []api.Commenter{{ID: "inv-1", Name: "Ana Pérez"}}, nil
}

func (f *fakeBackend) PostComment(ctx context.Context, inviteeID, text string) (*api.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, text)
	return &api.Comment{ID: "new", MessageText: text}, nil
}

func (f *fakeBackend) ListEvents(ctx context.Context) ([]api.Event, error) {
	return nil, nil
}

func (f *fakeBackend) GetGuest(ctx context.Context, id string) (*api.Guest, error) {
	return nil, &api.APIError{Type: api.ErrTypeNotFound, Message: "not found"}
}

func newTestApp(t *testing.T, start navigation.View, width int) (*App, *schedule.Manual, *fakeBackend) {
	t.Helper()
	catalog, err := locale.NewCatalog("")
	if err != nil {
		t.Fatalf("Expected catalog to load, got %v", err)
	}
	clock := schedule.NewManual(epoch)
	backend := &fakeBackend{pages: map[int]*api.CommentPage{
		1: {TotalPages: 2, Comments: []api.Comment{{ID: "c1", MessageText: "Congratulations!", InviteeName: "Lucia"}}},
		2: {TotalPages: 2, Comments: []api.Comment{{ID: "c2", MessageText: "See you in July", InviteeName: "Tom"}}},
	}}
	a := NewApp(Options{
		Config:    config.DefaultConfig(),
		Backend:   backend,
		Catalog:   catalog,
		Start:     start,
		Scheduler: clock,
		Now:       clock.Now,
	})
	a.Update(tea.WindowSizeMsg{Width: width, Height: 40})
	return a, clock, backend
}

// drain runs cmd and feeds back the results of service calls. Timers are
// left alone.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	for depth := 0; cmd != nil && depth < 8; depth++ {
		var next []tea.Cmd
		for _, msg := range run(cmd) {
			switch msg.(type) {
			case commentsMsg, commentersMsg, signedMsg, guestsMsg, householdMsg, rsvpUpdatedMsg, rsvpCreatedMsg, pdfMsg:
				_, c := a.Update(msg)
				next = append(next, c)
			}
		}
		cmd = tea.Batch(next...)
	}
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyNavigationCommitsAfterTransition(t *testing.T) {
	a, clock, _ := newTestApp(t, navigation.ViewLanding, 100)

	a.Update(keyMsg("s"))
	st := a.nav.State()
	if st.Idle() || st.To != navigation.ViewStory {
		t.Fatalf("Expected transition to story, got %s", st)
	}
	if a.Current() != navigation.ViewStory {
		t.Errorf("Expected current view story, got %s", a.Current())
	}
	if view := a.View(); view == "" {
		t.Error("Expected a transition frame, got empty view")
	}

	// a second intent while exiting is ignored
	a.Update(keyMsg("d"))

	clock.Advance(a.cfg.UI.Transition)
	if st := a.nav.State(); !st.Idle() || st.View != navigation.ViewStory {
		t.Fatalf("Expected idle(story), got %s", st)
	}

	a.Update(keyMsg("esc"))
	clock.Advance(a.cfg.UI.Transition)
	if st := a.nav.State(); !st.Idle() || st.View != navigation.ViewLanding {
		t.Fatalf("Expected idle(landing) after back, got %s", st)
	}
}

func swipe(a *App, fromX, toX, y int) {
	a.View()
	a.Update(tea.MouseMsg{X: fromX, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: toX, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: toX, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
}

func TestMouseSwipe(t *testing.T) {
	tests := []struct {
		name  string
		width int
		from  int
		to    int
		want  navigation.View
	}{
		{"left swipe on mobile width opens story", 80, 60, 40, navigation.ViewStory},
		{"right swipe on mobile width opens rsvp", 80, 20, 40, navigation.ViewRSVP},
		{"short drag is not a swipe", 80, 40, 36, navigation.ViewLanding},
		{"desktop width ignores swipes", 120, 90, 30, navigation.ViewLanding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, clock, _ := newTestApp(t, navigation.ViewLanding, tt.width)
			// the footer row holds no buttons
			swipe(a, tt.from, tt.to, 39)
			clock.Advance(a.cfg.UI.Transition)
			if got := a.nav.State().View; got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClickOnLanguageToggle(t *testing.T) {
	a, _, _ := newTestApp(t, navigation.ViewLanding, 100)
	a.View()

	var toggle region
	for _, r := range a.regions {
		if r.y == 0 && r.target == gesture.TargetButton {
			toggle = r
		}
	}
	if toggle.w == 0 {
		t.Fatal("Expected a language toggle region in the header")
	}

	a.Update(tea.MouseMsg{X: toggle.x, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: toggle.x, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	if got := a.tr.Language(); got != locale.Spanish {
		t.Errorf("Expected %s after click, got %s", locale.Spanish, got)
	}

	a.Update(keyMsg("l"))
	if got := a.tr.Language(); got != locale.English {
		t.Errorf("Expected %s after key toggle, got %s", locale.English, got)
	}
}

func TestLanguageToggleLeavesTransitionAlone(t *testing.T) {
	a, clock, _ := newTestApp(t, navigation.ViewLanding, 100)

	if !a.nav.Navigate(navigation.ViewRSVP) {
		t.Fatal("Expected navigation to RSVP to start")
	}
	before := a.nav.State()

	a.Update(keyMsg("l"))
	a.Update(keyMsg("l"))

	if got := a.tr.Language(); got != locale.English {
		t.Errorf("Expected double toggle to return to %s, got %s", locale.English, got)
	}
	if diff := cmp.Diff(before, a.nav.State()); diff != "" {
		t.Errorf("Expected toggling to keep the transition state (-before +after):\n%s", diff)
	}

	clock.Advance(a.cfg.UI.Transition)
	want := navigation.State{Phase: navigation.PhaseIdle, View: navigation.ViewRSVP}
	if diff := cmp.Diff(want, a.nav.State()); diff != "" {
		t.Errorf("Expected idle(rsvp) after the transition (-want +got):\n%s", diff)
	}
}

func TestTouchEventsSwipe(t *testing.T) {
	a, clock, _ := newTestApp(t, navigation.ViewLanding, 80)
	a.View()

	y := 39*a.cfg.UI.CellHeight + 1
	a.Update(touchMsg(touch.Event{Phase: touch.Start, X: 500, Y: y}))
	a.Update(touchMsg(touch.Event{Phase: touch.Move, X: 380, Y: y}))
	a.Update(touchMsg(touch.Event{Phase: touch.End, X: 380, Y: y}))
	clock.Advance(a.cfg.UI.Transition)

	if got := a.nav.State().View; got != navigation.ViewStory {
		t.Errorf("Expected story after touch swipe, got %s", got)
	}
}

func TestGuestBookPaging(t *testing.T) {
	a, clock, backend := newTestApp(t, navigation.ViewGuestBook, 100)
	drain(t, a, a.Init())

	page := a.pages[navigation.ViewGuestBook].(*guestBookPage)
	if page.pager.Total() != 2 {
		t.Fatalf("Expected 2 pages, got %d", page.pager.Total())
	}
	if !strings.Contains(a.View(), "Congratulations!") {
		t.Error("Expected first page note in view")
	}

	// swipes never navigate away from a routed view
	swipe(a, 60, 20, 39)
	clock.Advance(a.cfg.UI.Transition)
	if a.Current() != navigation.ViewGuestBook {
		t.Fatalf("Expected guest book to stay, got %s", a.Current())
	}

	a.Update(keyMsg("]"))
	if page.pager.Phase().String() != "fading-out" {
		t.Fatalf("Expected fading-out, got %s", page.pager.Phase())
	}
	clock.Advance(a.cfg.UI.PageFade)
	_, cmd := a.Update(frameMsg(clock.Now()))
	drain(t, a, cmd)

	if page.pager.Current() != 1 {
		t.Errorf("Expected page index 1, got %d", page.pager.Current())
	}
	if !strings.Contains(a.View(), "See you in July") {
		t.Error("Expected second page note in view")
	}
	backend.mu.Lock()
	calls := append([]int(nil), backend.listCalls...)
	backend.mu.Unlock()
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("Expected service pages [1 2], got %v", calls)
	}
}

func TestGuestBookSigning(t *testing.T) {
	a, _, backend := newTestApp(t, navigation.ViewGuestBook, 100)
	drain(t, a, a.Init())
	page := a.pages[navigation.ViewGuestBook].(*guestBookPage)

	a.Update(keyMsg("w"))
	if !page.capturing() {
		t.Fatal("Expected compose form to capture keys")
	}
	page.email.set("ana@example.com")
	page.password.set("secret")
	_, cmd := a.Update(keyMsg("ctrl+s"))
	drain(t, a, cmd)

	if page.stage != composeWriting {
		t.Fatalf("Expected writing stage, got %d", page.stage)
	}
	if page.draft.InviteeID != "inv-1" {
		t.Errorf("Expected the only invitee to be preselected, got %q", page.draft.InviteeID)
	}

	page.text.SetValue("So happy for you both")
	_, cmd = a.Update(keyMsg("ctrl+s"))
	drain(t, a, cmd)

	if page.stage != composeClosed {
		t.Errorf("Expected compose to close, got stage %d", page.stage)
	}
	if len(backend.posted) != 1 || backend.posted[0] != "So happy for you both" {
		t.Errorf("Expected one posted note, got %v", backend.posted)
	}
	if got := page.pager.Comments(); len(got) == 0 || got[0].ID != "new" {
		t.Errorf("Expected posted note first, got %+v", got)
	}
}

func fillRSVP(p *rsvpPage) {
	p.line1.set("1 Lake Shore Dr")
	p.city.set("Asheville")
	p.state.set("NC")
	p.postal.set("28801")
	p.phone.set("(828) 555-0100")
	p.email.set("guest@example.com")
	p.password.set("pw")
	p.confirm.set("pw")
	p.guests.names[0].set("Ana Pérez")
}

func TestRSVPSubmission(t *testing.T) {
	t.Run("success resets the form", func(t *testing.T) {
		a, _, backend := newTestApp(t, navigation.ViewRSVP, 100)
		page := a.pages[navigation.ViewRSVP].(*rsvpPage)
		fillRSVP(page)

		_, cmd := a.Update(keyMsg("ctrl+s"))
		drain(t, a, cmd)

		if !page.submitted {
			t.Fatalf("Expected submitted, got err %v", page.err)
		}
		if len(backend.submitted) == 0 {
			t.Error("Expected submissions to reach the service")
		}
		if page.email.value() != "" {
			t.Errorf("Expected form reset, got email %q", page.email.value())
		}
	})

	t.Run("duplicate email offers edit", func(t *testing.T) {
		a, clock, backend := newTestApp(t, navigation.ViewRSVP, 100)
		backend.submitErr = &api.APIError{Type: api.ErrTypeConflict, Message: "duplicate"}
		page := a.pages[navigation.ViewRSVP].(*rsvpPage)
		fillRSVP(page)

		_, cmd := a.Update(keyMsg("ctrl+s"))
		drain(t, a, cmd)
		if !page.duplicate {
			t.Fatalf("Expected duplicate notice, got err %v", page.err)
		}

		a.Update(keyMsg("e"))
		clock.Advance(a.cfg.UI.Transition)
		if got := a.nav.State().View; got != navigation.ViewEditRSVP {
			t.Errorf("Expected edit rsvp, got %s", got)
		}
	})

	t.Run("invalid form stays local", func(t *testing.T) {
		a, _, backend := newTestApp(t, navigation.ViewRSVP, 100)
		page := a.pages[navigation.ViewRSVP].(*rsvpPage)

		_, cmd := a.Update(keyMsg("ctrl+s"))
		drain(t, a, cmd)
		if page.err == nil {
			t.Error("Expected a validation error")
		}
		if len(backend.submitted) != 0 {
			t.Errorf("Expected no submissions, got %d", len(backend.submitted))
		}
	})
}

func TestEditRSVPNotFound(t *testing.T) {
	a, _, _ := newTestApp(t, navigation.ViewEditRSVP, 100)
	a.Init()
	page := a.pages[navigation.ViewEditRSVP].(*editPage)

	page.email.set("nobody@example.com")
	page.password.set("pw")
	_, cmd := a.Update(keyMsg("ctrl+s"))
	drain(t, a, cmd)

	if page.stage != stageCredentials {
		t.Fatalf("Expected credentials stage, got %d", page.stage)
	}
	if got := userMessage(page.err); !strings.Contains(got, "No RSVP found") {
		t.Errorf("Expected no-rsvp message, got %q", got)
	}
}

func TestHitPrefersTopmostRegion(t *testing.T) {
	regions := []region{
		{x: 0, y: 0, w: 10, h: 10, target: gesture.TargetModal},
		{x: 2, y: 2, w: 3, h: 1, target: gesture.TargetButton},
	}
	tests := []struct {
		x, y int
		want gesture.Target
		ok   bool
	}{
		{3, 2, gesture.TargetButton, true},
		{1, 1, gesture.TargetModal, true},
		{20, 20, gesture.TargetContent, false},
	}
	for _, tt := range tests {
		r, ok := hit(regions, tt.x, tt.y)
		if ok != tt.ok || (ok && r.target != tt.want) {
			t.Errorf("hit(%d, %d): expected %s/%v, got %s/%v", tt.x, tt.y, tt.want, tt.ok, r.target, ok)
		}
	}

	moved := offset(regions, 5, -9, 3)
	if len(moved) != 1 || moved[0].target != gesture.TargetModal || moved[0].x != 5 {
		t.Errorf("Expected only the modal to survive the offset, got %+v", moved)
	}
}

func TestSlide(t *testing.T) {
	out := []string{"AAAA"}
	in := []string{"BBBB"}

	tests := []struct {
		dir      navigation.Direction
		progress float64
		want     string
	}{
		{navigation.DirectionLeft, 0, "AAAA"},
		{navigation.DirectionLeft, 0.5, "AABB"},
		{navigation.DirectionLeft, 1, "BBBB"},
		{navigation.DirectionRight, 0.5, "BBAA"},
		{navigation.DirectionRight, 2, "BBBB"},
	}
	for _, tt := range tests {
		frame := slide(out, in, 4, 2, tt.dir, tt.progress)
		if len(frame) != 2 {
			t.Fatalf("Expected 2 lines, got %d", len(frame))
		}
		if frame[0] != tt.want {
			t.Errorf("slide(%s, %.1f): expected %q, got %q", tt.dir, tt.progress, tt.want, frame[0])
		}
		if frame[1] != "    " {
			t.Errorf("Expected padded blank line, got %q", frame[1])
		}
	}
}

func TestTeaSchedulerStop(t *testing.T) {
	var queued []tea.Cmd
	s := newTeaScheduler(func(c tea.Cmd) { queued = append(queued, c) })

	fired := 0
	task := s.AfterFunc(time.Millisecond, func() { fired++ })
	other := s.AfterFunc(time.Millisecond, func() { fired += 10 })
	if len(queued) != 2 {
		t.Fatalf("Expected 2 queued ticks, got %d", len(queued))
	}
	if !task.Stop() {
		t.Error("Expected first Stop to succeed")
	}
	if task.Stop() {
		t.Error("Expected second Stop to report false")
	}

	for _, c := range queued {
		msg := c().(taskMsg)
		s.fire(msg.id)
	}
	if fired != 10 {
		t.Errorf("Expected only the second task to run, got %d", fired)
	}
	if other.Stop() {
		t.Error("Expected Stop after firing to report false")
	}
}
