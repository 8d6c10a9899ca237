// Package ui is the terminal front end of the wedding site: the pages, the
// sliding transitions between them and pointer, touch and keyboard input.
package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/atomic"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/config"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/guestbook"
	"github.com/yildizm/wedsite/internal/guestlist"
	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/logger"
	"github.com/yildizm/wedsite/internal/navigation"
	"github.com/yildizm/wedsite/internal/rsvp"
	"github.com/yildizm/wedsite/internal/schedule"
	"github.com/yildizm/wedsite/internal/touch"
	"github.com/yildizm/wedsite/internal/wedding"
)

const (
	headerHeight = 2
	footerHeight = 2
	maxBodyWidth = 96
	frameRate    = time.Second / 30
)

// Backend is the RSVP service as the pages use it. *api.Client satisfies it.
type Backend interface {
	rsvp.Client
	guestbook.Source
	guestlist.Source
}

// Options configure an App.
type Options struct {
	Config  *config.Config
	Backend Backend
	Catalog *locale.Catalog
	Setting *locale.Setting
	// Start is the entry view; the guest book and guest list stand alone.
	Start navigation.View
	// Scheduler defaults to one driven by the program's own ticks.
	Scheduler schedule.Scheduler
	Touch     <-chan touch.Event
	Log       *logger.Logger
	Now       func() time.Time
	Context   context.Context
}

// page is one top-level view.
type page interface {
	render(s *screen)
	handleKey(msg tea.KeyMsg) (bool, tea.Cmd)
	// capturing reports a focused text field that wants letter keys.
	capturing() bool
	update(msg tea.Msg) tea.Cmd
	enter() tea.Cmd
	help() []key.Binding
}

type pointerState struct {
	down     bool
	region   region
	onRegion bool
}

// App is the bubbletea model.
type App struct {
	cfg     *config.Config
	backend Backend
	service *rsvp.Service
	catalog *locale.Catalog
	setting *locale.Setting
	tr      *locale.Translator
	styles  *Styles
	log     *logger.Logger
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc

	nav    *navigation.Controller
	sched  schedule.Scheduler
	tsched *teaScheduler
	rec    *gesture.Recognizer
	routed navigation.View
	pages  map[navigation.View]page

	keys     keyMap
	help     help.Model
	showHelp bool

	width, height int
	pxWidth       atomic.Int64
	pxHeight      atomic.Int64
	ready         bool
	quitting      bool

	queue           []tea.Cmd
	regions         []region
	pointer         pointerState
	scroll          map[navigation.View]int
	status          string
	transitionStart time.Time
	touch           <-chan touch.Event
}

// NewApp builds the model. Missing options fall back to defaults.
func NewApp(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	setting := opts.Setting
	if setting == nil {
		setting = locale.NewSetting(cfg.Language())
	}
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = locale.NewCatalog(""); err != nil {
			panic(err)
		}
	}

	a := &App{
		cfg:     cfg,
		backend: opts.Backend,
		catalog: catalog,
		setting: setting,
		tr:      locale.NewTranslator(catalog, setting),
		styles:  GetStyles(),
		log:     log.WithComponent("ui"),
		now:     now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		scroll:  make(map[navigation.View]int),
		touch:   opts.Touch,
		routed:  -1,
	}
	a.ctx, a.cancel = context.WithCancel(ctx)
	if opts.Backend != nil {
		a.service = rsvp.NewService(opts.Backend, cfg.EventIDs(), log)
	}

	a.sched = opts.Scheduler
	if a.sched == nil {
		a.tsched = newTeaScheduler(a.enqueue)
		a.sched = a.tsched
	}

	start := opts.Start
	if start.Routed() {
		a.routed = start
	}
	a.nav = navigation.New(a.sched,
		navigation.WithDuration(cfg.UI.Transition),
		navigation.WithLogger(log.WithComponent("navigation")),
		navigation.WithStart(start),
	)
	a.nav.Subscribe(a.onNavigation)
	a.rec = gesture.NewRecognizer(cfg.Thresholds(), func() int { return int(a.pxWidth.Load()) })

	a.pages = map[navigation.View]page{
		navigation.ViewLanding:     newLandingPage(a),
		navigation.ViewStory:       newStoryPage(a),
		navigation.ViewSaveTheDate: newSaveTheDatePage(a),
		navigation.ViewRSVP:        newRSVPPage(a),
		navigation.ViewEditRSVP:    newEditPage(a),
		navigation.ViewGuestBook:   newGuestBookPage(a),
		navigation.ViewGuestList:   newGuestListPage(a),
	}
	return a
}

// Navigation exposes the controller, mainly for tests and the CLI.
func (a *App) Navigation() *navigation.Controller {
	return a.nav
}

// Viewport is the window size in pixels, as the touch reader scales to.
func (a *App) Viewport() (int, int) {
	return int(a.pxWidth.Load()), int(a.pxHeight.Load())
}

// Current is the view on screen: the routed view, the incoming view of a
// transition or the idle view.
func (a *App) Current() navigation.View {
	if a.routed >= 0 {
		return a.routed
	}
	st := a.nav.State()
	if st.Idle() {
		return st.View
	}
	return st.To
}

func (a *App) activePage() page {
	if a.routed >= 0 {
		return a.pages[a.routed]
	}
	return a.pages[a.nav.Active()]
}

func (a *App) enqueue(cmd tea.Cmd) {
	if cmd != nil {
		a.queue = append(a.queue, cmd)
	}
}

// flush returns cmd together with everything queued during the update.
func (a *App) flush(cmd tea.Cmd) tea.Cmd {
	a.enqueue(cmd)
	if len(a.queue) == 0 {
		return nil
	}
	cmds := a.queue
	a.queue = nil
	return tea.Batch(cmds...)
}

// flash shows a one-line status under the page.
func (a *App) flash(s string) {
	a.status = s
}

// Init starts the entry page.
func (a *App) Init() tea.Cmd {
	return a.flush(tea.Batch(a.activePage().enter(), a.waitTouch()))
}

type frameMsg time.Time

type touchMsg touch.Event

type touchClosedMsg struct{}

// translationsReloadedMsg is sent after the catalog was reloaded from disk.
type translationsReloadedMsg struct{}

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) waitTouch() tea.Cmd {
	ch := a.touch
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return touchClosedMsg{}
		}
		return touchMsg(ev)
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.handleWindowResize(msg)
	case tea.KeyMsg:
		cmd = a.handleKeyPress(msg)
	case tea.MouseMsg:
		cmd = a.handleMouse(msg)
	case touchMsg:
		cmd = tea.Batch(a.handleTouch(touch.Event(msg)), a.waitTouch())
	case touchClosedMsg:
		a.log.Warn("touch input stopped")
		a.touch = nil
	case taskMsg:
		if a.tsched != nil {
			a.tsched.fire(msg.id)
		}
	case frameMsg:
		if !a.nav.State().Idle() {
			cmd = frame()
		}
	case translationsReloadedMsg:
		a.log.Info("translations reloaded")
	default:
		cmds := make([]tea.Cmd, 0, len(a.pages))
		for _, p := range a.pages {
			cmds = append(cmds, p.update(msg))
		}
		cmd = tea.Batch(cmds...)
	}
	if a.quitting {
		return a, tea.Quit
	}
	return a, a.flush(cmd)
}

func (a *App) handleWindowResize(msg tea.WindowSizeMsg) {
	a.width = msg.Width
	a.height = msg.Height
	a.pxWidth.Store(int64(msg.Width * a.cfg.UI.CellWidth))
	a.pxHeight.Store(int64(msg.Height * a.cfg.UI.CellHeight))
	a.help.Width = msg.Width
	a.ready = true
}

func (a *App) onNavigation(ev navigation.Event) {
	switch ev.Type {
	case navigation.EventStarted:
		a.transitionStart = a.now()
		a.rec.TouchCancel()
		a.pointer = pointerState{}
		a.enqueue(frame())
	case navigation.EventCommitted:
		a.scroll[ev.State.View] = 0
		a.status = ""
		if p, ok := a.pages[ev.State.View]; ok {
			a.enqueue(p.enter())
		}
	}
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.cancel()
	return tea.Quit
}

func (a *App) toggleLanguage() {
	lang := a.setting.Toggle()
	a.log.Debug("language switched to %s", lang)
}

func (a *App) back() tea.Cmd {
	if a.routed >= 0 {
		return nil
	}
	if cb := a.nav.Callbacks(); cb.OnBack != nil {
		cb.OnBack()
	}
	return nil
}

func (a *App) navigate(to navigation.View) func() tea.Cmd {
	return func() tea.Cmd {
		a.nav.Navigate(to)
		return nil
	}
}

// handleKeyPress handles keyboard input
func (a *App) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a.quit()
	}
	p := a.activePage()
	if p.capturing() {
		_, cmd := p.handleKey(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp
		return nil
	case key.Matches(msg, a.keys.Language):
		a.toggleLanguage()
		return nil
	}

	if handled, cmd := p.handleKey(msg); handled {
		return cmd
	}

	switch {
	case key.Matches(msg, a.keys.Back):
		return a.back()
	case key.Matches(msg, a.keys.ScrollUp):
		a.scrollBy(-1)
	case key.Matches(msg, a.keys.ScrollDown):
		a.scrollBy(1)
	}
	return nil
}

func (a *App) scrollBy(n int) {
	v := a.Current()
	a.scroll[v] = max(0, a.scroll[v]+n)
}

func (a *App) cellToPixel(cx, cy int) (int, int) {
	cw, ch := a.cfg.UI.CellWidth, a.cfg.UI.CellHeight
	return cx*cw + cw/2, cy*ch + ch/2
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		a.scrollBy(-3)
	case msg.Button == tea.MouseButtonWheelDown:
		a.scrollBy(3)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		px, py := a.cellToPixel(msg.X, msg.Y)
		a.pointerDown(msg.X, msg.Y, px, py)
	case msg.Action == tea.MouseActionMotion:
		if a.pointer.down {
			px, py := a.cellToPixel(msg.X, msg.Y)
			a.rec.TouchMove(px, py)
		}
	case msg.Action == tea.MouseActionRelease:
		return a.pointerUp(msg.X, msg.Y)
	}
	return nil
}

func (a *App) handleTouch(ev touch.Event) tea.Cmd {
	cx, cy := ev.X/a.cfg.UI.CellWidth, ev.Y/a.cfg.UI.CellHeight
	switch ev.Phase {
	case touch.Start:
		a.pointerDown(cx, cy, ev.X, ev.Y)
	case touch.Move:
		if a.pointer.down {
			a.rec.TouchMove(ev.X, ev.Y)
		}
	case touch.End:
		return a.pointerUp(cx, cy)
	}
	return nil
}

func (a *App) pointerDown(cx, cy, px, py int) {
	r, ok := hit(a.regions, cx, cy)
	target := gesture.TargetContent
	if ok {
		target = r.target
	}
	a.rec.TouchStart(target, px, py)
	a.pointer = pointerState{down: true, region: r, onRegion: ok && r.action != nil}
}

// pointerUp ends a press: a swipe navigates, a release on the region that
// was pressed activates it.
func (a *App) pointerUp(cx, cy int) tea.Cmd {
	swipe := a.rec.TouchEnd()
	p := a.pointer
	a.pointer = pointerState{}
	if !p.down {
		return nil
	}
	if swipe != gesture.SwipeNone {
		if a.routed < 0 {
			a.nav.Swipe(swipe)
		}
		return nil
	}
	if p.onRegion && p.region.contains(cx, cy) {
		return p.region.action()
	}
	return nil
}

// View renders the header, the page or transition frame and the footer.
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if !a.ready {
		return a.tr.T("loading")
	}

	bodyWidth := min(a.width-4, maxBodyWidth)
	margin := max((a.width-bodyWidth)/2, 0)
	bodyHeight := max(a.height-headerHeight-footerHeight, 1)

	header, headerRegions := a.renderHeader()
	a.regions = headerRegions

	var body []string
	layers := a.layers()
	if len(layers) == 1 {
		s := newScreen(bodyWidth)
		a.pages[layers[0].View].render(s)
		v := layers[0].View
		maxScroll := max(len(s.lines)-bodyHeight, 0)
		if a.scroll[v] > maxScroll {
			a.scroll[v] = maxScroll
		}
		top := a.scroll[v]
		end := min(top+bodyHeight, len(s.lines))
		for _, line := range s.lines[top:end] {
			body = append(body, strings.Repeat(" ", margin)+line)
		}
		a.regions = append(a.regions, offset(s.regions, margin, headerHeight-top, headerHeight+bodyHeight)...)
	} else {
		out := a.renderLayer(layers[0].View, bodyWidth, margin)
		in := a.renderLayer(layers[1].View, bodyWidth, margin)
		progress := float64(a.now().Sub(a.transitionStart)) / float64(a.nav.Duration())
		body = slide(out, in, a.width, bodyHeight, layers[0].Direction, progress)
	}
	for len(body) < bodyHeight {
		body = append(body, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(body, "\n"), a.renderFooter())
}

func (a *App) layers() []navigation.Layer {
	if a.routed >= 0 {
		return []navigation.Layer{{View: a.routed, Role: navigation.RolePrimary}}
	}
	return a.nav.Layers()
}

func (a *App) renderLayer(v navigation.View, width, margin int) []string {
	s := newScreen(width)
	a.pages[v].render(s)
	lines := make([]string, len(s.lines))
	for i, l := range s.lines {
		lines[i] = strings.Repeat(" ", margin) + l
	}
	return lines
}

func (a *App) renderHeader() (string, []region) {
	st := a.styles
	title := st.Title.Render(emoji.GetEmoji("rings") + " " + wedding.Couple)
	toggle := st.Link.Render(emoji.GetEmoji("globe") + " " + a.tr.T("toggleLanguage"))

	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(toggle)-2, 1)
	line := " " + title + strings.Repeat(" ", gap) + toggle
	x := 1 + lipgloss.Width(title) + gap

	rule := st.Muted.Render(strings.Repeat("─", max(a.width, 0)))
	regions := []region{{
		x: x, y: 0, w: lipgloss.Width(toggle), h: 1,
		target: gesture.TargetButton,
		action: func() tea.Cmd { a.toggleLanguage(); return nil },
	}}
	return line + "\n" + rule, regions
}

func (a *App) renderFooter() string {
	st := a.styles
	status := st.Muted.Render(a.status)

	bindings := append(a.activePage().help(), a.keys.Language, a.keys.Help, a.keys.Quit)
	if a.routed < 0 && a.nav.Callbacks().OnBack != nil {
		bindings = append([]key.Binding{a.keys.Back}, bindings...)
	}
	keys := contextKeys{short: bindings, full: [][]key.Binding{bindings, {a.keys.ScrollUp, a.keys.ScrollDown, a.keys.Refresh}}}
	a.help.ShowAll = a.showHelp
	return status + "\n" + a.help.View(keys)
}

// errNoBackend is returned by page commands when the app runs without a
// service.
var errNoBackend = errors.New("the RSVP service is not configured")

// userMessage is the text shown to a guest for err.
func userMessage(err error) string {
	var rv *rsvp.ValidationError
	if errors.As(err, &rv) {
		return rv.Message
	}
	var gv *guestbook.ValidationError
	if errors.As(err, &gv) {
		return gv.Message
	}
	if errors.Is(err, rsvp.ErrNoRSVPFound) {
		return rsvp.ErrNoRSVPFound.Error()
	}
	return api.Message(err)
}

// Run starts the full-screen program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
		opts.Config = cfg
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard()
		opts.Log = log
	}
	SetThemeByName(cfg.UI.Theme)

	logFile := cfg.UI.LogFile
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), "wedsite-ui.log")
	}
	closer, err := log.RedirectToFile(config.ExpandPath(logFile))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = ctx

	app := NewApp(opts)

	if opts.Touch == nil && cfg.Touch.Enabled {
		reader, err := touch.Open(cfg.Touch.Device, app.Viewport, log)
		if err != nil {
			log.Warn("touch disabled: %v", err)
		} else {
			defer func() { _ = reader.Close() }()
			app.touch = reader.Events()
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if cfg.UI.WatchTranslations {
		go func() {
			err := locale.Watch(ctx, app.catalog, log, func() { p.Send(translationsReloadedMsg{}) })
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("translation watcher stopped: %v", err)
			}
		}()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
