// Package navigation owns which page is visible and hands off between pages
// with a fixed-duration transition. At most one transition is in flight; any
// intent received while one is running is ignored.
package navigation

import (
	"fmt"
	"time"

	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/logger"
	"github.com/yildizm/wedsite/internal/schedule"
)

// DefaultDuration matches the slide animation of the pages.
const DefaultDuration = 600 * time.Millisecond

// Phase of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseExiting
)

// State is either Idle(View) or Exiting(View -> To).
type State struct {
	Phase     Phase
	View      View
	To        View
	Direction Direction
	Kind      Kind
}

// Idle reports whether no transition is running.
func (s State) Idle() bool {
	return s.Phase == PhaseIdle
}

func (s State) String() string {
	if s.Idle() {
		return fmt.Sprintf("idle(%s)", s.View)
	}
	return fmt.Sprintf("exiting(%s->%s, %s)", s.View, s.To, s.Direction)
}

// Role of a rendered view.
type Role int

const (
	RolePrimary Role = iota
	RoleOutgoing
	RoleIncoming
)

// Layer is one view the UI should draw.
type Layer struct {
	View      View
	Role      Role
	Direction Direction
}

// EventType of a controller notification.
type EventType int

const (
	EventStarted EventType = iota
	EventCommitted
	EventCancelled
)

// Event is delivered to listeners after each state change.
type Event struct {
	Type  EventType
	State State
}

// Callbacks are the intents a page may raise. OnEditRSVP is only set for
// the RSVP page; OnBack is nil on Landing.
type Callbacks struct {
	OnBack     func() bool
	OnEditRSVP func() bool
}

// Controller is single-threaded: call it from the UI event loop and give it
// a scheduler whose callbacks run on that loop too.
type Controller struct {
	state     State
	scheduler schedule.Scheduler
	duration  time.Duration
	pending   schedule.Task
	seq       uint64
	listeners []func(Event)
	log       *logger.Logger
}

// Option configures a Controller.
type Option func(*Controller)

func WithDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.duration = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStart sets the initial view. Routed views are not valid starts and
// fall back to Landing.
func WithStart(v View) Option {
	return func(c *Controller) {
		if !v.Routed() {
			c.state.View = v
		}
	}
}

// New creates a controller idle on Landing.
func New(scheduler schedule.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		state:     State{Phase: PhaseIdle, View: ViewLanding},
		scheduler: scheduler,
		duration:  DefaultDuration,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

// Active is the idle view, or the outgoing view while exiting.
func (c *Controller) Active() View {
	return c.state.View
}

func (c *Controller) Duration() time.Duration {
	return c.duration
}

// Subscribe registers fn for every state change.
func (c *Controller) Subscribe(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
}

// Navigate requests a transition to the given view. It reports whether the
// intent was accepted.
func (c *Controller) Navigate(to View) bool {
	if !c.state.Idle() {
		c.log.Debug("ignoring %s: %s in flight", to, c.state)
		return false
	}
	from := c.state.View
	if from == to {
		return false
	}
	r, ok := edges[edge{from, to}]
	if !ok {
		c.log.Debug("no transition %s -> %s", from, to)
		return false
	}
	c.begin(from, to, r)
	return true
}

// Back is the active page's onBack.
func (c *Controller) Back() bool {
	to, ok := backTargets[c.state.View]
	if !ok || !c.state.Idle() {
		return false
	}
	return c.Navigate(to)
}

// EditRSVP is the RSVP page's onEditRSVP: RSVP slides out right while the
// edit form arrives from the left. Only valid from RSVP.
func (c *Controller) EditRSVP() bool {
	if !c.state.Idle() || c.state.View != ViewRSVP {
		return false
	}
	c.begin(ViewRSVP, ViewEditRSVP, route{dir: DirectionRight, kind: KindSibling})
	return true
}

// Swipe maps a recognized swipe through the current view's table.
func (c *Controller) Swipe(s gesture.Swipe) bool {
	if s == gesture.SwipeNone || !c.state.Idle() {
		return false
	}
	to, ok := SwipeTarget(c.state.View, s)
	if !ok {
		return false
	}
	if c.state.View == ViewRSVP && to == ViewEditRSVP {
		return c.EditRSVP()
	}
	return c.Navigate(to)
}

// Cancel stops an in-flight transition and returns to the view it started
// from. It reports whether anything was cancelled.
func (c *Controller) Cancel() bool {
	if c.state.Idle() || c.pending == nil {
		return false
	}
	if !c.pending.Stop() {
		return false
	}
	c.pending = nil
	c.seq++
	c.state = State{Phase: PhaseIdle, View: c.state.View}
	c.emit(EventCancelled)
	return true
}

// Layers returns what to draw: one primary view when idle, the outgoing and
// incoming views while exiting.
func (c *Controller) Layers() []Layer {
	if c.state.Idle() {
		return []Layer{{View: c.state.View, Role: RolePrimary}}
	}
	return []Layer{
		{View: c.state.View, Role: RoleOutgoing, Direction: c.state.Direction},
		{View: c.state.To, Role: RoleIncoming, Direction: c.state.Direction},
	}
}

// Callbacks returns the intents injected into the active page.
func (c *Controller) Callbacks() Callbacks {
	var cb Callbacks
	if _, ok := backTargets[c.state.View]; ok {
		cb.OnBack = c.Back
	}
	if c.state.View == ViewRSVP {
		cb.OnEditRSVP = c.EditRSVP
	}
	return cb
}

func (c *Controller) begin(from, to View, r route) {
	c.seq++
	seq := c.seq
	c.state = State{Phase: PhaseExiting, View: from, To: to, Direction: r.dir, Kind: r.kind}
	c.pending = c.scheduler.AfterFunc(c.duration, func() { c.commit(seq) })
	c.log.Debug("transition %s (%s)", c.state, r.kind)
	c.emit(EventStarted)
}

func (c *Controller) commit(seq uint64) {
	if c.state.Idle() || seq != c.seq {
		return
	}
	c.state = State{Phase: PhaseIdle, View: c.state.To}
	c.pending = nil
	c.log.Debug("committed %s", c.state)
	c.emit(EventCommitted)
}

func (c *Controller) emit(t EventType) {
	ev := Event{Type: t, State: c.state}
	for _, fn := range c.listeners {
		fn(ev)
	}
}
