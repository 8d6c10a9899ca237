package guestbook

import (
	"time"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/schedule"
)

type Phase int

const (
	Idle Phase = iota
	FadingOut
	FadingIn
)

func (p Phase) String() string {
	switch p {
	case FadingOut:
		return "fading-out"
	case FadingIn:
		return "fading-in"
	default:
		return "idle"
	}
}

// Pager tracks the visible page of comments. Page numbers are 0-indexed
// here and converted to the service's 1-indexed pages on request.
//
// A page change fades the current page out, asks for the new one through
// the request hook and fades it in once Receive delivers it. Pager is not
// safe for concurrent use; the scheduler must call back on the owner's
// goroutine.
type Pager struct {
	scheduler schedule.Scheduler
	fade      time.Duration
	request   func(page int)

	current  int
	total    int
	phase    Phase
	comments []api.Comment
	posted   []api.Comment
	err      error
	loading  bool
	fadeTask schedule.Task
}

// NewPager calls request(page) whenever a page must be fetched; the
// result goes back through Receive.
func NewPager(s schedule.Scheduler, request func(page int)) *Pager {
	return &Pager{scheduler: s, fade: FadeDuration, request: request}
}

func (p *Pager) Current() int { return p.current }
func (p *Pager) Total() int { return p.total }
func (p *Pager) Phase() Phase { return p.phase }
func (p *Pager) Comments() []api.Comment { return p.comments }
func (p *Pager) Err() error { return p.err }
func (p *Pager) Loading() bool { return p.loading }
func (p *Pager) HasNext() bool { return p.current+1 < p.total }
func (p *Pager) HasPrev() bool { return p.current > 0 }
func (p *Pager) SetFade(d time.Duration) { p.fade = d }

// Start loads the first page.
func (p *Pager) Start() {
	p.current = 0
	p.fetch()
}

func (p *Pager) fetch() {
	p.loading = true
	p.err = nil
	p.request(p.current)
}

// ChangePage moves to page n. Requests outside the known range, for the
// current page or during a fade are ignored.
func (p *Pager) ChangePage(n int) bool {
	if n < 0 || n >= p.total || n == p.current || p.phase != Idle {
		return false
	}
	p.phase = FadingOut
	p.fadeTask = p.scheduler.AfterFunc(p.fade, func() {
		p.current = n
		p.phase = FadingIn
		p.fetch()
	})
	return true
}

func (p *Pager) Next() bool { return p.ChangePage(p.current + 1) }
func (p *Pager) Prev() bool { return p.ChangePage(p.current - 1) }

// Receive delivers the result of a request. Results for any page other
// than the current one are stale and dropped.
func (p *Pager) Receive(page int, result *api.CommentPage, err error) {
	if page != p.current {
		return
	}
	p.loading = false

	if err != nil {
		p.err = err
		p.phase = Idle
		return
	}

	comments := result.Comments
	if p.current == 0 && len(p.posted) > 0 {
		comments = mergePosted(p.posted, comments)
	}
	p.comments = comments
	p.total = result.TotalPages

	if p.phase == FadingIn {
		p.fadeTask = p.scheduler.AfterFunc(p.fade, func() {
			p.phase = Idle
		})
	}
}

// Add shows a freshly posted comment at the top of the first page and
// reloads it.
func (p *Pager) Add(c api.Comment) {
	p.posted = append([]api.Comment{c}, p.posted...)
	if p.fadeTask != nil {
		p.fadeTask.Stop()
	}
	p.phase = Idle
	if p.current == 0 {
		p.comments = mergePosted(p.posted, p.comments)
	}
	p.current = 0
	p.fetch()
}

func mergePosted(posted, fetched []api.Comment) []api.Comment {
	seen := make(map[string]bool, len(posted))
	out := make([]api.Comment, 0, len(posted)+len(fetched))
	for _, c := range posted {
		seen[c.ID] = true
		out = append(out, c)
	}
	for _, c := range fetched {
		if !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
