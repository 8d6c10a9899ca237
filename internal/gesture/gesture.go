// Package gesture classifies touch sequences into horizontal swipes.
//
// Recognition is limited to mobile-width viewports. A touch that starts on an
// interactive element or inside a modal is ignored for its whole lifetime, and
// mostly vertical movement never counts as a swipe.
package gesture

// Target describes what a touch landed on.
type Target int

const (
	TargetContent Target = iota
	TargetButton
	TargetLink
	TargetInput
	TargetTextArea
	TargetSelect
	TargetModal
)

// Interactive reports whether touches starting on t must be ignored.
func (t Target) Interactive() bool {
	return t != TargetContent
}

func (t Target) String() string {
	switch t {
	case TargetButton:
		return "button"
	case TargetLink:
		return "link"
	case TargetInput:
		return "input"
	case TargetTextArea:
		return "textarea"
	case TargetSelect:
		return "select"
	case TargetModal:
		return "modal"
	default:
		return "content"
	}
}

// Swipe is the outcome of a touch sequence.
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipeLeft
	SwipeRight
)

func (s Swipe) String() string {
	switch s {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	default:
		return "none"
	}
}

// Thresholds in pixels.
type Thresholds struct {
	MobileMaxWidth   int
	MoveThreshold    int
	MinSwipeDistance int
}

// DefaultThresholds match the CSS breakpoint and the touch tuning of the site.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MobileMaxWidth:   768,
		MoveThreshold:    10,
		MinSwipeDistance: 50,
	}
}

// Recognizer tracks one touch interaction at a time. It is not safe for
// concurrent use; feed it from the UI event loop.
type Recognizer struct {
	th       Thresholds
	viewport func() int

	tracking bool
	startX   int
	startY   int
	endX     int
	swiping  bool
}

// NewRecognizer creates a recognizer. viewport returns the current viewport
// width in pixels and is read at touch start and touch end.
func NewRecognizer(th Thresholds, viewport func() int) *Recognizer {
	return &Recognizer{th: th, viewport: viewport}
}

func (r *Recognizer) mobile() bool {
	return r.viewport != nil && r.viewport() <= r.th.MobileMaxWidth
}

// Tracking reports whether a touch interaction is being recorded.
func (r *Recognizer) Tracking() bool {
	return r.tracking
}

// TouchStart begins an interaction at (x, y) on target.
func (r *Recognizer) TouchStart(target Target, x, y int) {
	r.reset()
	if !r.mobile() || target.Interactive() {
		return
	}
	r.tracking = true
	r.startX, r.startY = x, y
	r.endX = x
}

// TouchMove records a movement sample.
func (r *Recognizer) TouchMove(x, y int) {
	if !r.tracking {
		return
	}
	dx := abs(x - r.startX)
	dy := abs(y - r.startY)
	if dx > dy && dx > r.th.MoveThreshold {
		r.swiping = true
		r.endX = x
	}
}

// TouchEnd finishes the interaction and returns its classification. State is
// always cleared.
func (r *Recognizer) TouchEnd() Swipe {
	defer r.reset()
	if !r.tracking || !r.swiping || !r.mobile() {
		return SwipeNone
	}

	distance := r.startX - r.endX
	switch {
	case distance >= r.th.MinSwipeDistance:
		return SwipeLeft
	case distance <= -r.th.MinSwipeDistance:
		return SwipeRight
	default:
		return SwipeNone
	}
}

// TouchCancel drops the current interaction.
func (r *Recognizer) TouchCancel() {
	r.reset()
}

func (r *Recognizer) reset() {
	r.tracking = false
	r.swiping = false
	r.startX, r.startY, r.endX = 0, 0, 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
