package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/navigation"
)

// region is a clickable or touch-sensitive rectangle of the last render,
// in cells relative to the screen it was recorded on.
type region struct {
	x, y, w, h int
	target     gesture.Target
	action     func() tea.Cmd
}

func (r region) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// item is one element of a horizontal row.
type item struct {
	text   string
	target gesture.Target
	action func() tea.Cmd
}

func button(text string, action func() tea.Cmd) item {
	return item{text: text, target: gesture.TargetButton, action: action}
}

func link(text string, action func() tea.Cmd) item {
	return item{text: text, target: gesture.TargetLink, action: action}
}

func plain(text string) item {
	return item{text: text}
}

// screen collects the lines of a page body and the regions drawn on them.
type screen struct {
	width   int
	lines   []string
	regions []region
}

func newScreen(width int) *screen {
	return &screen{width: width}
}

// add appends a rendered block.
func (s *screen) add(block string) {
	s.lines = append(s.lines, strings.Split(block, "\n")...)
}

func (s *screen) blank() {
	s.lines = append(s.lines, "")
}

// area appends a block and makes all of it one region.
func (s *screen) area(block string, target gesture.Target, action func() tea.Cmd) {
	top := len(s.lines)
	s.add(block)
	s.regions = append(s.regions, region{
		x: 0, y: top,
		w: lipgloss.Width(block), h: len(s.lines) - top,
		target: target, action: action,
	})
}

// cover registers a region over lines already added, from line top to the
// current end. Later regions win hit tests, so a cover added first acts as
// a backdrop for the regions drawn inside it.
func (s *screen) cover(top int, target gesture.Target) {
	s.regions = append(s.regions, region{x: 0, y: top, w: s.width, h: len(s.lines) - top, target: target})
}

// boxed draws sub inside style. The whole box is one target region and the
// regions of sub keep working inside it.
func (s *screen) boxed(sub *screen, style lipgloss.Style, target gesture.Target) {
	top := s.mark()
	s.add(style.Render(strings.Join(sub.lines, "\n")))
	s.cover(top, target)
	dx := style.GetBorderLeftSize() + style.GetPaddingLeft()
	dy := top + style.GetBorderTopSize() + style.GetPaddingTop()
	for _, r := range sub.regions {
		r.x += dx
		r.y += dy
		s.regions = append(s.regions, r)
	}
}

// row lays items out side by side, two cells apart.
func (s *screen) row(items ...item) {
	if len(items) == 0 {
		return
	}
	top := len(s.lines)
	blocks := make([]string, 0, 2*len(items))
	x := 0
	for i, it := range items {
		if i > 0 {
			blocks = append(blocks, "  ")
			x += 2
		}
		w := lipgloss.Width(it.text)
		if it.target != gesture.TargetContent || it.action != nil {
			s.regions = append(s.regions, region{
				x: x, y: top, w: w, h: lipgloss.Height(it.text),
				target: it.target, action: it.action,
			})
		}
		blocks = append(blocks, it.text)
		x += w
	}
	s.add(lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
}

// mark starts a section whose extent is known only after it is drawn.
func (s *screen) mark() int {
	return len(s.lines)
}

// hit returns the topmost region at (x, y).
func hit(regions []region, x, y int) (region, bool) {
	for i := len(regions) - 1; i >= 0; i-- {
		if regions[i].contains(x, y) {
			return regions[i], true
		}
	}
	return region{}, false
}

// offset moves regions by (dx, dy) and drops those outside rows
// [0, maxY).
func offset(regions []region, dx, dy, maxY int) []region {
	out := make([]region, 0, len(regions))
	for _, r := range regions {
		r.x += dx
		r.y += dy
		if r.y+r.h <= 0 || r.y >= maxY {
			continue
		}
		out = append(out, r)
	}
	return out
}

// fit pads or cuts s to exactly width cells.
func fit(s string, width int) string {
	w := ansi.StringWidth(s)
	switch {
	case w > width:
		return ansi.Truncate(s, width, "")
	case w < width:
		return s + strings.Repeat(" ", width-w)
	default:
		return s
	}
}

// slide composes one frame of a transition. The outgoing view moves in dir
// while the incoming one follows from the opposite edge; progress runs from
// 0 to 1.
func slide(out, in []string, width, height int, dir navigation.Direction, progress float64) []string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	shift := int(progress * float64(width))

	frame := make([]string, height)
	for y := 0; y < height; y++ {
		o := fit(lineAt(out, y), width)
		i := fit(lineAt(in, y), width)
		if dir == navigation.DirectionLeft {
			// [out | in] viewed from shift
			frame[y] = ansi.Cut(o, shift, width) + ansi.Cut(i, 0, shift)
		} else {
			// [in | out] viewed from width-shift
			frame[y] = ansi.Cut(i, width-shift, width) + ansi.Cut(o, 0, width-shift)
		}
	}
	return frame
}

func lineAt(lines []string, y int) string {
	if y < len(lines) {
		return lines[y]
	}
	return ""
}
