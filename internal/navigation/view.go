package navigation

import "strings"

// View is one top-level page of the site.
type View int

const (
	ViewLanding View = iota
	ViewSaveTheDate
	ViewRSVP
	ViewEditRSVP
	ViewStory
	ViewGuestBook
	ViewGuestList
)

var viewNames = map[View]string{
	ViewLanding:     "landing",
	ViewSaveTheDate: "save-the-date",
	ViewRSVP:        "rsvp",
	ViewEditRSVP:    "edit-rsvp",
	ViewStory:       "story",
	ViewGuestBook:   "guestbook",
	ViewGuestList:   "guestlist",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// Routed views are reached by path and never take part in transitions.
func (v View) Routed() bool {
	return v == ViewGuestBook || v == ViewGuestList
}

// ParseRoute maps a site path to its entry view.
func ParseRoute(path string) (View, bool) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(path)), "/") {
	case "", "/":
		return ViewLanding, true
	case "/guestbook", "guestbook":
		return ViewGuestBook, true
	case "/guestlist", "guestlist":
		return ViewGuestList, true
	default:
		return ViewLanding, false
	}
}

// Direction is the slide direction of a transition: the outgoing view moves
// this way and the incoming view arrives from the opposite side.
type Direction int

const (
	DirectionLeft Direction = iota
	DirectionRight
)

func (d Direction) String() string {
	if d == DirectionRight {
		return "right"
	}
	return "left"
}

// Kind tells forward, back and sibling hand-offs apart.
type Kind int

const (
	KindForward Kind = iota
	KindBack
	KindSibling
)

func (k Kind) String() string {
	switch k {
	case KindBack:
		return "back"
	case KindSibling:
		return "sibling"
	default:
		return "forward"
	}
}

type edge struct {
	from, to View
}

type route struct {
	dir  Direction
	kind Kind
}

var edges = map[edge]route{
	{ViewLanding, ViewStory}:       {DirectionLeft, KindForward},
	{ViewStory, ViewLanding}:       {DirectionRight, KindBack},
	{ViewLanding, ViewRSVP}:        {DirectionRight, KindForward},
	{ViewRSVP, ViewLanding}:        {DirectionLeft, KindBack},
	{ViewLanding, ViewSaveTheDate}: {DirectionRight, KindForward},
	{ViewSaveTheDate, ViewLanding}: {DirectionLeft, KindBack},
	{ViewRSVP, ViewEditRSVP}:       {DirectionRight, KindSibling},
	{ViewEditRSVP, ViewRSVP}:       {DirectionLeft, KindBack},
}

// backTargets is the destination of each view's onBack.
var backTargets = map[View]View{
	ViewStory:       ViewLanding,
	ViewSaveTheDate: ViewLanding,
	ViewRSVP:        ViewLanding,
	ViewEditRSVP:    ViewRSVP,
}

// Edges lists every defined transition as from/to pairs.
func Edges() [][2]View {
	out := make([][2]View, 0, len(edges))
	for _, from := range []View{ViewLanding, ViewSaveTheDate, ViewRSVP, ViewEditRSVP, ViewStory} {
		for _, to := range []View{ViewLanding, ViewSaveTheDate, ViewRSVP, ViewEditRSVP, ViewStory} {
			if _, ok := edges[edge{from, to}]; ok {
				out = append(out, [2]View{from, to})
			}
		}
	}
	return out
}
