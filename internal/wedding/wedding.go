// Package wedding holds the fixed facts of the celebration: who, when and
// where, plus the calendar and map links built from them.
package wedding

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/wedsite/internal/locale"
)

const (
	Couple  = "Elizabeth & Carlos"
	Website = "www.CarlosAndElizabeth2026.com"
)

// Lake Junaluska is on Eastern time; the wedding is in July.
var eastern = time.FixedZone("EDT", -4*60*60)

// EventKey names one sub-event guests respond to.
type EventKey string

const (
	WelcomeGathering EventKey = "welcomeGathering"
	Ceremony         EventKey = "ceremony"
	Reception        EventKey = "reception"
	Brunch           EventKey = "brunch"
)

// EventKeys returns the sub-events in schedule order.
func EventKeys() []EventKey {
	return []EventKey{WelcomeGathering, Ceremony, Reception, Brunch}
}

// ParseEventKey accepts "ceremony", "welcome-gathering", "welcome_gathering"...
func ParseEventKey(s string) (EventKey, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for _, k := range EventKeys() {
		if strings.ToLower(string(k)) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid event: %s (must be one of: welcomeGathering, ceremony, reception, brunch)", s)
}

// Venue of an event. An empty Name means the location is not decided yet.
type Venue struct {
	Name      string
	Street    string
	Locality  string
	MapsQuery string
}

func (v Venue) Known() bool {
	return v.Name != ""
}

// Address is the one-line street address.
func (v Venue) Address() string {
	if v.Street == "" {
		return v.Locality
	}
	return v.Street + ", " + v.Locality
}

// Event is one entry of the schedule.
type Event struct {
	Key       EventKey
	Title     string
	Start     time.Time
	End       time.Time
	TimeKnown bool
	Venue     Venue
	Attire    string
}

const junaluska = "Lake Junaluska, NC 28745"

var schedule = []Event{
	{
		Key:       WelcomeGathering,
		Title:     "Welcome Gathering",
		Start:     time.Date(2026, time.July, 16, 19, 0, 0, 0, eastern),
		End:       time.Date(2026, time.July, 16, 20, 0, 0, 0, eastern),
		TimeKnown: true,
	},
	{
		Key:       Ceremony,
		Title:     "Ceremony",
		Start:     time.Date(2026, time.July, 17, 17, 30, 0, 0, eastern),
		End:       time.Date(2026, time.July, 17, 18, 30, 0, 0, eastern),
		TimeKnown: true,
		Venue: Venue{
			Name:      "Memorial Chapel",
			Street:    "Chapel Dr.",
			Locality:  junaluska,
			MapsQuery: "Memorial Chapel Chapel Dr Lake Junaluska NC 28745",
		},
	},
	{
		Key:       Reception,
		Title:     "Reception",
		Start:     time.Date(2026, time.July, 17, 18, 30, 0, 0, eastern),
		End:       time.Date(2026, time.July, 17, 21, 0, 0, 0, eastern),
		TimeKnown: true,
		Venue: Venue{
			Name:      "Warren Center",
			Street:    "575 North Lake Shore Dr.",
			Locality:  junaluska,
			MapsQuery: "575 North Lake Shore Dr Lake Junaluska NC 28745",
		},
		Attire: "Cocktail Attire: Semi-formal, elegant attire in bright summer colors",
	},
	{
		Key:   Brunch,
		Title: "Brunch",
		Start: time.Date(2026, time.July, 18, 8, 0, 0, 0, eastern),
		End:   time.Date(2026, time.July, 18, 10, 0, 0, 0, eastern),
	},
}

// Date is the wedding day.
func Date() time.Time {
	return time.Date(2026, time.July, 17, 0, 0, 0, 0, eastern)
}

// Schedule returns a copy of all sub-events in order.
func Schedule() []Event {
	out := make([]Event, len(schedule))
	copy(out, schedule)
	return out
}

// Lookup finds a sub-event by key.
func Lookup(key EventKey) (Event, bool) {
	for _, e := range schedule {
		if e.Key == key {
			return e, true
		}
	}
	return Event{}, false
}

// CalendarURL builds a Google Calendar "add event" link in UTC.
func CalendarURL(e Event) string {
	const layout = "20060102T150405Z"
	details := fmt.Sprintf("%s for %s Wedding", e.Title, Couple)
	if e.Attire != "" {
		details += "\n" + e.Attire
	}
	location := "Location TBD"
	if e.Venue.Known() {
		location = e.Venue.Name + ", " + e.Venue.Address()
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", fmt.Sprintf("%s - %s Wedding", e.Title, Couple))
	q.Set("dates", e.Start.UTC().Format(layout)+"/"+e.End.UTC().Format(layout))
	q.Set("details", details)
	q.Set("location", location)
	return "https://www.google.com/calendar/render?" + q.Encode()
}

// MapsURL builds a Google Maps search link, or "" when the venue is unknown.
func MapsURL(e Event) string {
	if !e.Venue.Known() {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", e.Venue.MapsQuery)
	return "https://www.google.com/maps/search/?" + q.Encode()
}

var (
	spanishDays   = []string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	spanishMonths = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// FormatDate renders "Friday, July 17th" or "viernes, 17 de julio".
func FormatDate(lang locale.Language, t time.Time) string {
	if lang == locale.Spanish {
		return fmt.Sprintf("%s, %d de %s", spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()-1])
	}
	return fmt.Sprintf("%s, %s %d%s", t.Weekday(), t.Month(), t.Day(), daySuffix(t.Day()))
}

// FormatTimestamp renders a moment with its date and time of day, as
// "May 1, 2026 at 2:30 PM" or "1 de mayo de 2026, 14:30". Zero is "N/A".
func FormatTimestamp(lang locale.Language, t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	if lang == locale.Spanish {
		return fmt.Sprintf("%d de %s de %d, %s", t.Day(), spanishMonths[t.Month()-1], t.Year(), t.Format("15:04"))
	}
	return t.Format("January 2, 2006") + " at " + FormatTime(t)
}

// FormatTime renders "5:30 PM".
func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

func daySuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
