package guestlist

import (
	"time"

	"github.com/yildizm/wedsite/internal/api"
)

// Dashboard is the hosts' summary of the guest list.
type Dashboard struct {
	GeneratedAt time.Time    `json:"generated_at"`
	TotalGuests int          `json:"total_guests"`
	Totals      []EventTotal `json:"event_totals"`
	Parties     []Party      `json:"parties"`
}

// EventTotal counts the guests attending one sub-event.
type EventTotal struct {
	EventID string `json:"event_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}

type Response struct {
	Event    string `json:"event"`
	Response string `json:"response"`
}

type Member struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Responses []Response `json:"responses"`
}

// Party is one guest record and its household.
type Party struct {
	Names     string     `json:"names"`
	Address   string     `json:"address"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Responses []Response `json:"responses"`
	Members   []Member   `json:"members,omitempty"`
}

// subEvents are the events of the first guest other than the main event.
func subEvents(guests []api.Guest, mainEventID string) []api.Event {
	if len(guests) == 0 {
		return nil
	}
	var out []api.Event
	for _, e := range guests[0].Events {
		if e.ID != mainEventID {
			out = append(out, e)
		}
	}
	return out
}

// Totals counts "yes" answers per sub-event across every household. A
// guest appearing under several guest records is counted once.
func Totals(guests []api.Guest, mainEventID string) []EventTotal {
	events := subEvents(guests, mainEventID)
	totals := make([]EventTotal, 0, len(events))
	for _, sub := range events {
		counted := make(map[string]bool)
		total := EventTotal{EventID: sub.ID, Name: sub.Name}
		for _, g := range guests {
			event := findEvent(g, sub.ID)
			if event == nil {
				continue
			}
			for _, eg := range event.Guests {
				if eg.RSVPResponse != "yes" {
					continue
				}
				key := eg.ID
				if key == "" {
					key = eg.FullName
				}
				if counted[key] {
					continue
				}
				counted[key] = true
				total.Count++
			}
		}
		totals = append(totals, total)
	}
	return totals
}

// Build assembles the dashboard.
func Build(guests []api.Guest, mainEventID string, now time.Time) *Dashboard {
	d := &Dashboard{
		GeneratedAt: now,
		TotalGuests: len(guests),
		Totals:      Totals(guests, mainEventID),
		Parties:     make([]Party, 0, len(guests)),
	}

	for _, g := range guests {
		p := Party{
			Names:   PartyNames(g, mainEventID),
			Address: FormatAddress(g.MailingAddress),
			Email:   notAvailable,
			Phone:   notAvailable,
		}
		if g.MailingAddress != nil {
			p.Email = orNA(g.MailingAddress.Email)
			p.Phone = orNA(g.MailingAddress.PhoneNumber)
		}

		var events []api.Event
		for _, e := range g.Events {
			if e.ID != mainEventID {
				events = append(events, e)
			}
		}
		for _, e := range events {
			p.Responses = append(p.Responses, Response{Event: e.Name, Response: EventRSVP(g, e.ID)})
		}

		if main := findEvent(g, mainEventID); main != nil && len(main.Guests) > 1 {
			for _, member := range main.Guests {
				m := Member{ID: member.ID, Name: member.FullName}
				for _, e := range events {
					m.Responses = append(m.Responses, Response{Event: e.Name, Response: MemberRSVP(g, e.ID, member.ID)})
				}
				p.Members = append(p.Members, m)
			}
		}
		d.Parties = append(d.Parties, p)
	}
	return d
}
