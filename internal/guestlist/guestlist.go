// Package guestlist builds the hosts' dashboard of every invited household
// and how it responded.
package guestlist

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/logger"
)

// DefaultConcurrency bounds the per-guest requests in flight.
const DefaultConcurrency = 8

const notAvailable = "N/A"

type Source interface {
	ListEvents(ctx context.Context) ([]api.Event, error)
	GetGuest(ctx context.Context, id string) (*api.Guest, error)
}

// Fetch loads the main event's guest list and then every guest record, in
// the order the guest list gives them. Any failed guest fails the whole
// fetch.
func Fetch(ctx context.Context, src Source, mainEventID string, concurrency int, log *logger.Logger) ([]api.Guest, error) {
	if log == nil {
		log = logger.Discard()
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	events, err := src.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch main event: %w", err)
	}
	var main *api.Event
	for i := range events {
		if events[i].ID == mainEventID {
			main = &events[i]
			break
		}
	}
	if main == nil {
		return nil, fmt.Errorf("main event %s not found", mainEventID)
	}
	if len(main.GuestList) == 0 {
		return []api.Guest{}, nil
	}

	guests := make([]api.Guest, len(main.GuestList))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range main.GuestList {
		g.Go(func() error {
			guest, err := src.GetGuest(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch guest %s: %w", id, err)
			}
			guests[i] = *guest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.DebugWithFields("guest list loaded", []logger.Field{logger.Count(len(guests))})
	return guests, nil
}

func findEvent(g api.Guest, id string) *api.Event {
	for i := range g.Events {
		if g.Events[i].ID == id {
			return &g.Events[i]
		}
	}
	return nil
}

// PartyNames lists the household of g as "Ana", "Ana & Luis" or
// "Ana, Luis, & Marta", from the main event's guests.
func PartyNames(g api.Guest, mainEventID string) string {
	fallback := g.FullName
	if fallback == "" {
		fallback = notAvailable
	}

	main := findEvent(g, mainEventID)
	if main == nil {
		return fallback
	}
	names := make([]string, 0, len(main.Guests))
	for _, eg := range main.Guests {
		if eg.FullName != "" {
			names = append(names, eg.FullName)
		}
	}

	switch len(names) {
	case 0:
		return fallback
	case 1:
		return names[0]
	case 2:
		return names[0] + " & " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
}

// EventRSVP is g's answer for an event. The event's guest is found by
// household first and by name second.
func EventRSVP(g api.Guest, eventID string) string {
	event := findEvent(g, eventID)
	if event == nil || len(event.Guests) == 0 {
		return notAvailable
	}
	for _, eg := range event.Guests {
		householdMatch := g.MailingAddress != nil && eg.MailingAddress != "" && eg.MailingAddress == g.MailingAddress.ID
		if householdMatch || eg.FullName == g.FullName {
			if eg.RSVPResponse == "" {
				return notAvailable
			}
			return eg.RSVPResponse
		}
	}
	return notAvailable
}

// MemberRSVP is a party member's answer for an event, matched by id.
func MemberRSVP(g api.Guest, eventID, memberID string) string {
	event := findEvent(g, eventID)
	if event == nil {
		return notAvailable
	}
	for _, eg := range event.Guests {
		if eg.ID == memberID && eg.RSVPResponse != "" {
			return eg.RSVPResponse
		}
	}
	return notAvailable
}

// FormatAddress renders a mailing address on one line.
func FormatAddress(a *api.MailingAddress) string {
	if a == nil {
		return notAvailable
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{a.AddressLine1, a.AddressLine2} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("%s, %s %s", a.City, a.State, a.PostalCode))
	return strings.Join(parts, ", ")
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
