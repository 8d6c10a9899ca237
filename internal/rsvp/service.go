package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/logger"
	"github.com/yildizm/wedsite/internal/wedding"
)

// ReturnDelay is how long a successful edit stays on screen before the
// page goes back to RSVP.
const ReturnDelay = 3 * time.Second

var ErrNoRSVPFound = errors.New("No RSVP found with the provided credentials")

// Client is the subset of the RSVP service used here.
type Client interface {
	LookupRSVP(ctx context.Context, req api.RSVPLookupRequest) (*api.RSVPInfo, error)
	SubmitRSVP(ctx context.Context, sub *api.RSVPSubmission) error
}

// Credentials identify a household when editing.
type Credentials struct {
	Email    string
	Phone    string
	Password string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" && digits(c.Phone) == "" {
		return invalid("email", "enter the email or phone number used to RSVP")
	}
	if c.Password == "" {
		return invalid("password", "password is required")
	}
	return nil
}

// Household is an authenticated household with its merged guest list.
type Household struct {
	Address api.MailingAddress
	Guests  []Guest
	Events  []wedding.EventKey
}

// EventResponse is one sub-event's lookup result.
type EventResponse struct {
	Key  wedding.EventKey
	Info *api.RSVPInfo
}

type Service struct {
	client Client
	ids    wedding.EventIDs
	log    *logger.Logger
}

func NewService(client Client, ids wedding.EventIDs, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{client: client, ids: ids, log: log.WithComponent("rsvp")}
}

// Authenticate looks the household up under every sub-event. Events the
// household is not invited to (404) or not authorized for (401) are
// skipped; any other failure aborts with the service's message.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*Household, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var responses []EventResponse
	for _, key := range wedding.EventKeys() {
		info, err := s.client.LookupRSVP(ctx, api.RSVPLookupRequest{
			Email:       strings.TrimSpace(creds.Email),
			PhoneNumber: creds.Phone,
			Password:    creds.Password,
			EventID:     s.ids.ID(key),
		})
		if err != nil {
			if api.IsNotFound(err) || api.IsAuthentication(err) {
				s.log.Debug("no rsvp for %s", key)
				continue
			}
			return nil, fmt.Errorf("authenticate: %w", err)
		}
		responses = append(responses, EventResponse{Key: key, Info: info})
	}

	if len(responses) == 0 {
		return nil, ErrNoRSVPFound
	}

	h := &Household{
		Address: responses[0].Info.MailingAddress,
		Guests:  MergeGuests(responses),
	}
	for _, r := range responses {
		h.Events = append(h.Events, r.Key)
	}
	s.log.InfoWithFields("household authenticated", []logger.Field{logger.F("guests", len(h.Guests)), logger.F("events", len(h.Events))})
	return h, nil
}

// MergeGuests combines the guest lists of several sub-events into one
// list of unique guests. A guest is the same person when either the id or
// the full name matches one already seen. Every guest starts declining
// all events and picks up the answers recorded per event.
func MergeGuests(responses []EventResponse) []Guest {
	byID := make(map[string]*Guest)
	byName := make(map[string]*Guest)
	var order []*Guest

	for _, r := range responses {
		if r.Info == nil {
			continue
		}
		for _, g := range r.Info.Event.Guests {
			if _, ok := byID[g.ID]; ok {
				continue
			}
			if existing, ok := byName[g.FullName]; ok {
				byID[g.ID] = existing
				continue
			}
			merged := &Guest{ID: g.ID, Name: g.FullName, Attending: make(map[wedding.EventKey]bool)}
			for _, key := range wedding.EventKeys() {
				merged.Attending[key] = false
			}
			byID[g.ID] = merged
			byName[g.FullName] = merged
			order = append(order, merged)
		}
	}

	for _, r := range responses {
		if r.Info == nil {
			continue
		}
		for _, g := range r.Info.Event.Guests {
			merged, ok := byID[g.ID]
			if !ok {
				merged = byName[g.FullName]
			}
			if merged != nil && g.RSVPResponse != "" {
				merged.Attending[r.Key] = g.RSVPResponse == "yes"
			}
		}
	}

	guests := make([]Guest, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, g := range order {
		if seen[g.Name] {
			continue
		}
		seen[g.Name] = true
		guests = append(guests, *g)
	}
	return guests
}

// BuildSubmissions produces one payload per sub-event, followed by a
// main-event payload answering "no" for guests who decline every sub-event.
// Guests without an id are sent by name only.
func BuildSubmissions(addressID string, address api.MailingAddress, guests []Guest, ids wedding.EventIDs) []api.RSVPSubmission {
	address.ID = ""

	subs := make([]api.RSVPSubmission, 0, len(wedding.EventKeys())+1)
	for _, key := range wedding.EventKeys() {
		invitees := make([]api.Invitee, 0, len(guests))
		for _, g := range guests {
			invitees = append(invitees, invitee(g, g.Response(key)))
		}
		subs = append(subs, api.RSVPSubmission{
			MailingAddressID: addressID,
			MailingAddress:   address,
			EventID:          ids.ID(key),
			Invitees:         invitees,
		})
	}

	var declining []api.Invitee
	for _, g := range guests {
		if g.DecliningAll() {
			declining = append(declining, invitee(g, "no"))
		}
	}
	if len(declining) > 0 {
		subs = append(subs, api.RSVPSubmission{
			MailingAddressID: addressID,
			MailingAddress:   address,
			EventID:          ids.Main,
			Invitees:         declining,
		})
	}
	return subs
}

func invitee(g Guest, response string) api.Invitee {
	return api.Invitee{InviteeID: g.ID, RSVPResponse: response, Name: strings.TrimSpace(g.Name)}
}

// Update replaces a household's answers. guests holds the existing guests
// followed by any added during the edit.
func (s *Service) Update(ctx context.Context, h *Household, guests []Guest) error {
	for i, g := range guests {
		if strings.TrimSpace(g.Name) == "" {
			return invalid(fmt.Sprintf("guests[%d].name", i), "guest %d needs a name", i+1)
		}
	}
	address := h.Address
	address.Password = ""
	return s.submit(ctx, BuildSubmissions(h.Address.ID, address, guests, s.ids))
}

// Create submits a new household's RSVP.
func (s *Service) Create(ctx context.Context, f *Form) error {
	if err := f.Validate(); err != nil {
		return err
	}
	address := api.MailingAddress{
		AddressLine1: strings.TrimSpace(f.Address.Line1),
		AddressLine2: strings.TrimSpace(f.Address.Line2),
		City:         strings.TrimSpace(f.Address.City),
		State:        strings.TrimSpace(f.Address.State),
		PostalCode:   strings.TrimSpace(f.Address.PostalCode),
		Email:        strings.TrimSpace(f.Email),
		PhoneNumber:  FormatPhone(f.Phone),
		Password:     f.Password,
	}
	return s.submit(ctx, BuildSubmissions("", address, f.Guests, s.ids))
}

func (s *Service) submit(ctx context.Context, subs []api.RSVPSubmission) error {
	for i := range subs {
		label := "main event"
		if key, ok := s.ids.KeyOf(subs[i].EventID); ok {
			label = string(key)
		}
		if err := s.client.SubmitRSVP(ctx, &subs[i]); err != nil {
			return fmt.Errorf("update rsvp for %s: %w", label, err)
		}
		s.log.Debug("submitted %s for %d guests", label, len(subs[i].Invitees))
	}
	return nil
}
