package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MailingAddress is a household; guests belong to one
type MailingAddress struct {
	ID           string `json:"id,omitempty"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	Password     string `json:"password,omitempty"`
}

// EventGuest is a guest as listed under one event
type EventGuest struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	RSVPResponse   string `json:"rsvp_response"`
	MailingAddress string `json:"mailing_address,omitempty"`
}

type Event struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Guests    []EventGuest `json:"guests,omitempty"`
	GuestList []string     `json:"guest_list,omitempty"`
}

// Guest is the full record returned by GET /guest/{id}
type Guest struct {
	ID             string          `json:"id"`
	FullName       string          `json:"full_name"`
	MailingAddress *MailingAddress `json:"mailing_address"`
	Events         []Event         `json:"events"`
}

// RSVPLookupRequest authenticates a household against one event
type RSVPLookupRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
	EventID     string `json:"event_id"`
}

type RSVPInfo struct {
	MailingAddress MailingAddress `json:"mailing_address"`
	Event          Event          `json:"event"`
}

type Invitee struct {
	InviteeID    string `json:"invitee_id,omitempty"`
	RSVPResponse string `json:"rsvp_response"`
	Name         string `json:"name"`
}

// RSVPSubmission answers one event for a household
type RSVPSubmission struct {
	MailingAddressID string         `json:"mailing_address_id,omitempty"`
	MailingAddress   MailingAddress `json:"mailing_address"`
	EventID          string         `json:"event_id"`
	Invitees         []Invitee      `json:"invitees"`
}

type Comment struct {
	ID          string    `json:"id"`
	MessageText string    `json:"message_text"`
	InviteeID   string    `json:"invitee_id"`
	InviteeName string    `json:"invitee_name"`
	CreatedAt   Timestamp `json:"created_at"`
}

type CommentPage struct {
	Comments   []Comment `json:"comments"`
	TotalPages int       `json:"total_pages"`
}

// Commenter is an invitee allowed to sign the guest book
type Commenter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type commentAuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type commentAuthResponse struct {
	Invitees []Commenter `json:"invitees"`
}

type newComment struct {
	InviteeID   string `json:"invitee_id"`
	MessageText string `json:"message_text"`
}

// postedComment tolerates the older "message" field name
type postedComment struct {
	Comment
	Message string `json:"message"`
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// text picks the server's explanation: "detail" (string or validation list)
// wins over "message".
func (b errorBody) text() string {
	if len(b.Detail) > 0 && !bytes.Equal(b.Detail, []byte("null")) {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil {
			return s
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(b.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
			return list[0].Msg
		}
		return string(b.Detail)
	}
	return b.Message
}

// Timestamp accepts RFC 3339 as well as the zone-less ISO form the service
// emits, which is UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
