// Package rsvp holds the RSVP form model and the flow that edits an
// existing household's answers.
package rsvp

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/yildizm/wedsite/internal/wedding"
)

// MaxGuests caps a single household submission.
const MaxGuests = 12

// ValidationError names the first field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
}

// Guest is one member of a household and the sub-events they attend.
// ID is empty for guests the service has not seen yet.
type Guest struct {
	ID        string
	Name      string
	Attending map[wedding.EventKey]bool
}

// NewGuest returns a guest with the default answers: ceremony and
// reception only.
func NewGuest() Guest {
	return Guest{
		Attending: map[wedding.EventKey]bool{
			wedding.WelcomeGathering: false,
			wedding.Ceremony:         true,
			wedding.Reception:        true,
			wedding.Brunch:           false,
		},
	}
}

// Response is the wire value for key.
func (g Guest) Response(key wedding.EventKey) string {
	if g.Attending[key] {
		return "yes"
	}
	return "no"
}

// Set records an answer, creating the map if needed.
func (g *Guest) Set(key wedding.EventKey, attending bool) {
	if g.Attending == nil {
		g.Attending = make(map[wedding.EventKey]bool, len(wedding.EventKeys()))
	}
	g.Attending[key] = attending
}

// DecliningAll reports a guest attending none of the sub-events.
func (g Guest) DecliningAll() bool {
	for _, key := range wedding.EventKeys() {
		if g.Attending[key] {
			return false
		}
	}
	return true
}

// Form is a new household's RSVP.
type Form struct {
	Address         Address
	Phone           string
	Email           string
	Password        string
	ConfirmPassword string
	Guests          []Guest
}

func NewForm() *Form {
	return &Form{Guests: []Guest{NewGuest()}}
}

// AddGuest appends a guest with default answers and returns its index.
func (f *Form) AddGuest() int {
	if len(f.Guests) >= MaxGuests {
		return -1
	}
	f.Guests = append(f.Guests, NewGuest())
	return len(f.Guests) - 1
}

// RemoveGuest drops the guest at i. The last remaining guest stays.
func (f *Form) RemoveGuest(i int) bool {
	if len(f.Guests) <= 1 || i < 0 || i >= len(f.Guests) {
		return false
	}
	f.Guests = append(f.Guests[:i], f.Guests[i+1:]...)
	return true
}

func (f *Form) Validate() error {
	a := f.Address
	switch {
	case strings.TrimSpace(a.Line1) == "":
		return invalid("address_line_1", "street address is required")
	case strings.TrimSpace(a.City) == "":
		return invalid("city", "city is required")
	case strings.TrimSpace(a.State) == "":
		return invalid("state", "state is required")
	case strings.TrimSpace(a.PostalCode) == "":
		return invalid("postal_code", "postal code is required")
	}

	if n := len(digits(f.Phone)); n != 10 {
		return invalid("phone", "phone number must have 10 digits")
	}
	if err := validateEmail(f.Email); err != nil {
		return err
	}
	if f.Password == "" {
		return invalid("password", "password is required")
	}
	if f.Password != f.ConfirmPassword {
		return invalid("confirm_password", "passwords do not match")
	}

	if len(f.Guests) == 0 {
		return invalid("guests", "at least one guest is required")
	}
	for i, g := range f.Guests {
		if strings.TrimSpace(g.Name) == "" {
			return invalid(fmt.Sprintf("guests[%d].name", i), "guest %d needs a name", i+1)
		}
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "invalid email address: %s", email)
	}
	return nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone masks the digits of s as the user types, producing
// "(555) 123-4567" once ten digits are present. A leading country code 1
// on an eleven digit number is dropped.
func FormatPhone(s string) string {
	d := digits(s)
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) > 10 {
		d = d[:10]
	}
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

// FormatAddress joins the non-empty parts as
// "line1, line2, city, state postal".
func FormatAddress(a Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Line1, a.Line2, a.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	tail := strings.TrimSpace(strings.TrimSpace(a.State) + " " + strings.TrimSpace(a.PostalCode))
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}
