package wedding

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/wedsite/internal/locale"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		lang locale.Language
		date time.Time
		want string
	}{
		{locale.English, time.Date(2026, 7, 17, 0, 0, 0, 0, time.UTC), "Friday, July 17th"},
		{locale.English, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), "Wednesday, July 1st"},
		{locale.English, time.Date(2026, 7, 22, 0, 0, 0, 0, time.UTC), "Wednesday, July 22nd"},
		{locale.English, time.Date(2026, 7, 13, 0, 0, 0, 0, time.UTC), "Monday, July 13th"},
		{locale.English, time.Date(2026, 7, 23, 0, 0, 0, 0, time.UTC), "Thursday, July 23rd"},
		{locale.Spanish, time.Date(2026, 7, 18, 0, 0, 0, 0, time.UTC), "sábado, 18 de julio"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.lang, tt.date); got != tt.want {
			t.Errorf("FormatDate(%s, %v): Expected %q, got %q", tt.lang, tt.date, tt.want, got)
		}
	}
}

func TestCalendarURL(t *testing.T) {
	ceremony, ok := Lookup(Ceremony)
	if !ok {
		t.Fatal("Expected ceremony in schedule")
	}

	u, err := url.Parse(CalendarURL(ceremony))
	if err != nil {
		t.Fatalf("Invalid URL: %v", err)
	}
	q := u.Query()
	if q.Get("dates") != "20260717T213000Z/20260717T223000Z" {
		t.Errorf("Expected UTC dates, got %q", q.Get("dates"))
	}
	if q.Get("text") != "Ceremony - Elizabeth & Carlos Wedding" {
		t.Errorf("Unexpected title %q", q.Get("text"))
	}
	if q.Get("location") != "Memorial Chapel, Chapel Dr., Lake Junaluska, NC 28745" {
		t.Errorf("Unexpected location %q", q.Get("location"))
	}

	welcome, _ := Lookup(WelcomeGathering)
	if loc := mustQuery(t, CalendarURL(welcome)).Get("location"); loc != "Location TBD" {
		t.Errorf("Expected TBD location, got %q", loc)
	}

	reception, _ := Lookup(Reception)
	if details := mustQuery(t, CalendarURL(reception)).Get("details"); !strings.Contains(details, "Cocktail Attire") {
		t.Errorf("Expected attire in reception details, got %q", details)
	}
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Invalid URL %q: %v", raw, err)
	}
	return u.Query()
}

func TestMapsURL(t *testing.T) {
	reception, _ := Lookup(Reception)
	want := "https://www.google.com/maps/search/?api=1&query=575+North+Lake+Shore+Dr+Lake+Junaluska+NC+28745"
	if got := MapsURL(reception); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	brunch, _ := Lookup(Brunch)
	if got := MapsURL(brunch); got != "" {
		t.Errorf("Expected no map link for an undecided venue, got %q", got)
	}
}

func TestParseEventKey(t *testing.T) {
	tests := map[string]EventKey{
		"ceremony":          Ceremony,
		"welcome-gathering": WelcomeGathering,
		"Welcome_Gathering": WelcomeGathering,
		"BRUNCH":            Brunch,
	}
	for in, want := range tests {
		got, err := ParseEventKey(in)
		if err != nil || got != want {
			t.Errorf("ParseEventKey(%q): Expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseEventKey("afterparty"); err == nil {
		t.Error("Expected error for unknown event")
	}
}

func TestEventIDsValidate(t *testing.T) {
	if err := DefaultEventIDs().Validate(); err != nil {
		t.Fatalf("Expected default ids to be valid, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(ids *EventIDs)
		errMsg string
	}{
		{"bad main", func(ids *EventIDs) { ids.Main = "nope" }, "invalid main event id"},
		{"missing", func(ids *EventIDs) { delete(ids.Events, Brunch) }, "missing event id for brunch"},
		{"bad sub", func(ids *EventIDs) { ids.Events[Ceremony] = "123" }, "invalid event id for ceremony"},
		{"dup main", func(ids *EventIDs) { ids.Events[Reception] = ids.Main }, "duplicates the main event id"},
		{"dup sub", func(ids *EventIDs) { ids.Events[Brunch] = ids.Events[Ceremony] }, "duplicates ceremony"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := DefaultEventIDs()
			tt.mutate(&ids)
			err := ids.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	ids := DefaultEventIDs()
	key, ok := ids.KeyOf("b2d1a136-7ac4-4df9-83f2-ce8ab7be6dfa")
	if !ok || key != Reception {
		t.Errorf("Expected reception, got %s (%v)", key, ok)
	}
	if _, ok := ids.KeyOf(ids.Main); ok {
		t.Error("Main event must not resolve to a sub-event")
	}
}

func TestFormatTimestamp(t *testing.T) {
	at := time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(locale.English, at); got != "May 1, 2026 at 2:30 PM" {
		t.Errorf("Expected English timestamp, got %q", got)
	}
	if got := FormatTimestamp(locale.Spanish, at); got != "1 de mayo de 2026, 14:30" {
		t.Errorf("Expected Spanish timestamp, got %q", got)
	}
	if got := FormatTimestamp(locale.English, time.Time{}); got != "N/A" {
		t.Errorf("Expected N/A for zero time, got %q", got)
	}
}
