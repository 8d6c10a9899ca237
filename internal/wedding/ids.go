package wedding

import (
	"fmt"

	"github.com/google/uuid"
)

// EventIDs maps the schedule to the RSVP service's event identifiers.
type EventIDs struct {
	Main   string              `yaml:"main" json:"main"`
	Events map[EventKey]string `yaml:"events" json:"events"`
}

// DefaultEventIDs are the production identifiers.
func DefaultEventIDs() EventIDs {
	return EventIDs{
		Main: "010e9472-8ea4-4239-9882-f8c3fe676f2b",
		Events: map[EventKey]string{
			WelcomeGathering: "3d8d906d-2f37-4fb9-9e93-52c3cfbaaf28",
			Ceremony:         "3d6f9509-9f01-4ed6-bb56-caaeb4989128",
			Reception:        "b2d1a136-7ac4-4df9-83f2-ce8ab7be6dfa",
			Brunch:           "c727c901-c122-46f9-8c2a-fa6fb845f80a",
		},
	}
}

// Validate checks that every identifier is present and a UUID.
func (ids EventIDs) Validate() error {
	if _, err := uuid.Parse(ids.Main); err != nil {
		return fmt.Errorf("invalid main event id: %q: %w", ids.Main, err)
	}
	seen := map[string]EventKey{ids.Main: ""}
	for _, key := range EventKeys() {
		id, ok := ids.Events[key]
		if !ok {
			return fmt.Errorf("missing event id for %s", key)
		}
		if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("invalid event id for %s: %q: %w", key, id, err)
		}
		if other, dup := seen[id]; dup {
			if other == "" {
				return fmt.Errorf("event id for %s duplicates the main event id", key)
			}
			return fmt.Errorf("event id for %s duplicates %s", key, other)
		}
		seen[id] = key
	}
	return nil
}

// ID returns the identifier of a sub-event.
func (ids EventIDs) ID(key EventKey) string {
	return ids.Events[key]
}

// KeyOf resolves an identifier back to its sub-event.
func (ids EventIDs) KeyOf(id string) (EventKey, bool) {
	for _, key := range EventKeys() {
		if ids.Events[key] == id {
			return key, true
		}
	}
	return "", false
}
