package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the two languages the site is written in.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
)

// Languages lists the supported languages, default first.
func Languages() []Language {
	return []Language{English, Spanish}
}

// Parse accepts a BCP 47 tag or a plain name ("es-MX", "spanish").
func Parse(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english":
		return English, nil
	case "spanish", "español", "espanol":
		return Spanish, nil
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language: %s (must be one of: en, es)", s)
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return English, nil
	case "es":
		return Spanish, nil
	default:
		return "", fmt.Errorf("invalid language: %s (must be one of: en, es)", s)
	}
}

// Tag returns the language tag used for message lookup.
func (l Language) Tag() language.Tag {
	if l == Spanish {
		return language.Spanish
	}
	return language.English
}

// Other returns the language a toggle switches to.
func (l Language) Other() Language {
	if l == Spanish {
		return English
	}
	return Spanish
}

func (l Language) String() string {
	return string(l)
}
