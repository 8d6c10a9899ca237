// Package savethedate renders the printable save-the-date card.
package savethedate

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"

	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/wedding"
)

const (
	DefaultWidthPx  = 600
	DefaultHeightPx = 900
)

//go:embed card.html.tmpl
var cardSource string

var cardTemplate = template.Must(template.New("card").Parse(cardSource))

// CardEvent is one event block on the card.
type CardEvent struct {
	Heading string
	Address string
	Date    string
	Time    string
}

// Card is everything printed on the save-the-date.
type Card struct {
	Lang       string
	Website    string
	Title      string
	Events     []CardEvent
	Closing    string
	Salutation string
	Couple     string
	FrontImage template.URL
	BackImage  template.URL
	WidthPx    int
	HeightPx   int
}

// cardEvents are the events announced on the card.
var cardEvents = []wedding.EventKey{wedding.WelcomeGathering, wedding.Ceremony}

// NewCard fills a card in lang.
func NewCard(catalog *locale.Catalog, lang locale.Language) Card {
	c := Card{
		Lang:       lang.String(),
		Website:    wedding.Website,
		Title:      catalog.Text(lang, "saveTheDateTitle"),
		Closing:    catalog.Text(lang, "closing"),
		Salutation: catalog.Text(lang, "withLove"),
		Couple:     wedding.Couple,
		WidthPx:    DefaultWidthPx,
		HeightPx:   DefaultHeightPx,
	}

	for _, key := range cardEvents {
		e, ok := wedding.Lookup(key)
		if !ok {
			continue
		}
		title := catalog.Text(lang, string(key))
		ce := CardEvent{Date: wedding.FormatDate(lang, e.Start)}
		if e.Venue.Known() {
			ce.Heading = catalog.Format(lang, "eventAtVenue", map[string]interface{}{"Event": title, "Venue": e.Venue.Name})
			ce.Address = e.Venue.Address()
		} else {
			ce.Heading = title + ", " + catalog.Text(lang, "locationTBD")
		}
		if e.TimeKnown {
			ce.Time = wedding.FormatTime(e.Start)
		} else {
			ce.Time = catalog.Text(lang, "timeTBD")
		}
		c.Events = append(c.Events, ce)
	}
	return c
}

// LoadImages embeds the front and back photos as data URLs. Empty paths
// leave that side without a photo.
func (c *Card) LoadImages(front, back string) error {
	var err error
	if front != "" {
		if c.FrontImage, err = dataURL(front); err != nil {
			return err
		}
	}
	if back != "" {
		if c.BackImage, err = dataURL(back); err != nil {
			return err
		}
	}
	return nil
}

func dataURL(path string) (template.URL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}
	mime := http.DetectContentType(data)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)), nil
}

// Render writes the card as a standalone HTML document.
func Render(w io.Writer, c Card) error {
	if c.WidthPx <= 0 || c.HeightPx <= 0 {
		return fmt.Errorf("invalid card size: %dx%d", c.WidthPx, c.HeightPx)
	}
	if err := cardTemplate.Execute(w, c); err != nil {
		return fmt.Errorf("failed to render card: %w", err)
	}
	return nil
}
