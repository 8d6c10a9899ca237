package savethedate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yildizm/wedsite/internal/locale"
)

func newCatalog(t *testing.T) *locale.Catalog {
	t.Helper()
	c, err := locale.NewCatalog("")
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return c
}

func TestNewCard(t *testing.T) {
	card := NewCard(newCatalog(t), locale.English)

	if card.Title != "Save the Date!" {
		t.Errorf("Expected English title, got %q", card.Title)
	}
	if len(card.Events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(card.Events))
	}

	welcome := card.Events[0]
	if welcome.Heading != "Welcome Gathering, Location TBD" || welcome.Address != "" {
		t.Errorf("Unexpected welcome block %+v", welcome)
	}
	if welcome.Date != "Thursday, July 16th" || welcome.Time != "7:00 PM" {
		t.Errorf("Unexpected welcome date %+v", welcome)
	}

	ceremony := card.Events[1]
	if ceremony.Heading != "Ceremony at Memorial Chapel" {
		t.Errorf("Expected ceremony heading, got %q", ceremony.Heading)
	}
	if ceremony.Address != "Chapel Dr., Lake Junaluska, NC 28745" {
		t.Errorf("Expected chapel address, got %q", ceremony.Address)
	}
}

func TestNewCardSpanish(t *testing.T) {
	card := NewCard(newCatalog(t), locale.Spanish)
	if card.Lang != "es" || card.Title != "¡Reserve la Fecha!" {
		t.Errorf("Expected Spanish card, got %q / %q", card.Lang, card.Title)
	}
	if got := card.Events[1].Date; got != "viernes, 17 de julio" {
		t.Errorf("Expected Spanish date, got %q", got)
	}
}

func TestRender(t *testing.T) {
	card := NewCard(newCatalog(t), locale.English)

	var b bytes.Buffer
	if err := Render(&b, card); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	html := b.String()

	for _, want := range []string{
		`<html lang="en">`,
		"size: 600px 900px",
		"www.CarlosAndElizabeth2026.com",
		"Ceremony at Memorial Chapel",
		"Elizabeth &amp; Carlos",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected card to contain %q", want)
		}
	}
	if strings.Contains(html, "<img") {
		t.Error("Expected no photos without images")
	}
	if strings.Count(html, `class="page"`) != 1 {
		t.Error("Expected a single page without a back photo")
	}
}

func TestRenderWithImages(t *testing.T) {
	dir := t.TempDir()
	front := filepath.Join(dir, "front.png")
	// PNG signature is enough for content sniffing
	if err := os.WriteFile(front, []byte("\x89PNG\r\n\x1a\n0000"), 0o600); err != nil {
		t.Fatal(err)
	}

	card := NewCard(newCatalog(t), locale.English)
	if err := card.LoadImages(front, front); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var b bytes.Buffer
	if err := Render(&b, card); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	html := b.String()
	if !strings.Contains(html, `src="data:image/png;base64,`) {
		t.Error("Expected embedded data URL")
	}
	if strings.Count(html, `class="page"`) != 2 {
		t.Error("Expected a back page")
	}

	if err := card.LoadImages(filepath.Join(dir, "missing.jpg"), ""); err == nil {
		t.Error("Expected missing image to fail")
	}
}

func TestRenderInvalidSize(t *testing.T) {
	card := NewCard(newCatalog(t), locale.English)
	card.WidthPx = 0
	if err := Render(&bytes.Buffer{}, card); err == nil {
		t.Error("Expected invalid size to fail")
	}
}
