package locale

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yildizm/wedsite/internal/logger"
	"go.uber.org/goleak"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"en", English, false},
		{"es", Spanish, false},
		{"es-MX", Spanish, false},
		{"en-US", English, false},
		{"Spanish", Spanish, false},
		{"fr", "", true},
		{"!!", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q): Expected error=%v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q): Expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestToggleIsIdempotentUnderDoubleToggle(t *testing.T) {
	for _, start := range Languages() {
		s := NewSetting(start)
		var seen []Language
		s.Subscribe(func(l Language) { seen = append(seen, l) })

		if got := s.Toggle(); got != start.Other() {
			t.Errorf("Expected first toggle to give %s, got %s", start.Other(), got)
		}
		if got := s.Toggle(); got != start {
			t.Errorf("Expected double toggle to return to %s, got %s", start, got)
		}
		if s.Get() != start {
			t.Errorf("Expected %s, got %s", start, s.Get())
		}
		if len(seen) != 2 {
			t.Errorf("Expected 2 notifications, got %d", len(seen))
		}
	}
}

func TestSubscribeDuringNotification(t *testing.T) {
	s := NewSetting(English)
	var late []Language
	first := 0
	s.Subscribe(func(Language) {
		first++
		if first == 1 {
			s.Subscribe(func(l Language) { late = append(late, l) })
		}
	})

	s.Toggle()
	if len(late) != 0 {
		t.Errorf("Expected observer added during a notification to wait for the next one, got %v", late)
	}

	s.Toggle()
	if first != 2 {
		t.Errorf("Expected 2 notifications, got %d", first)
	}
	if len(late) != 1 || late[0] != English {
		t.Errorf("Expected late observer to see [%s], got %v", English, late)
	}
}

func TestSetNotifiesOnlyOnChange(t *testing.T) {
	s := NewSetting(English)
	calls := 0
	s.Subscribe(func(Language) { calls++ })

	s.Set(English)
	s.Set(Spanish)
	s.Set(Spanish)

	if calls != 1 {
		t.Errorf("Expected 1 notification, got %d", calls)
	}
	if NewSetting("de").Get() != English {
		t.Error("Expected unknown language to default to English")
	}
}

func TestCatalogText(t *testing.T) {
	c, err := NewCatalog("")
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	tests := []struct {
		lang Language
		id   string
		want string
	}{
		{English, "ourStory", "Our Story"},
		{Spanish, "ourStory", "Nuestra Historia"},
		{Spanish, "and", "y"},
		{English, "and", "&"},
		// Spanish has no story text of its own and falls back to English.
		{Spanish, "storyP0", "SERENDIPITY ON THE DANCE FLOOR:"},
		{English, "noSuchKey", "noSuchKey"},
	}

	for _, tt := range tests {
		if got := c.Text(tt.lang, tt.id); got != tt.want {
			t.Errorf("Text(%s, %s): Expected %q, got %q", tt.lang, tt.id, tt.want, got)
		}
	}

	got := c.Format(Spanish, "pageOf", map[string]interface{}{"Page": 2, "Total": 5})
	if got != "Página 2 de 5" {
		t.Errorf("Expected %q, got %q", "Página 2 de 5", got)
	}
}

func TestTranslatorFollowsSetting(t *testing.T) {
	c, err := NewCatalog("")
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	s := NewSetting(English)
	tr := NewTranslator(c, s)

	if tr.T("guestBook") != "Guest Book" {
		t.Errorf("Expected English, got %q", tr.T("guestBook"))
	}
	s.Toggle()
	if tr.T("guestBook") != "Libro de Invitados" {
		t.Errorf("Expected Spanish, got %q", tr.T("guestBook"))
	}
}

func TestCatalogOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "active.es.toml"), []byte(`howWeMet = "Así Nos Conocimos"`), 0o600); err != nil {
		t.Fatalf("Failed to write override: %v", err)
	}

	c, err := NewCatalog(dir)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if got := c.Text(Spanish, "howWeMet"); got != "Así Nos Conocimos" {
		t.Errorf("Expected override, got %q", got)
	}
	if got := c.Text(Spanish, "ourStory"); got != "Nuestra Historia" {
		t.Errorf("Expected built-in text to survive, got %q", got)
	}
}

func TestCatalogReloadKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCatalog(dir)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "active.en.toml"), []byte("broken = "), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := c.Reload(); err == nil {
		t.Fatal("Expected reload of broken file to fail")
	}
	if got := c.Text(English, "rsvp"); got != "RSVP" {
		t.Errorf("Expected previous messages to remain, got %q", got)
	}
}

func TestWatchReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	c, err := NewCatalog(dir)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, c, logger.Discard(), func() {
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
	}()

	// give the watcher time to register before writing
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "active.en.toml"), []byte(`closing = "See you there!"`), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected catalog to reload after file change")
	}
	if got := c.Text(English, "closing"); got != "See you there!" {
		t.Errorf("Expected reloaded text, got %q", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}

func TestWatchRequiresDirectory(t *testing.T) {
	c, err := NewCatalog("")
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if err := Watch(context.Background(), c, logger.Discard(), nil); err == nil {
		t.Error("Expected error without a translations directory")
	}
}
