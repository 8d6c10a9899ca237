package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/guestbook"
	"github.com/yildizm/wedsite/internal/rsvp"
	"github.com/yildizm/wedsite/internal/wedding"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	globalConfig = nil
	t.Cleanup(func() { globalConfig = nil })

	var out bytes.Buffer
	cmd := NewRootCommand("1.2.3", "abc123", "2026-07-11")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-emoji"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// writeConfig writes a config file pointing the client at baseURL.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: " + baseURL + "\n  max_retries: 1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "wedsite 1.2.3 (abc123) built on 2026-07-11") {
		t.Errorf("Expected version line, got %q", out)
	}
	if !strings.Contains(out, "OS/Arch:") {
		t.Errorf("Expected OS/Arch line, got %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wedsite.yaml")

	out, err := execute(t, "config", "init", "--minimal", "--path", path)
	if err != nil {
		t.Fatalf("Expected init to succeed, got %v", err)
	}
	if !strings.Contains(out, "Configuration file created at: "+path) {
		t.Errorf("Expected creation message, got %q", out)
	}
	if !fileExists(path) {
		t.Fatalf("Expected config file at %s", path)
	}

	if _, err := execute(t, "config", "init", "--path", path); err == nil {
		t.Error("Expected error when config already exists")
	}
	if _, err := execute(t, "config", "init", "--force", "--path", path); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err = execute(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("Expected generated config to validate, got %v", err)
	}
	if !strings.Contains(out, "Configuration is valid") {
		t.Errorf("Expected valid message, got %q", out)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output:\n  color_mode: sometimes\n"), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out, err := execute(t, "--config", path, "config", "validate")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(out, "Configuration validation failed") {
		t.Errorf("Expected failure message, got %q", out)
	}
}

func TestConfigShowJSON(t *testing.T) {
	path := writeConfig(t, "http://127.0.0.1:9")

	out, err := execute(t, "--config", path, "config", "show", "--format", "json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var shown struct {
		API struct {
			BaseURL string `json:"base_url"`
		} `json:"api"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("Expected JSON output, got %v: %q", err, out)
	}
	if shown.API.BaseURL != "http://127.0.0.1:9" {
		t.Errorf("Expected base url from file, got %q", shown.API.BaseURL)
	}
}

func TestGuestBookList(t *testing.T) {
	var (
		mu    sync.Mutex
		pages []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/comments" {
			http.NotFound(w, r)
			return
		}
		page := r.URL.Query().Get("page")
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()
		result := api.CommentPage{TotalPages: 2}
		if page == "1" {
			result.Comments = []api.Comment{{ID: "1", MessageText: "Felicidades!", InviteeName: "Ana Pérez"}}
		} else {
			result.Comments = []api.Comment{{ID: "2", MessageText: "See you there"}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}))
	t.Cleanup(srv.Close)

	out, err := execute(t, "--config", writeConfig(t, srv.URL), "guestbook", "list", "--all")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(pages, ",") != "1,2" {
		t.Errorf("Expected pages 1,2, got %v", pages)
	}
	for _, want := range []string{"page 1 of 2", "Felicidades!", "- Ana Pérez", "page 2 of 2", "- Anonymous"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got %q", want, out)
		}
	}
}

func TestGuestBookListRejectsPageZero(t *testing.T) {
	path := writeConfig(t, "http://127.0.0.1:9")
	if _, err := execute(t, "--config", path, "guestbook", "list", "--page", "0"); err == nil {
		t.Error("Expected error for page 0")
	}
}

func TestPickInvitee(t *testing.T) {
	household := []api.Commenter{{ID: "a", Name: "Ana Pérez"}, {ID: "l", Name: "Luis Pérez"}}

	tests := []struct {
		name     string
		invitees []api.Commenter
		pick     string
		wantID   string
		wantErr  bool
	}{
		{"single invitee needs no name", household[:1], "", "a", false},
		{"name is case insensitive", household, "luis pérez", "l", false},
		{"several invitees need a name", household, "", "", true},
		{"unknown name", household, "Marta", "", true},
		{"no invitees", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &guestbook.Draft{Invitees: tt.invitees}
			err := pickInvitee(d, tt.pick)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got invitee %q", d.InviteeID)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if d.InviteeID != tt.wantID {
				t.Errorf("Expected invitee %q, got %q", tt.wantID, d.InviteeID)
			}
		})
	}
}

func TestReadMessage(t *testing.T) {
	msg, err := readMessage(strings.NewReader("from stdin\n"), "-")
	if err != nil || msg != "from stdin\n" {
		t.Errorf("Expected stdin message, got %q (%v)", msg, err)
	}
	msg, err = readMessage(strings.NewReader("ignored"), "inline")
	if err != nil || msg != "inline" {
		t.Errorf("Expected inline message, got %q (%v)", msg, err)
	}
}

func TestParseAnswers(t *testing.T) {
	answers, err := parseAnswers([]string{"Ana Pérez=ceremony, reception", "Luis="})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("Expected 2 answers, got %d", len(answers))
	}
	if answers[0].name != "Ana Pérez" || !answers[0].events[wedding.Ceremony] || !answers[0].events[wedding.Reception] {
		t.Errorf("Unexpected first answer: %+v", answers[0])
	}
	if len(answers[1].events) != 0 {
		t.Errorf("Expected empty answer to decline everything, got %+v", answers[1].events)
	}

	for _, bad := range []string{"no-equals", "=ceremony", "Ana=banquet"} {
		if _, err := parseAnswers([]string{bad}); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestApplyAnswers(t *testing.T) {
	ana := rsvp.NewGuest()
	ana.ID, ana.Name = "a", "Ana Pérez"
	luis := rsvp.NewGuest()
	luis.ID, luis.Name = "l", "Luis Pérez"
	guests := []rsvp.Guest{ana, luis}

	answers, err := parseAnswers([]string{"ana pérez=brunch"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	updated, err := applyAnswers(guests, answers)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated[0].Attending[wedding.Brunch] || updated[0].Attending[wedding.Ceremony] {
		t.Errorf("Expected Ana to attend brunch only, got %v", updated[0].Attending)
	}
	if !updated[1].Attending[wedding.Ceremony] || updated[1].Attending[wedding.Brunch] {
		t.Errorf("Expected Luis to keep his answers, got %v", updated[1].Attending)
	}
	if guests[0].Attending[wedding.Brunch] {
		t.Error("Expected original guests to be left untouched")
	}

	unknown, _ := parseAnswers([]string{"Marta=ceremony"})
	if _, err := applyAnswers(guests, unknown); err == nil {
		t.Error("Expected error for a guest outside the household")
	}
}

func TestPrintHouseholdJSONHidesPassword(t *testing.T) {
	g := rsvp.NewGuest()
	g.ID, g.Name = "a", "Ana Pérez"
	h := &rsvp.Household{
		Address: api.MailingAddress{ID: "addr", City: "Asheville", Password: "secret"},
		Guests:  []rsvp.Guest{g},
		Events:  []wedding.EventKey{wedding.Ceremony},
	}

	var out bytes.Buffer
	if err := printHouseholdJSON(&out, h); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(out.String(), "secret") {
		t.Errorf("Expected password to be omitted, got %s", out.String())
	}
	if !strings.Contains(out.String(), `"ceremony": "yes"`) {
		t.Errorf("Expected ceremony answer, got %s", out.String())
	}
}
