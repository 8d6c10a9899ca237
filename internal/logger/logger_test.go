package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 7, 17, 17, 30, 0, 0, time.UTC)
}

func TestLoggerVerbosityGate(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		log     func(l *Logger)
		want    string
	}{
		{"debug hidden", false, func(l *Logger) { l.Debug("hidden") }, ""},
		{"info hidden", false, func(l *Logger) { l.Info("hidden") }, ""},
		{"warn shown", false, func(l *Logger) { l.Warn("careful %d", 1) }, "[17:30:00.000] WARN [nav] careful 1\n"},
		{"error shown", false, func(l *Logger) { l.Error("boom") }, "[17:30:00.000] ERROR [nav] boom\n"},
		{"debug verbose", true, func(l *Logger) { l.Debug("step") }, "[17:30:00.000] DEBUG [nav] step\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			verbose := tt.verbose
			l := NewWriter("nav", &buf, func() bool { return verbose })
			l.now = fixedClock
			tt.log(l)
			if buf.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("api", &buf, func() bool { return true })
	l.now = fixedClock

	l.With(F("endpoint", "/rsvp")).InfoWithFields("request done", []Field{Count(2), Error(errors.New("x"))})

	want := "[17:30:00.000] INFO [api] request done [endpoint=/rsvp count=2 error=x]\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}

func TestWithComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := NewWriter("", &buf, nil)
	root.now = fixedClock
	root.WithComponent("ui").Warn("resized")
	root.Warn("root")

	out := buf.String()
	if !strings.Contains(out, "WARN [ui] resized") {
		t.Errorf("Expected child component in output, got %q", out)
	}
	if !strings.Contains(out, "WARN [main] root") {
		t.Errorf("Expected default component 'main', got %q", out)
	}
}

func TestRedirectToFile(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter("ui", &buf, nil)
	path := filepath.Join(t.TempDir(), "logs", "wedsite.log")

	closer, err := l.RedirectToFile(path)
	if err != nil {
		t.Fatalf("RedirectToFile failed: %v", err)
	}
	l.WithComponent("touch").Warn("to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	l.Warn("back to buffer")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[touch] to file") {
		t.Errorf("Expected redirected line in file, got %q", string(data))
	}
	if !strings.Contains(buf.String(), "back to buffer") || strings.Contains(buf.String(), "to file") {
		t.Errorf("Expected only restored output in buffer, got %q", buf.String())
	}
}
