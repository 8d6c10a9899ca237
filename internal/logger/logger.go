package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// VerboseChecker reports whether debug and info lines should be written
type VerboseChecker interface {
	IsVerbose() bool
}

// Field is a key-value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// sink is shared by a logger and every logger derived from it, so redirecting
// output (e.g. while the terminal UI owns the screen) affects all components.
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// Logger writes component-tagged lines. Warn and Error are always written.
type Logger struct {
	component string
	verbose   VerboseChecker
	fields    []Field
	out       *sink
	now       func() time.Time
}

type funcChecker func() bool

func (f funcChecker) IsVerbose() bool {
	if f == nil {
		return false
	}
	return f()
}

// New creates a logger writing to stderr
func New(component string, verbose VerboseChecker) *Logger {
	return &Logger{
		component: component,
		verbose:   verbose,
		out:       &sink{w: os.Stderr},
		now:       time.Now,
	}
}

// NewWithCallback creates a logger whose verbosity is decided by verboseCheck
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, funcChecker(verboseCheck))
}

// NewWriter creates a logger writing to w; used by tests and the UI log file
func NewWriter(component string, w io.Writer, verboseCheck func() bool) *Logger {
	l := NewWithCallback(component, verboseCheck)
	l.out.w = w
	return l
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWriter("discard", io.Discard, nil)
}

// WithComponent derives a logger for another component sharing the same output
func (l *Logger) WithComponent(component string) *Logger {
	child := *l
	child.component = component
	return &child
}

// With derives a logger that appends fields to every line
func (l *Logger) With(fields ...Field) *Logger {
	child := *l
	child.fields = append(append([]Field(nil), l.fields...), fields...)
	return &child
}

// RedirectToFile sends all output of this logger family to path until the
// returned closer is closed, at which point stderr is restored.
func (l *Logger) RedirectToFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - path comes from the user's own config
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l.out.mu.Lock()
	prev := l.out.w
	l.out.w = f
	l.out.closer = f
	l.out.mu.Unlock()

	return closerFunc(func() error {
		l.out.mu.Lock()
		defer l.out.mu.Unlock()
		l.out.w = prev
		l.out.closer = nil
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func (l *Logger) isVerbose() bool {
	return l.verbose != nil && l.verbose.IsVerbose()
}

// Debug logs only when verbose
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.isVerbose() {
		l.write("DEBUG", fmt.Sprintf(msg, args...), nil)
	}
}

// Info logs only when verbose
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.isVerbose() {
		l.write("INFO", fmt.Sprintf(msg, args...), nil)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.write("WARN", fmt.Sprintf(msg, args...), nil)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.write("ERROR", fmt.Sprintf(msg, args...), nil)
}

// DebugWithFields logs msg with extra fields when verbose
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.isVerbose() {
		l.write("DEBUG", fmt.Sprintf(msg, args...), fields)
	}
}

// InfoWithFields logs msg with extra fields when verbose
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.isVerbose() {
		l.write("INFO", fmt.Sprintf(msg, args...), fields)
	}
}

func (l *Logger) write(level, msg string, extra []Field) {
	component := l.component
	if component == "" {
		component = "main"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] %s", l.now().Format("15:04:05.000"), level, component, msg)

	all := l.fields
	if len(extra) > 0 {
		all = append(append([]Field(nil), l.fields...), extra...)
	}
	if len(all) > 0 {
		parts := make([]string, 0, len(all))
		for _, f := range all {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, " "))
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	// nothing useful to do if the log sink itself fails
	_, _ = io.WriteString(l.out.w, b.String())
}

func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
