package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/wedsite/internal/guestlist"
)

// Formatter renders the guest list dashboard.
type Formatter interface {
	Format(d *guestlist.Dashboard) ([]byte, error)
}

// Formats lists the names accepted by New.
func Formats() []string {
	return []string{"text", "json", "csv", "tsv", "markdown"}
}

// New returns the formatter for format.
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "csv":
		return NewCSV(), nil
	case "tsv":
		return NewTSV(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
}
