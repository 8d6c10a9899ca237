package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/wedsite/internal/guestlist"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(d *guestlist.Dashboard) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Guest List Dashboard\n\n")
	if !d.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	f.writeSummaryTable(&b, d)
	if len(d.Parties) > 0 {
		f.writeParties(&b, d)
	}
	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeSummaryTable(b *strings.Builder, d *guestlist.Dashboard) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Total Guests | %s |\n", formatNumber(d.TotalGuests))
	for _, total := range d.Totals {
		fmt.Fprintf(b, "| %s | %d |\n", escapeCell(total.Name), total.Count)
	}
	b.WriteString("\n")
}

func (f *markdownFormatter) writeParties(b *strings.Builder, d *guestlist.Dashboard) {
	b.WriteString("## Parties\n\n")

	b.WriteString("| Party | Address | Email | Phone |")
	for _, total := range d.Totals {
		b.WriteString(" " + escapeCell(total.Name) + " |")
	}
	b.WriteString("\n|-------|---------|-------|-------|")
	for range d.Totals {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, p := range d.Parties {
		fmt.Fprintf(b, "| %s | %s | %s | %s |", escapeCell(p.Names), escapeCell(p.Address), escapeCell(p.Email), escapeCell(p.Phone))
		for _, total := range d.Totals {
			b.WriteString(" " + responseFor(p, total.Name) + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, p := range d.Parties {
		if len(p.Members) == 0 {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", p.Names)
		for _, m := range p.Members {
			answers := make([]string, 0, len(m.Responses))
			for _, r := range m.Responses {
				answers = append(answers, fmt.Sprintf("%s: %s", r.Event, strings.ToUpper(r.Response)))
			}
			fmt.Fprintf(b, "- **%s**: %s\n", m.Name, strings.Join(answers, ", "))
		}
		b.WriteString("\n")
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(flatten(s), "|", `\|`)
}
