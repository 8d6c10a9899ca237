package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/guestlist"
)

// terminalFormatter renders the dashboard as trees for terminal display
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(d *guestlist.Dashboard) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "Guest List Dashboard")
	f.writeStatistics(&b, d)

	if len(d.Parties) == 0 {
		b.WriteString("No guests yet.\n")
		return []byte(b.String()), nil
	}
	for _, p := range d.Parties {
		f.writeParty(&b, p)
	}
	return []byte(b.String()), nil
}

func (f *terminalFormatter) writeHeader(b *strings.Builder, header string) {
	width := len([]rune(header))
	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeStatistics writes the guest count and one attendance bar per event
func (f *terminalFormatter) writeStatistics(b *strings.Builder, d *guestlist.Dashboard) {
	symbol := termfmt.GetEmoji("statistics", f.opts)
	b.WriteString(symbol + " Statistics\n")

	items := []termfmt.TreeItem{
		{Label: "Total Guests", Value: formatNumber(d.TotalGuests), Last: len(d.Totals) == 0},
	}
	for i, total := range d.Totals {
		items = append(items, termfmt.TreeItem{
			Label: total.Name,
			Value: fmt.Sprintf("%s %d attending", termfmt.CreateConfidenceBar(ratio(total.Count, d.TotalGuests), f.opts), total.Count),
			Last:  i == len(d.Totals)-1,
		})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) writeParty(b *strings.Builder, p guestlist.Party) {
	fmt.Fprintf(b, "%s %s\n", emoji.GetEmoji("household"), p.Names)

	items := []termfmt.TreeItem{
		{Label: "Address", Value: p.Address},
		{Label: "Email", Value: p.Email},
		{Label: "Phone", Value: p.Phone},
	}

	responses := termfmt.TreeItem{Label: "RSVP Responses", Children: responseItems(p.Responses)}
	if len(p.Members) == 0 {
		responses.Last = true
		items = append(items, responses)
	} else {
		items = append(items, responses)
		members := make([]termfmt.TreeItem, 0, len(p.Members))
		for i, m := range p.Members {
			members = append(members, termfmt.TreeItem{
				Label:    m.Name,
				Children: responseItems(m.Responses),
				Last:     i == len(p.Members)-1,
			})
		}
		items = append(items, termfmt.TreeItem{Label: "Party Members", Children: members, Last: true})
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func responseItems(responses []guestlist.Response) []termfmt.TreeItem {
	items := make([]termfmt.TreeItem, 0, len(responses))
	for i, r := range responses {
		items = append(items, termfmt.TreeItem{
			Label: emoji.ForResponse(r.Response) + " " + r.Event,
			Value: strings.ToUpper(r.Response),
			Last:  i == len(responses)-1,
		})
	}
	return items
}
