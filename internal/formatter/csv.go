package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/yildizm/wedsite/internal/guestlist"
)

// csvFormatter writes one row per party with a column per event
type csvFormatter struct {
	comma rune
}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{comma: ','}
}

// NewTSV creates a tab separated variant
func NewTSV() Formatter {
	return &csvFormatter{comma: '\t'}
}

func (f *csvFormatter) Format(d *guestlist.Dashboard) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	writer.Comma = f.comma

	headers := []string{"Party", "Address", "Email", "Phone"}
	for _, total := range d.Totals {
		headers = append(headers, total.Name)
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range d.Parties {
		record := []string{flatten(p.Names), flatten(p.Address), p.Email, p.Phone}
		for _, total := range d.Totals {
			record = append(record, responseFor(p, total.Name))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return b.Bytes(), nil
}

func responseFor(p guestlist.Party, event string) string {
	for _, r := range p.Responses {
		if r.Event == event {
			return r.Response
		}
	}
	return "N/A"
}
