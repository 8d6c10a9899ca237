package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/wedsite/internal/formatter"
	"github.com/yildizm/wedsite/internal/guestlist"
)

var (
	guestsOutputFile  string
	guestsConcurrency int
)

func newGuestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guests",
		Short: "Print the guest list dashboard",
		Long: `Fetch every guest invited to the wedding and print per-event totals, the
responses and the parties.

The output format follows --output; csv and tsv print one row per guest
for spreadsheets.`,
		Example: `  wedsite guests
  wedsite guests -o csv --file guests.csv
  wedsite guests -o json --concurrency 4`,
		RunE: runGuests,
	}

	cmd.Flags().StringVarP(&guestsOutputFile, "file", "f", "", "write output to file instead of stdout")
	cmd.Flags().IntVar(&guestsConcurrency, "concurrency", 0, "parallel guest fetches (default from config)")

	return cmd
}

func runGuests(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	f, err := formatter.New(getOutputFormat(cfg), colorEnabled(cfg) && guestsOutputFile == "")
	if err != nil {
		return err
	}

	log := newLogger("guests")
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	workers := cfg.API.Concurrency
	if guestsConcurrency > 0 {
		workers = guestsConcurrency
	}

	ctx, cancel := signalContext()
	defer cancel()

	mainID := cfg.EventIDs().Main
	guests, err := guestlist.Fetch(ctx, client, mainID, workers, log)
	if err != nil {
		return fmt.Errorf("failed to fetch guests: %w", err)
	}

	output, err := f.Format(guestlist.Build(guests, mainID, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to format guest list: %w", err)
	}
	return handleOutputDestination(cmd.OutOrStdout(), output, guestsOutputFile)
}
