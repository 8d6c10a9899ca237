package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/rsvp"
	"github.com/yildizm/wedsite/internal/wedding"
)

var (
	rsvpEmail    string
	rsvpPhone    string
	rsvpPassword string
	rsvpAnswers  []string
)

func newRSVPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rsvp",
		Short: "Look up or change a household's RSVP",
		Long: `Look up or change a household's RSVP with the email or phone number and
the password used when it was created. The password may also come from
` + passwordEnv + `.`,
	}
	cmd.PersistentFlags().StringVarP(&rsvpEmail, "email", "e", "", "household email")
	cmd.PersistentFlags().StringVar(&rsvpPhone, "phone", "", "household phone number")
	cmd.PersistentFlags().StringVar(&rsvpPassword, "password", "", "household password")

	lookupCmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print a household's answers",
		Example: `  wedsite rsvp lookup --email ana@example.com
  wedsite rsvp lookup --phone "(555) 123-4567" -o json`,
		RunE: runRSVPLookup,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Change which events guests attend",
		Long: `Change which events guests attend. Each --answer names a guest and the
events they attend; events left out are declined. Guests without an
--answer keep their current answers.

Events: ` + strings.Join(eventKeyNames(), ", "),
		Example: `  wedsite rsvp update --email ana@example.com --answer "Ana Pérez=ceremony,reception"
  wedsite rsvp update --email ana@example.com --answer "Luis Pérez="`,
		RunE: runRSVPUpdate,
	}
	updateCmd.Flags().StringArrayVar(&rsvpAnswers, "answer", nil, `guest answer as "Name=event,event"`)
	_ = updateCmd.MarkFlagRequired("answer")

	cmd.AddCommand(lookupCmd, updateCmd)
	return cmd
}

func rsvpCredentials() rsvp.Credentials {
	password := rsvpPassword
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	return rsvp.Credentials{Email: rsvpEmail, Phone: rsvpPhone, Password: password}
}

func runRSVPLookup(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger("rsvp")
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	svc := rsvp.NewService(client, cfg.EventIDs(), log)

	ctx, cancel := signalContext()
	defer cancel()

	h, err := svc.Authenticate(ctx, rsvpCredentials())
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	if getOutputFormat(cfg) == "json" {
		return printHouseholdJSON(cmd.OutOrStdout(), h)
	}
	printHousehold(cmd.OutOrStdout(), h)
	return nil
}

func runRSVPUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	answers, err := parseAnswers(rsvpAnswers)
	if err != nil {
		return err
	}

	log := newLogger("rsvp")
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	svc := rsvp.NewService(client, cfg.EventIDs(), log)

	ctx, cancel := signalContext()
	defer cancel()

	h, err := svc.Authenticate(ctx, rsvpCredentials())
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	guests, err := applyAnswers(h.Guests, answers)
	if err != nil {
		return err
	}
	if err := svc.Update(ctx, h, guests); err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	h.Guests = guests
	fmt.Fprintf(cmd.OutOrStdout(), "%s RSVP updated\n\n", emoji.GetEmoji("success"))
	printHousehold(cmd.OutOrStdout(), h)
	return nil
}

// answer is one --answer flag: the events a guest attends.
type answer struct {
	name   string
	events map[wedding.EventKey]bool
}

func parseAnswers(values []string) ([]answer, error) {
	answers := make([]answer, 0, len(values))
	for _, v := range values {
		name, list, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid answer %q, expected Name=event,event", v)
		}
		a := answer{name: name, events: make(map[wedding.EventKey]bool)}
		for _, field := range strings.Split(list, ",") {
			if field = strings.TrimSpace(field); field == "" {
				continue
			}
			key, err := wedding.ParseEventKey(field)
			if err != nil {
				return nil, err
			}
			a.events[key] = true
		}
		answers = append(answers, a)
	}
	return answers, nil
}

// applyAnswers returns a copy of guests with answers applied. Every answer
// must name a guest of the household.
func applyAnswers(guests []rsvp.Guest, answers []answer) ([]rsvp.Guest, error) {
	out := make([]rsvp.Guest, len(guests))
	for i, g := range guests {
		out[i] = rsvp.Guest{ID: g.ID, Name: g.Name}
		for _, key := range wedding.EventKeys() {
			out[i].Set(key, g.Attending[key])
		}
	}
	for _, a := range answers {
		found := false
		for i := range out {
			if !strings.EqualFold(strings.TrimSpace(out[i].Name), a.name) {
				continue
			}
			for _, key := range wedding.EventKeys() {
				out[i].Set(key, a.events[key])
			}
			found = true
		}
		if !found {
			return nil, fmt.Errorf("%q is not a guest of this household", a.name)
		}
	}
	return out, nil
}

func printHousehold(w io.Writer, h *rsvp.Household) {
	addr := h.Address
	fmt.Fprintf(w, "%s %s\n", emoji.GetEmoji("household"), rsvp.FormatAddress(rsvp.Address{
		Line1:      addr.AddressLine1,
		Line2:      addr.AddressLine2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
	}))
	if addr.Email != "" {
		fmt.Fprintf(w, "%s %s\n", emoji.GetEmoji("mail"), addr.Email)
	}
	if addr.PhoneNumber != "" {
		fmt.Fprintf(w, "%s %s\n", emoji.GetEmoji("phone"), rsvp.FormatPhone(addr.PhoneNumber))
	}
	fmt.Fprintln(w)

	for _, g := range h.Guests {
		fmt.Fprintf(w, "%s %s\n", emoji.GetEmoji("guests"), g.Name)
		for _, key := range wedding.EventKeys() {
			mark := emoji.GetEmoji("no")
			if g.Attending[key] {
				mark = emoji.GetEmoji("yes")
			}
			fmt.Fprintf(w, "    %s %s\n", mark, key)
		}
	}
}

type householdJSON struct {
	Address api.MailingAddress `json:"mailing_address"`
	Events  []wedding.EventKey `json:"events"`
	Guests  []guestJSON        `json:"guests"`
}

type guestJSON struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Responses map[string]string `json:"responses"`
}

func printHouseholdJSON(w io.Writer, h *rsvp.Household) error {
	out := householdJSON{Address: h.Address, Events: h.Events, Guests: make([]guestJSON, 0, len(h.Guests))}
	out.Address.Password = ""
	for _, g := range h.Guests {
		gj := guestJSON{ID: g.ID, Name: g.Name, Responses: make(map[string]string)}
		for _, key := range wedding.EventKeys() {
			gj.Responses[string(key)] = g.Response(key)
		}
		out.Guests = append(out.Guests, gj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func eventKeyNames() []string {
	keys := wedding.EventKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return names
}
