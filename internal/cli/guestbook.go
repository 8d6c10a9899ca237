package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/guestbook"
	"github.com/yildizm/wedsite/internal/locale"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "WEDSITE_PASSWORD"

var (
	guestbookPage     int
	guestbookAll      bool
	guestbookEmail    string
	guestbookPassword string
	guestbookName     string
	guestbookMessage  string
)

func newGuestBookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guestbook",
		Short: "Read or sign the guest book",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print guest book messages",
		Example: `  wedsite guestbook list
  wedsite guestbook list --page 2
  wedsite guestbook list --all`,
		RunE: runGuestBookList,
	}
	listCmd.Flags().IntVarP(&guestbookPage, "page", "p", 1, "page to print, starting at 1")
	listCmd.Flags().BoolVarP(&guestbookAll, "all", "a", false, "print every page")

	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Sign the guest book",
		Long: `Sign the guest book with the email and password used to RSVP.

The password may also come from ` + passwordEnv + `. A message of "-" is read
from standard input. When the household has several invitees, --name picks
who signs.`,
		Example: `  wedsite guestbook post --email ana@example.com --message "Congratulations!"
  echo "See you in Cancún" | wedsite guestbook post --email ana@example.com --name "Ana" --message -`,
		RunE: runGuestBookPost,
	}
	postCmd.Flags().StringVarP(&guestbookEmail, "email", "e", "", "household email")
	postCmd.Flags().StringVar(&guestbookPassword, "password", "", "household password")
	postCmd.Flags().StringVarP(&guestbookName, "name", "n", "", "invitee signing the message")
	postCmd.Flags().StringVarP(&guestbookMessage, "message", "m", "", "message text, or - for stdin")
	_ = postCmd.MarkFlagRequired("email")
	_ = postCmd.MarkFlagRequired("message")

	cmd.AddCommand(listCmd, postCmd)
	return cmd
}

func runGuestBookList(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if guestbookPage < 1 {
		return fmt.Errorf("page must be 1 or greater")
	}

	log := newLogger("guestbook")
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	page := guestbookPage - 1
	for {
		result, err := guestbook.List(ctx, client, page)
		if err != nil {
			return fmt.Errorf("%s", api.Message(err))
		}
		printComments(out, cfg.Language(), result, page)
		if !guestbookAll || page+1 >= result.TotalPages {
			return nil
		}
		page++
	}
}

// printComments prints one page of notes, newest first as served.
func printComments(w io.Writer, lang locale.Language, result *api.CommentPage, page int) {
	total := max(result.TotalPages, 1)
	fmt.Fprintf(w, "%s Guest book, page %d of %d\n\n", emoji.GetEmoji("note"), page+1, total)
	if len(result.Comments) == 0 {
		fmt.Fprintln(w, "  No messages yet.")
		fmt.Fprintln(w)
		return
	}
	for _, c := range result.Comments {
		for _, line := range strings.Split(strings.TrimSpace(c.MessageText), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintf(w, "    - %s, %s\n\n", guestbook.DisplayName(c), guestbook.FormatDate(lang, c, nil))
	}
}

func runGuestBookPost(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	password := guestbookPassword
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	message, err := readMessage(cmd.InOrStdin(), guestbookMessage)
	if err != nil {
		return err
	}

	log := newLogger("guestbook")
	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	draft, err := guestbook.Authenticate(ctx, client, guestbookEmail, password)
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	if err := pickInvitee(draft, guestbookName); err != nil {
		return err
	}
	draft.Message = message

	comment, err := guestbook.Sign(ctx, client, *draft, nil)
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Signed the guest book as %s\n", emoji.GetEmoji("success"), guestbook.DisplayName(comment))
	return nil
}

// pickInvitee selects who signs. A household of one needs no name.
func pickInvitee(d *guestbook.Draft, name string) error {
	if len(d.Invitees) == 0 {
		return fmt.Errorf("no invitees found for this household")
	}
	if name == "" {
		if len(d.Invitees) == 1 {
			d.InviteeID = d.Invitees[0].ID
			return nil
		}
		return fmt.Errorf("several invitees share this household, pick one with --name: %s", inviteeNames(d.Invitees))
	}
	for _, inv := range d.Invitees {
		if strings.EqualFold(strings.TrimSpace(inv.Name), strings.TrimSpace(name)) {
			d.InviteeID = inv.ID
			return nil
		}
	}
	return fmt.Errorf("%q is not invited with this household, choose from: %s", name, inviteeNames(d.Invitees))
}

func inviteeNames(invitees []api.Commenter) string {
	names := make([]string, len(invitees))
	for i, inv := range invitees {
		names[i] = inv.Name
	}
	return strings.Join(names, ", ")
}

func readMessage(stdin io.Reader, message string) (string, error) {
	if message != "-" {
		return message, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	return string(data), nil
}
