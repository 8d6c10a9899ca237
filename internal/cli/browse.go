package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/navigation"
	"github.com/yildizm/wedsite/internal/ui"
)

var (
	browseRoute    string
	browseLanguage string
	browseTouch    bool
	browseDevice   string
	browseOffline  bool
)

func newBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the wedding site",
		Long: `Open the wedding site full screen.

Use arrow keys or swipe with the mouse (or a touchscreen) to move between
pages. The guest book and the guest list open on their own with --route.`,
		Example: `  wedsite browse
  wedsite browse --route /guestbook
  wedsite browse --lang es --touch --device /dev/input/event2`,
		RunE: runBrowse,
	}

	cmd.Flags().StringVarP(&browseRoute, "route", "r", "/", "entry path (/, /guestbook, /guestlist)")
	cmd.Flags().StringVarP(&browseLanguage, "lang", "l", "", "display language (en, es)")
	cmd.Flags().BoolVar(&browseTouch, "touch", false, "read touch input from an evdev device")
	cmd.Flags().StringVar(&browseDevice, "device", "", "touchscreen device path")
	cmd.Flags().BoolVar(&browseOffline, "offline", false, "browse without contacting the RSVP service")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	start, ok := navigation.ParseRoute(browseRoute)
	if !ok {
		return fmt.Errorf("unknown route: %s", browseRoute)
	}

	lang := cfg.Language()
	if browseLanguage != "" {
		if lang, err = locale.Parse(browseLanguage); err != nil {
			return err
		}
	}
	if browseTouch {
		cfg.Touch.Enabled = true
	}
	if browseDevice != "" {
		cfg.Touch.Device = browseDevice
	}

	log := newLogger("ui")

	catalog, err := locale.NewCatalog(cfg.UI.TranslationsDir)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	opts := ui.Options{
		Config:  cfg,
		Catalog: catalog,
		Setting: locale.NewSetting(lang),
		Start:   start,
		Log:     log,
	}
	if !browseOffline {
		client, err := newClient(cfg, log)
		if err != nil {
			return err
		}
		opts.Backend = client
	}

	ctx, cancel := signalContext()
	defer cancel()

	return ui.Run(ctx, opts)
}
