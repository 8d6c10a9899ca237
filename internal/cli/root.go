package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/config"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/logger"
	"github.com/yildizm/wedsite/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wedsite",
		Short: "Elizabeth & Carlos wedding site in your terminal",
		Long: `wedsite is the wedding site of Elizabeth & Carlos as a terminal app.

Browse the schedule, read our story, RSVP or edit your RSVP, sign the guest
book and print the save-the-date card. Hosts can also pull the guest list
dashboard from the RSVP service.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, csv, tsv, markdown)")

	rootCmd.AddCommand(newBrowseCommand())
	rootCmd.AddCommand(newGuestsCommand())
	rootCmd.AddCommand(newGuestBookCommand())
	rootCmd.AddCommand(newRSVPCommand())
	rootCmd.AddCommand(newSaveTheDateCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wedsite %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig loads the configuration once per process and applies the
// global flags on top.
func GetGlobalConfig() (*config.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noEmoji {
		cfg.Output.NoEmoji = true
	}
	emoji.SetEmojiDisabled(cfg.Output.NoEmoji)
	if noColor {
		cfg.Output.ColorMode = "never"
	}
	if outputFmt != "" {
		cfg.Output.DefaultFormat = outputFmt
	}
	if !ui.SetThemeByName(cfg.UI.Theme) {
		return nil, fmt.Errorf("unknown theme: %s", cfg.UI.Theme)
	}
	globalConfig = cfg
	return cfg, nil
}

// Global helpers
func isVerbose() bool {
	if globalConfig != nil {
		return globalConfig.Output.Verbose
	}
	return verbose
}

func getOutputFormat(cfg *config.Config) string {
	if outputFmt != "" {
		return outputFmt
	}
	return cfg.Output.DefaultFormat
}

// colorEnabled resolves the color mode; auto means stdout is a terminal
// and NO_COLOR is unset.
func colorEnabled(cfg *config.Config) bool {
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return !ui.IsColorDisabled() && term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

func newClient(cfg *config.Config, log *logger.Logger) (*api.Client, error) {
	client, err := api.New(cfg.ClientConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSVP service client: %w", err)
	}
	return client, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			if isVerbose() {
				fmt.Fprintf(os.Stderr, "\nReceived interrupt signal, stopping...\n")
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
