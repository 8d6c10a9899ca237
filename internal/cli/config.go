package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/wedsite/internal/config"
	"github.com/yildizm/wedsite/internal/emoji"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and scaffold the wedsite config file",
		Long: `Inspect and scaffold the YAML file that points wedsite at the RSVP
service and sets the couple's event ids, languages, the touchscreen and
the save-the-date printer.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a starter config file next to the kiosk, or wherever --path says.

The annotated template lists every section from the RSVP service down to
the card printer. --minimal keeps only the service URL, the event ids and
the default language.`,
		Example: `  wedsite config init
  wedsite config init --minimal --path ~/.config/wedsite/config.yaml
  wedsite config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".wedsite.yaml"
			}
			outputPath = config.ExpandPath(outputPath)

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), outputPath)
			if minimal {
				fmt.Fprintf(out, "%s Fill in api.base_url and the event ids before the first RSVP\n", emoji.GetEmoji("note"))
			} else {
				fmt.Fprintf(out, "%s Every section is listed with its default, delete what you do not change\n", emoji.GetEmoji("note"))
			}

			return nil
		},
	}

	initCmd.Flags().StringVarP(&outputPath, "path", "p", "", "where to write the file (default: .wedsite.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "only the service URL, event ids and language")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "replace a file that is already there")

	return initCmd
}

func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings wedsite will run with",
		Long: `Print the settings wedsite will run with once the file and any
WEDSITE_ environment overrides are laid over the defaults.`,
		Example: `  wedsite config show
  wedsite --config kiosk.yaml config show --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}

			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config before the guests arrive",
		Long: `Load the config the way the kiosk would and report the first problem:
a missing or relative base URL, an event key other than ceremony,
reception or brunch, an unknown language or color mode, a negative
transition, or touch enabled without a device.`,
		Example: `  wedsite config validate
  wedsite --config kiosk.yaml config validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))

			fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("statistics"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   RSVP Service: %s\n", cfg.API.BaseURL)
			fmt.Fprintf(out, "   Main Event: %s\n", cfg.EventIDs().Main)
			fmt.Fprintf(out, "   Language: %s\n", cfg.Language())
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			touch := "disabled"
			if cfg.Touch.Enabled {
				touch = cfg.Touch.Device
			}
			fmt.Fprintf(out, "   Touchscreen: %s\n", touch)

			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand prints the search order of GetConfigPaths.
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "List where wedsite looks for its config",
		Long: `List the places wedsite looks for its config when --config is not
given, first match wins.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for i, path := range config.GetConfigPaths() {
				mark := emoji.GetEmoji("no")
				if fileExists(path) {
					mark = emoji.GetEmoji("yes")
				}
				fmt.Fprintf(out, "  %d. %s %s\n", i+1, mark, path)
			}
			fmt.Fprintln(out)

			if current, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "%s Using %s\n", emoji.GetEmoji("pin"), current)
			} else {
				fmt.Fprintf(out, "%s Nothing found, running on defaults\n", emoji.GetEmoji("note"))
			}
			fmt.Fprintln(out, "WEDSITE_* environment variables win over any file.")
		},
	}

	return pathCmd
}
