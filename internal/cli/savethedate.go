package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yildizm/wedsite/internal/config"
	"github.com/yildizm/wedsite/internal/emoji"
	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/savethedate"
	"github.com/yildizm/wedsite/internal/ui"
)

var (
	cardFile     string
	cardLanguage string
	cardHTML     bool
	cardChrome   string
)

func newSaveTheDateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "savethedate",
		Aliases: []string{"save-the-date"},
		Short:   "Print the save-the-date card",
		Long: `Print the two-page save-the-date card to PDF with a headless Chrome.

With --html the card page is written instead, ready for any browser.`,
		Example: `  wedsite savethedate
  wedsite savethedate --lang es --file tarjeta.pdf
  wedsite savethedate --html --file card.html`,
		RunE: runSaveTheDate,
	}

	cmd.Flags().StringVarP(&cardFile, "file", "f", "", "output path (default from config)")
	cmd.Flags().StringVarP(&cardLanguage, "lang", "l", "", "card language (en, es)")
	cmd.Flags().BoolVar(&cardHTML, "html", false, "write the card as HTML instead of PDF")
	cmd.Flags().StringVar(&cardChrome, "chrome", "", "Chrome or Chromium binary")

	return cmd
}

func runSaveTheDate(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lang := cfg.Language()
	if cardLanguage != "" {
		if lang, err = locale.Parse(cardLanguage); err != nil {
			return err
		}
	}

	catalog, err := locale.NewCatalog(cfg.UI.TranslationsDir)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	card := savethedate.NewCard(catalog, lang)

	pdf := cfg.PDF
	if cardChrome != "" {
		pdf.ChromeBin = cardChrome
	}
	if cardFile != "" {
		pdf.Output = cardFile
	}

	out := cmd.OutOrStdout()
	if cardHTML {
		return writeCardHTML(out, card, pdf)
	}

	ctx, cancel := signalContext()
	defer cancel()

	path, err := ui.ExportCard(ctx, card, pdf, newLogger("savethedate"))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Save the date written to %s\n", emoji.GetEmoji("success"), path)
	return nil
}

func writeCardHTML(out io.Writer, card savethedate.Card, pdf config.PDFConfig) error {
	if pdf.WidthPx > 0 && pdf.HeightPx > 0 {
		card.WidthPx, card.HeightPx = pdf.WidthPx, pdf.HeightPx
	}
	if err := card.LoadImages(config.ExpandPath(pdf.FrontImage), config.ExpandPath(pdf.BackImage)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := savethedate.Render(&buf, card); err != nil {
		return err
	}

	path := ""
	if cardFile != "" {
		path = config.ExpandPath(cardFile)
	}
	return handleOutputDestination(out, buf.Bytes(), path)
}
