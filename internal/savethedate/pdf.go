package savethedate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/yildizm/wedsite/internal/logger"
)

// cssPixelsPerInch is the fixed CSS ratio Chrome prints with.
const cssPixelsPerInch = 96.0

type PDFOptions struct {
	ChromeBin string
	Timeout   time.Duration
}

func DefaultPDFOptions() PDFOptions {
	return PDFOptions{Timeout: 60 * time.Second}
}

// PDF renders the card and prints it with headless Chrome, one card
// side per page.
func PDF(ctx context.Context, c Card, opts PDFOptions, log *logger.Logger) ([]byte, error) {
	if log == nil {
		log = logger.Discard()
	}
	var html bytes.Buffer
	if err := Render(&html, c); err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	l := launcher.New().Context(ctx).Headless(true)
	if opts.ChromeBin != "" {
		l = l.Bin(opts.ChromeBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Warn("failed to close browser: %v", err)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetDocumentContent(html.String()); err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for card: %w", err)
	}

	width := float64(c.WidthPx) / cssPixelsPerInch
	height := float64(c.HeightPx) / cssPixelsPerInch
	zero := 0.0
	start := time.Now()
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        &width,
		PaperHeight:       &height,
		MarginTop:         &zero,
		MarginBottom:      &zero,
		MarginLeft:        &zero,
		MarginRight:       &zero,
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print card: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	log.DebugWithFields("card printed", []logger.Field{logger.F("bytes", len(data)), logger.Duration(time.Since(start))})
	return data, nil
}
