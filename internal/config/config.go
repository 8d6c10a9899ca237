package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/wedsite/internal/api"
	"github.com/yildizm/wedsite/internal/gesture"
	"github.com/yildizm/wedsite/internal/locale"
	"github.com/yildizm/wedsite/internal/wedding"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	API     APIConfig    `yaml:"api" json:"api"`
	UI      UIConfig     `yaml:"ui" json:"ui"`
	Touch   TouchConfig  `yaml:"touch" json:"touch"`
	Output  OutputConfig `yaml:"output" json:"output"`
	PDF     PDFConfig    `yaml:"pdf" json:"pdf"`
}

// APIConfig configures the RSVP service client
type APIConfig struct {
	BaseURL     string            `yaml:"base_url" json:"base_url"`
	Timeout     time.Duration     `yaml:"timeout" json:"timeout"`
	MaxRetries  int               `yaml:"max_retries" json:"max_retries"`
	RetryDelay  time.Duration     `yaml:"retry_delay" json:"retry_delay"`
	MainEventID string            `yaml:"main_event_id" json:"main_event_id"`
	Events      map[string]string `yaml:"events" json:"events"`           // sub-event key -> service id
	Concurrency int               `yaml:"concurrency" json:"concurrency"` // parallel guest fetches
}

// UIConfig configures the terminal front end
type UIConfig struct {
	Language          string        `yaml:"language" json:"language"` // en|es
	Theme             string        `yaml:"theme" json:"theme"`
	Transition        time.Duration `yaml:"transition" json:"transition"`
	PageFade          time.Duration `yaml:"page_fade" json:"page_fade"`
	MobileBreakpoint  int           `yaml:"mobile_breakpoint" json:"mobile_breakpoint"`
	MoveThreshold     int           `yaml:"move_threshold" json:"move_threshold"`
	SwipeDistance     int           `yaml:"swipe_distance" json:"swipe_distance"`
	CellWidth         int           `yaml:"cell_width" json:"cell_width"`   // pixels per terminal column
	CellHeight        int           `yaml:"cell_height" json:"cell_height"` // pixels per terminal row
	LogFile           string        `yaml:"log_file" json:"log_file"`
	TranslationsDir   string        `yaml:"translations_dir" json:"translations_dir"`
	WatchTranslations bool          `yaml:"watch_translations" json:"watch_translations"`
}

// TouchConfig configures the kiosk touchscreen
type TouchConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Device  string `yaml:"device" json:"device"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|csv|tsv|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	NoEmoji       bool   `yaml:"no_emoji" json:"no_emoji"`
}

// PDFConfig configures the save-the-date export
type PDFConfig struct {
	Output     string        `yaml:"output" json:"output"`
	ChromeBin  string        `yaml:"chrome_bin" json:"chrome_bin"`
	WidthPx    int           `yaml:"width_px" json:"width_px"`
	HeightPx   int           `yaml:"height_px" json:"height_px"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	FrontImage string        `yaml:"front_image" json:"front_image"`
	BackImage  string        `yaml:"back_image" json:"back_image"`
}

var (
	validFormats    = []string{"text", "json", "csv", "tsv", "markdown"}
	validColorModes = []string{"auto", "always", "never"}
	validThemes     = []string{"default", "high-contrast", "minimal"}
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	ids := wedding.DefaultEventIDs()
	events := make(map[string]string, len(ids.Events))
	for key, id := range ids.Events {
		events[string(key)] = id
	}
	th := gesture.DefaultThresholds()

	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:     api.DefaultBaseURL,
			Timeout:     api.DefaultTimeout,
			MaxRetries:  api.DefaultMaxRetries,
			RetryDelay:  api.DefaultRetryDelay,
			MainEventID: ids.Main,
			Events:      events,
			Concurrency: 8,
		},
		UI: UIConfig{
			Language:         string(locale.English),
			Theme:            "default",
			Transition:       600 * time.Millisecond,
			PageFade:         300 * time.Millisecond,
			MobileBreakpoint: th.MobileMaxWidth,
			MoveThreshold:    th.MoveThreshold,
			SwipeDistance:    th.MinSwipeDistance,
			CellWidth:        8,
			CellHeight:       16,
		},
		Touch: TouchConfig{
			Device: "/dev/input/event0",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
		},
		PDF: PDFConfig{
			Output:   "save-the-date.pdf",
			WidthPx:  600,
			HeightPx: 900,
			Timeout:  60 * time.Second,
		},
	}
}

// EventIDs returns the service identifiers for the schedule. Keys missing
// from the config keep their built-in identifiers.
func (c *Config) EventIDs() wedding.EventIDs {
	ids := wedding.DefaultEventIDs()
	if c.API.MainEventID != "" {
		ids.Main = c.API.MainEventID
	}
	for name, id := range c.API.Events {
		if key, err := wedding.ParseEventKey(name); err == nil {
			ids.Events[key] = id
		}
	}
	return ids
}

// ClientConfig returns the RSVP client settings
func (c *Config) ClientConfig() *api.Config {
	cfg := api.DefaultConfig()
	cfg.BaseURL = c.API.BaseURL
	cfg.Timeout = c.API.Timeout
	cfg.MaxRetries = c.API.MaxRetries
	cfg.RetryDelay = c.API.RetryDelay
	return cfg
}

// Language returns the starting language, English when unset or invalid
func (c *Config) Language() locale.Language {
	lang, err := locale.Parse(c.UI.Language)
	if err != nil {
		return locale.English
	}
	return lang
}

// Thresholds returns the swipe recognizer tuning
func (c *Config) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		MobileMaxWidth:   c.UI.MobileBreakpoint,
		MoveThreshold:    c.UI.MoveThreshold,
		MinSwipeDistance: c.UI.SwipeDistance,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validatePDFConfig(); err != nil {
		return err
	}
	if c.Touch.Enabled && c.Touch.Device == "" {
		return fmt.Errorf("touch.device is required when touch is enabled")
	}
	return nil
}

// validateAPIConfig validates the RSVP service configuration
func (c *Config) validateAPIConfig() error {
	if err := c.ClientConfig().Validate(); err != nil {
		return err
	}
	for name := range c.API.Events {
		if _, err := wedding.ParseEventKey(name); err != nil {
			return fmt.Errorf("invalid event key: %s (must be one of: %s)", name, eventKeyList())
		}
	}
	if err := c.EventIDs().Validate(); err != nil {
		return err
	}
	if c.API.Concurrency < 1 {
		return fmt.Errorf("concurrency must be greater than 0")
	}
	return nil
}

// validateUIConfig validates terminal UI configuration
func (c *Config) validateUIConfig() error {
	if _, err := locale.Parse(c.UI.Language); err != nil {
		return fmt.Errorf("invalid language: %s (must be one of: en, es)", c.UI.Language)
	}
	if c.UI.Theme != "" && !oneOf(c.UI.Theme, validThemes) {
		return fmt.Errorf("invalid theme: %s (must be one of: %s)", c.UI.Theme, strings.Join(validThemes, ", "))
	}
	if c.UI.Transition < 0 {
		return fmt.Errorf("transition must be non-negative")
	}
	if c.UI.PageFade < 0 {
		return fmt.Errorf("page_fade must be non-negative")
	}
	if c.UI.MobileBreakpoint < 1 {
		return fmt.Errorf("mobile_breakpoint must be greater than 0")
	}
	if c.UI.MoveThreshold < 0 {
		return fmt.Errorf("move_threshold must be non-negative")
	}
	if c.UI.SwipeDistance < 1 {
		return fmt.Errorf("swipe_distance must be greater than 0")
	}
	if c.UI.CellWidth < 1 || c.UI.CellHeight < 1 {
		return fmt.Errorf("cell_width and cell_height must be greater than 0")
	}
	if c.UI.WatchTranslations && c.UI.TranslationsDir == "" {
		return fmt.Errorf("watch_translations requires translations_dir")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" && !oneOf(c.Output.DefaultFormat, validFormats) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.DefaultFormat, strings.Join(validFormats, ", "))
	}
	if c.Output.ColorMode != "" && !oneOf(c.Output.ColorMode, validColorModes) {
		return fmt.Errorf("invalid color mode: %s (must be one of: %s)", c.Output.ColorMode, strings.Join(validColorModes, ", "))
	}
	return nil
}

func (c *Config) validatePDFConfig() error {
	if c.PDF.WidthPx < 1 || c.PDF.HeightPx < 1 {
		return fmt.Errorf("width_px and height_px must be greater than 0")
	}
	if c.PDF.Timeout < 0 {
		return fmt.Errorf("pdf timeout must be non-negative")
	}
	return nil
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}

func eventKeyList() string {
	keys := wedding.EventKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
