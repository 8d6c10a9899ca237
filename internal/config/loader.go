package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.wedsite.yaml",               // Project-specific config (highest priority)
	"~/.config/wedsite/config.yaml", // User config
	"/etc/wedsite/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.wedsite.yaml
// 4. ~/.config/wedsite/config.yaml
// 5. /etc/wedsite/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes path on top of config. Keys absent from the file keep
// their current values, so booleans can be turned off explicitly.
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	events := config.API.Events
	config.API.Events = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		config.API.Events = events
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	config.API.Events = mergeEvents(events, config.API.Events)

	return nil
}

// mergeEvents overlays file event ids on the existing ones
func mergeEvents(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// API Config
		"WEDSITE_API_BASE_URL":      func(v string) error { config.API.BaseURL = v; return nil },
		"WEDSITE_API_TIMEOUT":       func(v string) error { return parseDuration(v, &config.API.Timeout) },
		"WEDSITE_API_MAX_RETRIES":   func(v string) error { return parseInt(v, &config.API.MaxRetries) },
		"WEDSITE_API_RETRY_DELAY":   func(v string) error { return parseDuration(v, &config.API.RetryDelay) },
		"WEDSITE_API_MAIN_EVENT_ID": func(v string) error { config.API.MainEventID = v; return nil },
		"WEDSITE_API_CONCURRENCY":   func(v string) error { return parseInt(v, &config.API.Concurrency) },

		// UI Config
		"WEDSITE_UI_LANGUAGE":           func(v string) error { config.UI.Language = v; return nil },
		"WEDSITE_UI_THEME":              func(v string) error { config.UI.Theme = v; return nil },
		"WEDSITE_UI_TRANSITION":         func(v string) error { return parseDuration(v, &config.UI.Transition) },
		"WEDSITE_UI_PAGE_FADE":          func(v string) error { return parseDuration(v, &config.UI.PageFade) },
		"WEDSITE_UI_MOBILE_BREAKPOINT":  func(v string) error { return parseInt(v, &config.UI.MobileBreakpoint) },
		"WEDSITE_UI_MOVE_THRESHOLD":     func(v string) error { return parseInt(v, &config.UI.MoveThreshold) },
		"WEDSITE_UI_SWIPE_DISTANCE":     func(v string) error { return parseInt(v, &config.UI.SwipeDistance) },
		"WEDSITE_UI_CELL_WIDTH":         func(v string) error { return parseInt(v, &config.UI.CellWidth) },
		"WEDSITE_UI_CELL_HEIGHT":        func(v string) error { return parseInt(v, &config.UI.CellHeight) },
		"WEDSITE_UI_LOG_FILE":           func(v string) error { config.UI.LogFile = v; return nil },
		"WEDSITE_UI_TRANSLATIONS_DIR":   func(v string) error { config.UI.TranslationsDir = v; return nil },
		"WEDSITE_UI_WATCH_TRANSLATIONS": func(v string) error { return parseBool(v, &config.UI.WatchTranslations) },

		// Touch Config
		"WEDSITE_TOUCH_ENABLED": func(v string) error { return parseBool(v, &config.Touch.Enabled) },
		"WEDSITE_TOUCH_DEVICE":  func(v string) error { config.Touch.Device = v; return nil },

		// Output Config
		"WEDSITE_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"WEDSITE_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"WEDSITE_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"WEDSITE_OUTPUT_NO_EMOJI":       func(v string) error { return parseBool(v, &config.Output.NoEmoji) },

		// PDF Config
		"WEDSITE_PDF_OUTPUT":      func(v string) error { config.PDF.Output = v; return nil },
		"WEDSITE_PDF_CHROME_BIN":  func(v string) error { config.PDF.ChromeBin = v; return nil },
		"WEDSITE_PDF_WIDTH_PX":    func(v string) error { return parseInt(v, &config.PDF.WidthPx) },
		"WEDSITE_PDF_HEIGHT_PX":   func(v string) error { return parseInt(v, &config.PDF.HeightPx) },
		"WEDSITE_PDF_TIMEOUT":     func(v string) error { return parseDuration(v, &config.PDF.Timeout) },
		"WEDSITE_PDF_FRONT_IMAGE": func(v string) error { config.PDF.FrontImage = v; return nil },
		"WEDSITE_PDF_BACK_IMAGE":  func(v string) error { config.PDF.BackImage = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// WEDSITE_API_EVENTS=ceremony=<id>,reception=<id>
	if pairs := os.Getenv("WEDSITE_API_EVENTS"); pairs != "" {
		if config.API.Events == nil {
			config.API.Events = make(map[string]string)
		}
		for _, pair := range strings.Split(pairs, ",") {
			key, id, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid value for WEDSITE_API_EVENTS: %q is not key=id", pair)
			}
			config.API.Events[strings.TrimSpace(key)] = strings.TrimSpace(id)
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ExpandPath expands a leading ~ in user-supplied paths such as ui.log_file
func ExpandPath(path string) string {
	return expandPath(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
