package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var builtin embed.FS

// Catalog holds the display strings for every language. The built-in
// message files can be overridden by files in a directory, named the
// go-i18n way (active.es.toml), which are layered on top at Reload.
type Catalog struct {
	overrideDir string

	mu         sync.RWMutex
	bundle     *i18n.Bundle
	localizers map[Language]*i18n.Localizer
}

// NewCatalog loads the built-in messages plus overrides from dir, if set.
func NewCatalog(overrideDir string) (*Catalog, error) {
	c := &Catalog{overrideDir: overrideDir}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// OverrideDir is the directory layered on top of the built-in messages.
func (c *Catalog) OverrideDir() string {
	return c.overrideDir
}

// Reload re-reads all message files. On error the previous messages stay.
func (c *Catalog) Reload() error {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(builtin, "translations")
	if err != nil {
		return fmt.Errorf("failed to list built-in translations: %w", err)
	}
	for _, entry := range entries {
		name := path.Join("translations", entry.Name())
		data, err := builtin.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, entry.Name()); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}

	if c.overrideDir != "" {
		files, err := filepath.Glob(filepath.Join(c.overrideDir, "*.toml"))
		if err != nil {
			return fmt.Errorf("invalid translations directory: %w", err)
		}
		sort.Strings(files)
		for _, f := range files {
			if _, err := bundle.LoadMessageFile(f); err != nil {
				return fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	localizers := make(map[Language]*i18n.Localizer, 2)
	for _, lang := range Languages() {
		localizers[lang] = i18n.NewLocalizer(bundle, lang.Tag().String(), English.Tag().String())
	}

	c.mu.Lock()
	c.bundle = bundle
	c.localizers = localizers
	c.mu.Unlock()
	return nil
}

// Text returns the message id in lang, falling back to English and then to
// the id itself.
func (c *Catalog) Text(lang Language, id string) string {
	return c.Format(lang, id, nil)
}

// Format renders a templated message, e.g. {{.Page}} of {{.Total}}.
func (c *Catalog) Format(lang Language, id string, data map[string]interface{}) string {
	c.mu.RLock()
	loc, ok := c.localizers[lang]
	if !ok {
		loc = c.localizers[English]
	}
	c.mu.RUnlock()

	// a fallback-language hit comes back with a not-found error and the
	// English text, so only an empty result means the id is unknown
	msg, _ := loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if msg == "" {
		return id
	}
	return msg
}

// Translator binds a catalog to the session language.
type Translator struct {
	catalog *Catalog
	setting *Setting
}

func NewTranslator(catalog *Catalog, setting *Setting) *Translator {
	return &Translator{catalog: catalog, setting: setting}
}

// T returns id in the current language.
func (t *Translator) T(id string) string {
	return t.catalog.Text(t.setting.Get(), id)
}

// Tf returns a templated message in the current language.
func (t *Translator) Tf(id string, data map[string]interface{}) string {
	return t.catalog.Format(t.setting.Get(), id, data)
}

func (t *Translator) Language() Language {
	return t.setting.Get()
}

func (t *Translator) Setting() *Setting {
	return t.setting
}
