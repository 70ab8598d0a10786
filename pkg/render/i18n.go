package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured and as the last
// fallback for missing keys.
const DefaultLocale = "en"

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingTranslation reports a key absent from every candidate locale.
	ErrMissingTranslation = errors.New("render: missing translation")
)

// Translator resolves a message key for a locale. Args are applied with
// fmt verbs when the message contains any.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler returns the text used when key could not be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

//go:embed locales/*.yaml
var bundledLocales embed.FS

// Catalog is an in-memory Translator backed by YAML message files. Nested
// YAML maps are flattened into dotted keys.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback string
}

// NewCatalog returns an empty catalog falling back to DefaultLocale.
func NewCatalog() *Catalog {
	return &Catalog{
		messages: make(map[string]map[string]string),
		fallback: DefaultLocale,
	}
}

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the catalog built from the bundled locale files.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		catalog := NewCatalog()
		if err := catalog.LoadFS(bundledLocales, "locales"); err != nil {
			panic(fmt.Sprintf("render: bundled locales: %v", err))
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// LoadFS reads every *.yaml or *.yml file in dir; the file name without
// extension is the locale.
func (c *Catalog) LoadFS(files fs.FS, dir string) error {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return fmt.Errorf("render: read locales: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(files, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("render: read %s: %w", entry.Name(), err)
		}
		if err := c.Load(strings.TrimSuffix(entry.Name(), ext), data); err != nil {
			return err
		}
	}
	return nil
}

// Load merges a YAML document of messages into locale.
func (c *Catalog) Load(locale string, data []byte) error {
	locale = normalizeLocale(locale)
	if locale == "" {
		return errors.New("render: locale is required")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("render: parse %s messages: %w", locale, err)
	}

	flat := make(map[string]string)
	flatten("", raw, flat)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messages[locale] == nil {
		c.messages[locale] = make(map[string]string, len(flat))
	}
	for key, msg := range flat {
		c.messages[locale][key] = msg
	}
	return nil
}

// SetFallback changes the locale consulted last.
func (c *Catalog) SetFallback(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = normalizeLocale(locale)
}

// Locales lists the loaded locales.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate looks key up in locale, its base language ("ru" for "ru-RU") and
// finally the fallback locale.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range c.candidates(locale) {
		msg, ok := c.messages[candidate][key]
		if !ok {
			continue
		}
		if len(args) > 0 && strings.Contains(msg, "%") {
			return fmt.Sprintf(msg, args...), nil
		}
		return msg, nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

func (c *Catalog) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if base, _, ok := strings.Cut(locale, "-"); ok {
			out = append(out, base)
		}
	}
	if c.fallback != "" {
		out = append(out, c.fallback)
	}
	return out
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case nil:
			out[full] = ""
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}

// Localizer binds a translator to a locale.
type Localizer struct {
	// Translator defaults to DefaultCatalog when nil.
	Translator Translator
	Locale     string
	OnMissing  MissingTranslationHandler
}

// Text translates key, formatting args into the message.
func (l Localizer) Text(key string, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	translator := l.Translator
	if translator == nil {
		translator = DefaultCatalog()
	}
	onMissing := l.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	msg, err := translator.Translate(l.Locale, key, args...)
	if err != nil || msg == "" {
		return onMissing(l.Locale, key, args, err)
	}
	return msg
}

// Lang returns the primary language subtag, e.g. "ru" for "ru-RU".
func (l Localizer) Lang() string {
	locale := normalizeLocale(l.Locale)
	if locale == "" {
		return DefaultLocale
	}
	base, _, _ := strings.Cut(locale, "-")
	return base
}
