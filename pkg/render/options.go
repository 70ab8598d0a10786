package render

import (
	"time"

	theme "github.com/goliatone/go-theme"
)

// DefaultDateLayout renders lend dates as day.month.year.
const DefaultDateLayout = "02.01.2006"

// Fragment selects a partial of the page. The zero value renders the whole
// document.
type Fragment string

const (
	FragmentPage  Fragment = ""
	FragmentCards Fragment = "cards"
	FragmentStats Fragment = "stats"
	FragmentChips Fragment = "chips"
	FragmentEdit  Fragment = "edit"
	FragmentAdd   Fragment = "add"
)

// PartialKey names the template a theme may override for fragment, e.g.
// "shelf.cards".
func PartialKey(fragment Fragment) string {
	if fragment == FragmentPage {
		return "shelf.page"
	}
	return "shelf." + string(fragment)
}

// RenderOptions describe per-request presentation settings that do not belong
// to the page data itself.
type RenderOptions struct {
	Fragment Fragment
	// Locale picks the message catalog, e.g. "en" or "ru".
	Locale     string
	Translator Translator
	// OnMissing decides the text used when a key has no translation. The
	// default returns the key itself.
	OnMissing MissingTranslationHandler
	// Theme carries design tokens and CSS variables for HTML renderers.
	Theme *theme.RendererConfig
	// DateLayout is a time layout for lend dates, DefaultDateLayout when empty.
	DateLayout string
	// Location is the zone lend dates are shown in, UTC when nil.
	Location *time.Location
}

// Localizer returns the message lookup configured by the options.
func (o RenderOptions) Localizer() Localizer {
	return Localizer{
		Translator: o.Translator,
		Locale:     o.Locale,
		OnMissing:  o.OnMissing,
	}
}

func (o RenderOptions) dateLayout() string {
	if o.DateLayout == "" {
		return DefaultDateLayout
	}
	return o.DateLayout
}

func (o RenderOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}
