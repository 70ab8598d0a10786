package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	assetStylesheet = "stylesheet"
	assetScript     = "script"
)

type rendererTheme struct {
	Name     string            `json:"name"`
	Variant  string            `json:"variant"`
	Tokens   map[string]string `json:"tokens,omitempty"`
	CSSVars  map[string]string `json:"css_vars,omitempty"`
	Partials map[string]string `json:"partials,omitempty"`
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:     cfg.Theme,
		Variant:  cfg.Variant,
		Tokens:   copyStringMap(cfg.Tokens),
		CSSVars:  copyStringMap(cfg.CSSVars),
		Partials: copyStringMap(cfg.Partials),
	}
	// tokens double as custom properties unless a CSS var already sets them
	for key, value := range ctx.Tokens {
		name := "--shelf-" + strings.TrimPrefix(key, "--")
		if ctx.CSSVars == nil {
			ctx.CSSVars = make(map[string]string)
		}
		if _, exists := ctx.CSSVars[name]; !exists {
			ctx.CSSVars[name] = value
		}
	}
	return ctx
}

func themeAssetURL(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg == nil || cfg.AssetURL == nil {
		return fallback
	}
	if url := strings.TrimSpace(cfg.AssetURL(key)); url != "" {
		return url
	}
	return fallback
}

func themeClass(ctx rendererTheme) string {
	parts := make([]string, 0, 2)
	if name := sanitizeToken(ctx.Name); name != "" {
		parts = append(parts, "theme-"+name)
	}
	if variant := sanitizeToken(ctx.Variant); variant != "" {
		parts = append(parts, "variant-"+variant)
	}
	return strings.Join(parts, " ")
}

func sanitizeToken(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func sortedGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, genre := range genres {
		genre = strings.TrimSpace(genre)
		if genre == "" {
			continue
		}
		if _, ok := seen[genre]; ok {
			continue
		}
		seen[genre] = struct{}{}
		out = append(out, genre)
	}
	sort.Strings(out)
	return out
}
