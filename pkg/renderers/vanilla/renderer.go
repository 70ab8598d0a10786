package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
	rendertemplate "github.com/goliatone/go-shelfview/pkg/render/template"
	gotemplate "github.com/goliatone/go-shelfview/pkg/render/template/gotemplate"
)

// Option customises the vanilla renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	assetPrefix      string
	searchDelay      time.Duration
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		if dir == "" {
			return
		}
		cfg.templateFS = os.DirFS(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAssetPrefix sets the URL path the bundled assets are served under.
// Theme asset URLs take precedence.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.assetPrefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// WithSearchDelay sets the debounce the page script applies to text filters.
func WithSearchDelay(delay time.Duration) Option {
	return func(cfg *config) {
		if delay > 0 {
			cfg.searchDelay = delay
		}
	}
}

// Renderer produces server-side HTML for the inventory page and its parts.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	assetPrefix string
	searchDelay time.Duration
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		assetPrefix: "/assets",
		searchDelay: 500 * time.Millisecond,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
			gotemplate.WithGlobalData(map[string]any{
				"classes": chromeClasses(),
			}),
			gotemplate.WithPostHooks(trimFragment),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		assetPrefix: cfg.assetPrefix,
		searchDelay: cfg.searchDelay,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the template for options.Fragment; the zero fragment is
// the whole document.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	name, err := templateFor(options.Fragment)
	if err != nil {
		return nil, err
	}
	if options.Theme != nil {
		if partial := strings.TrimSpace(options.Theme.Partials[render.PartialKey(options.Fragment)]); partial != "" {
			name = partial
		}
	}

	result, err := r.templates.RenderTemplate(name, r.templateData(page, options))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func templateFor(fragment render.Fragment) (string, error) {
	switch fragment {
	case render.FragmentPage:
		return "page.tpl", nil
	case render.FragmentCards, render.FragmentStats, render.FragmentChips, render.FragmentEdit, render.FragmentAdd:
		return string(fragment) + ".tpl", nil
	default:
		return "", fmt.Errorf("vanilla renderer: unknown fragment %q", fragment)
	}
}

// trimFragment strips the whitespace around partial output so fragments
// swap into the page without stray text nodes.
func trimFragment(ctx *gotemplatepkg.HookContext) (string, error) {
	if path.Base(ctx.TemplateName) == "page.tpl" {
		return ctx.Output, nil
	}
	return strings.TrimSpace(ctx.Output), nil
}

func (r *Renderer) templateData(page render.Page, options render.RenderOptions) map[string]any {
	loc := options.Localizer()
	themeCtx := buildThemeContext(options.Theme)

	genres := page.Genres
	if page.Filters.Genre != "" {
		genres = append(append([]string(nil), genres...), page.Filters.Genre)
	}

	return map[string]any{
		"page":        page,
		"lang":        loc.Lang(),
		"t":           render.TemplateFuncs(loc)["t"],
		"theme":       themeCtx,
		"theme_class": themeClass(themeCtx),
		"genres":      sortedGenres(genres),
		"statuses": []map[string]string{
			{"value": string(model.StatusAvailable), "label": loc.Text("status.available")},
			{"value": string(model.StatusLent), "label": loc.Text("status.lent")},
		},
		"assets": map[string]string{
			"stylesheet": themeAssetURL(options.Theme, assetStylesheet, r.assetPrefix+"/"+StylesheetName),
			"script":     themeAssetURL(options.Theme, assetScript, r.assetPrefix+"/"+ScriptName),
		},
		"search_delay": r.searchDelay.Milliseconds(),
	}
}
