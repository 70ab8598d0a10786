package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/text"
	"github.com/goliatone/go-shelfview/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithVanillaOptions configures the built-in HTML renderer.
func WithVanillaOptions(opts ...vanilla.Option) Option {
	return func(o *Orchestrator) {
		o.vanillaOptions = append(o.vanillaOptions, opts...)
	}
}

// WithTextOptions configures the built-in terminal renderer.
func WithTextOptions(opts ...text.Option) Option {
	return func(o *Orchestrator) {
		o.textOptions = append(o.textOptions, opts...)
	}
}

// WithThemeSelector resolves theme and variant names through selector before
// each render.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeManifest serves a single manifest, using defaultVariant when a
// request names none.
func WithThemeManifest(manifest *theme.Manifest, defaultVariant string) Option {
	return func(o *Orchestrator) {
		if manifest == nil {
			return
		}
		o.themeSelector = manifestSelector{manifest: manifest}
		o.defaultTheme = manifest.Name
		o.defaultVariant = defaultVariant
	}
}

// WithThemeFallbacks sets partials used when the theme does not override
// them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = copyMap(fallbacks)
	}
}

// Orchestrator picks the renderer and theme for a page and renders it. It
// registers the vanilla and text renderers unless a registry is injected.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	initialiseErr   error
	defaultsApplied bool
	vanillaOptions  []vanilla.Option
	textOptions     []text.Option
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	defaultTheme    string
	defaultVariant  string
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		themeFallbacks:  defaultThemeFallbacks(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	Page render.Page

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select a theme when a selector is configured.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries locale, fragment and date settings. A Theme set
	// here wins over the selector.
	RenderOptions render.RenderOptions
}

// Result is rendered output and its media type.
type Result struct {
	Body        []byte
	ContentType string
}

// Generate renders req.Page.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return Result{}, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, req.Page, opts)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return Result{Body: output, ContentType: renderer.ContentType()}, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(o.vanillaOptions...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(text.New(o.textOptions...))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	o.defaultsApplied = true
}
