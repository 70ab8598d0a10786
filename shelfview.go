// Package shelfview is the entry point for embedding the library inventory
// views: the REST client, the controller and the renderers.
package shelfview

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-shelfview/pkg/api"
	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/orchestrator"
	"github.com/goliatone/go-shelfview/pkg/render"
)

// RenderOptions describes per-request presentation settings.
type RenderOptions = render.RenderOptions

// Page is everything a front-end shows at once.
type Page = render.Page

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewClient builds a REST client for the inventory API at baseURL.
func NewClient(baseURL string, options ...api.Option) (*api.Client, error) {
	return api.New(baseURL, options...)
}

// NewController builds the inventory view controller over books.
func NewController(books controller.BookService, options ...controller.Option) (*controller.Controller, error) {
	return controller.New(books, options...)
}

// RenderBooks fetches the books matching state and renders them with the
// named renderer ("vanilla" or "text"). It is the simplest entry point for
// callers that just want output.
func RenderBooks(ctx context.Context, client *api.Client, state model.Filters, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	books, err := client.ListBooks(ctx, state)
	if err != nil {
		return nil, err
	}
	gen := orchestrator.New(options...)
	result, err := gen.Generate(ctx, orchestrator.Request{
		Page:          render.BuildPage(books, state, opts),
		Renderer:      rendererName,
		RenderOptions: opts,
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

// WithThemeSelector passes a go-theme selector through to the orchestrator.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeManifest serves a single theme manifest.
func WithThemeManifest(manifest *theme.Manifest, defaultVariant string) orchestrator.Option {
	return orchestrator.WithThemeManifest(manifest, defaultVariant)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// DefaultTimeout is the request timeout of clients built without one.
const DefaultTimeout = api.DefaultTimeout
