package orchestrator

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/vanilla"
	"github.com/goliatone/go-shelfview/pkg/testsupport"
)

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
	}
	selection := &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}
	selector := &stubThemeSelector{selection: selection}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemeSelector(selector),
	)

	_, err := orch.Generate(context.Background(), Request{
		Renderer:     renderer.Name(),
		ThemeName:    "custom-theme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0].name != "custom-theme" || selector.calls[0].variant != "custom-variant" {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != selection.Theme || cfg.Variant != selection.Variant {
		t.Fatalf("theme mismatch: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.AssetURL == nil {
		t.Fatalf("expected AssetURL resolver present")
	}
	if got := cfg.Partials["shelf.cards"]; got != "cards.tpl" {
		t.Fatalf("partials not merged with fallbacks, got %q", got)
	}
	if cfg.CSSVars["--brand"] != "#123456" {
		t.Fatalf("css vars not derived from tokens")
	}
}

func TestOrchestrator_WithThemeManifestUsesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
		},
		Templates: map[string]string{
			"shelf.stats": "themes/acme/stats.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Templates: map[string]string{
					"shelf.chips": "themes/acme/dark/chips.tpl",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						"script": "shelf.dark.js",
					},
				},
			},
		},
	}

	renderer := &captureRenderer{}
	registry := render.NewRegistry()
	registry.MustRegister(renderer)

	orch := New(WithRegistry(registry), WithThemeManifest(manifest, "dark"))
	if _, err := orch.Generate(context.Background(), Request{Renderer: renderer.Name()}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	cfg := renderer.options.Theme
	if cfg == nil || cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme config %+v", cfg)
	}
	if cfg.Partials["shelf.stats"] != "themes/acme/stats.tpl" {
		t.Fatalf("expected base template override, got %s", cfg.Partials["shelf.stats"])
	}
	if cfg.Partials["shelf.chips"] != "themes/acme/dark/chips.tpl" {
		t.Fatalf("expected variant template override, got %s", cfg.Partials["shelf.chips"])
	}
	if cfg.Partials["shelf.edit"] != "edit.tpl" {
		t.Fatalf("fallback partial not applied for edit")
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("variant tokens not applied: %v %v", cfg.Tokens, cfg.CSSVars)
	}
	if got := cfg.AssetURL("script"); got != "/assets/themes/acme/shelf.dark.js" {
		t.Fatalf("unexpected script asset url: %s", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}

	if _, err := orch.Generate(context.Background(), Request{Renderer: renderer.Name(), ThemeVariant: "sepia"}); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestOrchestrator_ThemePartialSelectsTemplate(t *testing.T) {
	files := fstest.MapFS{
		"cards.tpl":         {Data: []byte("default")},
		"compact-cards.tpl": {Data: []byte("compact {{ page.stats.total }}")},
	}
	manifest := &theme.Manifest{
		Name:      "compact",
		Templates: map[string]string{"shelf.cards": "compact-cards.tpl"},
	}
	orch := New(
		WithVanillaOptions(vanilla.WithTemplatesFS(files)),
		WithThemeManifest(manifest, ""),
	)

	opts := render.RenderOptions{Fragment: render.FragmentCards}
	page := render.BuildPage(testsupport.SampleBooks(), model.Filters{}, opts)
	result, err := orch.Generate(context.Background(), Request{Page: page, RenderOptions: opts})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := strings.TrimSpace(string(result.Body)); got != "compact 3" {
		t.Fatalf("themed partial not used, got %q", got)
	}
	if result.ContentType != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", result.ContentType)
	}
}

func TestOrchestrator_DefaultRegistry(t *testing.T) {
	orch := New(WithDefaultRenderer("text"))

	opts := render.RenderOptions{Fragment: render.FragmentStats}
	page := render.BuildPage(testsupport.SampleBooks(), model.Filters{}, opts)
	result, err := orch.Generate(context.Background(), Request{Page: page, RenderOptions: opts})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(result.Body), "Total books: 3") {
		t.Fatalf("unexpected text output %q", result.Body)
	}
	if !orch.Registry().Has("vanilla") || !orch.Registry().Has("text") {
		t.Fatalf("default renderers missing: %v", orch.Registry().List())
	}

	if _, err := orch.Generate(context.Background(), Request{Renderer: "pdf"}); err == nil {
		t.Fatalf("expected error for unknown renderer")
	}
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, Request{}); err == nil {
		t.Fatalf("expected context error")
	}
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(page.Query), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
