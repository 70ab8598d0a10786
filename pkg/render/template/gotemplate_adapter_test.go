package template_test

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-shelfview/pkg/render/template/gotemplate"
	"github.com/goliatone/go-shelfview/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := captureOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := captureOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("registering an existing filter should fail")
	}

	result, _ := captureOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_Autoescape(t *testing.T) {
	engine := newEngine(t)

	type payload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	result, err := engine.RenderTemplate("escape", payload{Title: `<script>"x" & y</script>`, Body: "<em>ok</em>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<script>") {
		t.Fatalf("title should be escaped: %q", result)
	}
	if !strings.Contains(result, "&lt;script&gt;") || !strings.Contains(result, "&amp; y") {
		t.Fatalf("expected escaped entities: %q", result)
	}
	if !strings.Contains(result, "<em>ok</em>") {
		t.Fatalf("safe body should pass through: %q", result)
	}
}

func TestGoTemplateEngine_EscapesAcrossEngines(t *testing.T) {
	engine := newEngine(t)
	_ = newEngine(t)

	result, err := engine.RenderTemplate("escape", map[string]any{"title": "<b>x</b>", "body": ""})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<b>") {
		t.Fatalf("title should stay escaped: %q", result)
	}
}

func TestGoTemplateEngine_Hooks(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	var seen []string
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithPreHooks(func(ctx *gotemplatepkg.HookContext) error {
			seen = append(seen, ctx.TemplateName)
			ctx.TemplateName = "hello"
			ctx.Data = map[string]any{"name": "Grace"}
			return nil
		}),
		gotemplate.WithPostHooks(func(ctx *gotemplatepkg.HookContext) (string, error) {
			return strings.ToUpper(ctx.Output), nil
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("missing", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(result, "GRACE") || strings.Contains(result, "ADA") {
		t.Fatalf("hooks did not rewrite data and output: %q", result)
	}
	if len(seen) != 1 || seen[0] != "missing" {
		t.Fatalf("pre-hook saw %v", seen)
	}

	engine.RegisterPostHook(func(*gotemplatepkg.HookContext) (string, error) {
		return "", errors.New("boom")
	})
	if _, err := engine.RenderTemplate("hello", nil); err == nil {
		t.Fatalf("expected post-hook error")
	}
}

func TestGoTemplateEngine_CSSVarsFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("theme", map[string]any{
		"vars": map[string]string{"--brand": "#123456", "accent": "red", "bad": "x; color: red"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div style="--brand: #123456; --accent: red"></div>` + "\n"
	if result != want {
		t.Fatalf("cssvars mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RenderStringAndHas(t *testing.T) {
	engine := newEngine(t)

	out, err := engine.Render("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil || out != "1-two" {
		t.Fatalf("render string = %q, %v", out, err)
	}
	if !engine.Has("hello") || engine.Has("missing") {
		t.Fatalf("Has reported wrong template availability")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without fs or base dir")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func captureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf strings.Builder
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
