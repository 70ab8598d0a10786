package text_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/text"
	"github.com/goliatone/go-shelfview/pkg/testsupport"
)

func renderPage(t *testing.T, page render.Page, opts render.RenderOptions) string {
	t.Helper()
	out, err := text.New().Render(context.Background(), page, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRender_Page(t *testing.T) {
	opts := render.RenderOptions{}
	state := model.Filters{Status: "lent"}
	page := render.BuildPage(testsupport.SampleBooks(), state, opts)
	page.Notices = []render.Notice{{Kind: render.NoticeSuccess, Text: "Book lent!"}}

	out := renderPage(t, page, opts)

	for _, want := range []string{
		"✓ Book lent!",
		"Found books: 3",
		"Available: 2",
		"Lent out: 1",
		"Active filters: [Status: Lent out]",
		"#1 Dune",
		"[Available]",
		"Lent to: Ivanov Ivan",
		"Lent on: 05.03.2024",
		"<b>Bold</b> & Brave",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCard_ActionsFollowStatus(t *testing.T) {
	r := text.New(text.WithCardWidth(0))
	loc := render.Localizer{}
	books := testsupport.SampleBooks()

	available := r.Card(render.BuildCard(books[0], render.RenderOptions{}), loc)
	if !strings.Contains(available, "Lend") || strings.Contains(available, "Return") {
		t.Fatalf("available card actions wrong:\n%s", available)
	}
	lent := r.Card(render.BuildCard(books[1], render.RenderOptions{}), loc)
	if !strings.Contains(lent, "Return") || strings.Contains(lent, "Lend") {
		t.Fatalf("lent card actions wrong:\n%s", lent)
	}
}

func TestRender_EmptyAndFragments(t *testing.T) {
	opts := render.RenderOptions{Fragment: render.FragmentCards}
	page := render.BuildPage(nil, model.Filters{}, opts)

	out := renderPage(t, page, opts)
	if strings.TrimSpace(out) != "No books in the library yet. Add the first one!" {
		t.Fatalf("unexpected placeholder %q", out)
	}

	opts.Fragment = render.FragmentChips
	if out := renderPage(t, page, opts); strings.TrimSpace(out) != "" {
		t.Fatalf("no chips expected, got %q", out)
	}

	opts.Fragment = render.Fragment("sidebar")
	if _, err := text.New().Render(context.Background(), page, opts); err == nil {
		t.Fatalf("expected unknown fragment error")
	}
}

func TestRender_EditForm(t *testing.T) {
	form := model.EditFormFromBook(testsupport.SampleBooks()[1])
	page := render.Page{Edit: &render.EditDialog{Open: true, Form: form, LentVisible: true}}
	opts := render.RenderOptions{Fragment: render.FragmentEdit}

	out := renderPage(t, page, opts)
	if !strings.Contains(out, "Edit book #2") || !strings.Contains(out, "Lent to: Ivanov Ivan") {
		t.Fatalf("edit form incomplete:\n%s", out)
	}

	page.Edit.LentVisible = false
	page.Edit.Error = "Fill in the required fields: title, author, room"
	out = renderPage(t, page, opts)
	if strings.Contains(out, "Lent to:") {
		t.Fatalf("hidden lent section rendered:\n%s", out)
	}
	if !strings.Contains(out, "Fill in the required fields") {
		t.Fatalf("form error missing:\n%s", out)
	}
}

func TestRender_RussianLabels(t *testing.T) {
	opts := render.RenderOptions{Locale: "ru", Fragment: render.FragmentStats}
	page := render.BuildPage(testsupport.SampleBooks()[:1], model.Filters{}, opts)

	out := renderPage(t, page, opts)
	if !strings.Contains(out, ": 1") || strings.Contains(out, "Total books") {
		t.Fatalf("expected russian stats, got %q", out)
	}
}
