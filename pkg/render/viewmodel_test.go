package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/testsupport"
)

func actionKinds(card render.Card) []render.ActionKind {
	out := make([]render.ActionKind, 0, len(card.Actions))
	for _, action := range card.Actions {
		out = append(out, action.Kind)
	}
	return out
}

func TestBuildCard_ActionsFollowStatus(t *testing.T) {
	tests := []struct {
		status model.Status
		want   []render.ActionKind
	}{
		{model.StatusAvailable, []render.ActionKind{render.ActionEdit, render.ActionDelete, render.ActionLend}},
		{model.StatusLent, []render.ActionKind{render.ActionEdit, render.ActionDelete, render.ActionReturn}},
		{model.Status("missing"), []render.ActionKind{render.ActionEdit, render.ActionDelete, render.ActionReturn}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			card := render.BuildCard(model.Book{ID: 1, Status: tt.status}, render.RenderOptions{})
			if diff := cmp.Diff(tt.want, actionKinds(card)); diff != "" {
				t.Fatalf("actions mismatch (-want +got):\n%s", diff)
			}
			if card.HasAction(render.ActionLend) == card.HasAction(render.ActionReturn) {
				t.Fatalf("lend and return must be mutually exclusive")
			}
		})
	}
}

func TestBuildCard_LentDetails(t *testing.T) {
	books := testsupport.SampleBooks()

	lent := render.BuildCard(books[1], render.RenderOptions{})
	if lent.Borrower != "Ivanov Ivan" {
		t.Fatalf("expected borrower, got %q", lent.Borrower)
	}
	if lent.LentDate != "05.03.2024" {
		t.Fatalf("expected formatted lend date, got %q", lent.LentDate)
	}
	if lent.StatusTone != render.ToneWarning || lent.StatusLabel != "Lent out" {
		t.Fatalf("unexpected badge %q/%q", lent.StatusTone, lent.StatusLabel)
	}

	available := render.BuildCard(books[0], render.RenderOptions{})
	if available.LentDate != "" || available.Borrower != "" {
		t.Fatalf("available book should carry no lend details: %+v", available)
	}
	if available.StatusTone != render.ToneSuccess {
		t.Fatalf("expected success tone, got %q", available.StatusTone)
	}
	if available.Location != "Location: Study, cab. 1, shelf 2" {
		t.Fatalf("unexpected location %q", available.Location)
	}
}

func TestBuildCard_LentDateNeedsLentStatus(t *testing.T) {
	book := model.Book{Status: model.StatusAvailable, LentTo: "Paul", LentDate: testsupport.LentOn}
	card := render.BuildCard(book, render.RenderOptions{})
	if card.LentDate != "" {
		t.Fatalf("lend date should only show for lent books, got %q", card.LentDate)
	}
	if card.Borrower != "Paul" {
		t.Fatalf("borrower shows whenever set, got %q", card.Borrower)
	}

	zero := render.BuildCard(model.Book{Status: model.StatusLent}, render.RenderOptions{})
	if zero.LentDate != "" {
		t.Fatalf("zero lend date should be hidden, got %q", zero.LentDate)
	}
}

func TestBuildCard_DateLayoutAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+14", 14*60*60)
	book := model.Book{Status: model.StatusLent, LentDate: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)}

	card := render.BuildCard(book, render.RenderOptions{DateLayout: "2006-01-02", Location: zone})
	if card.LentDate != "2024-03-06" {
		t.Fatalf("expected date in configured zone, got %q", card.LentDate)
	}
}

func TestBuildCard_SanitizesDescription(t *testing.T) {
	card := render.BuildCard(model.Book{
		Description: `<p onclick="x()">Spice <script>alert(1)</script><b>must</b> flow</p>`,
	}, render.RenderOptions{})

	if strings.Contains(card.DescriptionHTML, "script") || strings.Contains(card.DescriptionHTML, "onclick") {
		t.Fatalf("description not sanitized: %q", card.DescriptionHTML)
	}
	if !strings.Contains(card.DescriptionHTML, "<b>must</b>") {
		t.Fatalf("basic formatting should survive: %q", card.DescriptionHTML)
	}
}

func TestPlainDescription(t *testing.T) {
	got := render.PlainDescription(`<p>Fear &amp; <b>spice</b><script>alert(1)</script></p>`)
	if got != "Fear & spice" {
		t.Fatalf("PlainDescription = %q", got)
	}
	if render.PlainDescription("   ") != "" {
		t.Fatalf("blank description should stay empty")
	}
}

func TestBuildBookList_EmptyPlaceholder(t *testing.T) {
	list := render.BuildBookList(nil, render.RenderOptions{Locale: "ru"})
	if !list.Empty || len(list.Cards) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}
	if list.EmptyMessage != "В библиотеке пока нет книг. Добавьте первую!" {
		t.Fatalf("unexpected placeholder %q", list.EmptyMessage)
	}
}

func TestComputeStats(t *testing.T) {
	single := []model.Book{{ID: 1, Status: model.StatusAvailable}}
	got := render.ComputeStats(single, model.Filters{}, render.RenderOptions{})
	if got.Total != 1 || got.Available != 1 || got.Lent != 0 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.Filtered || got.TotalLabel != "Total books" {
		t.Fatalf("unfiltered stats should use the total label, got %+v", got)
	}

	mixed := append(single, model.Book{Status: model.StatusLent}, model.Book{Status: "unknown"})
	got = render.ComputeStats(mixed, model.Filters{Genre: "Poetry"}, render.RenderOptions{})
	if got.Total != 3 || got.Available != 1 || got.Lent != 2 {
		t.Fatalf("lent should be total minus available, got %+v", got)
	}
	if !got.Filtered || got.TotalLabel != "Found books" {
		t.Fatalf("filtered stats should use the found label, got %+v", got)
	}
}

func TestBuildPage(t *testing.T) {
	state := model.Filters{Status: "lent"}
	page := render.BuildPage(testsupport.SampleBooks()[1:2], state, render.RenderOptions{})

	if page.Query != "status=lent" {
		t.Fatalf("unexpected query %q", page.Query)
	}
	if !page.Chips.Visible || page.Chips.Chips[0].Label != "Status: Lent out" {
		t.Fatalf("unexpected chips %+v", page.Chips)
	}
	if len(page.Books.Cards) != 1 || page.Stats.Lent != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}
