package render

import (
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
)

// Tone is the visual weight of a status badge.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
)

// ActionKind names a card button.
type ActionKind string

const (
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
	ActionLend   ActionKind = "lend"
	ActionReturn ActionKind = "return"
)

// Action is one button on a book card.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	// Tone hints at the button style: primary, danger, warning or success.
	Tone string `json:"tone"`
}

// Card is the display form of a single book. Text fields hold raw values;
// escaping is the renderer's job. DescriptionHTML is already sanitized.
type Card struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Genre           string     `json:"genre"`
	DescriptionHTML string     `json:"description_html"`
	Location        string     `json:"location"`
	Status          string     `json:"status"`
	StatusLabel     string     `json:"status_label"`
	StatusTone      Tone       `json:"status_tone"`
	Borrower        string     `json:"borrower"`
	LentDate        string     `json:"lent_date"`
	Actions         []Action   `json:"actions"`
	Raw             model.Book `json:"-"`
}

// HasAction reports whether the card offers kind.
func (c Card) HasAction(kind ActionKind) bool {
	for _, action := range c.Actions {
		if action.Kind == kind {
			return true
		}
	}
	return false
}

// BookList is the card area. An empty list shows a single placeholder.
type BookList struct {
	Cards        []Card `json:"cards"`
	Empty        bool   `json:"empty"`
	EmptyMessage string `json:"empty_message"`
}

// Stats are the summary counters above the list.
type Stats struct {
	Total     int  `json:"total"`
	Available int  `json:"available"`
	Lent      int  `json:"lent"`
	Filtered  bool `json:"filtered"`
	// TotalLabel reads "found" when a filter is active and "total" otherwise.
	TotalLabel     string `json:"total_label"`
	AvailableLabel string `json:"available_label"`
	LentLabel      string `json:"lent_label"`
}

// Notice is a one-shot message shown after an action.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// AddDialog is the state of the add-book form.
type AddDialog struct {
	Open  bool             `json:"open"`
	Form  model.CreateForm `json:"form"`
	Error string           `json:"error"`
}

// EditDialog is the state of the edit-book form.
type EditDialog struct {
	Open        bool           `json:"open"`
	Form        model.EditForm `json:"form"`
	LentVisible bool           `json:"lent_visible"`
	Error       string         `json:"error"`
}

// Page is everything a front-end shows at once.
type Page struct {
	Books   BookList        `json:"books"`
	Stats   Stats           `json:"stats"`
	Chips   filters.ChipSet `json:"chips"`
	Filters model.Filters   `json:"filters"`
	Query   string          `json:"query"`
	Genres  []string        `json:"genres"`
	Notices []Notice        `json:"notices"`
	Add     *AddDialog      `json:"add,omitempty"`
	Edit    *EditDialog     `json:"edit,omitempty"`
}

// BuildCard maps a book onto its card.
func BuildCard(book model.Book, opts RenderOptions) Card {
	loc := opts.Localizer()

	card := Card{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		Genre:           book.Genre,
		DescriptionHTML: SanitizeDescription(book.Description),
		Location:        loc.Text("card.location", book.Room, book.Cabinet, book.Shelf),
		Status:          string(book.Status),
		StatusLabel:     filters.StatusLabel(string(book.Status), loc),
		StatusTone:      ToneWarning,
		Borrower:        book.LentTo,
		Raw:             book,
	}
	if book.Available() {
		card.StatusTone = ToneSuccess
	}
	if book.Lent() && book.HasLentDate() {
		card.LentDate = book.LentDate.In(opts.location()).Format(opts.dateLayout())
	}

	card.Actions = []Action{
		{Kind: ActionEdit, Label: loc.Text("action.edit"), Tone: "primary"},
		{Kind: ActionDelete, Label: loc.Text("action.delete"), Tone: "danger"},
	}
	if book.Available() {
		card.Actions = append(card.Actions, Action{Kind: ActionLend, Label: loc.Text("action.lend"), Tone: "warning"})
	} else {
		card.Actions = append(card.Actions, Action{Kind: ActionReturn, Label: loc.Text("action.return"), Tone: "success"})
	}
	return card
}

// BuildBookList maps books onto cards, in server order.
func BuildBookList(books []model.Book, opts RenderOptions) BookList {
	if len(books) == 0 {
		return BookList{
			Cards:        []Card{},
			Empty:        true,
			EmptyMessage: opts.Localizer().Text("books.empty"),
		}
	}
	cards := make([]Card, 0, len(books))
	for _, book := range books {
		cards = append(cards, BuildCard(book, opts))
	}
	return BookList{Cards: cards}
}

// ComputeStats counts the books. Lent is everything not available.
func ComputeStats(books []model.Book, state model.Filters, opts RenderOptions) Stats {
	loc := opts.Localizer()

	stats := Stats{
		Total:          len(books),
		Filtered:       filters.HasActive(state),
		AvailableLabel: loc.Text("stats.available"),
		LentLabel:      loc.Text("stats.lent"),
	}
	for _, book := range books {
		if book.Available() {
			stats.Available++
		}
	}
	stats.Lent = stats.Total - stats.Available

	if stats.Filtered {
		stats.TotalLabel = loc.Text("stats.found")
	} else {
		stats.TotalLabel = loc.Text("stats.total")
	}
	return stats
}

// BuildPage assembles the list view for books fetched with state.
func BuildPage(books []model.Book, state model.Filters, opts RenderOptions) Page {
	return Page{
		Books:   BuildBookList(books, opts),
		Stats:   ComputeStats(books, state, opts),
		Chips:   filters.Chips(state, opts.Localizer()),
		Filters: state,
		Query:   filters.Query(state),
	}
}
