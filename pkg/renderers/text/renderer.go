// Package text renders the inventory page for terminals.
package text

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/render"
)

// Option customises the text renderer.
type Option func(*Renderer)

// WithOutput picks the writer whose terminal capabilities decide colours.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.styles = DefaultStyles(out)
		}
	}
}

// WithStyles replaces the whole palette.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles
	}
}

// WithCardWidth sets the width cards are wrapped to. Zero disables wrapping.
func WithCardWidth(width int) Option {
	return func(r *Renderer) {
		if width >= 0 {
			r.width = width
		}
	}
}

// Renderer writes the page as styled terminal text.
type Renderer struct {
	styles Styles
	width  int
}

var _ render.Renderer = (*Renderer)(nil)

// New builds a text renderer. Without WithOutput colours are off.
func New(opts ...Option) *Renderer {
	r := &Renderer{styles: DefaultStyles(io.Discard), width: 72}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Styles returns the palette in use.
func (r *Renderer) Styles() Styles {
	return r.styles
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes options.Fragment, or the whole page for the zero fragment.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	loc := options.Localizer()

	var out string
	switch options.Fragment {
	case render.FragmentPage:
		out = r.Page(page, loc)
	case render.FragmentCards:
		out = r.Cards(page.Books, loc)
	case render.FragmentStats:
		out = r.Stats(page.Stats)
	case render.FragmentChips:
		out = r.Chips(page.Chips, loc)
	case render.FragmentEdit:
		if page.Edit == nil {
			return nil, fmt.Errorf("text renderer: no edit dialog to render")
		}
		out = r.EditForm(*page.Edit, loc)
	case render.FragmentAdd:
		if page.Add == nil {
			return nil, fmt.Errorf("text renderer: no add dialog to render")
		}
		out = r.AddForm(*page.Add, loc)
	default:
		return nil, fmt.Errorf("text renderer: unknown fragment %q", options.Fragment)
	}
	return []byte(out + "\n"), nil
}

// Page renders notices, stats, chips and cards.
func (r *Renderer) Page(page render.Page, loc render.Localizer) string {
	var parts []string
	if notices := r.Notices(page.Notices); notices != "" {
		parts = append(parts, notices)
	}
	parts = append(parts, r.Stats(page.Stats))
	if chips := r.Chips(page.Chips, loc); chips != "" {
		parts = append(parts, chips)
	}
	parts = append(parts, r.Cards(page.Books, loc))
	return strings.Join(parts, "\n\n")
}

// Notices renders success and error messages, one per line.
func (r *Renderer) Notices(notices []render.Notice) string {
	lines := make([]string, 0, len(notices))
	for _, notice := range notices {
		if notice.Kind == render.NoticeError {
			lines = append(lines, r.styles.Error.Render("✗ "+notice.Text))
			continue
		}
		lines = append(lines, r.styles.Success.Render("✓ "+notice.Text))
	}
	return strings.Join(lines, "\n")
}

// Stats renders the counters on one line.
func (r *Renderer) Stats(stats render.Stats) string {
	item := func(label string, value int) string {
		return r.styles.StatLabel.Render(label+":") + " " + r.styles.StatValue.Render(fmt.Sprint(value))
	}
	return strings.Join([]string{
		item(stats.TotalLabel, stats.Total),
		item(stats.AvailableLabel, stats.Available),
		item(stats.LentLabel, stats.Lent),
	}, "   ")
}

// Chips renders the active filters, or nothing when none are set.
func (r *Renderer) Chips(chips filters.ChipSet, loc render.Localizer) string {
	if !chips.Visible || len(chips.Chips) == 0 {
		return ""
	}
	tags := make([]string, 0, len(chips.Chips))
	for _, chip := range chips.Chips {
		tags = append(tags, r.styles.Chip.Render("["+chip.Label+"]"))
	}
	return r.styles.Muted.Render(loc.Text("filters.active")) + " " + strings.Join(tags, " ")
}

// Cards renders each card boxed, or the placeholder for an empty list.
func (r *Renderer) Cards(list render.BookList, loc render.Localizer) string {
	if list.Empty || len(list.Cards) == 0 {
		return r.styles.Muted.Render(list.EmptyMessage)
	}
	out := make([]string, 0, len(list.Cards))
	for _, card := range list.Cards {
		out = append(out, r.Card(card, loc))
	}
	return strings.Join(out, "\n")
}

// Card renders one book.
func (r *Renderer) Card(card render.Card, loc render.Localizer) string {
	header := r.styles.Muted.Render(fmt.Sprintf("#%d", card.ID)) + " " +
		r.styles.Title.Render(card.Title) + "  " +
		r.styles.badge(card.StatusTone).Render("["+card.StatusLabel+"]")

	lines := []string{header}
	byline := card.Author
	if card.Genre != "" {
		byline += " · " + card.Genre
	}
	lines = append(lines, byline)
	if desc := render.PlainDescription(card.Raw.Description); desc != "" {
		lines = append(lines, r.styles.Muted.Render(desc))
	}
	lines = append(lines, card.Location)
	if card.Borrower != "" {
		lines = append(lines, loc.Text("card.lent_to", card.Borrower))
	}
	if card.LentDate != "" {
		lines = append(lines, loc.Text("card.lent_date", card.LentDate))
	}

	actions := make([]string, 0, len(card.Actions))
	for _, action := range card.Actions {
		actions = append(actions, r.styles.Action.Render(action.Label))
	}
	lines = append(lines, strings.Join(actions, " · "))

	style := r.styles.Card
	if r.width > 0 {
		style = style.Width(r.width)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
