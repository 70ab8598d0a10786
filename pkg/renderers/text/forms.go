package text

import (
	"strings"

	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/render"
)

type formRow struct {
	key   string
	value string
}

// EditForm renders the edit dialog as a field list. The borrower row shows
// only while the lent section is visible.
func (r *Renderer) EditForm(dialog render.EditDialog, loc render.Localizer) string {
	form := dialog.Form
	rows := []formRow{
		{"form.title", form.Title},
		{"form.author", form.Author},
		{"form.genre", form.Genre},
		{"form.description", form.Description},
		{"form.room", form.Room},
		{"form.cabinet", form.Cabinet},
		{"form.shelf", form.Shelf},
		{"form.status", filters.StatusLabel(form.Status, loc)},
	}
	if dialog.LentVisible {
		rows = append(rows, formRow{"form.lent_to", form.LentTo})
	}
	return r.form(loc.Text("form.edit_title")+" #"+form.ID, dialog.Error, rows, loc)
}

// AddForm renders the add dialog as a field list.
func (r *Renderer) AddForm(dialog render.AddDialog, loc render.Localizer) string {
	form := dialog.Form
	rows := []formRow{
		{"form.title", form.Title},
		{"form.author", form.Author},
		{"form.genre", form.Genre},
		{"form.description", form.Description},
		{"form.room", form.Room},
		{"form.cabinet", form.Cabinet},
		{"form.shelf", form.Shelf},
	}
	return r.form(loc.Text("form.add_title"), dialog.Error, rows, loc)
}

func (r *Renderer) form(title, errText string, rows []formRow, loc render.Localizer) string {
	lines := []string{r.styles.Title.Render(title)}
	if errText != "" {
		lines = append(lines, r.styles.FormError.Render(errText))
	}
	for _, row := range rows {
		lines = append(lines, r.styles.StatLabel.Render(loc.Text(row.key)+":")+" "+row.value)
	}
	return strings.Join(lines, "\n")
}
