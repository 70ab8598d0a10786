package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/text"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

// dialog is the add or edit form. The status row of the edit form is a
// toggle rather than a text input.
type dialog struct {
	edit        bool
	id          string
	fields      []field
	status      string
	lentVisible bool
	focused     int
	err         string
}

const inputWidth = 40

func newField(key, label, value string, mode cursor.Mode) field {
	input := textinput.New()
	input.Cursor.SetMode(mode)
	input.Prompt = ""
	input.CharLimit = 200
	input.Width = inputWidth
	input.SetValue(value)
	return field{key: key, label: label, input: input}
}

func newAddDialog(loc render.Localizer, mode cursor.Mode) *dialog {
	d := &dialog{fields: []field{
		newField("title", loc.Text("form.title"), "", mode),
		newField("author", loc.Text("form.author"), "", mode),
		newField("genre", loc.Text("form.genre"), "", mode),
		newField("description", loc.Text("form.description"), "", mode),
		newField("room", loc.Text("form.room"), "", mode),
		newField("cabinet", loc.Text("form.cabinet"), "", mode),
		newField("shelf", loc.Text("form.shelf"), "", mode),
	}}
	d.fields[0].input.Focus()
	return d
}

func newEditDialog(form model.EditForm, lentVisible bool, loc render.Localizer, mode cursor.Mode) *dialog {
	d := &dialog{
		edit:        true,
		id:          form.ID,
		status:      form.Status,
		lentVisible: lentVisible,
		fields: []field{
			newField("title", loc.Text("form.title"), form.Title, mode),
			newField("author", loc.Text("form.author"), form.Author, mode),
			newField("genre", loc.Text("form.genre"), form.Genre, mode),
			newField("description", loc.Text("form.description"), form.Description, mode),
			newField("room", loc.Text("form.room"), form.Room, mode),
			newField("cabinet", loc.Text("form.cabinet"), form.Cabinet, mode),
			newField("shelf", loc.Text("form.shelf"), form.Shelf, mode),
			newField("lent_to", loc.Text("form.lent_to"), form.LentTo, mode),
		},
	}
	d.fields[0].input.Focus()
	return d
}

// statusRow is the focus index of the status toggle in the edit form.
func (d *dialog) statusRow() int {
	if !d.edit {
		return -1
	}
	return len(d.fields) - 1
}

func (d *dialog) rows() int {
	if d.edit {
		return len(d.fields) + 1
	}
	return len(d.fields)
}

// inputAt maps a focus index onto d.fields, skipping the status toggle.
func (d *dialog) inputAt(row int) (int, bool) {
	switch {
	case !d.edit:
		return row, row < len(d.fields)
	case row < d.statusRow():
		return row, true
	case row == d.statusRow():
		return 0, false
	default:
		return row - 1, true
	}
}

func (d *dialog) move(delta int) tea.Cmd {
	if idx, ok := d.inputAt(d.focused); ok {
		d.fields[idx].input.Blur()
	}
	n := d.rows()
	for {
		d.focused = (d.focused + delta + n) % n
		if !d.edit || d.lentVisible || d.focused != d.rows()-1 {
			break
		}
	}
	if idx, ok := d.inputAt(d.focused); ok {
		return d.fields[idx].input.Focus()
	}
	return nil
}

func (d *dialog) onStatus() bool {
	return d.edit && d.focused == d.statusRow()
}

// toggleStatus flips between available and lent.
func (d *dialog) toggleStatus() string {
	if model.Status(d.status) == model.StatusLent {
		d.status = string(model.StatusAvailable)
	} else {
		d.status = string(model.StatusLent)
	}
	return d.status
}

func (d *dialog) update(msg tea.Msg) tea.Cmd {
	idx, ok := d.inputAt(d.focused)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	d.fields[idx].input, cmd = d.fields[idx].input.Update(msg)
	return cmd
}

func (d *dialog) value(key string) string {
	for _, f := range d.fields {
		if f.key == key {
			return f.input.Value()
		}
	}
	return ""
}

func (d *dialog) createForm() model.CreateForm {
	return model.CreateForm{
		Title:       d.value("title"),
		Author:      d.value("author"),
		Genre:       d.value("genre"),
		Description: d.value("description"),
		Room:        d.value("room"),
		Cabinet:     d.value("cabinet"),
		Shelf:       d.value("shelf"),
	}
}

func (d *dialog) editForm() model.EditForm {
	return model.EditForm{
		ID:          d.id,
		Title:       d.value("title"),
		Author:      d.value("author"),
		Genre:       d.value("genre"),
		Description: d.value("description"),
		Room:        d.value("room"),
		Cabinet:     d.value("cabinet"),
		Shelf:       d.value("shelf"),
		Status:      d.status,
		LentTo:      d.value("lent_to"),
	}
}

func (d *dialog) view(styles text.Styles, loc render.Localizer) string {
	title := loc.Text("form.add_title")
	if d.edit {
		title = loc.Text("form.edit_title") + " #" + d.id
	}
	lines := []string{styles.Title.Render(title)}
	if d.err != "" {
		lines = append(lines, styles.FormError.Render(d.err))
	}

	row := func(focused bool, label, value string) string {
		marker := "  "
		if focused {
			marker = styles.Action.Render("> ")
		}
		return marker + styles.StatLabel.Render(label+":") + " " + value
	}

	for i := 0; i < d.rows(); i++ {
		if d.onStatusRow(i) {
			lines = append(lines, row(d.focused == i, loc.Text("form.status"), filters.StatusLabel(d.status, loc)))
			continue
		}
		idx, _ := d.inputAt(i)
		f := d.fields[idx]
		if f.key == "lent_to" && !d.lentVisible {
			continue
		}
		lines = append(lines, row(d.focused == i, f.label, f.input.View()))
	}
	return strings.Join(lines, "\n")
}

func (d *dialog) onStatusRow(row int) bool {
	return d.edit && row == d.statusRow()
}
