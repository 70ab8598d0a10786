// Package tui is the interactive terminal front-end. It drives the shared
// controller from keystrokes and draws what the controller shows.
package tui

import (
	"context"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/prompt"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/text"
)

type focusArea int

const (
	focusTitle focusArea = iota
	focusAuthor
	focusStatus
	focusGenre
	focusList
	focusCount
)

var statusCycle = []string{"", string(model.StatusAvailable), string(model.StatusLent)}

// Model is the bubbletea model of the browse screen.
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	fields   *controller.Fields
	bridge   *bridge
	renderer *text.Renderer
	styles   text.Styles
	loc      render.Localizer

	title  textinput.Model
	author textinput.Model
	status string
	genre  string
	genres []string

	focus    focusArea
	stats    render.Stats
	books    render.BookList
	chips    filters.ChipSet
	notice   *render.Notice
	selected int

	dialog      *dialog
	prompt      *promptMsg
	promptInput textinput.Model
	cursorMode  cursor.Mode

	height int
}

func newModel(ctx context.Context, ctrl *controller.Controller, fields *controller.Fields, b *bridge, renderer *text.Renderer, genres []string, mode cursor.Mode) Model {
	loc := ctrl.Localizer()

	title := textinput.New()
	title.Cursor.SetMode(mode)
	title.Placeholder = loc.Text("filters.title")
	title.Width = 24
	title.Focus()
	author := textinput.New()
	author.Cursor.SetMode(mode)
	author.Placeholder = loc.Text("filters.author")
	author.Width = 24

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		fields:   fields,
		bridge:   b,
		renderer: renderer,
		styles:   renderer.Styles(),
		loc:      loc,
		title:    title,
		author:   author,
		genres:   append([]string(nil), genres...),

		cursorMode: mode,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bridge.wait(), m.call(func(ctx context.Context) error {
		return m.ctrl.LoadBooks(ctx, nil)
	}))
}

// call runs a controller method off the update loop.
func (m Model) call(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case actionDoneMsg:
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch {
		case m.prompt != nil:
			return m.updatePrompt(msg)
		case m.dialog != nil:
			return m.updateDialog(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	if handled, next := m.handleEvent(msg); handled {
		return next, m.bridge.wait()
	}

	if m.dialog != nil {
		return m, m.dialog.update(msg)
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	cmds = append(cmds, cmd)
	m.author, cmd = m.author.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleEvent applies a message posted by the controller through the bridge.
func (m Model) handleEvent(msg tea.Msg) (bool, Model) {
	switch msg := msg.(type) {
	case statsMsg:
		m.stats = msg.stats
	case booksMsg:
		m.books = msg.list
		if m.selected >= len(m.books.Cards) {
			m.selected = max(len(m.books.Cards)-1, 0)
		}
		m.mergeGenres(msg.list)
	case chipsMsg:
		m.chips = msg.chips
	case noticeMsg:
		notice := msg.notice
		m.notice = &notice
	case editOpenedMsg:
		m.dialog = newEditDialog(msg.form, msg.lentVisible, m.loc, m.cursorMode)
	case lentVisibleMsg:
		if m.dialog != nil && m.dialog.edit {
			m.dialog.lentVisible = msg.visible
		}
	case editClosedMsg:
		if m.dialog != nil && m.dialog.edit {
			m.dialog = nil
		}
	case addClosedMsg:
		if m.dialog != nil && !m.dialog.edit {
			m.dialog = nil
		}
	case formErrorMsg:
		if m.dialog != nil {
			m.dialog.err = msg.text
		}
	case promptMsg:
		p := msg
		m.prompt = &p
		if p.kind == promptInput {
			input := textinput.New()
			input.Cursor.SetMode(m.cursorMode)
			input.Prompt = ""
			input.Width = inputWidth
			input.SetValue(p.def)
			input.Focus()
			m.promptInput = input
		}
	default:
		return false, m
	}
	return true, m
}

func (m *Model) mergeGenres(list render.BookList) {
	seen := make(map[string]struct{}, len(m.genres))
	for _, genre := range m.genres {
		seen[genre] = struct{}{}
	}
	for _, card := range list.Cards {
		if card.Genre == "" {
			continue
		}
		if _, ok := seen[card.Genre]; !ok {
			seen[card.Genre] = struct{}{}
			m.genres = append(m.genres, card.Genre)
		}
	}
	sort.Strings(m.genres)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "ctrl+r":
		m.title.SetValue("")
		m.author.SetValue("")
		m.status, m.genre = "", ""
		m.notice = nil
		return m, m.call(m.ctrl.ResetFilters)
	}

	switch m.focus {
	case focusTitle, focusAuthor:
		return m.updateSearch(msg)
	case focusStatus, focusGenre:
		return m.updateSelect(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) setFocus(focus focusArea) (tea.Model, tea.Cmd) {
	m.focus = focus
	m.title.Blur()
	m.author.Blur()
	switch focus {
	case focusTitle:
		return m, m.title.Focus()
	case focusAuthor:
		return m, m.author.Focus()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := model.FilterTitle
	input := &m.title
	if m.focus == focusAuthor {
		key = model.FilterAuthor
		input = &m.author
	}

	if msg.Type == tea.KeyEnter {
		return m, m.call(func(ctx context.Context) error {
			return m.ctrl.OnEnter(ctx, key)
		})
	}

	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() == before {
		return m, cmd
	}
	m.fields.Set(key, input.Value())
	return m, tea.Batch(cmd, m.call(func(ctx context.Context) error {
		return m.ctrl.OnTextInput(ctx, key)
	}))
}

func (m Model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var delta int
	switch msg.String() {
	case "right", "l", " ":
		delta = 1
	case "left", "h":
		delta = -1
	default:
		return m, nil
	}

	key := model.FilterStatus
	if m.focus == focusStatus {
		m.status = cycle(statusCycle, m.status, delta)
		m.fields.Set(key, m.status)
	} else {
		key = model.FilterGenre
		m.genre = cycle(append([]string{""}, m.genres...), m.genre, delta)
		m.fields.Set(key, m.genre)
	}
	return m, m.call(func(ctx context.Context) error {
		return m.ctrl.OnSelectChange(ctx, key)
	})
}

func cycle(options []string, current string, delta int) string {
	idx := 0
	for i, option := range options {
		if option == current {
			idx = i
			break
		}
	}
	n := len(options)
	return options[(idx+delta+n)%n]
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.books.Cards)-1 {
			m.selected++
		}
		return m, nil
	case "a":
		m.dialog = newAddDialog(m.loc, m.cursorMode)
		return m, textinput.Blink
	case "x":
		return m.removeLastChip()
	}

	card, ok := m.selectedCard()
	if !ok {
		return m, nil
	}
	id := card.ID
	switch msg.String() {
	case "e", "enter":
		return m, m.call(func(ctx context.Context) error { return m.ctrl.EditBook(ctx, id) })
	case "d":
		return m, m.call(func(ctx context.Context) error { return m.ctrl.DeleteBook(ctx, id) })
	case "l":
		if card.HasAction(render.ActionLend) {
			return m, m.call(func(ctx context.Context) error { return m.ctrl.LendBook(ctx, id) })
		}
	case "r":
		if card.HasAction(render.ActionReturn) {
			return m, m.call(func(ctx context.Context) error { return m.ctrl.ReturnBook(ctx, id) })
		}
	}
	return m, nil
}

// removeLastChip drops the most recently listed filter and clears its input.
func (m Model) removeLastChip() (tea.Model, tea.Cmd) {
	if len(m.chips.Chips) == 0 {
		return m, nil
	}
	key := m.chips.Chips[len(m.chips.Chips)-1].Key
	switch key {
	case model.FilterTitle:
		m.title.SetValue("")
	case model.FilterAuthor:
		m.author.SetValue("")
	case model.FilterStatus:
		m.status = ""
	case model.FilterGenre:
		m.genre = ""
	}
	return m, func() tea.Msg {
		return actionDoneMsg{err: m.ctrl.RemoveFilter(key)}
	}
}

func (m Model) selectedCard() (render.Card, bool) {
	if m.selected < 0 || m.selected >= len(m.books.Cards) {
		return render.Card{}, false
	}
	return m.books.Cards[m.selected], true
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.dialog
	switch msg.String() {
	case "esc":
		m.dialog = nil
		return m, nil
	case "tab", "down":
		return m, d.move(1)
	case "shift+tab", "up":
		return m, d.move(-1)
	case "enter":
		if d.edit {
			form := d.editForm()
			return m, m.call(func(ctx context.Context) error { return m.ctrl.SaveBookChanges(ctx, form) })
		}
		form := d.createForm()
		return m, m.call(func(ctx context.Context) error { return m.ctrl.AddBook(ctx, form) })
	case " ", "left", "right":
		if d.onStatus() {
			status := d.toggleStatus()
			return m, func() tea.Msg {
				m.ctrl.StatusChanged(status)
				return actionDoneMsg{}
			}
		}
	}
	return m, d.update(msg)
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.prompt
	answer := func(a promptAnswer) (tea.Model, tea.Cmd) {
		p.reply <- a
		m.prompt = nil
		return m, nil
	}

	if p.kind == promptConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			return answer(promptAnswer{ok: true})
		case "n", "N", "esc":
			return answer(promptAnswer{ok: false})
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return answer(promptAnswer{text: strings.TrimSpace(m.promptInput.Value())})
	case tea.KeyEsc:
		return answer(promptAnswer{err: prompt.ErrAborted})
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	loc := m.loc
	s := m.styles

	header := s.Title.Render(loc.Text("page.heading"))
	search := lipgloss.JoinHorizontal(lipgloss.Top,
		m.label(focusTitle, loc.Text("filters.title"))+" "+m.title.View(), "  ",
		m.label(focusAuthor, loc.Text("filters.author"))+" "+m.author.View(),
	)
	selects := m.label(focusStatus, loc.Text("filters.status")) + " " + m.choice(filters.StatusLabel(m.status, loc), m.status) +
		"   " + m.label(focusGenre, loc.Text("filters.genre")) + " " + m.choice(m.genre, m.genre)

	parts := []string{header, search, selects, m.renderer.Stats(m.stats)}
	if chips := m.renderer.Chips(m.chips, loc); chips != "" {
		parts = append(parts, chips)
	}
	if m.notice != nil {
		parts = append(parts, m.renderer.Notices([]render.Notice{*m.notice}))
	}

	switch {
	case m.prompt != nil:
		parts = append(parts, m.promptView())
	case m.dialog != nil:
		parts = append(parts, m.dialog.view(s, loc))
	default:
		parts = append(parts, m.listView())
	}
	parts = append(parts, s.Muted.Render(helpLine))
	return strings.Join(parts, "\n\n")
}

const helpLine = "tab focus · ←/→ choose · ctrl+r reset · x drop filter · a add · e edit · d delete · l lend · r return · q quit"

func (m Model) label(area focusArea, text string) string {
	if m.focus == area {
		return m.styles.Action.Render(text + ":")
	}
	return m.styles.StatLabel.Render(text + ":")
}

func (m Model) choice(label, value string) string {
	if value == "" {
		return m.styles.Muted.Render(m.loc.Text("filters.any"))
	}
	return label
}

func (m Model) listView() string {
	if m.books.Empty || len(m.books.Cards) == 0 {
		return m.renderer.Cards(m.books, m.loc)
	}
	cards := make([]string, 0, len(m.books.Cards))
	for i, card := range m.books.Cards {
		out := m.renderer.Card(card, m.loc)
		if m.focus == focusList && i == m.selected {
			out = lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Action.Render("▶ "), out)
		} else {
			out = lipgloss.JoinHorizontal(lipgloss.Top, "  ", out)
		}
		cards = append(cards, out)
	}
	return strings.Join(cards, "\n")
}

func (m Model) promptView() string {
	p := m.prompt
	if p.kind == promptConfirm {
		return m.styles.Title.Render(p.message) + " " + m.styles.Muted.Render("[y/n]")
	}
	return m.styles.Title.Render(p.message) + "\n" + m.promptInput.View()
}
