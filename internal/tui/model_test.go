package tui

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-shelfview/pkg/api"
	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/debounce"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/testsupport"
)

type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped
	t.stopped = true
	return active
}

// manualClock fires pending timers only when Flush is called.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &manualTimer{fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *manualClock) Flush() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, timer := range timers {
		if !timer.stopped {
			timer.stopped = true
			timer.fn()
		}
	}
}

type fixture struct {
	lib   *testsupport.FakeLibrary
	clock *manualClock
	model Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	lib := testsupport.NewFakeLibrary(t, testsupport.SampleBooks()...)
	client, err := api.New(lib.URL())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	clock := &manualClock{}
	m, err := build(ctx, Config{
		Books:             client,
		Genres:            []string{"Poetry"},
		ControllerOptions: []controller.Option{controller.WithTimerFunc(clock.AfterFunc)},
		Output:            io.Discard,
		StaticCursor:      true,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(m.ctrl.Close)

	f := &fixture{lib: lib, clock: clock, model: m}
	if err := m.ctrl.LoadBooks(ctx, nil); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	f.drain()
	return f
}

// run executes cmd and everything it batches, then applies controller events.
func (f *fixture) run(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		f.update(msg)
	}
	f.drain()
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func (f *fixture) update(msg tea.Msg) tea.Cmd {
	next, cmd := f.model.Update(msg)
	f.model = next.(Model)
	return cmd
}

func (f *fixture) drain() {
	for {
		select {
		case msg := <-f.model.bridge.events:
			f.update(msg)
		default:
			return
		}
	}
}

func (f *fixture) key(s string) tea.Cmd {
	switch s {
	case "tab":
		return f.update(tea.KeyMsg{Type: tea.KeyTab})
	case "enter":
		return f.update(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return f.update(tea.KeyMsg{Type: tea.KeyEsc})
	case "right":
		return f.update(tea.KeyMsg{Type: tea.KeyRight})
	case "space":
		return f.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	case "ctrl+r":
		return f.update(tea.KeyMsg{Type: tea.KeyCtrlR})
	}
	return f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (f *fixture) focusList() {
	for f.model.focus != focusList {
		f.run(f.key("tab"))
	}
}

// answerPrompt runs cmd in the background and answers the prompt it raises.
func (f *fixture) answerPrompt(t *testing.T, cmd tea.Cmd, keys ...string) string {
	t.Helper()

	done := make(chan []tea.Msg, 1)
	go func() { done <- collect(cmd) }()

	var question string
	select {
	case msg := <-f.model.bridge.events:
		p, ok := msg.(promptMsg)
		if !ok {
			t.Fatalf("expected prompt, got %T", msg)
		}
		question = p.message
		f.update(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no prompt raised")
	}
	for _, k := range keys {
		f.run(f.key(k))
	}

	select {
	case msgs := <-done:
		for _, msg := range msgs {
			f.update(msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("action did not finish")
	}
	f.drain()
	return question
}

func TestInitialLoadShowsLibrary(t *testing.T) {
	f := newFixture(t)

	if got := len(f.model.books.Cards); got != 3 {
		t.Fatalf("cards = %d, want 3", got)
	}
	view := f.model.View()
	for _, want := range []string{"Library inventory", "Total books: 3", "Dune", "War and Peace"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Join(f.model.genres, ",") != "Classic,Poetry,Sci-Fi" {
		t.Fatalf("genres = %v", f.model.genres)
	}
}

func TestTypingDebouncesSearch(t *testing.T) {
	f := newFixture(t)
	before := f.lib.RequestCount("GET", "/api/books")

	for _, r := range "Dun" {
		f.run(f.key(string(r)))
	}
	if got := f.model.fields.Value(model.FilterTitle); got != "Dun" {
		t.Fatalf("title field = %q", got)
	}
	if f.lib.RequestCount("GET", "/api/books") != before {
		t.Fatal("no request expected before the delay")
	}

	f.clock.Flush()
	f.drain()

	if got := f.lib.RequestCount("GET", "/api/books"); got != before+1 {
		t.Fatalf("list requests = %d, want %d", got, before+1)
	}
	if len(f.model.books.Cards) != 1 || f.model.books.Cards[0].Title != "Dune" {
		t.Fatalf("cards = %+v", f.model.books.Cards)
	}
	if !strings.Contains(f.model.View(), "Title: Dun") {
		t.Fatalf("chip missing:\n%s", f.model.View())
	}
}

func TestStatusSelectAppliesImmediately(t *testing.T) {
	f := newFixture(t)

	f.run(f.key("tab"))
	f.run(f.key("tab"))
	if f.model.focus != focusStatus {
		t.Fatalf("focus = %v", f.model.focus)
	}
	f.run(f.key("right"))
	f.run(f.key("right"))

	if f.model.status != string(model.StatusLent) {
		t.Fatalf("status = %q", f.model.status)
	}
	if len(f.model.books.Cards) != 1 || f.model.books.Cards[0].ID != 2 {
		t.Fatalf("cards = %+v", f.model.books.Cards)
	}

	f.focusList()
	f.run(f.key("x"))
	f.clock.Flush()
	f.drain()
	if f.model.status != "" || len(f.model.books.Cards) != 3 {
		t.Fatalf("filter not removed: status=%q cards=%d", f.model.status, len(f.model.books.Cards))
	}
}

func TestResetClearsInputs(t *testing.T) {
	f := newFixture(t)

	f.run(f.key("W"))
	f.run(f.key("enter"))
	if len(f.model.books.Cards) != 1 {
		t.Fatalf("cards = %d after enter", len(f.model.books.Cards))
	}

	f.run(f.key("ctrl+r"))
	if f.model.title.Value() != "" || f.model.fields.Value(model.FilterTitle) != "" {
		t.Fatal("title should be cleared")
	}
	if len(f.model.books.Cards) != 3 || f.model.chips.Visible {
		t.Fatalf("reset should show everything: %d cards", len(f.model.books.Cards))
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	f := newFixture(t)
	f.focusList()

	question := f.answerPrompt(t, f.key("d"), "y")
	if question != "Are you sure you want to delete this book?" {
		t.Fatalf("question = %q", question)
	}
	if _, ok := f.lib.Book(1); ok {
		t.Fatal("book 1 should be deleted")
	}
	if f.model.notice == nil || f.model.notice.Text != "Book deleted" {
		t.Fatalf("notice = %+v", f.model.notice)
	}
}

func TestDeclinedConfirmationKeepsBook(t *testing.T) {
	f := newFixture(t)
	f.focusList()

	f.answerPrompt(t, f.key("d"), "n")
	if _, ok := f.lib.Book(1); !ok {
		t.Fatal("book 1 should survive")
	}
	if n := f.lib.RequestCount("DELETE", "/api/books/1"); n != 0 {
		t.Fatalf("DELETE sent %d times", n)
	}
}

func TestLendUsesPromptAnswer(t *testing.T) {
	f := newFixture(t)
	f.focusList()

	question := f.answerPrompt(t, f.key("l"), "enter")
	if question != "Who is borrowing the book?" {
		t.Fatalf("question = %q", question)
	}
	book, _ := f.lib.Book(1)
	if book.Status != model.StatusLent || book.LentTo != "Ivanov Ivan" {
		t.Fatalf("book = %+v", book)
	}
	if !f.model.books.Cards[0].HasAction("return") {
		t.Fatal("lent card should offer return")
	}
}

func TestLendAbortedWithEscape(t *testing.T) {
	f := newFixture(t)
	f.focusList()

	f.answerPrompt(t, f.key("l"), "esc")
	if n := f.lib.RequestCount("POST", "/api/books/1/lend"); n != 0 {
		t.Fatalf("lend sent %d times", n)
	}
}

func TestEditDialogTogglesLentSection(t *testing.T) {
	f := newFixture(t)
	f.focusList()
	f.run(f.key("j"))

	f.run(f.key("e"))
	d := f.model.dialog
	if d == nil || !d.edit || d.id != "2" || !d.lentVisible {
		t.Fatalf("dialog = %+v", d)
	}

	for !f.model.dialog.onStatus() {
		f.run(f.key("tab"))
	}
	f.run(f.key("space"))
	if f.model.dialog.status != string(model.StatusAvailable) || f.model.dialog.lentVisible {
		t.Fatalf("status toggle: %+v", f.model.dialog)
	}
	if strings.Contains(f.model.View(), "Lent to:") {
		t.Fatal("lent section should be hidden")
	}

	f.run(f.key("enter"))
	if f.model.dialog != nil {
		t.Fatal("dialog should close after save")
	}
	book, _ := f.lib.Book(2)
	if book.Status != model.StatusAvailable || book.LentTo != "" {
		t.Fatalf("book = %+v", book)
	}
}

func TestAddDialogValidationKeepsDialogOpen(t *testing.T) {
	f := newFixture(t)
	f.focusList()

	f.run(f.key("a"))
	if f.model.dialog == nil || f.model.dialog.edit {
		t.Fatal("add dialog should open")
	}
	f.run(f.key("enter"))
	if f.model.dialog == nil {
		t.Fatal("dialog should stay open after a failed create")
	}
	if f.model.notice == nil || f.model.notice.Text != "Failed to create book" {
		t.Fatalf("notice = %+v", f.model.notice)
	}

	f.run(f.key("esc"))
	if f.model.dialog != nil {
		t.Fatal("esc should close the dialog")
	}
}

func TestBridgePromptStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := newBridge(ctx, 1)

	errs := make(chan error, 1)
	go func() {
		_, err := b.Confirm(ctx, "sure?")
		errs <- err
	}()
	<-b.events
	cancel()

	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("expected an error after cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("prompt did not return")
	}
}
