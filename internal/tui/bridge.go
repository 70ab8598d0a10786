package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/prompt"
	"github.com/goliatone/go-shelfview/pkg/render"
)

type statsMsg struct{ stats render.Stats }

type booksMsg struct{ list render.BookList }

type chipsMsg struct{ chips filters.ChipSet }

type noticeMsg struct{ notice render.Notice }

type editOpenedMsg struct {
	form        model.EditForm
	lentVisible bool
}

type lentVisibleMsg struct{ visible bool }

type editClosedMsg struct{}

type addClosedMsg struct{}

type formErrorMsg struct{ text string }

type promptKind int

const (
	promptConfirm promptKind = iota
	promptInput
)

type promptAnswer struct {
	ok   bool
	text string
	err  error
}

// promptMsg asks the user a question. The controller goroutine waiting on
// reply stays blocked until the model answers.
type promptMsg struct {
	kind    promptKind
	message string
	def     string
	reply   chan promptAnswer
}

// actionDoneMsg ends a controller call started from Update.
type actionDoneMsg struct{ err error }

// bridge turns controller port calls into tea messages. Controller methods
// run inside tea.Cmd goroutines, so every call is a channel send.
type bridge struct {
	events chan tea.Msg
	done   <-chan struct{}
}

var (
	_ controller.View     = (*bridge)(nil)
	_ controller.Notifier = (*bridge)(nil)
	_ controller.Modals   = (*bridge)(nil)
	_ controller.Prompter = (*bridge)(nil)
)

func newBridge(ctx context.Context, buffer int) *bridge {
	return &bridge{events: make(chan tea.Msg, buffer), done: ctx.Done()}
}

func (b *bridge) post(msg tea.Msg) {
	select {
	case b.events <- msg:
	case <-b.done:
	}
}

// wait delivers the next controller event to Update.
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return msg
		case <-b.done:
			return nil
		}
	}
}

func (b *bridge) ShowStats(stats render.Stats) { b.post(statsMsg{stats}) }
func (b *bridge) ShowBooks(list render.BookList) { b.post(booksMsg{list}) }
func (b *bridge) ShowChips(chips filters.ChipSet) { b.post(chipsMsg{chips}) }
func (b *bridge) Success(msg string) { b.post(noticeMsg{render.Notice{Kind: render.NoticeSuccess, Text: msg}}) }
func (b *bridge) Error(msg string) { b.post(noticeMsg{render.Notice{Kind: render.NoticeError, Text: msg}}) }
func (b *bridge) SetLentSectionVisible(visible bool) { b.post(lentVisibleMsg{visible}) }
func (b *bridge) CloseEdit() { b.post(editClosedMsg{}) }
func (b *bridge) CloseAdd() { b.post(addClosedMsg{}) }
func (b *bridge) ShowFormError(text string) { b.post(formErrorMsg{text}) }

func (b *bridge) OpenEdit(form model.EditForm, lentVisible bool) {
	b.post(editOpenedMsg{form: form, lentVisible: lentVisible})
}

func (b *bridge) Confirm(ctx context.Context, message string) (bool, error) {
	answer, err := b.ask(ctx, promptMsg{kind: promptConfirm, message: message})
	return answer.ok, err
}

func (b *bridge) Input(ctx context.Context, message, defaultValue string) (string, error) {
	answer, err := b.ask(ctx, promptMsg{kind: promptInput, message: message, def: defaultValue})
	return answer.text, err
}

func (b *bridge) ask(ctx context.Context, msg promptMsg) (promptAnswer, error) {
	msg.reply = make(chan promptAnswer, 1)
	b.post(msg)
	select {
	case answer := <-msg.reply:
		return answer, answer.err
	case <-ctx.Done():
		return promptAnswer{}, ctx.Err()
	case <-b.done:
		return promptAnswer{}, prompt.ErrAborted
	}
}
