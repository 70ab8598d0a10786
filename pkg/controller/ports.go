package controller

import (
	"context"

	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
)

// BookService is the REST collaborator. *api.Client implements it.
type BookService interface {
	ListBooks(ctx context.Context, state model.Filters) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, book model.NewBook) (model.Book, error)
	UpdateBook(ctx context.Context, id int, update model.BookUpdate) error
	DeleteBook(ctx context.Context, id int) error
	LendBook(ctx context.Context, id int, borrower string) error
	ReturnBook(ctx context.Context, id int) error
}

// Inputs are the four filter fields the user types into.
type Inputs interface {
	Value(key model.FilterKey) string
	Clear(key model.FilterKey)
}

// View receives the rendered parts of the list screen.
type View interface {
	ShowStats(stats render.Stats)
	ShowBooks(list render.BookList)
	ShowChips(chips filters.ChipSet)
}

// Notifier surfaces one-shot messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Prompter asks the user for a confirmation or a single line of text. A
// declined confirmation or an empty answer cancels the action.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
	Input(ctx context.Context, message, defaultValue string) (string, error)
}

// Modals controls the add and edit dialogs.
type Modals interface {
	OpenEdit(form model.EditForm, lentVisible bool)
	SetLentSectionVisible(visible bool)
	CloseEdit()
	CloseAdd()
	ShowFormError(msg string)
}

// Logger is the diagnostics sink. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopView struct{}

func (nopView) ShowStats(render.Stats) {}
func (nopView) ShowBooks(render.BookList) {}
func (nopView) ShowChips(filters.ChipSet) {}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string) {}

type nopModals struct{}

func (nopModals) OpenEdit(model.EditForm, bool) {}
func (nopModals) SetLentSectionVisible(bool) {}
func (nopModals) CloseEdit() {}
func (nopModals) CloseAdd() {}
func (nopModals) ShowFormError(string) {}

// FixedPrompter answers every dialog the same way. Front-ends that collect
// the answer up front, like an HTML form, use it.
type FixedPrompter struct {
	Confirmed bool
	Answer    string
}

func (p FixedPrompter) Confirm(context.Context, string) (bool, error) {
	return p.Confirmed, nil
}

func (p FixedPrompter) Input(context.Context, string, string) (string, error) {
	return p.Answer, nil
}
