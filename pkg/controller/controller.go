// Package controller holds the inventory view controller: the filter state,
// the reload loop and the book actions shared by every front-end. Front-ends
// plug in through the ports declared in ports.go.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-shelfview/pkg/api"
	"github.com/goliatone/go-shelfview/pkg/debounce"
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
)

const (
	// DefaultSearchDelay is the quiet period after the last keystroke in a
	// text filter before the list reloads.
	DefaultSearchDelay = 500 * time.Millisecond
	// DefaultRemoveDelay lets the chip row settle before a removed filter
	// triggers a reload.
	DefaultRemoveDelay = 100 * time.Millisecond
)

// ErrMissingID is returned when the edit form carries no usable book id.
var ErrMissingID = errors.New("controller: missing book id")

// Option configures a Controller.
type Option func(*Controller)

func WithView(view View) Option {
	return func(c *Controller) {
		if view != nil {
			c.view = view
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notify = n
		}
	}
}

func WithPrompter(p Prompter) Option {
	return func(c *Controller) {
		if p != nil {
			c.prompt = p
		}
	}
}

func WithModals(m Modals) Option {
	return func(c *Controller) {
		if m != nil {
			c.modals = m
		}
	}
}

// WithInputs binds the filter fields. Without it the controller keeps its
// own Fields.
func WithInputs(in Inputs) Option {
	return func(c *Controller) {
		if in != nil {
			c.inputs = in
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRenderOptions sets the locale, catalog and date formatting used to
// build cards, stats, chips and messages.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(c *Controller) {
		c.opts = opts
	}
}

func WithSearchDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.searchDelay = d
		}
	}
}

func WithRemoveDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.removeDelay = d
		}
	}
}

// WithTimerFunc replaces the timers behind both debouncers.
func WithTimerFunc(fn debounce.TimerFunc) Option {
	return func(c *Controller) {
		c.timerFunc = fn
	}
}

// WithContext sets the context used by reloads that fire from a timer
// rather than from a caller.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// Controller is the inventory view controller.
type Controller struct {
	books  BookService
	inputs Inputs
	view   View
	notify Notifier
	prompt Prompter
	modals Modals
	logger Logger
	opts   render.RenderOptions

	searchDelay time.Duration
	removeDelay time.Duration
	timerFunc   debounce.TimerFunc
	baseCtx     context.Context

	search *debounce.Debouncer
	remove *debounce.Debouncer

	mu         sync.Mutex
	state      model.Filters
	generation uint64

	// showMu orders view updates so a superseded response never paints over
	// a newer one.
	showMu sync.Mutex
}

// New builds a controller over books.
func New(books BookService, opts ...Option) (*Controller, error) {
	if books == nil {
		return nil, errors.New("controller: book service is required")
	}
	c := &Controller{
		books:       books,
		view:        nopView{},
		notify:      nopNotifier{},
		prompt:      FixedPrompter{},
		modals:      nopModals{},
		logger:      slog.Default(),
		searchDelay: DefaultSearchDelay,
		removeDelay: DefaultRemoveDelay,
		baseCtx:     context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.inputs == nil {
		c.inputs = NewFields(model.Filters{})
	}

	var debounceOpts []debounce.Option
	if c.timerFunc != nil {
		debounceOpts = append(debounceOpts, debounce.WithTimerFunc(c.timerFunc))
	}
	c.search = debounce.New(c.searchDelay, func() {
		_ = c.ApplyFilters(c.baseCtx)
	}, debounceOpts...)
	c.remove = debounce.New(c.removeDelay, func() {
		_ = c.LoadBooks(c.baseCtx, nil)
	}, debounceOpts...)
	return c, nil
}

// Close stops pending debounced reloads. The controller must not be used
// afterwards.
func (c *Controller) Close() {
	c.search.Stop()
	c.remove.Stop()
}

// State returns the last applied filters.
func (c *Controller) State() model.Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SearchPending reports whether a debounced search is waiting to fire.
func (c *Controller) SearchPending() bool {
	return c.search.Pending()
}

// Localizer returns the message lookup the controller renders with.
func (c *Controller) Localizer() render.Localizer {
	return c.opts.Localizer()
}

// LoadBooks merges patch into the filter state, fetches the matching books
// and shows stats and cards. On failure the previous view stays in place.
// A response that arrives after a newer LoadBooks started is dropped.
func (c *Controller) LoadBooks(ctx context.Context, patch filters.Patch) error {
	c.mu.Lock()
	c.state = filters.Merge(c.state, patch)
	state := c.state
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	books, err := c.books.ListBooks(ctx, state)

	c.showMu.Lock()
	defer c.showMu.Unlock()
	if !c.isCurrent(gen) {
		c.logger.Debug("dropping stale book list", "generation", gen, "query", filters.Query(state), "error", err)
		return nil
	}
	if err != nil {
		c.logger.Error("load books failed", "query", filters.Query(state), "error", err)
		c.notify.Error(c.text("notify.load_failed", api.Detail(err)))
		return fmt.Errorf("load books: %w", err)
	}
	c.view.ShowStats(render.ComputeStats(books, state, c.opts))
	c.view.ShowBooks(render.BuildBookList(books, c.opts))
	return nil
}

func (c *Controller) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

// SyncFiltersFromInputs reads the four filter inputs into the state and
// returns it.
func (c *Controller) SyncFiltersFromInputs() model.Filters {
	state := filters.Sync(c.inputs)
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	return state
}

// ApplyFilters syncs the inputs, reloads and refreshes the chips.
func (c *Controller) ApplyFilters(ctx context.Context) error {
	c.SyncFiltersFromInputs()
	err := c.LoadBooks(ctx, nil)
	c.RefreshChips()
	return err
}

// ResetFilters clears every input and the state, then reloads.
func (c *Controller) ResetFilters(ctx context.Context) error {
	c.search.Cancel()
	for _, key := range model.QueryOrder {
		c.inputs.Clear(key)
	}
	c.mu.Lock()
	c.state = filters.Reset()
	c.mu.Unlock()
	c.RefreshChips()
	return c.LoadBooks(ctx, nil)
}

// RemoveFilter clears one input and its state, refreshes the chips and
// schedules a reload after the remove delay. Other filters keep their values.
func (c *Controller) RemoveFilter(key model.FilterKey) error {
	c.mu.Lock()
	next, err := filters.Remove(c.state, key)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.mu.Unlock()

	c.inputs.Clear(key)
	c.RefreshChips()
	c.remove.Trigger()
	return nil
}

// OnTextInput handles a keystroke in a filter input. Title and author are
// debounced; the discrete inputs apply at once.
func (c *Controller) OnTextInput(ctx context.Context, key model.FilterKey) error {
	switch key {
	case model.FilterTitle, model.FilterAuthor:
		c.search.Trigger()
		return nil
	default:
		return c.OnSelectChange(ctx, key)
	}
}

// OnSelectChange handles a status or genre change.
func (c *Controller) OnSelectChange(ctx context.Context, key model.FilterKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", filters.ErrUnknownFilter, key)
	}
	return c.ApplyFilters(ctx)
}

// OnEnter applies the filters now, dropping any pending debounced search.
func (c *Controller) OnEnter(ctx context.Context, key model.FilterKey) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", filters.ErrUnknownFilter, key)
	}
	c.search.Cancel()
	return c.ApplyFilters(ctx)
}

// RefreshChips shows the chips for the current state.
func (c *Controller) RefreshChips() {
	c.view.ShowChips(filters.Chips(c.State(), c.opts.Localizer()))
}

// AddBook creates a book from the add form. The add dialog stays open on
// failure.
func (c *Controller) AddBook(ctx context.Context, form model.CreateForm) error {
	book := model.NewBookFromForm(form)
	created, err := c.books.CreateBook(ctx, book)
	if err != nil {
		c.logger.Error("create book failed", "title", book.Title, "error", err)
		c.notify.Error(c.failureText(err, "notify.add_failed", "notify.add_unreachable"))
		return fmt.Errorf("add book: %w", err)
	}
	c.logger.Info("book created", "id", created.ID, "title", book.Title)
	c.modals.CloseAdd()
	_ = c.LoadBooks(ctx, nil)
	c.notify.Success(c.text("notify.added"))
	return nil
}

// EditBook fetches a book and opens the edit dialog with its values.
func (c *Controller) EditBook(ctx context.Context, id int) error {
	book, err := c.books.GetBook(ctx, id)
	if err != nil {
		c.logger.Error("get book failed", "id", id, "error", err)
		c.notify.Error(c.text("notify.book_load_failed", api.Detail(err)))
		return fmt.Errorf("edit book %d: %w", id, err)
	}
	form := model.EditFormFromBook(book)
	c.modals.OpenEdit(form, form.LentSectionVisible())
	return nil
}

// StatusChanged toggles the borrower section of the edit dialog.
func (c *Controller) StatusChanged(status string) {
	c.modals.SetLentSectionVisible(model.Status(status) == model.StatusLent)
}

// SaveBookChanges submits the edit form. Missing required fields are
// reported in the dialog and nothing is sent.
func (c *Controller) SaveBookChanges(ctx context.Context, form model.EditForm) error {
	id, err := strconv.Atoi(strings.TrimSpace(form.ID))
	if err != nil || id <= 0 {
		c.notify.Error(c.text("notify.missing_id"))
		return ErrMissingID
	}

	update, err := model.UpdateFromForm(form)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			c.modals.ShowFormError(c.text("form.required"))
		} else {
			c.notify.Error(c.text("notify.error", err.Error()))
		}
		return err
	}

	if err := c.books.UpdateBook(ctx, id, update); err != nil {
		c.logger.Error("update book failed", "id", id, "error", err)
		c.notify.Error(c.text("notify.update_failed", c.updateFailure(err)))
		return fmt.Errorf("update book %d: %w", id, err)
	}
	c.logger.Info("book updated", "id", id, "status", update.Status)
	c.modals.CloseEdit()
	_ = c.LoadBooks(ctx, nil)
	c.notify.Success(c.text("notify.updated"))
	return nil
}

// DeleteBook removes a book after the user confirms.
func (c *Controller) DeleteBook(ctx context.Context, id int) error {
	if !c.confirm(ctx, "prompt.delete") {
		return nil
	}
	if err := c.books.DeleteBook(ctx, id); err != nil {
		c.logger.Error("delete book failed", "id", id, "error", err)
		c.notify.Error(c.failureText(err, "notify.delete_failed", "notify.delete_unreachable"))
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	c.logger.Info("book deleted", "id", id)
	_ = c.LoadBooks(ctx, nil)
	c.notify.Success(c.text("notify.deleted"))
	return nil
}

// LendBook asks who borrows the book and lends it. An empty answer cancels.
func (c *Controller) LendBook(ctx context.Context, id int) error {
	borrower, err := c.prompt.Input(ctx, c.text("prompt.lend"), c.text("prompt.lend_default"))
	if err != nil {
		c.logger.Debug("lend prompt cancelled", "id", id, "error", err)
		return nil
	}
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return nil
	}
	if err := c.books.LendBook(ctx, id, borrower); err != nil {
		c.logger.Error("lend book failed", "id", id, "error", err)
		c.notify.Error(c.failureText(err, "notify.lend_failed", ""))
		return fmt.Errorf("lend book %d: %w", id, err)
	}
	c.logger.Info("book lent", "id", id)
	_ = c.LoadBooks(ctx, nil)
	c.notify.Success(c.text("notify.lent"))
	return nil
}

// ReturnBook marks a lent book as returned after the user confirms.
func (c *Controller) ReturnBook(ctx context.Context, id int) error {
	if !c.confirm(ctx, "prompt.return") {
		return nil
	}
	if err := c.books.ReturnBook(ctx, id); err != nil {
		c.logger.Error("return book failed", "id", id, "error", err)
		c.notify.Error(c.failureText(err, "notify.return_failed", ""))
		return fmt.Errorf("return book %d: %w", id, err)
	}
	c.logger.Info("book returned", "id", id)
	_ = c.LoadBooks(ctx, nil)
	c.notify.Success(c.text("notify.returned"))
	return nil
}

func (c *Controller) confirm(ctx context.Context, key string) bool {
	ok, err := c.prompt.Confirm(ctx, c.text(key))
	if err != nil {
		c.logger.Debug("confirmation cancelled", "prompt", key, "error", err)
		return false
	}
	return ok
}

// failureText prefers the server's message, then the fallback key. Transport
// failures use unreachableKey, or the transport error itself when empty.
func (c *Controller) failureText(err error, fallbackKey, unreachableKey string) string {
	if api.IsTransport(err) {
		if unreachableKey != "" {
			return c.text(unreachableKey)
		}
		return api.Detail(err)
	}
	return api.ErrorMessage(err, c.text(fallbackKey))
}

// updateFailure is the save dialog's wording: a server message wins, a JSON
// body without one gets the generic text, and any other body is appended to it.
func (c *Controller) updateFailure(err error) string {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "" {
		return api.Detail(err)
	}
	generic := c.text("notify.update_error")
	if body := strings.TrimSpace(apiErr.Body); body != "" && !apiErr.JSON {
		return generic + ": " + body
	}
	return generic
}

func (c *Controller) text(key string, args ...any) string {
	return c.opts.Localizer().Text(key, args...)
}
