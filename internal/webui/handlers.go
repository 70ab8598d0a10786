package webui

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-shelfview/pkg/api"
	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/orchestrator"
	"github.com/goliatone/go-shelfview/pkg/render"
)

// session is one controller bound to the filters of the current URL.
type session struct {
	ctrl   *controller.Controller
	screen *controller.Screen
}

func (s *Server) newSession(r *http.Request, prompter controller.Prompter) (*session, error) {
	screen := controller.NewScreen()
	opts := append([]controller.Option{
		controller.WithInputs(controller.NewFields(filters.FromValues(r.URL.Query()))),
		controller.WithView(screen),
		controller.WithNotifier(screen),
		controller.WithModals(screen),
		controller.WithPrompter(prompter),
		controller.WithLogger(s.logger),
		controller.WithRenderOptions(s.opts),
		controller.WithContext(r.Context()),
	}, s.controllerOpts...)

	ctrl, err := controller.New(s.books, opts...)
	if err != nil {
		return nil, err
	}
	ctrl.SyncFiltersFromInputs()
	return &session{ctrl: ctrl, screen: screen}, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.newSession(r, controller.FixedPrompter{})
	if err != nil {
		s.fail(w, err)
		return
	}
	defer sess.ctrl.Close()

	if r.URL.Query().Get("add") != "" {
		sess.screen.OpenAdd(model.CreateForm{})
	}
	status := http.StatusOK
	if err := sess.ctrl.ApplyFilters(r.Context()); err != nil {
		status = statusFor(err)
	}
	s.respond(w, r, sess, status)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := model.CreateForm{
		Title:       r.PostForm.Get("title"),
		Author:      r.PostForm.Get("author"),
		Genre:       r.PostForm.Get("genre"),
		Description: r.PostForm.Get("description"),
		Room:        r.PostForm.Get("room"),
		Cabinet:     r.PostForm.Get("cabinet"),
		Shelf:       r.PostForm.Get("shelf"),
	}

	s.run(w, r, controller.FixedPrompter{}, func(ctx context.Context, sess *session) error {
		sess.screen.OpenAdd(form)
		return sess.ctrl.AddBook(ctx, form)
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.run(w, r, controller.FixedPrompter{}, func(ctx context.Context, sess *session) error {
		return sess.ctrl.EditBook(ctx, id)
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := model.EditForm{
		ID:          r.PostForm.Get("id"),
		Title:       r.PostForm.Get("title"),
		Author:      r.PostForm.Get("author"),
		Genre:       r.PostForm.Get("genre"),
		Description: r.PostForm.Get("description"),
		Room:        r.PostForm.Get("room"),
		Cabinet:     r.PostForm.Get("cabinet"),
		Shelf:       r.PostForm.Get("shelf"),
		Status:      r.PostForm.Get("status"),
		LentTo:      r.PostForm.Get("lent_to"),
	}
	if strings.TrimSpace(form.ID) == "" {
		form.ID = r.PathValue("id")
	}

	s.run(w, r, controller.FixedPrompter{}, func(ctx context.Context, sess *session) error {
		sess.screen.OpenEdit(form, form.LentSectionVisible())
		return sess.ctrl.SaveBookChanges(ctx, form)
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.run(w, r, controller.FixedPrompter{Confirmed: true}, func(ctx context.Context, sess *session) error {
		return sess.ctrl.DeleteBook(ctx, id)
	})
}

func (s *Server) handleLend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	prompter := controller.FixedPrompter{Answer: r.PostForm.Get("lent_to")}
	s.run(w, r, prompter, func(ctx context.Context, sess *session) error {
		return sess.ctrl.LendBook(ctx, id)
	})
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.run(w, r, controller.FixedPrompter{Confirmed: true}, func(ctx context.Context, sess *session) error {
		return sess.ctrl.ReturnBook(ctx, id)
	})
}

// run executes one controller action and renders the resulting page. The
// list is loaded separately when the action did not reload it.
func (s *Server) run(w http.ResponseWriter, r *http.Request, prompter controller.Prompter, action func(context.Context, *session) error) {
	sess, err := s.newSession(r, prompter)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer sess.ctrl.Close()

	ctx := r.Context()
	status := http.StatusOK
	if err := action(ctx, sess); err != nil {
		status = statusFor(err)
	}
	if !sess.screen.Loaded() {
		if err := sess.ctrl.LoadBooks(ctx, nil); err != nil && status == http.StatusOK {
			status = statusFor(err)
		}
	}
	sess.ctrl.RefreshChips()
	s.respond(w, r, sess, status)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *session, status int) {
	state := sess.ctrl.State()
	page := sess.screen.Page()
	page.Filters = state
	page.Query = filters.Query(state)
	page.Genres = s.genreOptions(page.Books)

	opts := s.opts
	opts.Fragment = render.Fragment(r.URL.Query().Get("fragment"))

	result, err := s.orch.Generate(r.Context(), orchestrator.Request{
		Page:          page,
		ThemeName:     r.URL.Query().Get("theme"),
		ThemeVariant:  r.URL.Query().Get("variant"),
		RenderOptions: opts,
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(status)
	if _, err := w.Write(result.Body); err != nil {
		s.logger.Error("Unable to write response", "err", err)
	}
}

func (s *Server) genreOptions(list render.BookList) []string {
	genres := append([]string(nil), s.genres...)
	for _, card := range list.Cards {
		if card.Genre != "" {
			genres = append(genres, card.Genre)
		}
	}
	return genres
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("Unable to render page", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// statusFor maps an action failure onto the response status. The page is
// still rendered so the notice reaches the user.
func statusFor(err error) int {
	var verr *model.ValidationError
	var apiErr *api.APIError
	switch {
	case errors.Is(err, controller.ErrMissingID):
		return http.StatusBadRequest
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		http.Error(w, "invalid book id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
