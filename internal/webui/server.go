// Package webui serves the server-rendered HTML front-end. Every request runs
// one controller action against a fresh Screen and renders the result.
package webui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-shelfview/pkg/controller"
	"github.com/goliatone/go-shelfview/pkg/orchestrator"
	"github.com/goliatone/go-shelfview/pkg/render"
	"github.com/goliatone/go-shelfview/pkg/renderers/vanilla"
)

const shutdownTimeout = 5 * time.Second

// Option customises the server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderOptions sets locale, catalog and date formatting for pages.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(s *Server) {
		s.opts = opts
	}
}

// WithOrchestrator replaces the default renderer setup, e.g. to apply a theme.
func WithOrchestrator(orch *orchestrator.Orchestrator) Option {
	return func(s *Server) {
		if orch != nil {
			s.orch = orch
		}
	}
}

// WithGenres lists genres offered in the genre filter besides those found in
// the loaded books.
func WithGenres(genres []string) Option {
	return func(s *Server) {
		s.genres = append([]string(nil), genres...)
	}
}

// WithControllerOptions passes extra options to every request controller.
func WithControllerOptions(opts ...controller.Option) Option {
	return func(s *Server) {
		s.controllerOpts = append(s.controllerOpts, opts...)
	}
}

// Server is the HTML front-end.
type Server struct {
	books          controller.BookService
	orch           *orchestrator.Orchestrator
	opts           render.RenderOptions
	genres         []string
	logger         *slog.Logger
	controllerOpts []controller.Option
}

// New builds a server over books.
func New(books controller.BookService, opts ...Option) (*Server, error) {
	if books == nil {
		return nil, errors.New("webui: book service is required")
	}
	s := &Server{books: books, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.orch == nil {
		s.orch = orchestrator.New()
	}
	return s, nil
}

// Handler returns the routes of the front-end.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /books", s.handleCreate)
	mux.HandleFunc("GET /books/{id}/edit", s.handleEdit)
	mux.HandleFunc("POST /books/{id}", s.handleUpdate)
	mux.HandleFunc("POST /books/{id}/delete", s.handleDelete)
	mux.HandleFunc("POST /books/{id}/lend", s.handleLend)
	mux.HandleFunc("POST /books/{id}/return", s.handleReturn)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("Unable to write healthcheck", "err", err)
		}
	})
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("Shelfview interface available", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", "err", err)
			return fmt.Errorf("webui: shutdown: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return fmt.Errorf("webui: listen: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
