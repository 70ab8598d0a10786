package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-shelfview/pkg/model"
)

// RecordedRequest captures one call received by FakeLibrary.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	// RawQuery is the query string exactly as sent.
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Failure is a canned error response.
type Failure struct {
	Status int
	Body   string
}

// FakeLibrary is an in-memory implementation of the inventory REST API,
// served under /api by an httptest server. It mirrors the server rules the
// client depends on: substring matching for title, author and genre, exact
// status matching, lend only from available and return only from lent.
type FakeLibrary struct {
	Server *httptest.Server

	mu       sync.Mutex
	books    map[int]model.Book
	nextID   int
	requests []RecordedRequest
	failures map[string]Failure
	now      func() time.Time
}

// NewFakeLibrary starts a fake server seeded with books. It is closed with
// the test.
func NewFakeLibrary(t testing.TB, books ...model.Book) *FakeLibrary {
	t.Helper()

	lib := &FakeLibrary{
		books:    make(map[int]model.Book),
		failures: make(map[string]Failure),
		now:      func() time.Time { return LentOn },
	}
	for _, book := range books {
		lib.put(book)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books", lib.list)
	mux.HandleFunc("POST /api/books", lib.create)
	mux.HandleFunc("GET /api/books/{id}", lib.get)
	mux.HandleFunc("PUT /api/books/{id}", lib.update)
	mux.HandleFunc("DELETE /api/books/{id}", lib.remove)
	mux.HandleFunc("POST /api/books/{id}/lend", lib.lend)
	mux.HandleFunc("POST /api/books/{id}/return", lib.giveBack)

	lib.Server = httptest.NewServer(lib.record(mux))
	t.Cleanup(lib.Server.Close)
	return lib
}

// URL returns the server root, without the /api prefix.
func (l *FakeLibrary) URL() string {
	return l.Server.URL
}

// Fail makes every request matching method and path answer with failure
// until cleared with Recover.
func (l *FakeLibrary) Fail(method, path string, failure Failure) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[method+" "+path] = failure
}

// Recover removes a failure registered with Fail.
func (l *FakeLibrary) Recover(method, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, method+" "+path)
}

// Requests returns a copy of the recorded requests.
func (l *FakeLibrary) Requests() []RecordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]RecordedRequest, len(l.requests))
	copy(out, l.requests)
	return out
}

// RequestCount counts recorded requests with the given method and path.
func (l *FakeLibrary) RequestCount(method, path string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, req := range l.requests {
		if req.Method == method && req.Path == path {
			count++
		}
	}
	return count
}

// Book returns the stored record for id.
func (l *FakeLibrary) Book(id int) (model.Book, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	book, ok := l.books[id]
	return book, ok
}

// Books returns every stored record ordered by id.
func (l *FakeLibrary) Books() []model.Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sortedLocked(func(model.Book) bool { return true })
}

func (l *FakeLibrary) put(book model.Book) {
	if book.ID == 0 {
		l.nextID++
		book.ID = l.nextID
	}
	if book.ID > l.nextID {
		l.nextID = book.ID
	}
	l.books[book.ID] = book
}

func (l *FakeLibrary) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		l.mu.Lock()
		l.requests = append(l.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			Query:    r.URL.Query(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		failure, failing := l.failures[r.Method+" "+r.URL.Path]
		l.mu.Unlock()

		if failing {
			w.WriteHeader(failure.Status)
			_, _ = io.WriteString(w, failure.Body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *FakeLibrary) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	title := strings.ToLower(query.Get("title"))
	author := strings.ToLower(query.Get("author"))
	genre := strings.ToLower(query.Get("genre"))
	status := query.Get("status")

	l.mu.Lock()
	books := l.sortedLocked(func(b model.Book) bool {
		return contains(b.Title, title) &&
			contains(b.Author, author) &&
			contains(b.Genre, genre) &&
			(status == "" || string(b.Status) == status)
	})
	l.mu.Unlock()

	writeJSON(w, http.StatusOK, books)
}

func (l *FakeLibrary) create(w http.ResponseWriter, r *http.Request) {
	var payload model.NewBook
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Title == "" || payload.Author == "" || payload.Room == "" || payload.Cabinet <= 0 || payload.Shelf <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Failed to create book",
			"details": "title, author, room, cabinet and shelf are required",
		})
		return
	}

	l.mu.Lock()
	book := model.Book{
		Title:       payload.Title,
		Author:      payload.Author,
		Genre:       payload.Genre,
		Description: payload.Description,
		Room:        payload.Room,
		Cabinet:     payload.Cabinet,
		Shelf:       payload.Shelf,
		Row:         payload.Row,
		Status:      payload.Status,
		CreatedAt:   l.now(),
	}
	l.put(book)
	book = l.books[l.nextID]
	l.mu.Unlock()

	writeJSON(w, http.StatusCreated, book)
}

func (l *FakeLibrary) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, found := l.Book(id)
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (l *FakeLibrary) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload model.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	book, found := l.books[id]
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	book.Title = payload.Title
	book.Author = payload.Author
	if payload.Genre != nil {
		book.Genre = *payload.Genre
	}
	if payload.Description != nil {
		book.Description = *payload.Description
	}
	book.Room = payload.Room
	book.Cabinet = payload.Cabinet
	book.Shelf = payload.Shelf
	if payload.Status != "" {
		if payload.Status == model.StatusLent && book.Status != model.StatusLent {
			book.LentDate = l.now()
		}
		if payload.Status == model.StatusAvailable {
			book.LentDate = time.Time{}
		}
		book.Status = payload.Status
	}
	book.LentTo = payload.LentTo
	l.books[id] = book

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book updated"})
}

func (l *FakeLibrary) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	l.mu.Lock()
	_, found := l.books[id]
	delete(l.books, id)
	l.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Book deleted"})
}

func (l *FakeLibrary) lend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload model.LendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(payload.LentTo) == "" {
		writeError(w, http.StatusBadRequest, "Field 'lent_to' is required")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	book, found := l.books[id]
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	if book.Status != model.StatusAvailable {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Book is already %s", book.Status))
		return
	}
	book.Status = model.StatusLent
	book.LentTo = payload.LentTo
	book.LentDate = l.now()
	l.books[id] = book

	writeJSON(w, http.StatusOK, book)
}

func (l *FakeLibrary) giveBack(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	book, found := l.books[id]
	if !found {
		writeError(w, http.StatusNotFound, "Book not found")
		return
	}
	if book.Status != model.StatusLent {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Book is not lent (current status: %s)", book.Status))
		return
	}
	book.Status = model.StatusAvailable
	book.LentTo = ""
	book.LentDate = time.Time{}
	l.books[id] = book

	writeJSON(w, http.StatusOK, book)
}

func (l *FakeLibrary) sortedLocked(keep func(model.Book) bool) []model.Book {
	out := make([]model.Book, 0, len(l.books))
	for _, book := range l.books {
		if keep(book) {
			out = append(out, book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func contains(value, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(value), needle)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid book ID")
		return 0, false
	}
	if id <= 0 {
		writeError(w, http.StatusBadRequest, "Book ID must be positive")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
