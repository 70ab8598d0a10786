package webui_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-shelfview/internal/webui"
	"github.com/goliatone/go-shelfview/pkg/api"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/testsupport"
)

func newTestServer(t *testing.T, opts ...webui.Option) (*httptest.Server, *testsupport.FakeLibrary) {
	t.Helper()

	lib := testsupport.NewFakeLibrary(t, testsupport.SampleBooks()...)
	client, err := api.New(lib.URL())
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := webui.New(client, append([]webui.Option{webui.WithLogger(logger)}, opts...)...)
	if err != nil {
		t.Fatalf("webui.New: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, lib
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return readBody(t, resp)
}

func post(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestNewRequiresService(t *testing.T) {
	if _, err := webui.New(nil); err == nil {
		t.Fatal("expected error for nil book service")
	}
}

func TestIndexRendersLibrary(t *testing.T) {
	ts, _ := newTestServer(t, webui.WithGenres([]string{"Poetry"}))

	status, body := get(t, ts, "/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{"<!DOCTYPE html>", "Dune", "War and Peace", "Total books", `value="Poetry"`, `value="Classic"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q:\n%s", want, body)
		}
	}
}

func TestIndexAppliesQueryFilters(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := get(t, ts, "/?author=+tolstoy+&fragment=cards")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Fatal("fragment request should not render the document")
	}
	if !strings.Contains(body, "War and Peace") || strings.Contains(body, "Dune") {
		t.Fatalf("unexpected cards:\n%s", body)
	}

	requests := lib.Requests()
	last := requests[len(requests)-1]
	if last.RawQuery != "author=tolstoy" {
		t.Fatalf("list query = %q", last.RawQuery)
	}
}

func TestIndexShowsChipsForActiveFilters(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/?status=lent&fragment=chips")
	if !strings.Contains(body, "Status: Lent out") {
		t.Fatalf("chips missing:\n%s", body)
	}
}

func TestIndexOpensAddDialog(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/?add=1")
	if !strings.Contains(body, `id="addBookModal"`) {
		t.Fatalf("add dialog missing:\n%s", body)
	}
}

func TestIndexReportsLoadFailure(t *testing.T) {
	ts, lib := newTestServer(t)
	lib.Fail(http.MethodGet, "/api/books", testsupport.Failure{Status: http.StatusInternalServerError, Body: "database is down"})

	status, body := get(t, ts, "/")
	if status != http.StatusBadGateway {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Failed to load book list: database is down") {
		t.Fatalf("notice missing:\n%s", body)
	}
}

func TestCreateBook(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := post(t, ts, "/books", url.Values{
		"title":   {"Solaris"},
		"author":  {"Stanislaw Lem"},
		"room":    {"Study"},
		"cabinet": {"2"},
		"shelf":   {"3"},
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d\n%s", status, body)
	}
	if !strings.Contains(body, "Book added!") || !strings.Contains(body, "Solaris") {
		t.Fatalf("unexpected page:\n%s", body)
	}
	if strings.Contains(body, `id="addBookModal"`) {
		t.Fatal("add dialog should close after success")
	}
	if got := len(lib.Books()); got != 4 {
		t.Fatalf("books = %d, want 4", got)
	}
}

func TestCreateBookFailureKeepsDialog(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := post(t, ts, "/books", url.Values{"title": {"Solaris"}})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Failed to create book") {
		t.Fatalf("server message missing:\n%s", body)
	}
	if !strings.Contains(body, `id="addBookModal"`) || !strings.Contains(body, `value="Solaris"`) {
		t.Fatalf("add dialog should stay open with the entered values:\n%s", body)
	}
	if got := len(lib.Books()); got != 3 {
		t.Fatalf("books = %d, want 3", got)
	}
}

func TestEditDialog(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := get(t, ts, "/books/2/edit")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `id="editBookModal"`) || !strings.Contains(body, `value="Ivanov Ivan"`) {
		t.Fatalf("edit dialog missing:\n%s", body)
	}
	if strings.Contains(body, `id="lentInfoSection" hidden`) {
		t.Fatal("lent section should be visible for a lent book")
	}
}

func TestEditDialogNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := get(t, ts, "/books/99/edit")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Failed to load book: Book not found") {
		t.Fatalf("notice missing:\n%s", body)
	}
}

func TestUpdateBookClearsBorrower(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := post(t, ts, "/books/2", url.Values{
		"id":      {"2"},
		"title":   {"War and Peace"},
		"author":  {"Leo Tolstoy"},
		"room":    {"Living room"},
		"cabinet": {"3"},
		"shelf":   {"1"},
		"status":  {"available"},
		"lent_to": {"Ivanov Ivan"},
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d\n%s", status, body)
	}
	if !strings.Contains(body, "Book updated!") {
		t.Fatalf("notice missing:\n%s", body)
	}
	book, _ := lib.Book(2)
	if book.Status != model.StatusAvailable || book.LentTo != "" {
		t.Fatalf("book not returned: %+v", book)
	}
}

func TestUpdateBookValidation(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := post(t, ts, "/books/1", url.Values{
		"id":     {"1"},
		"title":  {""},
		"author": {"Frank Herbert"},
		"status": {"available"},
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Fill in the required fields") {
		t.Fatalf("form error missing:\n%s", body)
	}
	if n := lib.RequestCount(http.MethodPut, "/api/books/1"); n != 0 {
		t.Fatalf("PUT sent %d times", n)
	}
}

func TestUpdateBookUsesPathID(t *testing.T) {
	ts, lib := newTestServer(t)

	status, _ := post(t, ts, "/books/1", url.Values{
		"title":   {"Dune Messiah"},
		"author":  {"Frank Herbert"},
		"room":    {"Study"},
		"cabinet": {"1"},
		"shelf":   {"2"},
		"status":  {"available"},
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if book, _ := lib.Book(1); book.Title != "Dune Messiah" {
		t.Fatalf("title = %q", book.Title)
	}
}

func TestDeleteBook(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := post(t, ts, "/books/1/delete?status=available", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Book deleted") || strings.Contains(body, ">Dune<") {
		t.Fatalf("unexpected page:\n%s", body)
	}
	if _, ok := lib.Book(1); ok {
		t.Fatal("book 1 should be gone")
	}
	if !strings.Contains(body, "Status: Available") {
		t.Fatalf("filters should survive the action:\n%s", body)
	}
}

func TestLendAndReturn(t *testing.T) {
	ts, lib := newTestServer(t)

	status, body := post(t, ts, "/books/1/lend", url.Values{"lent_to": {" Petrov Petr "}})
	if status != http.StatusOK {
		t.Fatalf("lend status = %d\n%s", status, body)
	}
	if !strings.Contains(body, "Book lent!") {
		t.Fatalf("lend notice missing:\n%s", body)
	}
	book, _ := lib.Book(1)
	if book.Status != model.StatusLent || book.LentTo != "Petrov Petr" {
		t.Fatalf("book not lent: %+v", book)
	}

	status, body = post(t, ts, "/books/1/return", nil)
	if status != http.StatusOK {
		t.Fatalf("return status = %d", status)
	}
	if !strings.Contains(body, "Book returned!") {
		t.Fatalf("return notice missing:\n%s", body)
	}
	if book, _ := lib.Book(1); book.Status != model.StatusAvailable {
		t.Fatalf("book not returned: %+v", book)
	}
}

func TestLendWithoutBorrowerDoesNothing(t *testing.T) {
	ts, lib := newTestServer(t)

	status, _ := post(t, ts, "/books/1/lend", url.Values{"lent_to": {"  "}})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if n := lib.RequestCount(http.MethodPost, "/api/books/1/lend"); n != 0 {
		t.Fatalf("lend sent %d times", n)
	}
}

func TestLendRejectedByServer(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := post(t, ts, "/books/2/lend", url.Values{"lent_to": {"Petrov Petr"}})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "Book is already lent") {
		t.Fatalf("server message missing:\n%s", body)
	}
}

func TestInvalidBookID(t *testing.T) {
	ts, _ := newTestServer(t)

	if status, _ := post(t, ts, "/books/abc/delete", nil); status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
}

func TestHealthcheckAndAssets(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := get(t, ts, "/healthcheck")
	if status != http.StatusOK || body != "OK" {
		t.Fatalf("healthcheck = %d %q", status, body)
	}
	status, body = get(t, ts, "/assets/shelfview.js")
	if status != http.StatusOK || !strings.Contains(body, "data-debounce") {
		t.Fatalf("script = %d", status)
	}
}
