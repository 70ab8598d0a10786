package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shelfview/pkg/model"
)

// LentOn is the fixed lend date used across fixtures.
var LentOn = time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

// SampleBooks returns a small collection covering both statuses, an optional
// genre and markup-bearing text.
func SampleBooks() []model.Book {
	return []model.Book{
		{
			ID:      1,
			Title:   "Dune",
			Author:  "Frank Herbert",
			Genre:   "Sci-Fi",
			Room:    "Study",
			Cabinet: 1,
			Shelf:   2,
			Row:     1,
			Status:  model.StatusAvailable,
		},
		{
			ID:       2,
			Title:    "War and Peace",
			Author:   "Leo Tolstoy",
			Genre:    "Classic",
			Room:     "Living room",
			Cabinet:  3,
			Shelf:    1,
			Row:      1,
			Status:   model.StatusLent,
			LentTo:   "Ivanov Ivan",
			LentDate: LentOn,
		},
		{
			ID:      3,
			Title:   "<b>Bold</b> & Brave",
			Author:  "A & B",
			Room:    "Attic",
			Cabinet: 2,
			Shelf:   4,
			Row:     1,
			Status:  model.StatusAvailable,
		},
	}
}

// LoadBooks reads a JSON array of books from path.
func LoadBooks(t *testing.T, path string) []model.Book {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load books: %v", err)
	}
	var out []model.Book
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal books: %v", err)
	}
	return out
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
