package model

import (
	"strconv"
	"strings"
)

// DefaultRow is the row every new book is filed under.
const DefaultRow = 1

// CreateForm holds the raw values of the add-book dialog.
type CreateForm struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Room        string `json:"room"`
	Cabinet     string `json:"cabinet"`
	Shelf       string `json:"shelf"`
}

// EditForm holds the raw values of the edit-book dialog. ID is kept as the
// string the hidden input carries so a missing id can be detected.
type EditForm struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Room        string `json:"room"`
	Cabinet     string `json:"cabinet"`
	Shelf       string `json:"shelf"`
	Status      string `json:"status"`
	LentTo      string `json:"lent_to"`
}

// LentSectionVisible reports whether the "lent to" block should be shown.
func (f EditForm) LentSectionVisible() bool {
	return Status(f.Status) == StatusLent
}

// NewBook is the POST payload for a new book.
type NewBook struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Room        string `json:"room"`
	Cabinet     int    `json:"cabinet"`
	Shelf       int    `json:"shelf"`
	Row         int    `json:"row"`
	Status      Status `json:"status"`
}

// BookUpdate is the PUT payload for an existing book. Genre and Description
// are nil when the form left them blank, which tells the server "no value"
// rather than "explicitly cleared".
type BookUpdate struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Genre       *string `json:"genre,omitempty"`
	Description *string `json:"description,omitempty"`
	Room        string  `json:"room" validate:"required"`
	Cabinet     int     `json:"cabinet"`
	Shelf       int     `json:"shelf"`
	Status      Status  `json:"status"`
	LentTo      string  `json:"lent_to"`
}

// LendRequest is the body of the lend call.
type LendRequest struct {
	LentTo string `json:"lent_to"`
}

// NewBookFromForm maps the add dialog onto a create payload. New books are
// always filed as available in row 1; cabinet and shelf that do not parse
// are sent as 0 and left for the server to reject.
func NewBookFromForm(form CreateForm) NewBook {
	cabinet, _ := parseLeadingInt(form.Cabinet)
	shelf, _ := parseLeadingInt(form.Shelf)
	return NewBook{
		Title:       form.Title,
		Author:      form.Author,
		Genre:       form.Genre,
		Description: form.Description,
		Room:        form.Room,
		Cabinet:     cabinet,
		Shelf:       shelf,
		Row:         DefaultRow,
		Status:      StatusAvailable,
	}
}

// UpdateFromForm maps the edit dialog onto an update payload and runs the
// required-field checks. A *ValidationError means no request should be sent.
func UpdateFromForm(form EditForm) (BookUpdate, error) {
	update := BookUpdate{
		Title:       strings.TrimSpace(form.Title),
		Author:      strings.TrimSpace(form.Author),
		Genre:       optionalString(form.Genre),
		Description: optionalString(form.Description),
		Room:        strings.TrimSpace(form.Room),
		Cabinet:     positiveOrOne(form.Cabinet),
		Shelf:       positiveOrOne(form.Shelf),
		Status:      Status(form.Status),
	}
	if update.Status == StatusLent {
		update.LentTo = strings.TrimSpace(form.LentTo)
	}

	if err := validateUpdate(update); err != nil {
		return update, err
	}
	return update, nil
}

// EditFormFromBook fills the edit dialog from a fetched record.
func EditFormFromBook(book Book) EditForm {
	status := book.Status
	if status == "" {
		status = StatusAvailable
	}
	return EditForm{
		ID:          strconv.Itoa(book.ID),
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Description: book.Description,
		Room:        book.Room,
		Cabinet:     strconv.Itoa(book.Cabinet),
		Shelf:       strconv.Itoa(book.Shelf),
		Status:      string(status),
		LentTo:      book.LentTo,
	}
}

func optionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positiveOrOne(raw string) int {
	value, ok := parseLeadingInt(raw)
	if !ok || value == 0 {
		return 1
	}
	return value
}

// parseLeadingInt reads an optional sign followed by the leading digits of
// raw, ignoring surrounding whitespace and any trailing garbage ("12a" → 12).
func parseLeadingInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	value, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return value, true
}
