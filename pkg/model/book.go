package model

import "time"

// Status is the loan state of a book.
type Status string

const (
	StatusAvailable Status = "available"
	StatusLent      Status = "lent"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusLent:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// Book mirrors the record served by the inventory API. The client treats it
// as opaque apart from the fields it renders.
type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	Room        string    `json:"room"`
	Cabinet     int       `json:"cabinet"`
	Shelf       int       `json:"shelf"`
	Row         int       `json:"row,omitempty"`
	Status      Status    `json:"status"`
	LentTo      string    `json:"lent_to,omitempty"`
	LentDate    time.Time `json:"lent_date,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Available reports whether the book can be lent.
func (b Book) Available() bool {
	return b.Status == StatusAvailable
}

// Lent reports whether the book is currently out with a borrower.
func (b Book) Lent() bool {
	return b.Status == StatusLent
}

// HasLentDate reports whether the server stamped a lend date. A zero time
// (including the "0001-01-01T00:00:00Z" encoding) counts as absent.
func (b Book) HasLentDate() bool {
	return !b.LentDate.IsZero()
}
