package model

// FilterKey names one of the four list filters.
type FilterKey string

const (
	FilterTitle  FilterKey = "title"
	FilterAuthor FilterKey = "author"
	FilterStatus FilterKey = "status"
	FilterGenre  FilterKey = "genre"
)

// QueryOrder is the order filters are serialised into the list query string.
var QueryOrder = []FilterKey{FilterTitle, FilterAuthor, FilterStatus, FilterGenre}

// ChipOrder is the order active-filter chips are displayed in.
var ChipOrder = []FilterKey{FilterTitle, FilterAuthor, FilterGenre, FilterStatus}

// Valid reports whether k is one of the known filter keys.
func (k FilterKey) Valid() bool {
	switch k {
	case FilterTitle, FilterAuthor, FilterStatus, FilterGenre:
		return true
	default:
		return false
	}
}

// Filters is the client-held filter state. Every field is optional; the
// server applies the non-empty ones as a conjunction.
type Filters struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Status string `json:"status"`
	Genre  string `json:"genre"`
}

// Get returns the value stored under key, or "" for unknown keys.
func (f Filters) Get(key FilterKey) string {
	switch key {
	case FilterTitle:
		return f.Title
	case FilterAuthor:
		return f.Author
	case FilterStatus:
		return f.Status
	case FilterGenre:
		return f.Genre
	default:
		return ""
	}
}

// With returns a copy of f with key set to value. Unknown keys leave f as is.
func (f Filters) With(key FilterKey, value string) Filters {
	switch key {
	case FilterTitle:
		f.Title = value
	case FilterAuthor:
		f.Author = value
	case FilterStatus:
		f.Status = value
	case FilterGenre:
		f.Genre = value
	}
	return f
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}
