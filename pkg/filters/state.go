// Package filters holds the pure operations over the list filter state:
// reading it from inputs, merging overrides, serialising it into the list
// query and describing the active filters as removable chips.
package filters

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-shelfview/pkg/model"
)

// ErrUnknownFilter is returned when a filter key outside the known four is
// addressed.
var ErrUnknownFilter = errors.New("filters: unknown filter")

// Source exposes the current raw value of each filter input.
type Source interface {
	Value(key model.FilterKey) string
}

// Patch overrides individual filter keys. Keys absent from the map keep their
// current value; keys present with "" clear it.
type Patch map[model.FilterKey]string

// SourceFunc adapts a plain function to Source.
type SourceFunc func(key model.FilterKey) string

// Value implements Source.
func (fn SourceFunc) Value(key model.FilterKey) string {
	if fn == nil {
		return ""
	}
	return fn(key)
}

// Sync reads all four inputs. Text fields are trimmed; the status select is
// taken verbatim.
func Sync(src Source) model.Filters {
	if src == nil {
		return model.Filters{}
	}
	return model.Filters{
		Title:  strings.TrimSpace(src.Value(model.FilterTitle)),
		Author: strings.TrimSpace(src.Value(model.FilterAuthor)),
		Status: src.Value(model.FilterStatus),
		Genre:  strings.TrimSpace(src.Value(model.FilterGenre)),
	}
}

// Merge applies patch over state. Unknown keys in patch are ignored.
func Merge(state model.Filters, patch Patch) model.Filters {
	for _, key := range model.QueryOrder {
		if value, ok := patch[key]; ok {
			state = state.With(key, value)
		}
	}
	return state
}

// Reset returns the empty filter state.
func Reset() model.Filters {
	return model.Filters{}
}

// Remove clears a single key. An unknown key leaves state untouched.
func Remove(state model.Filters, key model.FilterKey) (model.Filters, error) {
	if !key.Valid() {
		return state, fmt.Errorf("%w: %q", ErrUnknownFilter, string(key))
	}
	return state.With(key, ""), nil
}

// Values returns the non-empty filters as url.Values.
func Values(state model.Filters) url.Values {
	values := url.Values{}
	for _, key := range model.QueryOrder {
		if v := state.Get(key); v != "" {
			values.Set(string(key), v)
		}
	}
	return values
}

// Query serialises the non-empty filters in title, author, status, genre
// order. The result carries no leading "?" and is empty when nothing is set.
func Query(state model.Filters) string {
	parts := make([]string, 0, len(model.QueryOrder))
	for _, key := range model.QueryOrder {
		v := state.Get(key)
		if v == "" {
			continue
		}
		parts = append(parts, url.QueryEscape(string(key))+"="+url.QueryEscape(v))
	}
	return strings.Join(parts, "&")
}

// FromValues rebuilds a filter state from a parsed query string, applying the
// same trimming rules as Sync.
func FromValues(values url.Values) model.Filters {
	return Sync(SourceFunc(func(key model.FilterKey) string {
		return values.Get(string(key))
	}))
}

// HasActive reports whether any filter is set.
func HasActive(state model.Filters) bool {
	return !state.IsZero()
}
