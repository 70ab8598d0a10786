package controller

import (
	"sync"

	"github.com/goliatone/go-shelfview/pkg/model"
)

// Fields is an in-memory Inputs implementation safe for concurrent use.
type Fields struct {
	mu     sync.RWMutex
	values map[model.FilterKey]string
}

// NewFields seeds the inputs with state.
func NewFields(state model.Filters) *Fields {
	f := &Fields{values: make(map[model.FilterKey]string, len(model.QueryOrder))}
	for _, key := range model.QueryOrder {
		if v := state.Get(key); v != "" {
			f.values[key] = v
		}
	}
	return f
}

func (f *Fields) Value(key model.FilterKey) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[key]
}

// Set stores the raw input text for key.
func (f *Fields) Set(key model.FilterKey, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = make(map[model.FilterKey]string)
	}
	f.values[key] = value
}

func (f *Fields) Clear(key model.FilterKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
}

// Snapshot returns the raw field values as filters.
func (f *Fields) Snapshot() model.Filters {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out model.Filters
	for key, value := range f.values {
		out = out.With(key, value)
	}
	return out
}
