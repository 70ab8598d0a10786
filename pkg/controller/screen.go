package controller

import (
	"sync"

	"github.com/goliatone/go-shelfview/pkg/filters"
	"github.com/goliatone/go-shelfview/pkg/model"
	"github.com/goliatone/go-shelfview/pkg/render"
)

// Screen records everything the controller shows into a render.Page. It
// implements View, Notifier and Modals, so request-scoped front-ends can run
// an action and render the result in one pass.
type Screen struct {
	mu     sync.Mutex
	page   render.Page
	loaded bool
}

// NewScreen starts from an empty page.
func NewScreen() *Screen {
	return &Screen{}
}

// Page returns a copy of the recorded page.
func (s *Screen) Page() render.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.page
	page.Notices = append([]render.Notice(nil), s.page.Notices...)
	if s.page.Add != nil {
		add := *s.page.Add
		page.Add = &add
	}
	if s.page.Edit != nil {
		edit := *s.page.Edit
		page.Edit = &edit
	}
	return page
}

// Notices returns the messages recorded so far.
func (s *Screen) Notices() []render.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]render.Notice(nil), s.page.Notices...)
}

func (s *Screen) ShowStats(stats render.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Stats = stats
}

func (s *Screen) ShowBooks(list render.BookList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Books = list
	s.loaded = true
}

// Loaded reports whether a book list has been shown.
func (s *Screen) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Screen) ShowChips(chips filters.ChipSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Chips = chips
}

func (s *Screen) Success(msg string) {
	s.notice(render.NoticeSuccess, msg)
}

func (s *Screen) Error(msg string) {
	s.notice(render.NoticeError, msg)
}

func (s *Screen) notice(kind, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Notices = append(s.page.Notices, render.Notice{Kind: kind, Text: msg})
}

// OpenAdd shows the add dialog prefilled with form.
func (s *Screen) OpenAdd(form model.CreateForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Add = &render.AddDialog{Open: true, Form: form}
}

func (s *Screen) CloseAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Add = nil
}

func (s *Screen) OpenEdit(form model.EditForm, lentVisible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Edit = &render.EditDialog{Open: true, Form: form, LentVisible: lentVisible}
}

func (s *Screen) SetLentSectionVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page.Edit != nil {
		s.page.Edit.LentVisible = visible
	}
}

func (s *Screen) CloseEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page.Edit = nil
}

func (s *Screen) ShowFormError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page.Edit != nil {
		s.page.Edit.Error = msg
	}
}
