package tasks

import (
	"fmt"

	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
)

// Selection tracks the known books, the one selected, and whether the surface accepts input.
type Selection struct {
	books    []models.Book
	selected int
	locked   bool
}

// NewSelection creates a Selection over books with nothing selected.
func NewSelection(books []models.Book) *Selection {
	return &Selection{books: books, selected: -1}
}

// Books returns the known books.
func (s *Selection) Books() []models.Book {
	return s.books
}

// SetBooks replaces the known books, keeping the selection when it is still present.
func (s *Selection) SetBooks(books []models.Book) {
	current, ok := s.Selected()
	s.books = books
	s.selected = -1
	if ok {
		_ = s.Select(current.Filename)
	}
}

// Select marks filename as the only selected book.
func (s *Selection) Select(filename string) error {
	for i, b := range s.books {
		if b.Filename == filename {
			s.selected = i
			return nil
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrBookNotFound, filename)
}

// Selected returns the selected book.
func (s *Selection) Selected() (models.Book, bool) {
	if s.selected < 0 || s.selected >= len(s.books) {
		return models.Book{}, false
	}
	return s.books[s.selected], true
}

// Clear deselects.
func (s *Selection) Clear() {
	s.selected = -1
}

// Lock disables the surface while a session runs.
func (s *Selection) Lock() { s.locked = true }

// Unlock re-enables the surface.
func (s *Selection) Unlock() { s.locked = false }

// Locked reports whether the surface is disabled.
func (s *Selection) Locked() bool { return s.locked }

// CanGenerate reports whether the generate action is enabled.
func (s *Selection) CanGenerate() bool {
	_, ok := s.Selected()
	return ok && !s.locked
}

// ShowOptions reports whether the length/style options are revealed.
func (s *Selection) ShowOptions() bool {
	_, ok := s.Selected()
	return ok
}
