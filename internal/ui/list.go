package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/storyx/internal/models"
)

var _ list.Item = bookItem{}

// bookItem wraps [models.Book] to implement [list.Item].
type bookItem struct {
	book     models.Book
	selected bool
}

func (i bookItem) FilterValue() string { return i.book.Filename }
func (i bookItem) Title() string {
	if i.selected {
		return "● " + i.book.Title()
	}
	return i.book.Title()
}
func (i bookItem) Description() string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(i.book.Filename)), ".")
	return i.book.Filename + " • " + ext
}

func bookItems(books []models.Book, selected string) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b, selected: b.Filename == selected}
	}
	return items
}
