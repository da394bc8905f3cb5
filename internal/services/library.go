package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
)

var bookExtensions = map[string]bool{".txt": true, ".pdf": true}

// Library enumerates the books the backend can read.
//
// Books come from a directory listing (the backend's book folder, when it is on the same machine)
// and from an explicit list in configuration.
type Library struct {
	dir   string
	books []string
}

// NewLibrary creates a Library over dir plus any configured filenames.
func NewLibrary(dir string, books []string) *Library {
	return &Library{dir: dir, books: books}
}

// Books returns every known book, de-duplicated and sorted by filename.
//
// A missing directory is not an error; only configured books are returned then.
func (l *Library) Books() ([]models.Book, error) {
	seen := map[string]bool{}
	var names []string

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, name := range l.books {
		if !IsBookFile(name) {
			return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedBookType, name)
		}
		add(filepath.Base(name))
	}

	if l.dir != "" {
		entries, err := os.ReadDir(l.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to list %s: %w", l.dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsBookFile(entry.Name()) {
				continue
			}
			add(entry.Name())
		}
	}

	sort.Strings(names)

	books := make([]models.Book, len(names))
	for i, name := range names {
		books[i] = models.Book{Filename: name}
	}
	return books, nil
}

// Find returns the book named filename.
func (l *Library) Find(filename string) (models.Book, error) {
	books, err := l.Books()
	if err != nil {
		return models.Book{}, err
	}
	for _, b := range books {
		if b.Filename == filename {
			return b, nil
		}
	}
	return models.Book{}, fmt.Errorf("%w: %s", shared.ErrBookNotFound, filename)
}

// IsBookFile reports whether name has an extension the backend can read.
func IsBookFile(name string) bool {
	return bookExtensions[strings.ToLower(filepath.Ext(name))]
}
