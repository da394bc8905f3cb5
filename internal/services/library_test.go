package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/storyx/internal/shared"
)

func TestLibrary(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pride.txt", "alice.txt", "moby.PDF", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to seed %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "drafts.txt"), 0o755); err != nil {
		t.Fatalf("failed to seed dir: %v", err)
	}

	t.Run("Books", func(t *testing.T) {
		t.Run("Merges Directory And Config Sorted", func(t *testing.T) {
			lib := NewLibrary(dir, []string{"zeta.txt", "alice.txt"})
			books, err := lib.Books()
			if err != nil {
				t.Fatalf("Books failed: %v", err)
			}

			want := []string{"alice.txt", "moby.PDF", "pride.txt", "zeta.txt"}
			if len(books) != len(want) {
				t.Fatalf("expected %v, got %+v", want, books)
			}
			for i, name := range want {
				if books[i].Filename != name {
					t.Errorf("book %d: expected %s, got %s", i, name, books[i].Filename)
				}
			}
		})

		t.Run("Missing Directory", func(t *testing.T) {
			lib := NewLibrary(filepath.Join(dir, "nope"), []string{"alice.txt"})
			books, err := lib.Books()
			if err != nil {
				t.Fatalf("expected missing dir to be ignored, got %v", err)
			}
			if len(books) != 1 || books[0].Filename != "alice.txt" {
				t.Errorf("expected configured book only, got %+v", books)
			}
		})

		t.Run("Unsupported Configured Book", func(t *testing.T) {
			lib := NewLibrary("", []string{"song.mp3"})
			if _, err := lib.Books(); !errors.Is(err, shared.ErrUnsupportedBookType) {
				t.Errorf("expected ErrUnsupportedBookType, got %v", err)
			}
		})
	})

	t.Run("Find", func(t *testing.T) {
		lib := NewLibrary(dir, nil)

		book, err := lib.Find("alice.txt")
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if book.Title() != "alice" {
			t.Errorf("expected title alice, got %s", book.Title())
		}

		if _, err := lib.Find("missing.txt"); !errors.Is(err, shared.ErrBookNotFound) {
			t.Errorf("expected ErrBookNotFound, got %v", err)
		}
	})

	t.Run("IsBookFile", func(t *testing.T) {
		tests := map[string]bool{
			"a.txt": true,
			"a.pdf": true,
			"a.TXT": true,
			"a.md":  false,
			"a":     false,
		}
		for name, want := range tests {
			if got := IsBookFile(name); got != want {
				t.Errorf("IsBookFile(%q) = %v, want %v", name, got, want)
			}
		}
	})
}
