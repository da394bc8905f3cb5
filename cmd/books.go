package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
)

// Books lists every book in the library.
func (r *Runner) Books(ctx context.Context, cmd *cli.Command) error {
	books, err := r.library.Books()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(books, cmd.Bool("pretty"))
	}

	if len(books) == 0 {
		r.logger.Warn("no books found", "dir", r.config.Library.Dir)
		return nil
	}

	r.writePlainHeader("Library")
	for _, b := range books {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(b.Filename)), ".")
		if err := r.writePlain("%-32s %s\n", b.Title(), ext); err != nil {
			return err
		}
	}
	return r.writePlainln("%d book(s)", len(books))
}
