package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/storyx/internal/formatter"
	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
	"github.com/desertthunder/storyx/internal/tasks"
	"github.com/desertthunder/storyx/internal/ui"
	"github.com/urfave/cli/v3"
)

const summaryWidth = 80

// storyOutput is the --json shape of a finished session.
type storyOutput struct {
	Book     string           `json:"book"`
	Length   models.Length    `json:"length"`
	Style    models.Style     `json:"style"`
	Cached   bool             `json:"cached"`
	Analysis *models.Analysis `json:"analysis,omitempty"`
	Story    string           `json:"story"`
	Saved    []string         `json:"saved,omitempty"`
}

// Generate runs one session to completion without the TUI.
//
// Phase changes are printed as they arrive, then the rendered analysis and the story as received.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("book"))
	if name == "" {
		return fmt.Errorf("%w: book filename is required", shared.ErrMissingArgument)
	}

	if cmd.Bool("open") && !cmd.Bool("save") && !cmd.Bool("markdown") {
		return fmt.Errorf("%w: --open requires --save or --markdown", shared.ErrInvalidFlag)
	}

	transport, err := tasks.ParseTransport(cmd.String("transport"))
	if err != nil {
		return err
	}

	book, err := r.library.Find(name)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	notifier := tasks.LogNotifier{Logger: r.logger}
	ctrl := r.newController(transport, notifier)
	defer ctrl.Close()

	ctrl.Selection().SetBooks([]models.Book{book})
	if err := ctrl.Selection().Select(book.Filename); err != nil {
		return err
	}

	opts := tasks.Options{Length: models.Length(cmd.String("length")), Style: models.Style(cmd.String("style"))}
	if _, err := ctrl.Start(ctx, opts); err != nil {
		return fmt.Errorf("%w (%s)", err, optionsUsage())
	}

	if err := r.drive(ctx, ctrl, !asJSON); err != nil {
		return err
	}

	s := ctrl.Session()
	if s.State == tasks.Failed {
		if s.Err != nil {
			return fmt.Errorf("%s: %w", s.Message, s.Err)
		}
		return fmt.Errorf("%w: %s", shared.ErrGenerationFailed, s.Message)
	}

	artifacts := tasks.NewArtifacts(tasks.ArtifactOpts{Dir: cmd.String("output"), Notifier: notifier, Logger: r.logger})
	saved, err := r.saveOutputs(cmd, artifacts, s)
	if err != nil {
		return err
	}
	if cmd.Bool("copy") {
		artifacts.Copy(s.Story)
	}

	if asJSON {
		return r.writeJSON(storyOutput{
			Book:     book.Filename,
			Length:   s.Request.Length,
			Style:    s.Request.Style,
			Cached:   s.Cached,
			Analysis: s.Analysis,
			Story:    s.Story,
			Saved:    saved,
		}, true)
	}

	r.writePlainln("%s", ui.RenderMarkdown(string(formatter.ExportAnalysisMarkdown(book.Title(), s.View)), summaryWidth))
	r.writePlainln("%s", strings.TrimRight(s.Story, "\n"))
	for _, path := range saved {
		r.writePlain("saved %s\n", path)
	}
	return nil
}

// drive drains session events into the controller until the session ends, printing each new status line.
func (r *Runner) drive(ctx context.Context, ctrl *tasks.Controller, verbose bool) error {
	last := ""
	for !ctrl.State().Terminal() {
		select {
		case env := <-ctrl.Events():
			if !ctrl.Handle(env) || !verbose {
				continue
			}
			if status := ctrl.Progress().Status(); status != "" && status != last {
				last = status
				r.writePlain("%s\n", status)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Runner) saveOutputs(cmd *cli.Command, artifacts *tasks.Artifacts, s *tasks.Session) ([]string, error) {
	var saved []string
	base := s.Book.Title()

	if cmd.Bool("save") {
		path, err := artifacts.Save(s.Story, base)
		if err != nil {
			return nil, err
		}
		saved = append(saved, path)
	}

	if cmd.Bool("markdown") {
		res, err := formatter.WriteMarkdownExport(s.Analysis, s.Story, cmd.String("output"), base)
		if err != nil {
			return nil, err
		}
		saved = append(saved, res.StoryFile)
		if res.AnalysisFile != "" {
			saved = append(saved, res.AnalysisFile)
		}
	}

	if cmd.Bool("open") && len(saved) > 0 {
		if err := shared.OpenPath(saved[0]); err != nil {
			r.logger.Warn("failed to open saved story", "path", saved[0], "err", err)
		}
	}
	return saved, nil
}
