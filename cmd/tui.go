package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/storyx/internal/models"
	"github.com/desertthunder/storyx/internal/shared"
	"github.com/desertthunder/storyx/internal/tasks"
	"github.com/desertthunder/storyx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for story generation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: story service not initialized", shared.ErrServiceUnavailable)
	}

	transport, err := tasks.ParseTransport(r.config.Server.Transport)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	toaster := ui.NewToaster()
	ctrl := r.newController(transport, toaster)
	defer ctrl.Close()

	model := ui.NewModel(ctx, ui.ModelOpts{
		Controller: ctrl,
		Artifacts:  tasks.NewArtifacts(tasks.ArtifactOpts{Dir: r.config.Output.Dir, Notifier: toaster, Logger: r.logger}),
		Library:    r.library,
		Toaster:    toaster,
		Length:     models.Length(r.config.Generation.Length),
		Style:      models.Style(r.config.Generation.Style),
		Logger:     r.logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
