// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/storyx/internal/models"
	"github.com/urfave/cli/v3"
)

// tuiCommand returns the top-level TUI command for interactive story generation.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive story generator",
		Action:  r.TUI,
	}
}

// generateCommand runs one session without the TUI.
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a story from a book and print it",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "book",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "length",
				Aliases: []string{"l"},
				Usage:   "Story length (short, medium, long)",
				Value:   r.config.Generation.Length,
			},
			&cli.StringFlag{
				Name:    "style",
				Aliases: []string{"s"},
				Usage:   "Narrative style (same, modern, dramatic, poetic, whimsical)",
				Value:   r.config.Generation.Style,
			},
			&cli.StringFlag{
				Name:  "transport",
				Usage: "How to reach the backend (stream, single, auto)",
				Value: r.config.Server.Transport,
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the story as <book>_story.txt",
			},
			&cli.BoolFlag{
				Name:  "markdown",
				Usage: "Save the story and analysis as <book>_story.md and <book>_analysis.json",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the story to the clipboard",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the saved file with the system viewer",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the analysis and story as JSON",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory for saved files",
				Value:   r.config.Output.Dir,
			},
		},
		Action: r.Generate,
	}
}

// booksCommand lists the library.
func booksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "List the books available for generation",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Books,
	}
}

// configCommand handles configuration file operations.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
			{
				Name:   "show",
				Usage:  "Print the resolved configuration",
				Action: r.ConfigShow,
			},
		},
	}
}

func optionsUsage() string {
	return "lengths: " + joinValues(models.Lengths) + "; styles: " + joinValues(models.Styles)
}

func joinValues[T ~string](values []T) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += string(v)
	}
	return out
}
