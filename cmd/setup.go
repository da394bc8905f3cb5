package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/storyx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the embedded example config to the given path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return fmt.Errorf("%w: --config must not be empty", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return nil
}

// ConfigShow prints the configuration after file, .env and STORYX_* overrides.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	c := r.config
	source := r.configPath
	if source == "" {
		source = "(defaults)"
	}

	books := "none"
	if len(c.Library.Books) > 0 {
		books = strings.Join(c.Library.Books, ", ")
	}

	r.writePlainHeader("Configuration: " + source)
	rows := [][2]string{
		{"server.base_url", c.Server.BaseURL},
		{"server.stream_path", c.Server.StreamPath},
		{"server.produce_path", c.Server.ProducePath},
		{"server.transport", c.Server.Transport},
		{"server.inactivity_timeout", c.Server.InactivityTimeout.String()},
		{"server.request_timeout", c.Server.RequestTimeout.String()},
		{"server.rate_limit", fmt.Sprintf("%g/s", c.Server.RateLimit)},
		{"library.dir", c.Library.Dir},
		{"library.books", books},
		{"generation.length", c.Generation.Length},
		{"generation.style", c.Generation.Style},
		{"generation.fallback_pause", c.Generation.FallbackPause.String()},
		{"output.dir", c.Output.Dir},
		{"log.level", c.Log.Level},
		{"log.file", c.Log.File},
	}
	for _, row := range rows {
		if err := r.writePlain("%-28s %s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return nil
}
