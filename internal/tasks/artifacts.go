package tasks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/storyx/internal/formatter"
	"github.com/desertthunder/storyx/internal/shared"
)

const (
	msgCopied     = "Story copied to clipboard! 📋"
	msgCopyFailed = "Copy failed"
	msgSaveFailed = "Save failed"
)

var clipboardWriteAll = clipboard.WriteAll
var clipboardWriteOSC52 = writeOSC52Clipboard

// ArtifactOpts contains configuration for [Artifacts].
type ArtifactOpts struct {
	Dir      string // save directory; defaults to the working directory
	Notifier Notifier
	Logger   *log.Logger
}

// Artifacts performs the copy and save actions on a finished story.
type Artifacts struct {
	dir      string
	notifier Notifier
	logger   *log.Logger
}

// NewArtifacts creates Artifacts with defaults for any unset option.
func NewArtifacts(opts ArtifactOpts) *Artifacts {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{Logger: opts.Logger}
	}
	return &Artifacts{dir: opts.Dir, notifier: opts.Notifier, logger: opts.Logger}
}

// Copy writes story to the system clipboard, falling back to an OSC52 escape sequence.
//
// Failures become an error notification; session state is never touched.
func (a *Artifacts) Copy(story string) {
	if story == "" {
		return
	}

	if err := clipboardWriteAll(story); err != nil {
		if oscErr := clipboardWriteOSC52(story); oscErr != nil {
			a.logger.Warn("copy failed", "system", err, "osc52", oscErr)
			a.notifier.Notify(msgCopyFailed, KindError)
			return
		}
		a.logger.Debug("copied via OSC52", "system_err", err)
	}
	a.notifier.Notify(msgCopied, KindSuccess)
}

// Save writes story to {dir}/{base}_story.txt and returns the path.
func (a *Artifacts) Save(story, base string) (string, error) {
	path, err := formatter.WriteStoryExport(story, a.dir, base)
	if err != nil {
		if !errors.Is(err, shared.ErrNoStory) {
			a.notifier.Notify(msgSaveFailed, KindError)
		}
		a.logger.Error("save failed", "base", base, "err", err)
		return "", err
	}

	a.notifier.Notify(fmt.Sprintf("Story saved to %s ⬇️", path), KindSuccess)
	return path, nil
}

func writeOSC52Clipboard(text string) error {
	if !shouldAttemptOSC52() {
		return errors.New("OSC52 unavailable for this terminal")
	}
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return writeOSC52Sequence(tty, text)
}

func writeOSC52Sequence(w io.Writer, text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(strings.ToLower(os.Getenv("TERM")), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}

func shouldAttemptOSC52() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("STORYX_DISABLE_OSC52"))) {
	case "1", "true", "yes", "on":
		return false
	}
	term := strings.TrimSpace(os.Getenv("TERM"))
	return term != "" && !strings.EqualFold(term, "dumb")
}
