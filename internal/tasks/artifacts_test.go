package tasks

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/storyx/internal/shared"
	tu "github.com/desertthunder/storyx/internal/testing"
)

func stubClipboard(t *testing.T, system, osc func(string) error) {
	t.Helper()
	prevSystem, prevOSC := clipboardWriteAll, clipboardWriteOSC52
	clipboardWriteAll, clipboardWriteOSC52 = system, osc
	t.Cleanup(func() {
		clipboardWriteAll, clipboardWriteOSC52 = prevSystem, prevOSC
	})
}

func newTestArtifacts(t *testing.T, dir string) (*Artifacts, *tu.Recorder) {
	t.Helper()
	rec := &tu.Recorder{}
	a := NewArtifacts(ArtifactOpts{
		Dir:      dir,
		Notifier: NotifierFunc(func(msg string, kind Kind) { rec.Record(msg, kind == KindError) }),
		Logger:   shared.NewLogger(tu.Discard),
	})
	return a, rec
}

func TestArtifacts_Copy(t *testing.T) {
	t.Run("System Clipboard", func(t *testing.T) {
		var copied string
		stubClipboard(t,
			func(s string) error { copied = s; return nil },
			func(string) error { t.Error("OSC52 should not be used"); return nil },
		)
		a, rec := newTestArtifacts(t, t.TempDir())

		a.Copy("Once...")
		if copied != "Once..." {
			t.Errorf("expected story copied, got %q", copied)
		}
		if notes := rec.Notes(); len(notes) != 1 || notes[0].Error {
			t.Errorf("expected one success toast, got %+v", notes)
		}
	})

	t.Run("Falls Back To OSC52", func(t *testing.T) {
		var osc string
		stubClipboard(t,
			func(string) error { return errors.New("exit status 1") },
			func(s string) error { osc = s; return nil },
		)
		a, rec := newTestArtifacts(t, t.TempDir())

		a.Copy("Once...")
		if osc != "Once..." {
			t.Errorf("expected OSC52 fallback, got %q", osc)
		}
		if len(rec.Errors()) != 0 {
			t.Errorf("expected no error toast, got %+v", rec.Errors())
		}
	})

	t.Run("Failure Becomes Toast", func(t *testing.T) {
		stubClipboard(t,
			func(string) error { return errors.New("no clipboard") },
			func(string) error { return errors.New("no tty") },
		)
		a, rec := newTestArtifacts(t, t.TempDir())

		a.Copy("Once...")
		errs := rec.Errors()
		if len(errs) != 1 || errs[0].Message != "Copy failed" {
			t.Errorf("expected one copy failure toast, got %+v", rec.Notes())
		}
	})

	t.Run("Empty Story Is Ignored", func(t *testing.T) {
		stubClipboard(t,
			func(string) error { t.Error("clipboard should not be used"); return nil },
			func(string) error { return nil },
		)
		a, rec := newTestArtifacts(t, t.TempDir())
		a.Copy("")
		if len(rec.Notes()) != 0 {
			t.Errorf("expected no toasts, got %+v", rec.Notes())
		}
	})
}

func TestArtifacts_Save(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		a, rec := newTestArtifacts(t, dir)
		story := "Once upon a time...\n\n  \"Curiouser and curiouser!\" 🐇"

		path, err := a.Save(story, "alice")
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if path != filepath.Join(dir, "alice_story.txt") {
			t.Errorf("unexpected path %s", path)
		}
		if got := tu.MustReadFile(t, path); got != story {
			t.Errorf("expected byte-identical file, got %q", got)
		}
		if notes := rec.Notes(); len(notes) != 1 || notes[0].Error || !strings.Contains(notes[0].Message, path) {
			t.Errorf("expected success toast naming the file, got %+v", notes)
		}
	})

	t.Run("No Story", func(t *testing.T) {
		a, rec := newTestArtifacts(t, t.TempDir())
		if _, err := a.Save("", "alice"); !errors.Is(err, shared.ErrNoStory) {
			t.Errorf("expected ErrNoStory, got %v", err)
		}
		if len(rec.Notes()) != 0 {
			t.Errorf("expected no toast, got %+v", rec.Notes())
		}
	})
}

func TestWriteOSC52Sequence(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	if err := writeOSC52Sequence(&buf, "Once..."); err != nil {
		t.Fatalf("writeOSC52Sequence failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "\x1b]52;c;") {
		t.Errorf("expected OSC52 escape, got %q", buf.String())
	}

	t.Run("Disabled", func(t *testing.T) {
		t.Setenv("STORYX_DISABLE_OSC52", "yes")
		if shouldAttemptOSC52() {
			t.Error("expected OSC52 disabled")
		}
	})

	t.Run("Dumb Terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		if shouldAttemptOSC52() {
			t.Error("expected OSC52 skipped for dumb terminal")
		}
	})
}
