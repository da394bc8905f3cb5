package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/storyx/internal/tasks"
	"github.com/mattn/go-runewidth"
)

const (
	toastDuration = 3000 * time.Millisecond
	toastExit     = 300 * time.Millisecond
	toastTick     = 100 * time.Millisecond
)

// ToastStage is where a toast is in its lifetime.
type ToastStage int

const (
	ToastHidden ToastStage = iota
	ToastVisible
	ToastLeaving
)

// Toaster holds at most one transient message. A new message replaces the current one and restarts its timer.
type Toaster struct {
	message string
	kind    tasks.Kind
	shownAt time.Time
	now     func() time.Time
}

// NewToaster creates a Toaster using the wall clock.
func NewToaster() *Toaster {
	return &Toaster{now: time.Now}
}

// Notify implements [tasks.Notifier].
func (t *Toaster) Notify(message string, kind tasks.Kind) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	t.message = message
	t.kind = kind
	t.shownAt = t.now()
}

// Message returns the current message and its kind.
func (t *Toaster) Message() (string, tasks.Kind) {
	return t.message, t.kind
}

// Stage reports the toast's stage at now.
func (t *Toaster) Stage(now time.Time) ToastStage {
	if t.message == "" {
		return ToastHidden
	}
	elapsed := now.Sub(t.shownAt)
	switch {
	case elapsed < toastDuration:
		return ToastVisible
	case elapsed < toastDuration+toastExit:
		return ToastLeaving
	default:
		return ToastHidden
	}
}

// Active reports whether the toast still needs redraws.
func (t *Toaster) Active() bool {
	return t.Stage(t.now()) != ToastHidden
}

// View renders the toast right-aligned in width, faint while leaving.
func (t *Toaster) View(width int) string {
	stage := t.Stage(t.now())
	if stage == ToastHidden || width <= 0 {
		return ""
	}

	text := runewidth.Truncate(t.message, max(1, width-6), "…")
	style := styles.toastStyle(t.kind)
	if stage == ToastLeaving {
		style = style.Faint(true)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, style.Render(text))
}
